package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"mime"
	"path/filepath"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobs"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/gabriel-vasile/mimetype"
)

// CreateEntryInput is a request to add a folder or a file.
type CreateEntryInput struct {
	Name     string
	Kind     models.Kind
	ParentID string
	IsPublic bool
	// Content must be non-empty for every kind except folder and is ignored
	// for folders.
	Content []byte
}

// Download is the result of a successful content read.
type Download struct {
	Record      *models.FileRecord
	Data        []byte
	ContentType string
}

// FileService manages the folder tree, visibility and content of file records.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobs.Store
	pageSize    int
	logger      logging.Logger
}

// NewFileService builds a FileService. A non-positive pageSize means common.DefaultPageSize.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store blobs.Store, pageSize int, logger logging.Logger) *FileService {
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}
	return &FileService{
		db:          db,
		repomanager: m,
		blobs:       store,
		pageSize:    pageSize,
		logger:      logger.With("module", "files"),
	}
}

// CreateEntry validates in, writes content for non-folders and then inserts
// the record. No record is written unless its blob write succeeded.
func (s *FileService) CreateEntry(ctx context.Context, userID string, in CreateEntryInput) (*models.FileRecord, error) {
	if in.Name == "" {
		return nil, common.ErrMissingName
	}
	if !in.Kind.Valid() {
		return nil, common.ErrMissingType
	}
	if !in.Kind.IsFolder() && len(in.Content) == 0 {
		return nil, common.ErrMissingData
	}

	parentID := in.ParentID
	if parentID == "" {
		parentID = common.RootParentID
	}
	if parentID != common.RootParentID {
		parent, err := s.repomanager.Files(s.db).GetByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.ErrParentNotFound
			}
			return nil, fmt.Errorf("lookup parent: %w", err)
		}
		if !parent.Kind.IsFolder() {
			return nil, common.ErrParentNotFolder
		}
	}

	rec := &models.FileRecord{
		OwnerID:  userID,
		Name:     in.Name,
		Kind:     in.Kind,
		ParentID: parentID,
		IsPublic: in.IsPublic,
	}

	if !in.Kind.IsFolder() {
		ref, err := s.blobs.Write(ctx, in.Content)
		if err != nil {
			s.logger.Error(ctx, "blob write failed", "user_id", userID, "error", err)
			return nil, fmt.Errorf("%w: %v", common.ErrStorageWriteFailed, err)
		}
		rec.BlobRef = ref
	}

	created, err := s.repomanager.Files(s.db).Create(ctx, rec)
	if err != nil {
		// The blob, if any, stays behind unreferenced.
		s.logger.Error(ctx, "record insert failed", "user_id", userID, "blob_ref", rec.BlobRef, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStorageWriteFailed, err)
	}
	return created, nil
}

// GetEntry returns the record only to its owner.
func (s *FileService) GetEntry(ctx context.Context, userID, id string) (*models.FileRecord, error) {
	return s.repomanager.Files(s.db).GetOwned(ctx, id, userID)
}

// ListEntries returns one page of the owner's direct children of parentID.
// An empty parentID lists the root. pageSize is capped at common.MaxPageSize.
func (s *FileService) ListEntries(ctx context.Context, userID, parentID string, page, pageSize int) ([]*models.FileRecord, error) {
	if parentID == "" {
		parentID = common.RootParentID
	}
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	if pageSize > common.MaxPageSize {
		pageSize = common.MaxPageSize
	}
	// an offset past math.MaxInt is past every row
	if page > math.MaxInt/pageSize {
		return []*models.FileRecord{}, nil
	}
	return s.repomanager.Files(s.db).List(ctx, userID, parentID, page*pageSize, pageSize)
}

// SetVisibility publishes or unpublishes an owned record. Repeating the same
// call succeeds with the same result.
func (s *FileService) SetVisibility(ctx context.Context, userID, id string, isPublic bool) (*models.FileRecord, error) {
	return s.repomanager.Files(s.db).SetPublic(ctx, id, userID, isPublic)
}

// DownloadFile returns the content of a public record, or of a private one to
// its owner. An empty requesterID is anonymous. Records the requester may not
// read are reported as common.ErrNotFound.
func (s *FileService) DownloadFile(ctx context.Context, requesterID, id string) (*Download, error) {
	rec, err := s.repomanager.Files(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.ReadableBy(requesterID) {
		return nil, common.ErrNotFound
	}
	if rec.Kind.IsFolder() {
		return nil, common.ErrIsFolder
	}

	data, err := s.blobs.Read(ctx, rec.BlobRef)
	if err != nil {
		if errors.Is(err, blobs.ErrBlobNotFound) {
			s.logger.Error(ctx, "blob missing for record", "id", rec.ID, "blob_ref", rec.BlobRef)
			return nil, common.ErrContentMissing
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}

	return &Download{Record: rec, Data: data, ContentType: contentType(rec.Name, data)}, nil
}

func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}
