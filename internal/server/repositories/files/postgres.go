package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

const recordColumns = `id, user_id, name, type, parent_id, is_public, local_path, created_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a record. Folders are stored with a NULL local_path.
func (r *PostgresRepository) Create(ctx context.Context, rec *models.FileRecord) (*models.FileRecord, error) {
	query := `
		INSERT INTO files (user_id, name, type, parent_id, is_public, local_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	var blobRef sql.NullString
	if !rec.Kind.IsFolder() {
		blobRef = sql.NullString{String: rec.BlobRef, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		rec.OwnerID, rec.Name, string(rec.Kind), rec.ParentID, rec.IsPublic, blobRef).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// GetByID returns the record with the given id regardless of owner.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM files WHERE id = $1`
	return scanRecord(r.db.QueryRowContext(ctx, query, id))
}

// GetOwned returns the record only when it belongs to ownerID.
func (r *PostgresRepository) GetOwned(ctx context.Context, id, ownerID string) (*models.FileRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM files WHERE id = $1 AND user_id = $2`
	return scanRecord(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// List pages through ownerID's records under parentID ordered by insertion.
func (r *PostgresRepository) List(ctx context.Context, ownerID, parentID string, offset, limit int) ([]*models.FileRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM files
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY seq
		OFFSET $3 LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, ownerID, parentID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := []*models.FileRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetPublic updates visibility in a single statement so the returned record
// is the state that was written.
func (r *PostgresRepository) SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*models.FileRecord, error) {
	query := `UPDATE files SET is_public = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + recordColumns
	return scanRecord(r.db.QueryRowContext(ctx, query, id, ownerID, isPublic))
}

// Count returns the total number of records.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.FileRecord, error) {
	var (
		rec     models.FileRecord
		kind    string
		blobRef sql.NullString
	)
	err := s.Scan(&rec.ID, &rec.OwnerID, &rec.Name, &kind, &rec.ParentID, &rec.IsPublic, &blobRef, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.Kind = models.Kind(kind)
	rec.BlobRef = blobRef.String
	return &rec, nil
}
