package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	next   int
	getErr error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*models.User{}} }

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	r.next++
	u.ID = fmt.Sprintf("u-%d", r.next)
	u.CreatedAt = time.Now()
	cp := *u
	r.byID[u.ID] = &cp
	return u, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *memUsers) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type memFiles struct {
	mu        sync.Mutex
	records   []*models.FileRecord
	createErr error
	countErr  error

	listCalls  int
	lastOffset int
	lastLimit  int
}

func (r *memFiles) Create(_ context.Context, rec *models.FileRecord) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	rec.ID = fmt.Sprintf("f-%d", len(r.records)+1)
	rec.CreatedAt = time.Now()
	cp := *rec
	r.records = append(r.records, &cp)
	return rec, nil
}

func (r *memFiles) find(id string) *models.FileRecord {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func (r *memFiles) GetByID(_ context.Context, id string) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec := r.find(id); rec != nil {
		cp := *rec
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *memFiles) GetOwned(_ context.Context, id, ownerID string) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec := r.find(id); rec != nil && rec.OwnerID == ownerID {
		cp := *rec
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *memFiles) List(_ context.Context, ownerID, parentID string, offset, limit int) ([]*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	r.lastOffset, r.lastLimit = offset, limit
	out := []*models.FileRecord{}
	skipped := 0
	for _, rec := range r.records {
		if rec.OwnerID != ownerID || rec.ParentID != parentID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(out) == limit {
			break
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memFiles) SetPublic(_ context.Context, id, ownerID string, isPublic bool) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.find(id)
	if rec == nil || rec.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	rec.IsPublic = isPublic
	cp := *rec
	return &cp, nil
}

func (r *memFiles) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.records)), nil
}

type fakeRepoMgr struct {
	users *memUsers
	files *memFiles
}

func newFakeRepoMgr() *fakeRepoMgr {
	return &fakeRepoMgr{users: newMemUsers(), files: &memFiles{}}
}

func (m *fakeRepoMgr) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoMgr) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoMgr) Files(dbx.DBTX) files.Repository              { return m.files }

func newUser(email string) *models.User {
	return &models.User{Email: email, HashedPassword: []byte("x")}
}
