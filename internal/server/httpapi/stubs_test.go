package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type stubAuth struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newStubAuth() *stubAuth {
	return &stubAuth{tokens: map[string]string{"good-token": "u-1"}}
}

func (a *stubAuth) IssueToken(_ context.Context, email, password string) (string, error) {
	if email != "bob@dylan.com" || password != "secret" {
		return "", common.ErrInvalidCredentials
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens["issued-token"] = "u-1"
	return "issued-token", nil
}

func (a *stubAuth) ResolveToken(_ context.Context, token string) (string, error) {
	if token == "broken" {
		return "", errors.New("store down")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.tokens[token]; ok {
		return id, nil
	}
	return "", common.ErrUnauthenticated
}

func (a *stubAuth) RevokeToken(ctx context.Context, token string) error {
	if _, err := a.ResolveToken(ctx, token); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.tokens, token)
	return nil
}

type stubUsers struct {
	registerErr error
}

func (u *stubUsers) Register(_ context.Context, email, password string) (*models.User, error) {
	if u.registerErr != nil {
		return nil, u.registerErr
	}
	if email == "" {
		return nil, common.ErrMissingEmail
	}
	if password == "" {
		return nil, common.ErrMissingPassword
	}
	return &models.User{ID: "u-9", Email: email, HashedPassword: []byte("hash")}, nil
}

func (u *stubUsers) Me(_ context.Context, userID string) (*models.User, error) {
	return &models.User{ID: userID, Email: "bob@dylan.com"}, nil
}

// stubFiles records the last call and returns whatever the test configured.
type stubFiles struct {
	lastUser  string
	lastInput services.CreateEntryInput
	lastID    string
	lastArgs  []any

	rec      *models.FileRecord
	recs     []*models.FileRecord
	download *services.Download
	err      error
	panicMsg string
}

func (f *stubFiles) CreateEntry(_ context.Context, userID string, in services.CreateEntryInput) (*models.FileRecord, error) {
	f.lastUser, f.lastInput = userID, in
	if in.Name == "" {
		return nil, common.ErrMissingName
	}
	if !in.Kind.IsFolder() && len(in.Content) == 0 {
		return nil, common.ErrMissingData
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.rec, nil
}

func (f *stubFiles) GetEntry(_ context.Context, userID, id string) (*models.FileRecord, error) {
	f.lastUser, f.lastID = userID, id
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.rec, f.err
}

func (f *stubFiles) ListEntries(_ context.Context, userID, parentID string, page, pageSize int) ([]*models.FileRecord, error) {
	f.lastUser = userID
	f.lastArgs = []any{parentID, page, pageSize}
	return f.recs, f.err
}

func (f *stubFiles) SetVisibility(_ context.Context, userID, id string, isPublic bool) (*models.FileRecord, error) {
	f.lastUser, f.lastID = userID, id
	f.lastArgs = []any{isPublic}
	if f.err != nil {
		return nil, f.err
	}
	rec := *f.rec
	rec.IsPublic = isPublic
	return &rec, nil
}

func (f *stubFiles) DownloadFile(_ context.Context, requesterID, id string) (*services.Download, error) {
	f.lastUser, f.lastID = requesterID, id
	return f.download, f.err
}

type stubStatus struct {
	st       services.Status
	stats    *services.Stats
	statsErr error
}

func (s *stubStatus) Status(context.Context) services.Status { return s.st }
func (s *stubStatus) Stats(context.Context) (*services.Stats, error) {
	return s.stats, s.statsErr
}

type fixture struct {
	auth    *stubAuth
	users   *stubUsers
	files   *stubFiles
	status  *stubStatus
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		auth:   newStubAuth(),
		users:  &stubUsers{},
		files:  &stubFiles{rec: &models.FileRecord{ID: "f-1", OwnerID: "u-1", Name: "a.txt", Kind: models.KindFile, ParentID: "0", BlobRef: "/tmp/files_manager/secret-ref"}},
		status: &stubStatus{},
	}
	srv := NewServer(Options{}, nopLogger{}, f.auth, f.users, f.files, f.status)
	f.handler = srv.Handler()
	return f
}

func (f *fixture) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

var authed = map[string]string{"X-Token": "good-token"}
