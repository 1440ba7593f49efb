package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestStatusAndStats(t *testing.T) {
	f := newFixture(t)
	f.status.st = services.Status{Sessions: true, Database: false}
	f.status.stats = &services.Stats{Users: 3, Files: 7}

	rr := f.do(http.MethodGet, "/status", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]bool{"redis": true, "db": false}, decode[map[string]bool](t, rr.Body.Bytes()))

	rr = f.do(http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]int64{"users": 3, "files": 7}, decode[map[string]int64](t, rr.Body.Bytes()))

	f.status.statsErr = errors.New("db down")
	rr = f.do(http.MethodGet, "/stats", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/users", `{"email":"bob@dylan.com","password":"secret"}`, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":"u-9","email":"bob@dylan.com"}`, rr.Body.String())

	rr = f.do(http.MethodPost, "/users", `{"password":"secret"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Missing email"}`, rr.Body.String())

	rr = f.do(http.MethodPost, "/users", "", nil)
	assert.JSONEq(t, `{"error":"Missing email"}`, rr.Body.String())

	rr = f.do(http.MethodPost, "/users", `{"email":"bob@dylan.com"}`, nil)
	assert.JSONEq(t, `{"error":"Missing password"}`, rr.Body.String())

	rr = f.do(http.MethodPost, "/users", `{"email":`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, rr.Body.String())

	f.users.registerErr = common.ErrPasswordTooLong
	rr = f.do(http.MethodPost, "/users", `{"email":"bob@dylan.com","password":"secret"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Password too long"}`, rr.Body.String())

	f.users.registerErr = common.ErrAlreadyExists
	rr = f.do(http.MethodPost, "/users", `{"email":"bob@dylan.com","password":"secret"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Already exist"}`, rr.Body.String())
}

func basic(user, pass string) map[string]string {
	return map[string]string{"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))}
}

func TestConnectDisconnect(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/connect", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())

	rr = f.do(http.MethodGet, "/connect", "", basic("bob@dylan.com", "nope"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(http.MethodGet, "/connect", "", basic("bob@dylan.com", "secret"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"token":"issued-token"}`, rr.Body.String())

	tok := map[string]string{"X-Token": "issued-token"}
	rr = f.do(http.MethodGet, "/users/me", "", tok)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"u-1","email":"bob@dylan.com"}`, rr.Body.String())

	rr = f.do(http.MethodGet, "/disconnect", "", tok)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = f.do(http.MethodGet, "/disconnect", "", tok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(http.MethodGet, "/users/me", "", tok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodPost, "/files"},
		{http.MethodGet, "/files"},
		{http.MethodGet, "/files/f-1"},
		{http.MethodPut, "/files/f-1/publish"},
		{http.MethodPut, "/files/f-1/unpublish"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr := f.do(rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)

			rr = f.do(rt.method, rt.path, "", map[string]string{"X-Token": "expired"})
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}

	rr := f.do(http.MethodGet, "/files", "", map[string]string{"X-Token": "broken"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCreateEntry_LooseBody(t *testing.T) {
	f := newFixture(t)
	data := base64.StdEncoding.EncodeToString([]byte("hello"))

	rr := f.do(http.MethodPost, "/files",
		`{"name":"a.txt","type":"file","parentId":0,"isPublic":"true","data":"`+data+`"}`, authed)
	require.Equal(t, http.StatusCreated, rr.Code)

	assert.Equal(t, "u-1", f.files.lastUser)
	assert.Equal(t, services.CreateEntryInput{
		Name: "a.txt", Kind: models.KindFile, ParentID: "0", IsPublic: true, Content: []byte("hello"),
	}, f.files.lastInput)

	body := decode[map[string]any](t, rr.Body.Bytes())
	assert.Equal(t, map[string]any{
		"id": "f-1", "userId": "u-1", "name": "a.txt", "type": "file", "isPublic": false, "parentId": "0",
	}, body)
	assert.NotContains(t, rr.Body.String(), "secret-ref")
}

func TestCreateEntry_FolderIgnoresData(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/files", `{"name":"docs","type":"folder","data":"%%%"}`, authed)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Nil(t, f.files.lastInput.Content)
}

func TestCreateEntry_EmptyDataIsMissing(t *testing.T) {
	for _, body := range []string{
		`{"name":"a.txt","type":"file","data":""}`,
		`{"name":"a.txt","type":"image"}`,
		`{"name":"a.txt","type":"file","data":null}`,
	} {
		t.Run(body, func(t *testing.T) {
			f := newFixture(t)
			rr := f.do(http.MethodPost, "/files", body, authed)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, `{"error":"Missing data"}`, rr.Body.String())
			assert.Nil(t, f.files.lastInput.Content)
		})
	}
}

func TestCreateEntry_InvalidData(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/files", `{"name":"a.txt","type":"file","data":"%%%"}`, authed)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid data"}`, rr.Body.String())

	rr = f.do(http.MethodPost, "/files", `{"type":"file","data":"%%%"}`, authed)
	assert.JSONEq(t, `{"error":"Missing name"}`, rr.Body.String())
}

func TestCreateEntry_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{common.ErrMissingType, http.StatusBadRequest, "Missing type"},
		{common.ErrMissingData, http.StatusBadRequest, "Missing data"},
		{common.ErrParentNotFound, http.StatusBadRequest, "Parent not found"},
		{common.ErrParentNotFolder, http.StatusBadRequest, "Parent is not a folder"},
		{common.ErrStorageWriteFailed, http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			f := newFixture(t)
			f.files.err = tt.err
			rr := f.do(http.MethodPost, "/files", `{"name":"x","type":"folder"}`, authed)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.msg, decode[errorResponse](t, rr.Body.Bytes()).Error)
		})
	}
}

func TestGetEntry(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/files/f-1", "", authed)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "f-1", f.files.lastID)
	assert.Equal(t, "a.txt", decode[fileResponse](t, rr.Body.Bytes()).Name)

	f.files.err = common.ErrNotFound
	rr = f.do(http.MethodGet, "/files/other", "", authed)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())
}

func TestListEntries(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/files", "", authed)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
	assert.Equal(t, []any{"", 0, 0}, f.files.lastArgs)

	f.files.recs = []*models.FileRecord{f.files.rec, {ID: "f-2", OwnerID: "u-1", Name: "docs", Kind: models.KindFolder, ParentID: "d-1"}}
	rr = f.do(http.MethodGet, "/files?parentId=d-1&page=2&pageSize=5", "", authed)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{"d-1", 2, 5}, f.files.lastArgs)
	got := decode[[]fileResponse](t, rr.Body.Bytes())
	require.Len(t, got, 2)
	assert.Equal(t, "folder", got[1].Type)

	rr = f.do(http.MethodGet, "/files?page=abc", "", authed)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{"", 0, 0}, f.files.lastArgs)
}

func TestPublishUnpublish(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		rr := f.do(http.MethodPut, "/files/f-1/publish", "", authed)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decode[fileResponse](t, rr.Body.Bytes()).IsPublic)
	}

	rr := f.do(http.MethodPut, "/files/f-1/unpublish", "", authed)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[fileResponse](t, rr.Body.Bytes()).IsPublic)
	assert.Equal(t, []any{false}, f.files.lastArgs)

	f.files.err = common.ErrNotFound
	rr = f.do(http.MethodPut, "/files/zzz/publish", "", authed)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDownload(t *testing.T) {
	f := newFixture(t)
	f.files.download = &services.Download{Record: f.files.rec, Data: []byte("hello"), ContentType: "text/plain; charset=utf-8"}

	rr := f.do(http.MethodGet, "/files/f-1/data", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "", f.files.lastUser)
	assert.Equal(t, "hello", rr.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "5", rr.Header().Get("Content-Length"))

	rr = f.do(http.MethodGet, "/files/f-1/data", "", authed)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u-1", f.files.lastUser)

	for _, tok := range []string{"expired", "broken"} {
		rr = f.do(http.MethodGet, "/files/f-1/data", "", map[string]string{"X-Token": tok})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "", f.files.lastUser)
	}
}

func TestDownload_Errors(t *testing.T) {
	f := newFixture(t)

	f.files.err = common.ErrIsFolder
	rr := f.do(http.MethodGet, "/files/d-1/data", "", authed)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"A folder doesn't have content"}`, rr.Body.String())

	f.files.err = common.ErrNotFound
	rr = f.do(http.MethodGet, "/files/f-1/data", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	f.files.err = common.ErrContentMissing
	rr = f.do(http.MethodGet, "/files/f-1/data", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())
}

func TestPanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	f.files.panicMsg = "boom"
	rr := f.do(http.MethodGet, "/files/f-1", "", authed)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodOptions, "/files", "", map[string]string{
		"Origin":                         "http://localhost:4200",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "X-Token",
	})
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
