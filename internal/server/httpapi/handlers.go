package httpapi

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.status.Status(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"redis": st.Sessions, "db": st.Database})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.status.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"users": st.Users, "files": st.Files})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		s.writeError(w, r, common.ErrUnauthenticated)
		return
	}
	token, err := s.auth.IssueToken(r.Context(), email, password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.RevokeToken(r.Context(), r.Header.Get(tokenHeader)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Me(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	in := services.CreateEntryInput{
		Name:     req.Name,
		Kind:     models.Kind(req.Type),
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
	}
	if req.Data != nil && *req.Data != "" && !in.Kind.IsFolder() {
		content, err := base64.StdEncoding.DecodeString(*req.Data)
		// name and type problems are reported before bad content
		if err != nil && in.Name != "" && in.Kind.Valid() {
			s.writeError(w, r, common.ErrInvalidData)
			return
		}
		in.Content = content
	}

	rec, err := s.files.CreateEntry(r.Context(), userIDFrom(r.Context()), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFileResponse(rec))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	rec, err := s.files.GetEntry(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(rec))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	recs, err := s.files.ListEntries(r.Context(), userIDFrom(r.Context()), q.Get("parentId"), page, pageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]fileResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toFileResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSetVisibility(isPublic bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.files.SetVisibility(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), isPublic)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toFileResponse(rec))
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	dl, err := s.files.DownloadFile(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dl.Data)
}
