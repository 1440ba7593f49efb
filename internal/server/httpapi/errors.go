package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// errorMappings is checked in order; the first errors.Is match wins.
var errorMappings = []errorMapping{
	{common.ErrMissingName, http.StatusBadRequest, "Missing name"},
	{common.ErrMissingType, http.StatusBadRequest, "Missing type"},
	{common.ErrMissingData, http.StatusBadRequest, "Missing data"},
	{common.ErrInvalidData, http.StatusBadRequest, "Invalid data"},
	{common.ErrMissingEmail, http.StatusBadRequest, "Missing email"},
	{common.ErrMissingPassword, http.StatusBadRequest, "Missing password"},
	{common.ErrPasswordTooLong, http.StatusBadRequest, "Password too long"},
	{errInvalidJSON, http.StatusBadRequest, "Invalid JSON"},
	{common.ErrValidation, http.StatusBadRequest, "Bad request"},
	{common.ErrParentNotFound, http.StatusBadRequest, "Parent not found"},
	{common.ErrParentNotFolder, http.StatusBadRequest, "Parent is not a folder"},
	{common.ErrIsFolder, http.StatusBadRequest, "A folder doesn't have content"},
	{common.ErrAlreadyExists, http.StatusBadRequest, "Already exist"},
	{common.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
	{common.ErrNotFound, http.StatusNotFound, "Not found"},
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps err to a status and message. Unmapped errors are logged
// and reported as 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeJSON(w, m.status, errorResponse{Error: m.message})
			return
		}
	}
	s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}
