package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/mitchellh/mapstructure"
)

var errInvalidJSON = errors.New("invalid json body")

// maxBodyBytes caps request bodies, including base64 file content.
const maxBodyBytes = 64 << 20

type registerRequest struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type createEntryRequest struct {
	Name     string  `mapstructure:"name"`
	Type     string  `mapstructure:"type"`
	ParentID string  `mapstructure:"parentId"`
	IsPublic bool    `mapstructure:"isPublic"`
	Data     *string `mapstructure:"data"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type fileResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func toFileResponse(rec *models.FileRecord) fileResponse {
	return fileResponse{
		ID:       rec.ID,
		UserID:   rec.OwnerID,
		Name:     rec.Name,
		Type:     string(rec.Kind),
		IsPublic: rec.IsPublic,
		ParentID: rec.ParentID,
	}
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

// decodeBody reads a JSON object into out with weak typing, so that
// {"parentId": 0} and {"isPublic": "true"} are accepted. An empty body
// decodes to the zero value.
func decodeBody(r *http.Request, out any) error {
	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidJSON
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return errInvalidJSON
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
