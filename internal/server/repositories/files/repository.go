package files

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Repository persists file records. Lookups that miss return common.ErrNotFound.
type Repository interface {
	// Create inserts rec and fills in its store-assigned ID and CreatedAt.
	Create(ctx context.Context, rec *models.FileRecord) (*models.FileRecord, error)
	// GetByID looks a record up by id alone.
	GetByID(ctx context.Context, id string) (*models.FileRecord, error)
	// GetOwned looks a record up by id and owner.
	GetOwned(ctx context.Context, id, ownerID string) (*models.FileRecord, error)
	// List returns ownerID's records directly under parentID in insertion order.
	List(ctx context.Context, ownerID, parentID string, offset, limit int) ([]*models.FileRecord, error)
	// SetPublic updates is_public on an owned record and returns the new state.
	SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*models.FileRecord, error)
	Count(ctx context.Context) (int64, error)
}
