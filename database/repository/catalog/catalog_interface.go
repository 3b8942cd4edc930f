package catalogRepo

import (
	"context"
	"errors"

	"choreify/models"
)

// ErrNotFound is returned when no service matches the lookup.
var ErrNotFound = errors.New("service not found")

// CatalogRepository defines read access to bookable services.
type CatalogRepository interface {
	// List returns active services, optionally limited to one category.
	List(ctx context.Context, category string) ([]models.Service, error)
	// GetBySlug retrieves an active service by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*models.Service, error)
	// GetByID retrieves an active service by its id.
	GetByID(ctx context.Context, id string) (*models.Service, error)
}
