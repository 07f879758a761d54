// Package listings declares and implements persistence for property listings.
package listings

import (
	"context"

	"github.com/dmitrijs2005/travelapp/internal/server/models"
)

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	HostID        string
	Location      string
	AvailableOnly bool
}

type Repository interface {
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	List(ctx context.Context, filter Filter) ([]*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	SetPhotoKey(ctx context.Context, id string, key string) error
	Delete(ctx context.Context, id string) error
}
