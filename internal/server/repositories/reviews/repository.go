package reviews

import (
	"context"

	"github.com/dmitrijs2005/travelapp/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	// List returns reviews of one listing, or all when listingID is empty.
	List(ctx context.Context, listingID string) ([]*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
}
