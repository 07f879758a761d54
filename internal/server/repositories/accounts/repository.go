// Package accounts declares and implements persistence for platform accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/travelapp/internal/server/models"
)

// Repository stores accounts. Lookups of absent rows return common.ErrorNotFound;
// duplicate emails return common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
}
