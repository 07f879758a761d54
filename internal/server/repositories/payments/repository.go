// Package payments stores provider transactions, at most one per booking.
package payments

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/shopspring/decimal"
)

// Verification is what a provider verification call writes back.
type Verification struct {
	Status       models.PaymentStatus
	ProviderTxID string
	ResponseLog  json.RawMessage
}

type Repository interface {
	// Create returns common.ErrorAlreadyExists when the booking already has
	// a payment or the reference is taken.
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByTxRef(ctx context.Context, txRef string) (*models.Payment, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error)
	List(ctx context.Context) ([]*models.Payment, error)
	// ApplyVerification overwrites status, provider id and raw response of
	// the payment with the given reference and returns the updated row.
	ApplyVerification(ctx context.Context, txRef string, v Verification) (*models.Payment, error)
	// Update is the administrative edit of status and amount.
	Update(ctx context.Context, id string, status models.PaymentStatus, amount decimal.Decimal) (*models.Payment, error)
	Delete(ctx context.Context, id string) error
}
