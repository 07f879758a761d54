// Package bookings declares and implements persistence for guest bookings.
package bookings

import (
	"context"

	"github.com/dmitrijs2005/travelapp/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetDetails joins the booking with its listing and guest.
	GetDetails(ctx context.Context, id string) (*models.BookingDetails, error)
	// List returns all bookings, or only guestID's when it is non-empty.
	List(ctx context.Context, guestID string) ([]*models.BookingDetails, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id string) error
}
