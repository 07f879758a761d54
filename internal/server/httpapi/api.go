// Package httpapi exposes the services as a JSON REST API on gin.
package httpapi

import (
	"context"

	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/listings"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
)

type AccountService interface {
	Register(ctx context.Context, actor *services.Actor, in services.RegisterInput) (*models.Account, error)
	List(ctx context.Context, actor *services.Actor) ([]*models.Account, error)
	Get(ctx context.Context, actor *services.Actor, id string) (*models.Account, error)
	Update(ctx context.Context, actor *services.Actor, id string, in services.AccountUpdate) (*models.Account, error)
	Delete(ctx context.Context, actor *services.Actor, id string) error
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	ResolveActor(ctx context.Context, id string) (*services.Actor, error)
}

type ListingService interface {
	Create(ctx context.Context, actor *services.Actor, in services.ListingInput) (*models.Listing, error)
	List(ctx context.Context, filter listings.Filter) ([]*models.Listing, error)
	Get(ctx context.Context, id string) (*models.Listing, error)
	Update(ctx context.Context, actor *services.Actor, id string, in services.ListingUpdate) (*models.Listing, error)
	Delete(ctx context.Context, actor *services.Actor, id string) error
	PhotoUploadURL(ctx context.Context, actor *services.Actor, id string) (*services.PhotoUpload, error)
	PhotoURL(ctx context.Context, id string) (string, error)
}

type BookingService interface {
	Create(ctx context.Context, actor *services.Actor, in services.BookingInput) (*models.BookingDetails, error)
	List(ctx context.Context, actor *services.Actor) ([]*models.BookingDetails, error)
	Get(ctx context.Context, actor *services.Actor, id string) (*models.BookingDetails, error)
	Update(ctx context.Context, actor *services.Actor, id string, in services.BookingUpdate) (*models.BookingDetails, error)
	Delete(ctx context.Context, actor *services.Actor, id string) error
}

type PaymentService interface {
	Initiate(ctx context.Context, actor *services.Actor, bookingID, phoneNumber string) (*services.InitiateResult, error)
	Verify(ctx context.Context, txRef string) (*models.Payment, error)
	List(ctx context.Context, actor *services.Actor) ([]*models.Payment, error)
	Get(ctx context.Context, actor *services.Actor, id string) (*models.Payment, error)
	Update(ctx context.Context, actor *services.Actor, id string, in services.PaymentUpdate) (*models.Payment, error)
	Delete(ctx context.Context, actor *services.Actor, id string) error
}

type ReviewService interface {
	Create(ctx context.Context, actor *services.Actor, listingID string, rating int, comment string) (*models.Review, error)
	List(ctx context.Context, listingID string) ([]*models.Review, error)
	Get(ctx context.Context, id string) (*models.Review, error)
	Update(ctx context.Context, actor *services.Actor, id string, rating *int, comment *string) (*models.Review, error)
	Delete(ctx context.Context, actor *services.Actor, id string) error
}

// Services is everything the router dispatches to.
type Services struct {
	Accounts AccountService
	Listings ListingService
	Bookings BookingService
	Payments PaymentService
	Reviews  ReviewService
}
