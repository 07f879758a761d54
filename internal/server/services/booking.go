package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/logging"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/notifications"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/repomanager"
)

// ConfirmationNotifier queues a booking confirmation for later delivery.
type ConfirmationNotifier interface {
	EnqueueBookingConfirmation(ctx context.Context, email, details string) error
}

type BookingInput struct {
	// GuestID is honoured for admins only.
	GuestID   string
	ListingID string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
}

type BookingUpdate struct {
	ListingID *string
	CheckIn   *time.Time
	CheckOut  *time.Time
	Guests    *int
}

type BookingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    ConfirmationNotifier
	currency    string
	log         logging.Logger
}

func NewBookingService(db *sql.DB, m repomanager.RepositoryManager, notifier ConfirmationNotifier,
	currency string, log logging.Logger) *BookingService {
	return &BookingService{
		db:          db,
		repomanager: m,
		notifier:    notifier,
		currency:    currency,
		log:         log.With("module", "bookings"),
	}
}

func validateBooking(b *models.Booking) error {
	if b.ListingID == "" {
		return common.ValidationError("listing is required")
	}
	if b.CheckIn.IsZero() || b.CheckOut.IsZero() {
		return common.ValidationError("check_in and check_out are required")
	}
	if b.Nights() <= 0 {
		return common.ValidationError("check_out must be after check_in")
	}
	if b.Guests < 1 {
		return common.ValidationError("guests must be at least 1")
	}
	return nil
}

// Create records the booking, then queues the confirmation mail. A failed
// enqueue is logged; the booking stands.
func (s *BookingService) Create(ctx context.Context, actor *Actor, in BookingInput) (*models.BookingDetails, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	b := &models.Booking{
		GuestID:   actor.ID,
		ListingID: in.ListingID,
		CheckIn:   in.CheckIn,
		CheckOut:  in.CheckOut,
		Guests:    in.Guests,
	}
	if actor.IsAdmin() && in.GuestID != "" {
		b.GuestID = in.GuestID
	}
	if b.Guests == 0 {
		b.Guests = 1
	}
	if err := validateBooking(b); err != nil {
		return nil, err
	}

	listing, err := s.repomanager.Listings(s.db).GetByID(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Available {
		return nil, common.ValidationError("listing is not available")
	}

	if _, err := s.repomanager.Bookings(s.db).Create(ctx, b); err != nil {
		return nil, err
	}

	details, err := s.repomanager.Bookings(s.db).GetDetails(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.EnqueueBookingConfirmation(ctx, details.GuestEmail,
		notifications.BookingSummary(details, s.currency)); err != nil {
		s.log.Warn(ctx, "booking confirmation not enqueued", "booking_id", b.ID, "error", err)
	}

	s.log.Info(ctx, "booking created", "booking_id", b.ID, "listing_id", b.ListingID, "total", details.Total().StringFixed(2))
	return details, nil
}

// List returns the caller's bookings; admins see all of them.
func (s *BookingService) List(ctx context.Context, actor *Actor) ([]*models.BookingDetails, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	guestID := actor.ID
	if actor.IsAdmin() {
		guestID = ""
	}
	return s.repomanager.Bookings(s.db).List(ctx, guestID)
}

func (s *BookingService) Get(ctx context.Context, actor *Actor, id string) (*models.BookingDetails, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	d, err := s.repomanager.Bookings(s.db).GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(d.GuestID) {
		return nil, common.ErrorForbidden
	}
	return d, nil
}

func (s *BookingService) Update(ctx context.Context, actor *Actor, id string, in BookingUpdate) (*models.BookingDetails, error) {
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	b := current.Booking
	if in.ListingID != nil && *in.ListingID != b.ListingID {
		listing, err := s.repomanager.Listings(s.db).GetByID(ctx, *in.ListingID)
		if err != nil {
			return nil, err
		}
		if !listing.Available {
			return nil, common.ValidationError("listing is not available")
		}
		b.ListingID = listing.ID
	}
	if in.CheckIn != nil {
		b.CheckIn = *in.CheckIn
	}
	if in.CheckOut != nil {
		b.CheckOut = *in.CheckOut
	}
	if in.Guests != nil {
		b.Guests = *in.Guests
	}
	if err := validateBooking(&b); err != nil {
		return nil, err
	}

	// A payment's amount is fixed at initiation.
	if b.ListingID != current.ListingID || !b.CheckIn.Equal(current.CheckIn) || !b.CheckOut.Equal(current.CheckOut) {
		_, err := s.repomanager.Payments(s.db).GetByBookingID(ctx, id)
		switch {
		case err == nil:
			return nil, common.ValidationError("booking has a payment; dates and listing cannot change")
		case !errors.Is(err, common.ErrorNotFound):
			return nil, err
		}
	}

	if err := s.repomanager.Bookings(s.db).Update(ctx, &b); err != nil {
		return nil, err
	}
	return s.repomanager.Bookings(s.db).GetDetails(ctx, id)
}

func (s *BookingService) Delete(ctx context.Context, actor *Actor, id string) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repomanager.Bookings(s.db).Delete(ctx, id)
}
