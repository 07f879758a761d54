package httpapi

import (
	"time"

	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/shopspring/decimal"
)

type accountView struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	PhoneNumber string      `json:"phone_number"`
	Role        models.Role `json:"role"`
	IsActive    bool        `json:"is_active"`
	IsStaff     bool        `json:"is_staff"`
	IsSuperuser bool        `json:"is_superuser"`
	CreatedAt   time.Time   `json:"creation_date"`
}

func newAccountView(a *models.Account) accountView {
	return accountView{
		ID:          a.ID,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		PhoneNumber: a.PhoneNumber,
		Role:        a.Role,
		IsActive:    a.IsActive,
		IsStaff:     a.IsStaff(),
		IsSuperuser: a.IsSuperuser(),
		CreatedAt:   a.CreatedAt,
	}
}

type bookingView struct {
	ID           string          `json:"id"`
	GuestID      string          `json:"guest_id"`
	ListingID    string          `json:"listing_id"`
	ListingTitle string          `json:"listing_title"`
	CheckIn      string          `json:"check_in"`
	CheckOut     string          `json:"check_out"`
	Guests       int             `json:"guests"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newBookingView(d *models.BookingDetails) bookingView {
	return bookingView{
		ID:           d.ID,
		GuestID:      d.GuestID,
		ListingID:    d.ListingID,
		ListingTitle: d.ListingTitle,
		CheckIn:      d.CheckIn.Format(models.DateLayout),
		CheckOut:     d.CheckOut.Format(models.DateLayout),
		Guests:       d.Guests,
		TotalPrice:   d.Total().Round(2),
		CreatedAt:    d.CreatedAt,
	}
}

type tokenView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type registerRequest struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	PhoneNumber string      `json:"phone_number"`
	Role        models.Role `json:"role"`
}

type accountUpdateRequest struct {
	FirstName   *string      `json:"first_name"`
	LastName    *string      `json:"last_name"`
	PhoneNumber *string      `json:"phone_number"`
	Password    *string      `json:"password"`
	Role        *models.Role `json:"role"`
	IsActive    *bool        `json:"is_active"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type listingRequest struct {
	HostID        string          `json:"host_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Available     *bool           `json:"available"`
}

type listingUpdateRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Location      *string          `json:"location"`
	PricePerNight *decimal.Decimal `json:"price_per_night"`
	Available     *bool            `json:"available"`
}

type photoUploadView struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

type bookingRequest struct {
	GuestID   string `json:"guest_id"`
	ListingID string `json:"listing_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Guests    int    `json:"guests"`
}

type bookingUpdateRequest struct {
	ListingID *string `json:"listing_id"`
	CheckIn   *string `json:"check_in"`
	CheckOut  *string `json:"check_out"`
	Guests    *int    `json:"guests"`
}

type paymentUpdateRequest struct {
	Status *models.PaymentStatus `json:"status"`
	Amount *decimal.Decimal      `json:"amount"`
}

type reviewRequest struct {
	ListingID string `json:"listing_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type reviewUpdateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type initiateRequest struct {
	BookingID   string `json:"booking_id"`
	PhoneNumber string `json:"phone_number"`
}
