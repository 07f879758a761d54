package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of check-in/check-out dates.
const DateLayout = "2006-01-02"

type Booking struct {
	ID        string    `json:"id"`
	GuestID   string    `json:"guest_id"`
	ListingID string    `json:"listing_id"`
	CheckIn   time.Time `json:"-"`
	CheckOut  time.Time `json:"-"`
	Guests    int       `json:"guests"`
	CreatedAt time.Time `json:"created_at"`
}

// Nights is the number of whole days between check-in and check-out.
// It is zero or negative for invalid ranges.
func (b *Booking) Nights() int {
	in := truncateDay(b.CheckIn)
	out := truncateDay(b.CheckOut)
	return int(math.Round(out.Sub(in).Hours() / 24))
}

// TotalPrice is nightly × nights. It is not stored.
func (b *Booking) TotalPrice(nightly decimal.Decimal) decimal.Decimal {
	return nightly.Mul(decimal.NewFromInt(int64(b.Nights())))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BookingDetails is a booking joined with what the confirmation and the
// payment initiation need from its listing and guest.
type BookingDetails struct {
	Booking
	ListingTitle  string
	PricePerNight decimal.Decimal
	GuestEmail    string
}

// Total is the booking total at the listing's current nightly price.
func (d *BookingDetails) Total() decimal.Decimal {
	return d.TotalPrice(d.PricePerNight)
}
