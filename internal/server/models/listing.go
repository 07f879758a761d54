package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Listing struct {
	ID            string          `json:"id"`
	HostID        string          `json:"host_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Available     bool            `json:"available"`
	// PhotoKey is the object-storage key of the listing photo, if uploaded.
	PhotoKey  string    `json:"photo_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
