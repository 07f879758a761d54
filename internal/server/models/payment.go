package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// Payment is one provider transaction for a booking. A booking has at most
// one payment.
type Payment struct {
	ID          string          `json:"id"`
	BookingID   string          `json:"booking_id"`
	Amount      decimal.Decimal `json:"amount"`
	TxRef       string          `json:"chapa_tx_ref"`
	CheckoutURL string          `json:"chapa_checkout_url"`
	Status      PaymentStatus   `json:"status"`
	// ProviderTxID is filled on verification.
	ProviderTxID *string `json:"chapa_tx_id"`
	// ResponseLog is the last raw provider response.
	ResponseLog json.RawMessage `json:"response_log,omitempty"`
	CreatedAt   time.Time       `json:"payment_date"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
