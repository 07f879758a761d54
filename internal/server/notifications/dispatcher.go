// Package notifications sends booking confirmations off the request path:
// the Dispatcher enqueues a task, the Worker pool delivers it by mail.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/logging"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/queue"
)

const (
	TaskBookingConfirmation = "send_booking_confirmation"

	ConfirmationSubject = "Booking Confirmation"
)

// enqueueTimeout bounds a single Send so a stalled backend cannot hold a
// request open.
var enqueueTimeout = 2 * time.Second

// Task is the queued job body.
type Task struct {
	Type    string `json:"type"`
	Email   string `json:"email"`
	Details string `json:"details"`
}

type Dispatcher struct {
	queue queue.Queue
	log   logging.Logger
}

func NewDispatcher(q queue.Queue, log logging.Logger) *Dispatcher {
	return &Dispatcher{queue: q, log: log.With("module", "notifications")}
}

// EnqueueBookingConfirmation returns once the task is on the queue; delivery
// happens later, at most once.
func (d *Dispatcher) EnqueueBookingConfirmation(ctx context.Context, email, details string) error {
	body, err := json.Marshal(Task{Type: TaskBookingConfirmation, Email: email, Details: details})
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	sendCtx, cancel := context.WithTimeout(ctx, enqueueTimeout)
	defer cancel()
	if err := d.queue.Send(sendCtx, body); err != nil {
		return fmt.Errorf("enqueue confirmation: %w", err)
	}
	d.log.Debug(ctx, "confirmation enqueued", "email", email)
	return nil
}

// BookingSummary renders the confirmation details text.
func BookingSummary(d *models.BookingDetails, currency string) string {
	return fmt.Sprintf("Booking ID: %s\nCheck-in: %s\nCheck-out: %s\nListing: %s\nTotal Price: %s %s",
		d.ID,
		d.CheckIn.Format(models.DateLayout),
		d.CheckOut.Format(models.DateLayout),
		d.ListingTitle,
		d.Total().StringFixed(2),
		currency,
	)
}

// ConfirmationBody wraps the details text into the mail body.
func ConfirmationBody(details string) string {
	return "Thank you for your booking.\n\nDetails:\n" + details
}
