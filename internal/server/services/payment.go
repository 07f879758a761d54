package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/logging"
	"github.com/dmitrijs2005/travelapp/internal/server/chapa"
	"github.com/dmitrijs2005/travelapp/internal/server/config"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/payments"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentProvider is the remote payment API.
type PaymentProvider interface {
	Initialize(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error)
	Verify(ctx context.Context, txRef string) (*chapa.VerifyResponse, error)
}

// newTxRef is a seam for tests.
var newTxRef = func() string {
	return common.TxRefPrefix + uuid.NewString()
}

type InitiateResult struct {
	CheckoutURL string
	TxRef       string
}

type PaymentUpdate struct {
	Status *models.PaymentStatus
	Amount *decimal.Decimal
}

// PaymentService turns bookings into provider transactions and reconciles
// them on verification. No transaction is held open across provider calls.
type PaymentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	provider    PaymentProvider
	cfg         *config.Config
	log         logging.Logger
}

func NewPaymentService(db *sql.DB, m repomanager.RepositoryManager, provider PaymentProvider,
	cfg *config.Config, log logging.Logger) *PaymentService {
	return &PaymentService{
		db:          db,
		repomanager: m,
		provider:    provider,
		cfg:         cfg,
		log:         log.With("module", "payments"),
	}
}

// Initiate creates a provider transaction for the booking and stores it as
// a Pending payment. A booking has at most one payment; a second call is a
// validation error and does not reach the provider.
func (s *PaymentService) Initiate(ctx context.Context, actor *Actor, bookingID, phoneNumber string) (*InitiateResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if bookingID == "" {
		return nil, common.ValidationError("booking_id is required")
	}

	booking, err := s.repomanager.Bookings(s.db).GetDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.owns(booking.GuestID) {
		return nil, common.ErrorForbidden
	}

	_, err = s.repomanager.Payments(s.db).GetByBookingID(ctx, bookingID)
	switch {
	case err == nil:
		return nil, common.ValidationError("payment already initiated for this booking")
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	payer, err := s.repomanager.Accounts(s.db).GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if phoneNumber == "" {
		phoneNumber = payer.PhoneNumber
	}

	amount := booking.Total()
	txRef := newTxRef()

	resp, err := s.provider.Initialize(ctx, chapa.InitializeRequest{
		Amount:      amount.StringFixed(2),
		Currency:    s.cfg.Currency,
		Email:       payer.Email,
		FirstName:   payer.FirstName,
		LastName:    payer.LastName,
		PhoneNumber: phoneNumber,
		TxRef:       txRef,
		CallbackURL: s.cfg.ChapaCallbackURL,
		ReturnURL:   s.cfg.ChapaReturnURL,
		Customization: chapa.Customization{
			Title:       "Booking Payment",
			Description: fmt.Sprintf("Payment for Booking #%s", booking.ID),
		},
	})
	if err != nil {
		s.log.Warn(ctx, "payment initiation rejected", "booking_id", bookingID, "tx_ref", txRef, "error", err)
		return nil, err
	}

	_, err = s.repomanager.Payments(s.db).Create(ctx, &models.Payment{
		BookingID:   bookingID,
		Amount:      amount,
		TxRef:       txRef,
		CheckoutURL: resp.CheckoutURL,
		Status:      models.PaymentStatusPending,
		ResponseLog: resp.Raw,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ValidationError("payment already initiated for this booking")
		}
		return nil, err
	}

	s.log.Info(ctx, "payment initiated", "booking_id", bookingID, "tx_ref", txRef, "amount", amount.StringFixed(2))
	return &InitiateResult{CheckoutURL: resp.CheckoutURL, TxRef: txRef}, nil
}

// Verify asks the provider for the transaction status and overwrites the
// stored payment with it. Unknown references are ErrorNotFound and never
// reach the provider; provider failures leave the payment unchanged.
func (s *PaymentService) Verify(ctx context.Context, txRef string) (*models.Payment, error) {
	repo := s.repomanager.Payments(s.db)
	if _, err := repo.GetByTxRef(ctx, txRef); err != nil {
		return nil, err
	}

	resp, err := s.provider.Verify(ctx, txRef)
	if err != nil {
		return nil, err
	}

	status := models.PaymentStatusFailed
	if resp.Succeeded() {
		status = models.PaymentStatusCompleted
	}

	p, err := repo.ApplyVerification(ctx, txRef, payments.Verification{
		Status:       status,
		ProviderTxID: resp.Reference,
		ResponseLog:  resp.Raw,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "payment verified", "tx_ref", txRef, "status", p.Status)
	return p, nil
}

func (s *PaymentService) List(ctx context.Context, actor *Actor) ([]*models.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.repomanager.Payments(s.db).List(ctx)
}

func (s *PaymentService) Get(ctx context.Context, actor *Actor, id string) (*models.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.repomanager.Payments(s.db).GetByID(ctx, id)
}

// Update is the administrative override of status and amount.
func (s *PaymentService) Update(ctx context.Context, actor *Actor, id string, in PaymentUpdate) (*models.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	repo := s.repomanager.Payments(s.db)
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, common.ValidationError("unknown status %q", *in.Status)
		}
		p.Status = *in.Status
	}
	if in.Amount != nil {
		if in.Amount.IsNegative() {
			return nil, common.ValidationError("amount must not be negative")
		}
		p.Amount = *in.Amount
	}
	return repo.Update(ctx, id, p.Status, p.Amount)
}

func (s *PaymentService) Delete(ctx context.Context, actor *Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.repomanager.Payments(s.db).Delete(ctx, id)
}
