package payments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/dbx"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, booking_id, amount, chapa_tx_ref, checkout_url, status, chapa_tx_id, response_log, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(row scanner) (*models.Payment, error) {
	var (
		p     models.Payment
		txID  sql.NullString
		rawLg []byte
	)
	err := row.Scan(&p.ID, &p.BookingID, &p.Amount, &p.TxRef, &p.CheckoutURL, &p.Status,
		&txID, &rawLg, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if txID.Valid {
		p.ProviderTxID = &txID.String
	}
	if len(rawLg) > 0 {
		p.ResponseLog = rawLg
	}
	return &p, nil
}

// nullableJSON keeps an empty log as SQL NULL instead of invalid JSONB.
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func (r *PostgresRepository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	query :=
		`INSERT INTO payments (booking_id, amount, chapa_tx_ref, checkout_url, status, response_log)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, payment.BookingID, payment.Amount, payment.TxRef,
		payment.CheckoutURL, payment.Status, nullableJSON(payment.ResponseLog)).
		Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		case dbx.IsForeignKeyViolation(err), dbx.IsInvalidTextRepresentation(err):
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return payment, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.Payment, error) {
	query := `SELECT ` + selectColumns + ` FROM payments WHERE ` + where + ` = $1`

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if dbx.IsNoRow(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PostgresRepository) GetByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	return r.getOne(ctx, "chapa_tx_ref", txRef)
}

func (r *PostgresRepository) GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error) {
	return r.getOne(ctx, "booking_id", bookingID)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Payment, error) {
	query := `SELECT ` + selectColumns + ` FROM payments ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ApplyVerification(ctx context.Context, txRef string, v Verification) (*models.Payment, error) {
	query :=
		`UPDATE payments
		 SET status = $2, chapa_tx_id = NULLIF($3, ''), response_log = $4, updated_at = now()
		 WHERE chapa_tx_ref = $1
		 RETURNING ` + selectColumns

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, txRef, v.Status, v.ProviderTxID, nullableJSON(v.ResponseLog)))
	if err != nil {
		if dbx.IsNoRow(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, status models.PaymentStatus, amount decimal.Decimal) (*models.Payment, error) {
	query :=
		`UPDATE payments
		 SET status = $2, amount = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + selectColumns

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id, status, amount))
	if err != nil {
		if dbx.IsNoRow(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
