package bookings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/dbx"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `b.id, b.guest_id, b.listing_id, b.check_in, b.check_out, b.guests, b.created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner, extra ...any) (*models.Booking, error) {
	b := &models.Booking{}
	dest := append([]any{&b.ID, &b.GuestID, &b.ListingID, &b.CheckIn, &b.CheckOut, &b.Guests, &b.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	query :=
		`INSERT INTO bookings (guest_id, listing_id, check_in, check_out, guests)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, booking.GuestID, booking.ListingID,
		booking.CheckIn, booking.CheckOut, booking.Guests).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return booking, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings b WHERE b.id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if dbx.IsNoRow(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

const detailsFrom = `
	FROM bookings b
	JOIN listings l ON l.id = b.listing_id
	JOIN accounts a ON a.id = b.guest_id`

func scanDetails(row scanner) (*models.BookingDetails, error) {
	d := &models.BookingDetails{}
	b, err := scanBooking(row, &d.ListingTitle, &d.PricePerNight, &d.GuestEmail)
	if err != nil {
		return nil, err
	}
	d.Booking = *b
	return d, nil
}

func (r *PostgresRepository) GetDetails(ctx context.Context, id string) (*models.BookingDetails, error) {
	query := `SELECT ` + selectColumns + `, l.title, l.price_per_night, a.email` + detailsFrom + ` WHERE b.id = $1`

	d, err := scanDetails(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if dbx.IsNoRow(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) List(ctx context.Context, guestID string) ([]*models.BookingDetails, error) {
	query := `SELECT ` + selectColumns + `, l.title, l.price_per_night, a.email` + detailsFrom
	var args []any
	if guestID != "" {
		query += ` WHERE b.guest_id = $1`
		args = append(args, guestID)
	}
	query += ` ORDER BY b.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.BookingDetails, 0)
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, booking *models.Booking) error {
	query :=
		`UPDATE bookings
		 SET listing_id = $2, check_in = $3, check_out = $4, guests = $5
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, booking.ID, booking.ListingID,
		booking.CheckIn, booking.CheckOut, booking.Guests)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
