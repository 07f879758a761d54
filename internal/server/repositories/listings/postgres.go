package listings

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

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

const selectColumns = `id, host_id, title, description, location, price_per_night, available, photo_key, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(row scanner) (*models.Listing, error) {
	l := &models.Listing{}
	err := row.Scan(&l.ID, &l.HostID, &l.Title, &l.Description, &l.Location,
		&l.PricePerNight, &l.Available, &l.PhotoKey, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *PostgresRepository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	query :=
		`INSERT INTO listings (host_id, title, description, location, price_per_night, available)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, listing.HostID, listing.Title, listing.Description,
		listing.Location, listing.PricePerNight, listing.Available).Scan(&listing.ID, &listing.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ValidationError("host does not exist")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return listing, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query := `SELECT ` + selectColumns + ` FROM listings WHERE id = $1`

	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if dbx.IsNoRow(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]*models.Listing, error) {
	var (
		where []string
		args  []any
	)
	if filter.HostID != "" {
		args = append(args, filter.HostID)
		where = append(where, fmt.Sprintf("host_id = $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		where = append(where, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if filter.AvailableOnly {
		where = append(where, "available")
	}

	query := `SELECT ` + selectColumns + ` FROM listings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return make([]*models.Listing, 0), nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, listing *models.Listing) error {
	query :=
		`UPDATE listings
		 SET title = $2, description = $3, location = $4, price_per_night = $5, available = $6
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, listing.ID, listing.Title, listing.Description,
		listing.Location, listing.PricePerNight, listing.Available)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) SetPhotoKey(ctx context.Context, id string, key string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET photo_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
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
