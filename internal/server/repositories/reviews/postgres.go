package reviews

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

const selectColumns = `id, listing_id, user_id, rating, comment, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(row scanner) (*models.Review, error) {
	rv := &models.Review{}
	if err := row.Scan(&rv.ID, &rv.ListingID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	query :=
		`INSERT INTO reviews (listing_id, user_id, rating, comment)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, review.ListingID, review.UserID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return review, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	query := `SELECT ` + selectColumns + ` FROM reviews WHERE id = $1`

	rv, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if dbx.IsNoRow(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rv, nil
}

func (r *PostgresRepository) List(ctx context.Context, listingID string) ([]*models.Review, error) {
	query := `SELECT ` + selectColumns + ` FROM reviews`
	var args []any
	if listingID != "" {
		query += ` WHERE listing_id = $1`
		args = append(args, listingID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return make([]*models.Review, 0), nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, review *models.Review) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET rating = $2, comment = $3 WHERE id = $1`,
		review.ID, review.Rating, review.Comment)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
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
