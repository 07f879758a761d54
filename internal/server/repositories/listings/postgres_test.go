package listings

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

var listingColumns = []string{"id", "host_id", "title", "description", "location", "price_per_night", "available", "photo_key", "created_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	price := decimal.RequireFromString("100.00")
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+listings\s*\(host_id,.*RETURNING\s+id,\s*created_at$`).
		WithArgs("h-1", "Ocean View Condo", "Sea breeze", "Mombasa", price, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("l-1", time.Now()))

	l, err := repo.Create(context.Background(), &models.Listing{
		HostID: "h-1", Title: "Ocean View Condo", Description: "Sea breeze",
		Location: "Mombasa", PricePerNight: price, Available: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "l-1", l.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownHost(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^INSERT INTO listings`).WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), &models.Listing{HostID: "nobody"})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM listings WHERE id = \$1$`).WithArgs("l-1").
		WillReturnRows(sqlmock.NewRows(listingColumns).
			AddRow("l-1", "h-1", "Urban Loft", "", "Nairobi", "120.50", true, "", time.Now()))
	mock.ExpectQuery(`FROM listings WHERE id = \$1$`).WithArgs("l-2").WillReturnError(sql.ErrNoRows)

	l, err := repo.GetByID(context.Background(), "l-1")
	require.NoError(t, err)
	assert.True(t, l.PricePerNight.Equal(decimal.RequireFromString("120.5")))
	assert.Equal(t, "Urban Loft", l.Title)

	_, err = repo.GetByID(context.Background(), "l-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_BuildsFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM listings WHERE host_id = \$1 AND location ILIKE \$2 AND available ORDER BY created_at DESC$`).
		WithArgs("h-1", "Kisumu").
		WillReturnRows(sqlmock.NewRows(listingColumns).
			AddRow("l-1", "h-1", "Countryside Retreat", "", "Kisumu", "80", true, "", time.Now()))

	got, err := repo.List(context.Background(), Filter{HostID: "h-1", Location: "Kisumu", AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Countryside Retreat", got[0].Title)
}

func TestList_NoFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM listings ORDER BY created_at DESC$`).
		WillReturnRows(sqlmock.NewRows(listingColumns))

	got, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestUpdateAndPhotoKey(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+listings\s+SET\s+title`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE listings SET photo_key = \$2 WHERE id = \$1$`).
		WithArgs("l-1", "listings/l-1/photo").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), &models.Listing{ID: "l-1"}))
	assert.ErrorIs(t, repo.SetPhotoKey(context.Background(), "l-1", "listings/l-1/photo"), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE FROM listings WHERE id = \$1$`).WithArgs("l-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE FROM listings`).WithArgs("l-1").WillReturnError(errors.New("boom"))

	require.NoError(t, repo.Delete(context.Background(), "l-1"))
	assert.ErrorContains(t, repo.Delete(context.Background(), "l-1"), "db error: boom")
}

func TestMalformedID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	badUUID := &pgconn.PgError{Code: "22P02"}
	mock.ExpectQuery(`FROM listings WHERE id = \$1$`).WithArgs("7").WillReturnError(badUUID)
	mock.ExpectExec(`^DELETE FROM listings`).WithArgs("7").WillReturnError(badUUID)
	mock.ExpectExec(`^UPDATE listings SET photo_key`).WillReturnError(badUUID)
	mock.ExpectQuery(`FROM listings WHERE host_id = \$1`).WithArgs("host-x").WillReturnError(badUUID)

	ctx := context.Background()
	_, err := repo.GetByID(ctx, "7")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "7"), common.ErrorNotFound)
	assert.ErrorIs(t, repo.SetPhotoKey(ctx, "7", "k"), common.ErrorNotFound)

	items, err := repo.List(ctx, Filter{HostID: "host-x"})
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}
