package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/travelapp/internal/dbx"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/bookings"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/listings"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/payments"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/reviews"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Listings(db dbx.DBTX) listings.Repository
	Bookings(db dbx.DBTX) bookings.Repository
	Payments(db dbx.DBTX) payments.Repository
	Reviews(db dbx.DBTX) reviews.Repository
}
