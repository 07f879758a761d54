// Package manage implements the administrative commands of travelctl.
package manage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/dbx"
	"github.com/dmitrijs2005/travelapp/internal/server/auth"
	"github.com/dmitrijs2005/travelapp/internal/server/config"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

const (
	SeedHostEmail    = "host@example.com"
	seedHostPassword = "admin123"
)

var (
	seedTitles    = []string{"Ocean View Condo", "Urban Loft", "Countryside Retreat", "Luxury Studio"}
	seedLocations = []string{"Nairobi", "Mombasa", "Kisumu", "Naivasha"}
)

type AdminCreator interface {
	EnsureAdmin(ctx context.Context, in services.RegisterInput) (bool, error)
}

// CreateAdmin creates the configured bootstrap admin. The password is read
// from the terminal when the configuration has none.
func CreateAdmin(ctx context.Context, accounts AdminCreator, cfg *config.Config, w io.Writer) error {
	password := cfg.AdminPassword
	if password == "" {
		fmt.Fprint(w, "Enter admin password: ")
		pw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return err
		}
		password = string(pw)
	}

	created, err := accounts.EnsureAdmin(ctx, services.RegisterInput{
		Email:       cfg.AdminEmail,
		Password:    password,
		FirstName:   cfg.AdminFirstName,
		LastName:    cfg.AdminLastName,
		PhoneNumber: cfg.AdminPhoneNumber,
	})
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(w, "Admin user created with email: %s and role: %s\n", services.NormalizeEmail(cfg.AdminEmail), models.RoleAdmin)
	} else {
		fmt.Fprintln(w, "Admin user already exists.")
	}
	return nil
}

// Seed creates (or reuses) the sample host and count random listings owned
// by it, in one transaction.
func Seed(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, count int, rng *rand.Rand, w io.Writer) error {
	if count < 1 {
		return common.ValidationError("count must be positive")
	}

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		host, err := ensureSeedHost(ctx, rm, tx)
		if err != nil {
			return err
		}

		repo := rm.Listings(tx)
		for i := 0; i < count; i++ {
			_, err := repo.Create(ctx, &models.Listing{
				HostID:        host.ID,
				Title:         fmt.Sprintf("%s #%d", seedTitles[rng.Intn(len(seedTitles))], i+1),
				Description:   "Sample property description.",
				Location:      seedLocations[rng.Intn(len(seedLocations))],
				PricePerNight: decimal.NewFromFloat(50 + rng.Float64()*250).Round(2),
				Available:     rng.Intn(2) == 1,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Seeded %d sample listings.\n", count)
	return nil
}

func ensureSeedHost(ctx context.Context, rm repomanager.RepositoryManager, tx dbx.DBTX) (*models.Account, error) {
	repo := rm.Accounts(tx)

	host, err := repo.GetByEmail(ctx, SeedHostEmail)
	if err == nil {
		return host, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(seedHostPassword)
	if err != nil {
		return nil, err
	}

	return repo.Create(ctx, &models.Account{
		Email:        SeedHostEmail,
		PasswordHash: hash,
		FirstName:    "Host",
		LastName:     "User",
		Role:         models.RoleHost,
		IsActive:     true,
	})
}
