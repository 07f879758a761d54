package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/listings"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/travelapp/internal/server/storage"
	"github.com/shopspring/decimal"
)

// newPhotoKey is a seam for tests.
var newPhotoKey = storage.NewPhotoKey

// maxPrice is the first value NUMERIC(10,2) cannot hold.
var maxPrice = decimal.New(1, 8)

type ListingInput struct {
	// HostID is honoured for admins only; hosts always own what they create.
	HostID        string
	Title         string
	Description   string
	Location      string
	PricePerNight decimal.Decimal
	Available     *bool
}

type ListingUpdate struct {
	Title         *string
	Description   *string
	Location      *string
	PricePerNight *decimal.Decimal
	Available     *bool
}

// PhotoUpload is where and under which key the client uploads a photo.
type PhotoUpload struct {
	Key string
	URL string
}

type ListingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	photos      storage.Presigner
}

func NewListingService(db *sql.DB, m repomanager.RepositoryManager, photos storage.Presigner) *ListingService {
	return &ListingService{db: db, repomanager: m, photos: photos}
}

func validateListing(l *models.Listing) error {
	if l.Title == "" {
		return common.ValidationError("title is required")
	}
	if l.Location == "" {
		return common.ValidationError("location is required")
	}
	if l.PricePerNight.IsNegative() {
		return common.ValidationError("price_per_night must not be negative")
	}
	if !l.PricePerNight.Equal(l.PricePerNight.Round(2)) {
		return common.ValidationError("price_per_night allows at most 2 decimal places")
	}
	if l.PricePerNight.GreaterThanOrEqual(maxPrice) {
		return common.ValidationError("price_per_night is too large")
	}
	return nil
}

func (s *ListingService) Create(ctx context.Context, actor *Actor, in ListingInput) (*models.Listing, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.CanHost() {
		return nil, common.ErrorForbidden
	}

	l := &models.Listing{
		HostID:        actor.ID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Location:      strings.TrimSpace(in.Location),
		PricePerNight: in.PricePerNight,
		Available:     true,
	}
	if actor.IsAdmin() && in.HostID != "" {
		l.HostID = in.HostID
	}
	if in.Available != nil {
		l.Available = *in.Available
	}
	if err := validateListing(l); err != nil {
		return nil, err
	}

	return s.repomanager.Listings(s.db).Create(ctx, l)
}

func (s *ListingService) List(ctx context.Context, filter listings.Filter) ([]*models.Listing, error) {
	return s.repomanager.Listings(s.db).List(ctx, filter)
}

func (s *ListingService) Get(ctx context.Context, id string) (*models.Listing, error) {
	return s.repomanager.Listings(s.db).GetByID(ctx, id)
}

// ownedListing loads the listing and checks that actor may change it.
func (s *ListingService) ownedListing(ctx context.Context, actor *Actor, id string) (*models.Listing, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.CanHost() {
		return nil, common.ErrorForbidden
	}
	l, err := s.repomanager.Listings(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(l.HostID) {
		return nil, common.ErrorForbidden
	}
	return l, nil
}

func (s *ListingService) Update(ctx context.Context, actor *Actor, id string, in ListingUpdate) (*models.Listing, error) {
	l, err := s.ownedListing(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		l.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.Location != nil {
		l.Location = strings.TrimSpace(*in.Location)
	}
	if in.PricePerNight != nil {
		l.PricePerNight = *in.PricePerNight
	}
	if in.Available != nil {
		l.Available = *in.Available
	}
	if err := validateListing(l); err != nil {
		return nil, err
	}

	if err := s.repomanager.Listings(s.db).Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ListingService) Delete(ctx context.Context, actor *Actor, id string) error {
	if _, err := s.ownedListing(ctx, actor, id); err != nil {
		return err
	}
	return s.repomanager.Listings(s.db).Delete(ctx, id)
}

// PhotoUploadURL reserves a new storage key for the listing photo and
// returns a presigned PUT URL for it. The previous photo key is replaced.
func (s *ListingService) PhotoUploadURL(ctx context.Context, actor *Actor, id string) (*PhotoUpload, error) {
	if _, err := s.ownedListing(ctx, actor, id); err != nil {
		return nil, err
	}

	key := newPhotoKey(id)
	url, err := s.photos.PresignPut(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Listings(s.db).SetPhotoKey(ctx, id, key); err != nil {
		return nil, err
	}
	return &PhotoUpload{Key: key, URL: url}, nil
}

// PhotoURL returns a presigned GET URL, or ErrorNotFound when the listing
// has no photo.
func (s *ListingService) PhotoURL(ctx context.Context, id string) (string, error) {
	l, err := s.repomanager.Listings(s.db).GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if l.PhotoKey == "" {
		return "", common.ErrorNotFound
	}
	return s.photos.PresignGet(ctx, l.PhotoKey)
}
