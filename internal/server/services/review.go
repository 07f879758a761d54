package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/repomanager"
)

type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager) *ReviewService {
	return &ReviewService{db: db, repomanager: m}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return common.ValidationError("rating must be between 1 and 5")
	}
	return nil
}

func (s *ReviewService) Create(ctx context.Context, actor *Actor, listingID string, rating int, comment string) (*models.Review, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Listings(s.db).GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	return s.repomanager.Reviews(s.db).Create(ctx, &models.Review{
		ListingID: listingID,
		UserID:    actor.ID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	})
}

func (s *ReviewService) List(ctx context.Context, listingID string) ([]*models.Review, error) {
	return s.repomanager.Reviews(s.db).List(ctx, listingID)
}

func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	return s.repomanager.Reviews(s.db).GetByID(ctx, id)
}

func (s *ReviewService) Update(ctx context.Context, actor *Actor, id string, rating *int, comment *string) (*models.Review, error) {
	rv, err := s.authored(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if rating != nil {
		if err := validateRating(*rating); err != nil {
			return nil, err
		}
		rv.Rating = *rating
	}
	if comment != nil {
		rv.Comment = strings.TrimSpace(*comment)
	}
	if err := s.repomanager.Reviews(s.db).Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor *Actor, id string) error {
	if _, err := s.authored(ctx, actor, id); err != nil {
		return err
	}
	return s.repomanager.Reviews(s.db).Delete(ctx, id)
}

func (s *ReviewService) authored(ctx context.Context, actor *Actor, id string) (*models.Review, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	rv, err := s.repomanager.Reviews(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(rv.UserID) {
		return nil, common.ErrorForbidden
	}
	return rv, nil
}
