package repository

import (
	"context"

	"github.com/google/uuid"

	"movies-backend/internal/domains/rating/model"
)

// RatingRepository owns the rating ledger. At most one row exists per
// (user, movie) pair; a re-rate overwrites in place.
type RatingRepository interface {
	RateMovie(ctx context.Context, movieID, userID uuid.UUID, rating int) error
	DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error)
	GetRating(ctx context.Context, movieID uuid.UUID) (*float64, error)
	GetRatingWithUser(ctx context.Context, movieID, userID uuid.UUID) (model.RatingView, error)
	GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]model.MovieRating, error)
}
