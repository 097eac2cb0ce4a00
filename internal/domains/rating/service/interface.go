package service

import (
	"context"

	"github.com/google/uuid"

	"movies-backend/internal/domains/rating/model"
)

type RatingService interface {
	RateMovie(ctx context.Context, movieID, userID uuid.UUID, rating int) error
	DeleteRating(ctx context.Context, movieID, userID uuid.UUID) error
	GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]model.MovieRating, error)
}
