package service

import (
	"context"

	"github.com/google/uuid"

	"movies-backend/internal/domains/movie/model"
)

// MovieService orchestrates the repositories: validation gate in front,
// rating enrichment and cache coordination behind.
type MovieService interface {
	Create(ctx context.Context, movie *model.Movie) error
	GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*model.Movie, error)
	GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*model.Movie, error)
	GetAll(ctx context.Context, options model.GetAllMoviesOptions) ([]model.Movie, int, error)
	Update(ctx context.Context, movie *model.Movie, userID *uuid.UUID) (*model.Movie, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
