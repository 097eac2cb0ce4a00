package repository

import (
	"context"

	"github.com/google/uuid"

	"movies-backend/internal/domains/movie/model"
)

// MovieRepository owns movie records and their genre sets.
type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*model.Movie, error)
	GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*model.Movie, error)
	GetAll(ctx context.Context, options model.GetAllMoviesOptions) ([]model.Movie, error)
	Count(ctx context.Context, title *string, year *int) (int, error)
	Update(ctx context.Context, movie *model.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
