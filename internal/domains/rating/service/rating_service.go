package service

import (
	"context"

	"github.com/google/uuid"

	"movies-backend/internal/domains/rating/model"
	"movies-backend/internal/domains/rating/repository"
	"movies-backend/pkg/cache"
	"movies-backend/pkg/logger"
)

// MoviesCacheTag matches the catalog's tag: rating mutations change the
// aggregates baked into cached movie views, so they evict the same tag.
const MoviesCacheTag = "movies"

type ratingService struct {
	ratingRepo repository.RatingRepository
	cache      cache.Cache
}

func NewRatingService(ratingRepo repository.RatingRepository, cacheStore cache.Cache) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		cache:      cacheStore,
	}
}

func (s *ratingService) RateMovie(ctx context.Context, movieID, userID uuid.UUID, rating int) error {
	req := model.RateMovieRequest{Rating: rating}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.ratingRepo.RateMovie(ctx, movieID, userID, rating); err != nil {
		return err
	}

	s.evictMoviesTag(ctx)

	return nil
}

func (s *ratingService) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) error {
	deleted, err := s.ratingRepo.DeleteRating(ctx, movieID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrRatingNotFound
	}

	s.evictMoviesTag(ctx)

	return nil
}

func (s *ratingService) GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]model.MovieRating, error) {
	return s.ratingRepo.GetRatingsForUser(ctx, userID)
}

func (s *ratingService) evictMoviesTag(ctx context.Context) {
	if err := s.cache.EvictTag(ctx, MoviesCacheTag); err != nil {
		logger.Error("cache eviction failed after rating mutation", err)
	}
}
