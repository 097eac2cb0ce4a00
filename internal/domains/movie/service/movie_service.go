package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"movies-backend/internal/domains/movie/model"
	movierepo "movies-backend/internal/domains/movie/repository"
	ratingrepo "movies-backend/internal/domains/rating/repository"
	"movies-backend/pkg/cache"
	"movies-backend/pkg/logger"
)

// MoviesCacheTag groups every cached catalog read. One mutation can stale
// many query shapes at once, so eviction is tag-wide.
const MoviesCacheTag = "movies"

type movieService struct {
	movieRepo  movierepo.MovieRepository
	ratingRepo ratingrepo.RatingRepository
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewMovieService(
	movieRepo movierepo.MovieRepository,
	ratingRepo ratingrepo.RatingRepository,
	cacheStore cache.Cache,
	cacheTTL time.Duration,
) MovieService {
	return &movieService{
		movieRepo:  movieRepo,
		ratingRepo: ratingRepo,
		cache:      cacheStore,
		cacheTTL:   cacheTTL,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *movieService) Create(ctx context.Context, movie *model.Movie) error {
	if err := s.validateMovie(ctx, movie); err != nil {
		return err
	}

	if err := s.movieRepo.Create(ctx, movie); err != nil {
		return err
	}

	// Eviction only after the transaction committed. A failed eviction is
	// logged but does not undo the already-committed write.
	s.evictMoviesTag(ctx)

	return nil
}

// =====================================================
// READS (cache-backed)
// =====================================================

func (s *movieService) GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*model.Movie, error) {
	key := oneMovieCacheKey("id", id.String(), userID)

	var cached model.Movie
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.Error("cache get failed", err)
	} else if found {
		return &cached, nil
	}

	movie, err := s.movieRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	s.storeCached(ctx, key, movie)
	return movie, nil
}

func (s *movieService) GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*model.Movie, error) {
	key := oneMovieCacheKey("slug", slug, userID)

	var cached model.Movie
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.Error("cache get failed", err)
	} else if found {
		return &cached, nil
	}

	movie, err := s.movieRepo.GetBySlug(ctx, slug, userID)
	if err != nil {
		return nil, err
	}

	s.storeCached(ctx, key, movie)
	return movie, nil
}

// movieListing is the cached shape of one list read.
type movieListing struct {
	Movies []model.Movie `json:"movies"`
	Total  int           `json:"total"`
}

// GetAll validates the options wholesale before anything touches storage,
// then serves the merged listing through the cache.
func (s *movieService) GetAll(ctx context.Context, options model.GetAllMoviesOptions) ([]model.Movie, int, error) {
	if err := options.Validate(); err != nil {
		return nil, 0, err
	}

	key := options.CacheKey()

	var cached movieListing
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.Error("cache get failed", err)
	} else if found {
		return cached.Movies, cached.Total, nil
	}

	movies, err := s.movieRepo.GetAll(ctx, options)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.movieRepo.Count(ctx, options.Title, options.Year)
	if err != nil {
		return nil, 0, err
	}

	s.storeCached(ctx, key, movieListing{Movies: movies, Total: total})
	return movies, total, nil
}

// =====================================================
// UPDATE
// =====================================================

// Update confirms existence first, then mutates, then re-attaches the
// rating view the repository's update cannot know about.
func (s *movieService) Update(ctx context.Context, movie *model.Movie, userID *uuid.UUID) (*model.Movie, error) {
	if err := s.validateMovie(ctx, movie); err != nil {
		return nil, err
	}

	exists, err := s.movieRepo.ExistsByID(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrMovieNotFound
	}

	if err := s.movieRepo.Update(ctx, movie); err != nil {
		return nil, err
	}

	if userID == nil {
		rating, err := s.ratingRepo.GetRating(ctx, movie.ID)
		if err != nil {
			return nil, err
		}
		movie.Rating = rating
	} else {
		view, err := s.ratingRepo.GetRatingWithUser(ctx, movie.ID, *userID)
		if err != nil {
			return nil, err
		}
		movie.Rating = view.Rating
		movie.UserRating = view.UserRating
	}

	s.evictMoviesTag(ctx)

	return movie, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *movieService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.movieRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.evictMoviesTag(ctx)

	return nil
}

// =====================================================
// HELPERS
// =====================================================

// validateMovie combines the structural rules with the slug uniqueness
// check so the caller gets every violation in one pass. A movie colliding
// with its own slug (same id) is fine; that is just an update.
func (s *movieService) validateMovie(ctx context.Context, movie *model.Movie) error {
	violations := validation.Errors{}

	if err := movie.Validate(); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return err
		}
		for field, ferr := range verrs {
			violations[field] = ferr
		}
	}

	if movie.Slug != "" {
		existing, err := s.movieRepo.GetBySlug(ctx, movie.Slug, nil)
		if err != nil && !errors.Is(err, model.ErrMovieNotFound) {
			return err
		}
		if existing != nil && existing.ID != movie.ID {
			violations["slug"] = model.ErrSlugTaken
		}
	}

	if len(violations) > 0 {
		return violations
	}

	return nil
}

func (s *movieService) storeCached(ctx context.Context, key string, value interface{}) {
	if err := s.cache.SetWithTags(ctx, key, value, s.cacheTTL, MoviesCacheTag); err != nil {
		logger.Error("cache set failed", err)
	}
}

func (s *movieService) evictMoviesTag(ctx context.Context) {
	if err := s.cache.EvictTag(ctx, MoviesCacheTag); err != nil {
		logger.Error("cache eviction failed after mutation", err)
	}
}

func oneMovieCacheKey(kind, key string, userID *uuid.UUID) string {
	viewer := "anon"
	if userID != nil {
		viewer = userID.String()
	}
	return fmt.Sprintf("movies:%s:%s:user:%s", kind, key, viewer)
}
