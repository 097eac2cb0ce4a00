package service

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movies-backend/internal/domains/rating/model"
)

type ratingKey struct {
	movieID uuid.UUID
	userID  uuid.UUID
}

// fakeRatingRepo keeps the one-row-per-(user, movie) ledger in a map, which
// gives upsert semantics for free.
type fakeRatingRepo struct {
	ratings map[ratingKey]int
	rateErr error
	calls   int
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[ratingKey]int)}
}

func (r *fakeRatingRepo) RateMovie(ctx context.Context, movieID, userID uuid.UUID, rating int) error {
	r.calls++
	if r.rateErr != nil {
		return r.rateErr
	}
	r.ratings[ratingKey{movieID, userID}] = rating
	return nil
}

func (r *fakeRatingRepo) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	r.calls++
	key := ratingKey{movieID, userID}
	if _, ok := r.ratings[key]; !ok {
		return false, nil
	}
	delete(r.ratings, key)
	return true, nil
}

func (r *fakeRatingRepo) GetRating(ctx context.Context, movieID uuid.UUID) (*float64, error) {
	return nil, nil
}

func (r *fakeRatingRepo) GetRatingWithUser(ctx context.Context, movieID, userID uuid.UUID) (model.RatingView, error) {
	return model.RatingView{}, nil
}

func (r *fakeRatingRepo) GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]model.MovieRating, error) {
	ratings := make([]model.MovieRating, 0)
	for key, rating := range r.ratings {
		if key.userID == userID {
			ratings = append(ratings, model.MovieRating{MovieID: key.movieID, Rating: rating})
		}
	}
	return ratings, nil
}

type spyCache struct {
	evictions []string
	evictErr  error
}

func (c *spyCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (c *spyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *spyCache) SetWithTags(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	return nil
}

func (c *spyCache) EvictTag(ctx context.Context, tag string) error {
	c.evictions = append(c.evictions, tag)
	return c.evictErr
}

func (c *spyCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (c *spyCache) Ping(ctx context.Context) error { return nil }

func TestRateMovieRejectsOutOfRangeRating(t *testing.T) {
	repo := newFakeRatingRepo()
	cacheSpy := &spyCache{}
	svc := NewRatingService(repo, cacheSpy)

	for _, rating := range []int{0, -1, 6, 100} {
		err := svc.RateMovie(context.Background(), uuid.New(), uuid.New(), rating)
		require.Error(t, err, "rating: %d", rating)
		_, ok := err.(validation.Errors)
		assert.True(t, ok, "rating: %d", rating)
	}

	assert.Zero(t, repo.calls, "invalid ratings must never reach the ledger")
	assert.Empty(t, cacheSpy.evictions)
}

// Aggregate reads are not snapshot-isolated against concurrent rating
// writes; a cached movie view can briefly trail the ledger until the next
// eviction lands. These tests only assert the eviction contract.
func TestRateMovieUpsertsAndEvicts(t *testing.T) {
	repo := newFakeRatingRepo()
	cacheSpy := &spyCache{}
	svc := NewRatingService(repo, cacheSpy)

	movieID := uuid.New()
	userID := uuid.New()

	require.NoError(t, svc.RateMovie(context.Background(), movieID, userID, 3))
	require.NoError(t, svc.RateMovie(context.Background(), movieID, userID, 5))

	assert.Equal(t, 5, repo.ratings[ratingKey{movieID, userID}], "re-rate overwrites in place")
	assert.Len(t, repo.ratings, 1)
	assert.Equal(t, []string{MoviesCacheTag, MoviesCacheTag}, cacheSpy.evictions)
}

func TestRateMovieMissingMovieDoesNotEvict(t *testing.T) {
	repo := newFakeRatingRepo()
	repo.rateErr = model.ErrMovieNotFound
	cacheSpy := &spyCache{}
	svc := NewRatingService(repo, cacheSpy)

	err := svc.RateMovie(context.Background(), uuid.New(), uuid.New(), 4)
	assert.ErrorIs(t, err, model.ErrMovieNotFound)
	assert.Empty(t, cacheSpy.evictions)
}

func TestRateMovieSucceedsWhenEvictionFails(t *testing.T) {
	repo := newFakeRatingRepo()
	cacheSpy := &spyCache{evictErr: errors.New("redis down")}
	svc := NewRatingService(repo, cacheSpy)

	assert.NoError(t, svc.RateMovie(context.Background(), uuid.New(), uuid.New(), 4))
}

func TestDeleteRatingMissing(t *testing.T) {
	repo := newFakeRatingRepo()
	cacheSpy := &spyCache{}
	svc := NewRatingService(repo, cacheSpy)

	err := svc.DeleteRating(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, model.ErrRatingNotFound)
	assert.Empty(t, cacheSpy.evictions)
}

func TestDeleteRatingEvicts(t *testing.T) {
	repo := newFakeRatingRepo()
	cacheSpy := &spyCache{}
	svc := NewRatingService(repo, cacheSpy)

	movieID := uuid.New()
	userID := uuid.New()
	require.NoError(t, svc.RateMovie(context.Background(), movieID, userID, 4))

	require.NoError(t, svc.DeleteRating(context.Background(), movieID, userID))
	assert.Empty(t, repo.ratings)
	assert.Len(t, cacheSpy.evictions, 2)
}

func TestGetRatingsForUserScopesToCaller(t *testing.T) {
	repo := newFakeRatingRepo()
	cacheSpy := &spyCache{}
	svc := NewRatingService(repo, cacheSpy)

	alice := uuid.New()
	bob := uuid.New()
	require.NoError(t, svc.RateMovie(context.Background(), uuid.New(), alice, 4))
	require.NoError(t, svc.RateMovie(context.Background(), uuid.New(), alice, 2))
	require.NoError(t, svc.RateMovie(context.Background(), uuid.New(), bob, 5))

	ratings, err := svc.GetRatingsForUser(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
}
