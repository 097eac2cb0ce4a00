package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movies-backend/internal/domains/movie/model"
	ratingmodel "movies-backend/internal/domains/rating/model"
)

// =====================================================
// FAKES
// =====================================================

// fakeMovieRepo is an in-memory MovieRepository that appends every call to a
// shared event log, so tests can assert both call counts and ordering
// relative to cache eviction.
type fakeMovieRepo struct {
	movies map[uuid.UUID]model.Movie
	log    *[]string
}

func newFakeMovieRepo(log *[]string) *fakeMovieRepo {
	return &fakeMovieRepo{movies: make(map[uuid.UUID]model.Movie), log: log}
}

func (r *fakeMovieRepo) record(event string) {
	*r.log = append(*r.log, event)
}

func (r *fakeMovieRepo) Create(ctx context.Context, movie *model.Movie) error {
	r.record("repo:create")
	if _, ok := r.movies[movie.ID]; ok {
		return model.ErrMovieExists
	}
	r.movies[movie.ID] = *movie
	return nil
}

func (r *fakeMovieRepo) GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*model.Movie, error) {
	r.record("repo:getbyid")
	movie, ok := r.movies[id]
	if !ok {
		return nil, model.ErrMovieNotFound
	}
	return &movie, nil
}

func (r *fakeMovieRepo) GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*model.Movie, error) {
	r.record("repo:getbyslug")
	for _, movie := range r.movies {
		if movie.Slug == slug {
			found := movie
			return &found, nil
		}
	}
	return nil, model.ErrMovieNotFound
}

func (r *fakeMovieRepo) GetAll(ctx context.Context, options model.GetAllMoviesOptions) ([]model.Movie, error) {
	r.record("repo:getall")
	movies := make([]model.Movie, 0, len(r.movies))
	for _, movie := range r.movies {
		movies = append(movies, movie)
	}
	return movies, nil
}

func (r *fakeMovieRepo) Count(ctx context.Context, title *string, year *int) (int, error) {
	r.record("repo:count")
	return len(r.movies), nil
}

func (r *fakeMovieRepo) Update(ctx context.Context, movie *model.Movie) error {
	r.record("repo:update")
	if _, ok := r.movies[movie.ID]; !ok {
		return model.ErrMovieNotFound
	}
	r.movies[movie.ID] = *movie
	return nil
}

func (r *fakeMovieRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.record("repo:delete")
	if _, ok := r.movies[id]; !ok {
		return model.ErrMovieNotFound
	}
	delete(r.movies, id)
	return nil
}

func (r *fakeMovieRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	r.record("repo:exists")
	_, ok := r.movies[id]
	return ok, nil
}

type fakeRatingRepo struct {
	rating *float64
	view   ratingmodel.RatingView
}

func (r *fakeRatingRepo) RateMovie(ctx context.Context, movieID, userID uuid.UUID, rating int) error {
	return nil
}

func (r *fakeRatingRepo) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeRatingRepo) GetRating(ctx context.Context, movieID uuid.UUID) (*float64, error) {
	return r.rating, nil
}

func (r *fakeRatingRepo) GetRatingWithUser(ctx context.Context, movieID, userID uuid.UUID) (ratingmodel.RatingView, error) {
	return r.view, nil
}

func (r *fakeRatingRepo) GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]ratingmodel.MovieRating, error) {
	return nil, nil
}

// fakeCache stores JSON blobs in memory and logs evictions into the shared
// event log.
type fakeCache struct {
	entries  map[string][]byte
	tags     map[string][]string
	log      *[]string
	evictErr error
}

func newFakeCache(log *[]string) *fakeCache {
	return &fakeCache{
		entries: make(map[string][]byte),
		tags:    make(map[string][]string),
		log:     log,
	}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) SetWithTags(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	for _, tag := range tags {
		c.tags[tag] = append(c.tags[tag], key)
	}
	return nil
}

func (c *fakeCache) EvictTag(ctx context.Context, tag string) error {
	*c.log = append(*c.log, "cache:evict")
	if c.evictErr != nil {
		return c.evictErr
	}
	for _, key := range c.tags[tag] {
		delete(c.entries, key)
	}
	delete(c.tags, tag)
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

// =====================================================
// FIXTURE
// =====================================================

type movieServiceFixture struct {
	service    MovieService
	movieRepo  *fakeMovieRepo
	ratingRepo *fakeRatingRepo
	cache      *fakeCache
	log        *[]string
}

func newMovieServiceFixture() *movieServiceFixture {
	log := &[]string{}
	movieRepo := newFakeMovieRepo(log)
	ratingRepo := &fakeRatingRepo{}
	cacheStore := newFakeCache(log)
	return &movieServiceFixture{
		service:    NewMovieService(movieRepo, ratingRepo, cacheStore, time.Minute),
		movieRepo:  movieRepo,
		ratingRepo: ratingRepo,
		cache:      cacheStore,
		log:        log,
	}
}

func (f *movieServiceFixture) events() []string { return *f.log }

func (f *movieServiceFixture) countEvents(name string) int {
	n := 0
	for _, event := range f.events() {
		if event == name {
			n++
		}
	}
	return n
}

func (f *movieServiceFixture) seed(t *testing.T, title string, year int, genres ...string) *model.Movie {
	t.Helper()
	movie := model.NewMovie(title, year, genres)
	f.movieRepo.movies[movie.ID] = *movie
	return movie
}

func listOptions() model.GetAllMoviesOptions {
	return model.GetAllMoviesOptions{Page: model.DefaultPage, PageSize: model.DefaultPageSize}
}

// =====================================================
// CREATE
// =====================================================

func TestCreateInvalidMovieNeverReachesRepository(t *testing.T) {
	f := newMovieServiceFixture()

	movie := &model.Movie{ID: uuid.New(), Title: "", YearOfRelease: 1500}
	err := f.service.Create(context.Background(), movie)

	require.Error(t, err)
	verrs, ok := err.(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, verrs, "title")
	assert.Contains(t, verrs, "yearOfRelease")
	assert.Contains(t, verrs, "genres")

	assert.Zero(t, f.countEvents("repo:create"))
	assert.Zero(t, f.countEvents("cache:evict"))
}

func TestCreateRejectsTakenSlug(t *testing.T) {
	f := newMovieServiceFixture()
	f.seed(t, "Inception", 2010, "Sci-Fi")

	duplicate := model.NewMovie("Inception", 2011, []string{"Thriller"})
	err := f.service.Create(context.Background(), duplicate)

	require.Error(t, err)
	verrs, ok := err.(validation.Errors)
	require.True(t, ok)
	require.Contains(t, verrs, "slug")
	assert.ErrorIs(t, verrs["slug"], model.ErrSlugTaken)

	assert.Zero(t, f.countEvents("repo:create"))
}

func TestCreateEvictsCacheAfterWrite(t *testing.T) {
	f := newMovieServiceFixture()

	movie := model.NewMovie("Nick the Greek", 2022, []string{"Comedy"})
	require.NoError(t, f.service.Create(context.Background(), movie))

	events := f.events()
	createAt, evictAt := -1, -1
	for i, event := range events {
		switch event {
		case "repo:create":
			createAt = i
		case "cache:evict":
			evictAt = i
		}
	}
	require.NotEqual(t, -1, createAt)
	require.NotEqual(t, -1, evictAt)
	assert.Greater(t, evictAt, createAt, "eviction must follow the committed write")
	assert.Equal(t, 1, f.countEvents("cache:evict"))
}

func TestCreateSucceedsWhenEvictionFails(t *testing.T) {
	f := newMovieServiceFixture()
	f.cache.evictErr = errors.New("redis down")

	movie := model.NewMovie("Dune", 2021, []string{"Sci-Fi"})
	assert.NoError(t, f.service.Create(context.Background(), movie))
	assert.Contains(t, f.movieRepo.movies, movie.ID)
}

// =====================================================
// READS
// =====================================================

func TestGetAllRejectsUnknownSortFieldBeforeStorage(t *testing.T) {
	f := newMovieServiceFixture()

	field := "rating"
	options := listOptions()
	options.SortField = &field

	_, _, err := f.service.GetAll(context.Background(), options)
	require.Error(t, err)
	assert.Contains(t, err.(validation.Errors), "SortField")
	assert.Empty(t, f.events(), "invalid options must not touch repository or cache")
}

func TestGetAllServesSecondReadFromCache(t *testing.T) {
	f := newMovieServiceFixture()
	f.seed(t, "Alpha", 2020, "Drama")

	movies, total, err := f.service.GetAll(context.Background(), listOptions())
	require.NoError(t, err)
	assert.Len(t, movies, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, f.countEvents("repo:getall"))

	movies, total, err = f.service.GetAll(context.Background(), listOptions())
	require.NoError(t, err)
	assert.Len(t, movies, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, f.countEvents("repo:getall"), "second read must come from cache")
	assert.Equal(t, 1, f.countEvents("repo:count"))
}

func TestGetByIDReadThrough(t *testing.T) {
	f := newMovieServiceFixture()
	seeded := f.seed(t, "Beta", 2019, "Action")

	movie, err := f.service.GetByID(context.Background(), seeded.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, seeded.Title, movie.Title)
	assert.Equal(t, 1, f.countEvents("repo:getbyid"))

	movie, err = f.service.GetByID(context.Background(), seeded.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, seeded.Title, movie.Title)
	assert.Equal(t, 1, f.countEvents("repo:getbyid"))
}

func TestGetByIDMissingMovie(t *testing.T) {
	f := newMovieServiceFixture()

	_, err := f.service.GetByID(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, model.ErrMovieNotFound)
}

func TestGetBySlugCachesPerViewer(t *testing.T) {
	f := newMovieServiceFixture()
	seeded := f.seed(t, "Gamma", 2018, "Drama")
	viewer := uuid.New()

	_, err := f.service.GetBySlug(context.Background(), seeded.Slug, nil)
	require.NoError(t, err)
	_, err = f.service.GetBySlug(context.Background(), seeded.Slug, &viewer)
	require.NoError(t, err)

	// Different viewers see different user ratings, so they get distinct
	// cache entries and each miss hits the repository.
	assert.Equal(t, 2, f.countEvents("repo:getbyslug"))
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func TestUpdateMissingMovie(t *testing.T) {
	f := newMovieServiceFixture()

	movie := model.NewMovie("Ghost", 2020, []string{"Horror"})
	_, err := f.service.Update(context.Background(), movie, nil)

	assert.ErrorIs(t, err, model.ErrMovieNotFound)
	assert.Zero(t, f.countEvents("repo:update"))
	assert.Zero(t, f.countEvents("cache:evict"))
}

func TestUpdateAllowsOwnSlug(t *testing.T) {
	f := newMovieServiceFixture()
	seeded := f.seed(t, "Delta", 2017, "Drama")

	updated := model.NewMovie("Delta", 2018, []string{"Drama", "War"})
	updated.ID = seeded.ID

	result, err := f.service.Update(context.Background(), updated, nil)
	require.NoError(t, err)
	assert.Equal(t, 2018, result.YearOfRelease)
	assert.Equal(t, 1, f.countEvents("repo:update"))
}

func TestUpdateAttachesViewerRating(t *testing.T) {
	f := newMovieServiceFixture()
	seeded := f.seed(t, "Epsilon", 2016, "Drama")

	avg := 4.5
	mine := 5
	f.ratingRepo.view = ratingmodel.RatingView{Rating: &avg, UserRating: &mine}

	updated := model.NewMovie("Epsilon", 2016, []string{"Drama"})
	updated.ID = seeded.ID

	viewer := uuid.New()
	result, err := f.service.Update(context.Background(), updated, &viewer)
	require.NoError(t, err)
	require.NotNil(t, result.Rating)
	assert.Equal(t, 4.5, *result.Rating)
	require.NotNil(t, result.UserRating)
	assert.Equal(t, 5, *result.UserRating)
}

func TestUpdateEvictsCache(t *testing.T) {
	f := newMovieServiceFixture()
	seeded := f.seed(t, "Zeta", 2015, "Drama")

	updated := model.NewMovie("Zeta", 2015, []string{"Drama"})
	updated.ID = seeded.ID

	_, err := f.service.Update(context.Background(), updated, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.countEvents("cache:evict"))
}

func TestDeleteEvictsCache(t *testing.T) {
	f := newMovieServiceFixture()
	seeded := f.seed(t, "Eta", 2014, "Drama")

	require.NoError(t, f.service.Delete(context.Background(), seeded.ID))
	assert.Equal(t, 1, f.countEvents("cache:evict"))
}

func TestDeleteMissingMovieDoesNotEvict(t *testing.T) {
	f := newMovieServiceFixture()

	err := f.service.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrMovieNotFound)
	assert.Zero(t, f.countEvents("cache:evict"))
}

// =====================================================
// CACHE CONSISTENCY
// =====================================================

func TestMutationInvalidatesCachedListing(t *testing.T) {
	f := newMovieServiceFixture()
	seeded := f.seed(t, "Theta", 2013, "Drama")

	movies, _, err := f.service.GetAll(context.Background(), listOptions())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Theta", movies[0].Title)

	renamed := model.NewMovie("Theta Reborn", 2013, []string{"Drama"})
	renamed.ID = seeded.ID
	_, err = f.service.Update(context.Background(), renamed, nil)
	require.NoError(t, err)

	movies, _, err = f.service.GetAll(context.Background(), listOptions())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Theta Reborn", movies[0].Title, "stale listing must not survive a mutation")
	assert.Equal(t, 2, f.countEvents("repo:getall"))
}
