package container

import (
	"context"
	"fmt"

	"movies-backend/internal/config"
	infracache "movies-backend/internal/infrastructure/cache"
	"movies-backend/internal/infrastructure/database"
	"movies-backend/pkg/cache"
	"movies-backend/pkg/jwt"

	moviehandler "movies-backend/internal/domains/movie/handler"
	movierepo "movies-backend/internal/domains/movie/repository"
	movieservice "movies-backend/internal/domains/movie/service"
	ratinghandler "movies-backend/internal/domains/rating/handler"
	ratingrepo "movies-backend/internal/domains/rating/repository"
	ratingservice "movies-backend/internal/domains/rating/service"
)

// Container holds every dependency of the application, wired once at
// startup in strict order: config, infrastructure, repositories, services,
// handlers.
type Container struct {
	Config     *config.Config
	DB         *database.Postgres
	Cache      cache.Cache
	JWTManager *jwt.Manager

	MovieRepo  movierepo.MovieRepository
	RatingRepo ratingrepo.RatingRepository

	MovieService  movieservice.MovieService
	RatingService ratingservice.RatingService

	MovieHandler  *moviehandler.MovieHandler
	RatingHandler *ratinghandler.RatingHandler

	redisCache *infracache.RedisCache
}

func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db := database.NewPostgres(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	redisCache := infracache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	movieRepo := movierepo.NewPostgresMovieRepository(db.Pool)
	ratingRepo := ratingrepo.NewPostgresRatingRepository(db.Pool)

	movieService := movieservice.NewMovieService(movieRepo, ratingRepo, redisCache, cfg.Cache.TTL)
	ratingService := ratingservice.NewRatingService(ratingRepo, redisCache)

	return &Container{
		Config:        cfg,
		DB:            db,
		Cache:         redisCache,
		JWTManager:    jwtManager,
		MovieRepo:     movieRepo,
		RatingRepo:    ratingRepo,
		MovieService:  movieService,
		RatingService: ratingService,
		MovieHandler:  moviehandler.NewMovieHandler(movieService),
		RatingHandler: ratinghandler.NewRatingHandler(ratingService),
		redisCache:    redisCache,
	}, nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.redisCache != nil {
		_ = c.redisCache.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
