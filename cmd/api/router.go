package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"movies-backend/internal/shared/middleware"
	"movies-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupMovieRoutes(v1, c)
		setupRatingRoutes(v1, c)
	}

	return router
}

func setupMovieRoutes(v1 *gin.RouterGroup, c *container.Container) {
	movies := v1.Group("/movies")
	{
		movies.GET("", middleware.OptionalAuth(c.JWTManager), c.MovieHandler.GetAllMovies)
		// The :id segment doubles as a slug for reads; gin requires one
		// param name per position, so GetMovie disambiguates itself.
		movies.GET("/:id", middleware.OptionalAuth(c.JWTManager), c.MovieHandler.GetMovie)

		movies.POST("", middleware.RequireAuth(c.JWTManager), c.MovieHandler.CreateMovie)
		movies.PUT("/:id", middleware.RequireAuth(c.JWTManager), c.MovieHandler.UpdateMovie)
		movies.DELETE("/:id",
			middleware.RequireAuth(c.JWTManager),
			middleware.RequireAdmin(),
			c.MovieHandler.DeleteMovie,
		)
	}
}

func setupRatingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := middleware.RequireAuth(c.JWTManager)

	v1.PUT("/movies/:id/ratings", authed, c.RatingHandler.RateMovie)
	v1.DELETE("/movies/:id/ratings", authed, c.RatingHandler.DeleteRating)
	v1.GET("/ratings/me", authed, c.RatingHandler.GetUserRatings)
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
			return
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "cache": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
