package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"movies-backend/internal/domains/movie/model"
	"movies-backend/internal/domains/movie/service"
	"movies-backend/internal/shared/middleware"
	"movies-backend/internal/shared/response"
)

type MovieHandler struct {
	movieService service.MovieService
}

func NewMovieHandler(movieService service.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// CreateMovie handles POST /movies
func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req model.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	movie := req.ToMovie()
	if err := h.movieService.Create(c.Request.Context(), movie); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, movie.ToResponse())
}

// GetMovie handles GET /movies/:id — the path segment is either the
// movie's uuid or its slug, usable interchangeably.
func (h *MovieHandler) GetMovie(c *gin.Context) {
	idOrSlug := c.Param("id")
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	var movie *model.Movie
	var err error
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		movie, err = h.movieService.GetByID(ctx, id, userID)
	} else {
		movie, err = h.movieService.GetBySlug(ctx, idOrSlug, userID)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, movie.ToResponse())
}

// GetAllMovies handles GET /movies
func (h *MovieHandler) GetAllMovies(c *gin.Context) {
	var req model.GetAllMoviesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	options := req.ToOptions(middleware.GetUserID(c))

	movies, total, err := h.movieService.GetAll(c.Request.Context(), options)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, model.ToMoviesResponse(movies), &response.Meta{
		Page:     options.Page,
		PageSize: options.PageSize,
		Total:    total,
	})
}

// UpdateMovie handles PUT /movies/:id
func (h *MovieHandler) UpdateMovie(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	var req model.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	movie := req.ToMovie(id)
	updated, err := h.movieService.Update(c.Request.Context(), movie, middleware.GetUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated.ToResponse())
}

// DeleteMovie handles DELETE /movies/:id
func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	if err := h.movieService.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// writeError maps domain errors onto HTTP outcomes. Validation failures
// return the complete field-to-message map, never a single opaque string.
func (h *MovieHandler) writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", verrs)
	case errors.Is(err, model.ErrMovieNotFound):
		response.NotFound(c, "movie not found")
	case errors.Is(err, model.ErrSlugTaken), errors.Is(err, model.ErrMovieExists):
		response.ErrorResponse(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		response.InternalError(c, "something went wrong")
	}
}
