package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"movies-backend/internal/domains/rating/model"
	"movies-backend/internal/domains/rating/service"
	"movies-backend/internal/shared/middleware"
	"movies-backend/internal/shared/response"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RateMovie handles PUT /movies/:id/ratings
func (h *RatingHandler) RateMovie(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	userID := middleware.GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.RateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.ratingService.RateMovie(c.Request.Context(), movieID, *userID, req.Rating); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// DeleteRating handles DELETE /movies/:id/ratings
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	userID := middleware.GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.ratingService.DeleteRating(c.Request.Context(), movieID, *userID); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUserRatings handles GET /ratings/me
func (h *RatingHandler) GetUserRatings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	ratings, err := h.ratingService.GetRatingsForUser(c.Request.Context(), *userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ratings)
}

func (h *RatingHandler) writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", verrs)
	case errors.Is(err, model.ErrMovieNotFound):
		response.NotFound(c, "movie not found")
	case errors.Is(err, model.ErrRatingNotFound):
		response.NotFound(c, "rating not found")
	default:
		response.InternalError(c, "something went wrong")
	}
}
