package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// MovieRating is one entry of a user's rating history, joined with the
// movie's slug for display.
type MovieRating struct {
	MovieID uuid.UUID `json:"movieId"`
	Slug    string    `json:"slug"`
	Rating  int       `json:"rating"`
}

// RatingView pairs a movie's aggregate mean with the viewer's own rating.
// Either half can be absent independently.
type RatingView struct {
	Rating     *float64 `json:"rating"`
	UserRating *int     `json:"userRating"`
}

// =====================================================
// REQUEST DTOs
// =====================================================

type RateMovieRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// Validate bounds the rating to 1..5. The ledger itself stores plain
// integers; the bound is enforced here at the service edge.
func (r RateMovieRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating,
			validation.Required.Error("rating must be between 1 and 5"),
			validation.Min(1).Error("rating must be between 1 and 5"),
			validation.Max(5).Error("rating must be between 1 and 5"),
		),
	)
}
