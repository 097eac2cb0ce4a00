package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"movies-backend/internal/shared/utils"
)

// Movie is the canonical catalog entity. Rating and UserRating are views
// computed from the rating ledger, nil when no data exists for them.
type Movie struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	YearOfRelease int       `json:"yearOfRelease"`
	Genres        []string  `json:"genres"`
	Rating        *float64  `json:"rating"`
	UserRating    *int      `json:"userRating"`
}

// NewMovie builds a movie with a fresh id and a slug derived from the title.
// The slug is computed once here and is immutable afterwards except through
// a title update.
func NewMovie(title string, yearOfRelease int, genres []string) *Movie {
	return &Movie{
		ID:            uuid.New(),
		Title:         title,
		Slug:          utils.GenerateSlug(title),
		YearOfRelease: yearOfRelease,
		Genres:        genres,
	}
}

// RecomputeSlug refreshes the slug after a title change.
func (m *Movie) RecomputeSlug() {
	m.Slug = utils.GenerateSlug(m.Title)
}

// Validate checks the structural rules. Ozzo collects every violated rule
// into a single validation.Errors map, so the caller always sees the full
// list, not just the first failure.
func (m Movie) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&m.YearOfRelease,
			validation.Required,
			validation.Min(1900),
			validation.Max(time.Now().UTC().Year()),
		),
		validation.Field(&m.Genres, validation.Required),
		validation.Field(&m.Slug, validation.Required),
	)
}
