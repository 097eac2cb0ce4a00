package model

import (
	"strings"

	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type CreateMovieRequest struct {
	Title         string   `json:"title" binding:"required"`
	YearOfRelease int      `json:"yearOfRelease" binding:"required"`
	Genres        []string `json:"genres" binding:"required"`
}

func (r CreateMovieRequest) ToMovie() *Movie {
	return NewMovie(r.Title, r.YearOfRelease, r.Genres)
}

type UpdateMovieRequest struct {
	Title         string   `json:"title" binding:"required"`
	YearOfRelease int      `json:"yearOfRelease" binding:"required"`
	Genres        []string `json:"genres" binding:"required"`
}

func (r UpdateMovieRequest) ToMovie(id uuid.UUID) *Movie {
	movie := NewMovie(r.Title, r.YearOfRelease, r.Genres)
	movie.ID = id
	return movie
}

// GetAllMoviesRequest binds the list query string. SortBy accepts an
// optional "-" prefix for descending order ("-title", "yearOfRelease").
type GetAllMoviesRequest struct {
	Title    *string `form:"title"`
	Year     *int    `form:"year"`
	SortBy   *string `form:"sortBy"`
	Page     *int    `form:"page"`
	PageSize *int    `form:"pageSize"`
}

// ToOptions maps the request onto query options, applying paging defaults
// and splitting the sort prefix into field + direction.
func (r GetAllMoviesRequest) ToOptions(userID *uuid.UUID) GetAllMoviesOptions {
	options := GetAllMoviesOptions{
		Title:    r.Title,
		Year:     r.Year,
		UserID:   userID,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if r.Page != nil {
		options.Page = *r.Page
	}
	if r.PageSize != nil {
		options.PageSize = *r.PageSize
	}

	if r.SortBy != nil && *r.SortBy != "" {
		field := strings.TrimPrefix(strings.TrimPrefix(*r.SortBy, "-"), "+")
		options.SortField = &field
		if strings.HasPrefix(*r.SortBy, "-") {
			options.SortOrder = SortOrderDescending
		} else {
			options.SortOrder = SortOrderAscending
		}
	}

	return options
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type MovieResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	YearOfRelease int       `json:"yearOfRelease"`
	Genres        []string  `json:"genres"`
	Rating        *float64  `json:"rating"`
	UserRating    *int      `json:"userRating"`
}

func (m *Movie) ToResponse() MovieResponse {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return MovieResponse{
		ID:            m.ID,
		Title:         m.Title,
		Slug:          m.Slug,
		YearOfRelease: m.YearOfRelease,
		Genres:        genres,
		Rating:        m.Rating,
		UserRating:    m.UserRating,
	}
}

type MoviesResponse struct {
	Items []MovieResponse `json:"items"`
}

func ToMoviesResponse(movies []Movie) MoviesResponse {
	items := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		items = append(items, movies[i].ToResponse())
	}
	return MoviesResponse{Items: items}
}
