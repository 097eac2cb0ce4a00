package model

import (
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMovieDerivesSlugOnce(t *testing.T) {
	movie := NewMovie("Nick the Greek 2", 2022, []string{"Comedy"})

	assert.NotEqual(t, movie.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, "nick-the-greek-2", movie.Slug)
	assert.Equal(t, []string{"Comedy"}, movie.Genres)
}

func TestMovieValidatePasses(t *testing.T) {
	movie := NewMovie("Inception", 2010, []string{"Sci-Fi", "Thriller"})

	assert.NoError(t, movie.Validate())
}

func TestMovieValidateReportsEveryViolation(t *testing.T) {
	movie := Movie{
		Title:         "",
		YearOfRelease: 1800,
		Genres:        nil,
	}
	movie.Slug = ""

	err := movie.Validate()
	require.Error(t, err)

	verrs, ok := err.(validation.Errors)
	require.True(t, ok, "expected the full violation list, got %T", err)

	// All broken rules surface together, not just the first one.
	assert.Contains(t, verrs, "title")
	assert.Contains(t, verrs, "yearOfRelease")
	assert.Contains(t, verrs, "genres")
	assert.Contains(t, verrs, "slug")
}

func TestMovieValidateBoundsYear(t *testing.T) {
	tooOld := NewMovie("Old", 1899, []string{"Drama"})
	err := tooOld.Validate()
	require.Error(t, err)
	assert.Contains(t, err.(validation.Errors), "yearOfRelease")

	future := NewMovie("Future", time.Now().UTC().Year()+1, []string{"Drama"})
	err = future.Validate()
	require.Error(t, err)
	assert.Contains(t, err.(validation.Errors), "yearOfRelease")

	current := NewMovie("Current", time.Now().UTC().Year(), []string{"Drama"})
	assert.NoError(t, current.Validate())
}

func TestMovieValidateBoundsTitleLength(t *testing.T) {
	long := NewMovie(strings.Repeat("a", 101), 2020, []string{"Drama"})
	err := long.Validate()
	require.Error(t, err)
	assert.Contains(t, err.(validation.Errors), "title")

	max := NewMovie(strings.Repeat("a", 100), 2020, []string{"Drama"})
	assert.NoError(t, max.Validate())
}
