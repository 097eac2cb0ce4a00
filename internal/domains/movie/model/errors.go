package model

import "errors"

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrMovieExists   = errors.New("a movie with this id already exists")
	ErrSlugTaken     = errors.New("a movie with this title already exists")
)
