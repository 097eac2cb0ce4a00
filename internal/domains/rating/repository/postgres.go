package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"movies-backend/internal/domains/rating/model"
)

type postgresRatingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &postgresRatingRepository{pool: pool}
}

// RateMovie upserts the (user, movie) row. The engine's on-conflict clause
// keeps concurrent rates from the same user from racing into duplicates;
// the last commit wins.
func (r *postgresRatingRepository) RateMovie(ctx context.Context, movieID, userID uuid.UUID, rating int) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO ratings (user_id, movie_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id) DO UPDATE
		SET rating = $3`,
		userID, movieID, rating,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrMovieNotFound
		}
		return fmt.Errorf("failed to rate movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMovieNotFound
	}

	return nil
}

// DeleteRating reports whether a row was actually removed, so the caller
// can distinguish "nothing to delete" from success.
func (r *postgresRatingRepository) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM ratings
		WHERE movie_id = $1 AND user_id = $2`,
		movieID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete rating: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetRating returns the mean of all ratings for a movie, rounded to one
// decimal, nil when no ratings exist.
func (r *postgresRatingRepository) GetRating(ctx context.Context, movieID uuid.UUID) (*float64, error) {
	var rating *float64
	err := r.pool.QueryRow(ctx, `
		SELECT round(avg(rating), 1)::float8
		FROM ratings
		WHERE movie_id = $1`, movieID,
	).Scan(&rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return rating, nil
}

// GetRatingWithUser fetches the aggregate mean and the user's own rating in
// one query; either half is independently nullable.
func (r *postgresRatingRepository) GetRatingWithUser(ctx context.Context, movieID, userID uuid.UUID) (model.RatingView, error) {
	var view model.RatingView
	err := r.pool.QueryRow(ctx, `
		SELECT round(avg(rating), 1)::float8,
			(SELECT rating
			FROM ratings
			WHERE movie_id = $1 AND user_id = $2
			LIMIT 1)
		FROM ratings
		WHERE movie_id = $1`,
		movieID, userID,
	).Scan(&view.Rating, &view.UserRating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RatingView{}, nil
		}
		return model.RatingView{}, fmt.Errorf("failed to get rating: %w", err)
	}

	return view, nil
}

// GetRatingsForUser lists every rating the user has submitted. Each call
// re-queries; nothing is cached here.
func (r *postgresRatingRepository) GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]model.MovieRating, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.movie_id, m.slug, r.rating
		FROM movies m
		JOIN ratings r ON m.id = r.movie_id
		WHERE r.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user ratings: %w", err)
	}
	defer rows.Close()

	ratings := []model.MovieRating{}
	for rows.Next() {
		var rating model.MovieRating
		if err := rows.Scan(&rating.MovieID, &rating.Slug, &rating.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rating rows error: %w", err)
	}

	return ratings, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
