package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"movies-backend/internal/domains/movie/model"
	"movies-backend/pkg/database"
)

type postgresMovieRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresMovieRepository(pool *pgxpool.Pool) MovieRepository {
	return &postgresMovieRepository{pool: pool}
}

// =====================================================
// CREATE
// =====================================================

// Create inserts the movie row and one genre row per genre inside a single
// transaction. A duplicate id aborts before any genre insert; any genre
// failure rolls the whole thing back.
func (r *postgresMovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO movies (id, title, slug, year_of_release)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			movie.ID, movie.Title, movie.Slug, movie.YearOfRelease,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrMovieExists
		}

		for _, genre := range movie.Genres {
			if _, err := tx.Exec(ctx, `
				INSERT INTO genres (id, movie_id, name)
				VALUES ($1, $2, $3)`,
				uuid.New(), movie.ID, genre,
			); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrMovieExists) {
			return err
		}
		if isUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

// =====================================================
// GET ONE (BY ID / BY SLUG)
// =====================================================

func (r *postgresMovieRepository) GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*model.Movie, error) {
	return r.getOne(ctx, "m.id = $1", id, userID)
}

func (r *postgresMovieRepository) GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*model.Movie, error) {
	return r.getOne(ctx, "m.slug = $1", slug, userID)
}

// getOne joins the rating ledger twice: aggregated over all ratings, and
// filtered to the viewer. Genres come in a second round trip so genre
// fan-out cannot skew the average.
func (r *postgresMovieRepository) getOne(ctx context.Context, where string, key interface{}, userID *uuid.UUID) (*model.Movie, error) {
	var viewer interface{}
	if userID != nil {
		viewer = *userID
	}

	query := fmt.Sprintf(`
		SELECT m.id, m.title, m.slug, m.year_of_release,
			round(avg(r.rating), 1)::float8 AS rating,
			myr.rating AS user_rating
		FROM movies m
		LEFT JOIN ratings r ON m.id = r.movie_id
		LEFT JOIN ratings myr ON m.id = myr.movie_id AND myr.user_id = $2::uuid
		WHERE %s
		GROUP BY m.id, m.title, m.slug, m.year_of_release, myr.rating`, where)

	movie := &model.Movie{}
	err := r.pool.QueryRow(ctx, query, key, viewer).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Slug,
		&movie.YearOfRelease,
		&movie.Rating,
		&movie.UserRating,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	genres, err := r.getGenres(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	movie.Genres = genres

	return movie, nil
}

func (r *postgresMovieRepository) getGenres(ctx context.Context, movieID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name
		FROM genres
		WHERE movie_id = $1`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	defer rows.Close()

	genres := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("genre rows error: %w", err)
	}

	return genres, nil
}

// =====================================================
// GET ALL
// =====================================================

// GetAll runs the dynamic list query and collapses the (movie, genre)
// fan-out into one record per movie as rows stream in.
func (r *postgresMovieRepository) GetAll(ctx context.Context, options model.GetAllMoviesOptions) ([]model.Movie, error) {
	query, args, err := buildGetAllQuery(options)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	scanned := make([]movieRow, 0, options.PageSize)
	for rows.Next() {
		var row movieRow
		if err := rows.Scan(
			&row.ID,
			&row.Title,
			&row.Slug,
			&row.YearOfRelease,
			&row.Genre,
			&row.Rating,
			&row.UserRating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan movie row: %w", err)
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("movie rows error: %w", err)
	}

	return collapseMovieRows(scanned), nil
}

// Count returns how many movies match the filters, for pagination metadata.
func (r *postgresMovieRepository) Count(ctx context.Context, title *string, year *int) (int, error) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if title != nil {
		args = append(args, *title)
		conditions = append(conditions, fmt.Sprintf("title ILIKE ('%%' || $%d || '%%')", len(args)))
	}
	if year != nil {
		args = append(args, *year)
		conditions = append(conditions, fmt.Sprintf("year_of_release = $%d", len(args)))
	}

	query := "SELECT count(id) FROM movies"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}

	return count, nil
}

// =====================================================
// UPDATE
// =====================================================

// Update rewrites the scalar columns and fully replaces the genre set
// (delete-all-then-reinsert, not a diff) in one transaction.
func (r *postgresMovieRepository) Update(ctx context.Context, movie *model.Movie) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE movies
			SET title = $1, slug = $2, year_of_release = $3
			WHERE id = $4`,
			movie.Title, movie.Slug, movie.YearOfRelease, movie.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrMovieNotFound
		}

		if _, err := tx.Exec(ctx, `
			DELETE FROM genres
			WHERE movie_id = $1`, movie.ID,
		); err != nil {
			return err
		}

		for _, genre := range movie.Genres {
			if _, err := tx.Exec(ctx, `
				INSERT INTO genres (id, movie_id, name)
				VALUES ($1, $2, $3)`,
				uuid.New(), movie.ID, genre,
			); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrMovieNotFound) {
			return err
		}
		if isUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to update movie: %w", err)
	}

	return nil
}

// =====================================================
// DELETE
// =====================================================

// Delete removes ratings, then genres, then the movie row in one
// transaction. No orphaned child rows survive a movie delete.
func (r *postgresMovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM ratings
			WHERE movie_id = $1`, id,
		); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			DELETE FROM genres
			WHERE movie_id = $1`, id,
		); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			DELETE FROM movies
			WHERE id = $1`, id,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrMovieNotFound
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrMovieNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	return nil
}

// ExistsByID is a lightweight probe the service uses to distinguish
// not-found from validation failure before an update.
func (r *postgresMovieRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(1)
		FROM movies
		WHERE id = $1`, id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check movie existence: %w", err)
	}

	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
