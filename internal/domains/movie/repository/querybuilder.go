package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"movies-backend/internal/domains/movie/model"
)

// sortColumns maps the allow-listed logical sort fields onto hardcoded
// column expressions. Caller input never reaches the SQL text directly;
// an unlisted field fails the lookup before any query is issued.
var sortColumns = map[string]string{
	"title":         "m.title",
	"yearofrelease": "m.year_of_release",
}

// buildGetAllQuery assembles the dynamic list query. Filtering, sorting and
// paging happen against the movies table inside a CTE so that LIMIT/OFFSET
// count movies, not the fanned-out (movie, genre) rows the outer select
// produces. The outer select joins the ratings ledger twice: once for the
// aggregate mean and once filtered to the viewer.
func buildGetAllQuery(options model.GetAllMoviesOptions) (string, []interface{}, error) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)

	if options.Title != nil {
		args = append(args, *options.Title)
		conditions = append(conditions, fmt.Sprintf("m.title ILIKE ('%%' || $%d || '%%')", len(args)))
	}
	if options.Year != nil {
		args = append(args, *options.Year)
		conditions = append(conditions, fmt.Sprintf("m.year_of_release = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause, err := buildOrderClause(options)
	if err != nil {
		return "", nil, err
	}

	args = append(args, options.PageSize)
	limitArg := len(args)
	args = append(args, options.Offset())
	offsetArg := len(args)

	var userID interface{}
	if options.UserID != nil {
		userID = *options.UserID
	}
	args = append(args, userID)
	userArg := len(args)

	query := fmt.Sprintf(`
		WITH page AS (
			SELECT m.id, m.title, m.slug, m.year_of_release
			FROM movies m
			%s
			%s
			LIMIT $%d OFFSET $%d
		)
		SELECT m.id, m.title, m.slug, m.year_of_release, g.name,
			round(avg(r.rating), 1)::float8 AS rating,
			myr.rating AS user_rating
		FROM page m
		LEFT JOIN genres g ON m.id = g.movie_id
		LEFT JOIN ratings r ON m.id = r.movie_id
		LEFT JOIN ratings myr ON m.id = myr.movie_id AND myr.user_id = $%d::uuid
		GROUP BY m.id, m.title, m.slug, m.year_of_release, g.name, myr.rating
		%s`,
		whereClause, orderClause, limitArg, offsetArg, userArg, orderClause)

	return query, args, nil
}

// buildOrderClause resolves the validated sort field through the lookup
// table. The movie id is always a tiebreaker so pagination stays
// deterministic for equal sort keys.
func buildOrderClause(options model.GetAllMoviesOptions) (string, error) {
	if options.SortField == nil {
		return "ORDER BY m.title, m.id", nil
	}

	column, ok := sortColumns[strings.ToLower(*options.SortField)]
	if !ok {
		return "", fmt.Errorf("unsortable field: %s", *options.SortField)
	}

	direction := "ASC"
	if options.SortOrder == model.SortOrderDescending {
		direction = "DESC"
	}

	return fmt.Sprintf("ORDER BY %s %s, m.id", column, direction), nil
}

// movieRow is one scanned row of the fanned-out result set:
// one row per (movie, genre) pair, genre nil for genre-less movies.
type movieRow struct {
	ID            uuid.UUID
	Title         string
	Slug          string
	YearOfRelease int
	Genre         *string
	Rating        *float64
	UserRating    *int
}

// collapseMovieRows merges fan-out rows into one movie per id while
// preserving the order rows arrive in. The first occurrence of an id creates
// the record; later occurrences only append a genre. A movie with zero
// genres still yields exactly one record (outer-join semantics).
func collapseMovieRows(rows []movieRow) []model.Movie {
	index := make(map[uuid.UUID]int, len(rows))
	movies := make([]model.Movie, 0, len(rows))

	for _, row := range rows {
		i, seen := index[row.ID]
		if !seen {
			movies = append(movies, model.Movie{
				ID:            row.ID,
				Title:         row.Title,
				Slug:          row.Slug,
				YearOfRelease: row.YearOfRelease,
				Genres:        []string{},
				Rating:        row.Rating,
				UserRating:    row.UserRating,
			})
			i = len(movies) - 1
			index[row.ID] = i
		}

		if row.Genre != nil {
			movies[i].Genres = append(movies[i].Genres, *row.Genre)
		}
	}

	return movies
}
