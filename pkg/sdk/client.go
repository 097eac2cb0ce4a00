package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"movies-backend/internal/domains/movie/model"
	ratingmodel "movies-backend/internal/domains/rating/model"
)

// Client is a typed consumer of the movies API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenProvider
}

func NewClient(baseURL string, httpClient *http.Client, tokens *TokenProvider) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     tokens,
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GetMovie fetches one movie by id or slug.
func (c *Client) GetMovie(ctx context.Context, idOrSlug string) (*model.MovieResponse, error) {
	var movie model.MovieResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/movies/"+url.PathEscape(idOrSlug), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetAllMovies fetches a filtered, sorted, paged listing.
func (c *Client) GetAllMovies(ctx context.Context, req model.GetAllMoviesRequest) (*model.MoviesResponse, error) {
	values := url.Values{}
	if req.Title != nil {
		values.Set("title", *req.Title)
	}
	if req.Year != nil {
		values.Set("year", strconv.Itoa(*req.Year))
	}
	if req.SortBy != nil {
		values.Set("sortBy", *req.SortBy)
	}
	if req.Page != nil {
		values.Set("page", strconv.Itoa(*req.Page))
	}
	if req.PageSize != nil {
		values.Set("pageSize", strconv.Itoa(*req.PageSize))
	}

	path := "/api/v1/movies"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var movies model.MoviesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &movies); err != nil {
		return nil, err
	}
	return &movies, nil
}

// CreateMovie creates a movie and returns the stored representation.
func (c *Client) CreateMovie(ctx context.Context, req model.CreateMovieRequest) (*model.MovieResponse, error) {
	var movie model.MovieResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/movies", req, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// RateMovie submits the caller's rating for a movie.
func (c *Client) RateMovie(ctx context.Context, movieID string, rating int) error {
	req := ratingmodel.RateMovieRequest{Rating: rating}
	return c.do(ctx, http.MethodPut, "/api/v1/movies/"+url.PathEscape(movieID)+"/ratings", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to get token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		if envelope.Error != nil {
			return fmt.Errorf("api error %s: %s", envelope.Error.Code, envelope.Error.Message)
		}
		return fmt.Errorf("api returned status %d", resp.StatusCode)
	}

	if dest != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, dest); err != nil {
			return fmt.Errorf("failed to decode payload: %w", err)
		}
	}

	return nil
}
