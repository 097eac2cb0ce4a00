package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshLeeway is how long before expiry a cached token stops being used.
const refreshLeeway = 5 * time.Minute

// TokenProvider fetches and caches an access token for the API client.
// The cached credential is scoped to the provider instance, guarded by a
// single mutex around the refresh path, and its expiry is checked before
// every use.
type TokenProvider struct {
	httpClient *http.Client
	tokenURL   string
	request    TokenRequest

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// TokenRequest is the credential payload posted to the token endpoint.
type TokenRequest struct {
	UserID       string            `json:"userid"`
	Email        string            `json:"email"`
	CustomClaims map[string]string `json:"customClaims,omitempty"`
}

func NewTokenProvider(httpClient *http.Client, tokenURL string, request TokenRequest) *TokenProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenProvider{
		httpClient: httpClient,
		tokenURL:   tokenURL,
		request:    request,
	}
}

// GetToken returns a valid token, refreshing when the cached one is absent
// or within the leeway of its expiry. The check-and-refresh runs under one
// lock, so concurrent callers trigger at most one refresh.
func (p *TokenProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Until(p.expiresAt) > refreshLeeway {
		return p.token, nil
	}

	token, expiresAt, err := p.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	p.token = token
	p.expiresAt = expiresAt

	return token, nil
}

func (p *TokenProvider) fetchToken(ctx context.Context) (string, time.Time, error) {
	body, err := json.Marshal(p.request)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read token response: %w", err)
	}

	token := string(raw)
	expiresAt, err := tokenExpiry(token)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// provider only needs the lifetime, the server verifies authenticity.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, fmt.Errorf("token has no usable exp claim")
	}

	return expiry.Time, nil
}
