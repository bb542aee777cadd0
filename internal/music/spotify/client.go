// Package spotify resolves artist genres from the Spotify Web API using the
// client-credentials flow. The bearer token lives only in memory and is
// refreshed shortly before it expires.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
)

const (
	defaultBaseURL     = "https://api.spotify.com"
	defaultTokenURL    = "https://accounts.spotify.com/api/token"
	defaultHTTPTimeout = 30 * time.Second

	// Tokens are treated as expired this long before their advertised
	// expiry so in-flight requests never race the cutoff.
	expiryMargin = 5 * time.Minute
)

// Config describes the Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	HTTPClient   *http.Client
}

// Client wraps the Spotify search API.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      *url.URL
	tokenURL     string
	http         *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, errors.New("spotify: client id is required")
	}
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	if clientSecret == "" {
		return nil, errors.New("spotify: client secret is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("spotify: parse base url: %w", err)
	}
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		tokenURL:     tokenURL,
		http:         client,
	}, nil
}

// Name identifies the provider in cache keys and logs.
func (c *Client) Name() string { return "spotify" }

// Lookup searches for the artist and returns its genre list.
func (c *Client) Lookup(ctx context.Context, artist string) ([]string, error) {
	if c == nil {
		return nil, errors.New("spotify: client is nil")
	}

	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL.JoinPath("v1", "search")
	params := url.Values{}
	params.Set("q", artist)
	params.Set("type", "artist")
	params.Set("limit", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("spotify: build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("spotify: search failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("spotify: decode search response: %w", err)
	}

	items := payload.Artists.Items
	if len(items) == 0 || len(items[0].Genres) == 0 {
		return nil, fmt.Errorf("spotify: artist %q has no genres: %w", artist, enrich.ErrNotFound)
	}
	return items[0].Genres, nil
}

// bearerToken returns the cached token, requesting a fresh one when absent
// or inside the expiry margin.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("spotify: build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotify: token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("spotify: token exchange failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("spotify: decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("spotify: token response missing access token")
	}

	c.token = payload.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - expiryMargin)
	return c.token, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type searchResponse struct {
	Artists struct {
		Items []struct {
			Name   string   `json:"name"`
			Genres []string `json:"genres"`
		} `json:"items"`
	} `json:"artists"`
}
