// Package lastfm resolves artist genres from the Last.fm artist.getinfo API.
package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
)

const (
	defaultBaseURL     = "https://ws.audioscrobbler.com/2.0/"
	defaultHTTPTimeout = 30 * time.Second
	maxTags            = 5
)

// Config describes the Last.fm client configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps the Last.fm artist API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("lastfm: api key is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{apiKey: apiKey, baseURL: base, http: client}, nil
}

// Name identifies the provider in cache keys and logs.
func (c *Client) Name() string { return "lastfm" }

// Lookup fetches artist info and returns its top tags, best first.
func (c *Client) Lookup(ctx context.Context, artist string) ([]string, error) {
	if c == nil {
		return nil, errors.New("lastfm: client is nil")
	}

	params := url.Values{}
	params.Set("method", "artist.getinfo")
	params.Set("artist", artist)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("lastfm: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lastfm: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("lastfm: request failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload infoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("lastfm: decode response: %w", err)
	}
	// Last.fm reports application errors with a 200 status.
	if payload.Error != 0 {
		if payload.Error == errArtistNotFound {
			return nil, fmt.Errorf("lastfm: artist %q: %w", artist, enrich.ErrNotFound)
		}
		return nil, fmt.Errorf("lastfm: api error %d: %s", payload.Error, payload.Message)
	}

	tags := make([]string, 0, maxTags)
	for _, tag := range payload.Artist.Tags.Tag {
		name := strings.TrimSpace(tag.Name)
		if name == "" {
			continue
		}
		tags = append(tags, name)
		if len(tags) == maxTags {
			break
		}
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("lastfm: artist %q has no tags: %w", artist, enrich.ErrNotFound)
	}
	return tags, nil
}

const errArtistNotFound = 6

type infoResponse struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
	Artist  struct {
		Name string `json:"name"`
		Tags struct {
			Tag []struct {
				Name string `json:"name"`
			} `json:"tag"`
		} `json:"tags"`
	} `json:"artist"`
}
