// Package musicbrainz resolves artist genres from the MusicBrainz web
// service. Lookups are anonymous but MusicBrainz requires a descriptive
// User-Agent and at most one request per second.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
)

const (
	defaultBaseURL     = "https://musicbrainz.org/ws/2"
	defaultUserAgent   = "tourdata/1.0 (+https://github.com/cheeseinvert/tour-data-eda)"
	defaultHTTPTimeout = 30 * time.Second
	defaultRate        = 1.0
	maxTags            = 5
)

// Config describes the MusicBrainz client configuration.
type Config struct {
	UserAgent string
	// RequestsPerSecond caps the request rate. Zero means the service
	// default of one request per second.
	RequestsPerSecond float64
	BaseURL           string
	HTTPClient        *http.Client
}

// Client wraps the MusicBrainz artist API.
type Client struct {
	userAgent string
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRate
	}
	return &Client{
		userAgent: userAgent,
		baseURL:   baseURL,
		http:      client,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// Name identifies the provider in cache keys and logs.
func (c *Client) Name() string { return "musicbrainz" }

// Lookup searches for the artist and returns its most popular tags, best
// first. Two requests per subject: the artist search, then the tag fetch.
func (c *Client) Lookup(ctx context.Context, artist string) ([]string, error) {
	if c == nil {
		return nil, errors.New("musicbrainz: client is nil")
	}

	id, err := c.searchArtist(ctx, artist)
	if err != nil {
		return nil, err
	}

	tags, err := c.fetchTags(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("musicbrainz: artist %q has no tags: %w", artist, enrich.ErrNotFound)
	}
	return tags, nil
}

func (c *Client) searchArtist(ctx context.Context, artist string) (string, error) {
	endpoint := c.baseURL.JoinPath("artist")
	params := url.Values{}
	params.Set("query", "artist:"+artist)
	params.Set("fmt", "json")
	params.Set("limit", "1")
	endpoint.RawQuery = params.Encode()

	var payload searchResponse
	if err := c.get(ctx, endpoint.String(), &payload); err != nil {
		return "", fmt.Errorf("musicbrainz: search artist: %w", err)
	}
	if len(payload.Artists) == 0 || payload.Artists[0].ID == "" {
		return "", fmt.Errorf("musicbrainz: artist %q: %w", artist, enrich.ErrNotFound)
	}
	return payload.Artists[0].ID, nil
}

func (c *Client) fetchTags(ctx context.Context, artistID string) ([]string, error) {
	endpoint := c.baseURL.JoinPath("artist", artistID)
	params := url.Values{}
	params.Set("inc", "tags")
	params.Set("fmt", "json")
	endpoint.RawQuery = params.Encode()

	var payload artistResponse
	if err := c.get(ctx, endpoint.String(), &payload); err != nil {
		return nil, fmt.Errorf("musicbrainz: fetch tags: %w", err)
	}

	tags := payload.Tags
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Count > tags[j].Count })

	names := make([]string, 0, maxTags)
	for _, tag := range tags {
		name := strings.TrimSpace(tag.Name)
		if name == "" {
			continue
		}
		names = append(names, name)
		if len(names) == maxTags {
			break
		}
	}
	return names, nil
}

func (c *Client) get(ctx context.Context, endpoint string, payload any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("request failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type searchResponse struct {
	Artists []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artists"`
}

type artistResponse struct {
	Tags []artistTag `json:"tags"`
}

type artistTag struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
}
