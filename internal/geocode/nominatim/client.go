// Package nominatim resolves US states from the OpenStreetMap Nominatim
// geocoder. Lookups are anonymous but Nominatim requires a descriptive
// User-Agent and at most one request per second.
package nominatim

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

	"golang.org/x/time/rate"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
)

const (
	defaultBaseURL     = "https://nominatim.openstreetmap.org"
	defaultUserAgent   = "tourdata/1.0 (+https://github.com/cheeseinvert/tour-data-eda)"
	defaultCountry     = "United States"
	defaultHTTPTimeout = 30 * time.Second
	defaultRate        = 1.0
)

// Config describes the Nominatim client configuration.
type Config struct {
	UserAgent string
	// Country scopes the free-form query ("<city>, <country>").
	Country string
	// RequestsPerSecond caps the request rate. Zero means the service
	// default of one request per second.
	RequestsPerSecond float64
	BaseURL           string
	HTTPClient        *http.Client
}

// Client wraps the Nominatim search API.
type Client struct {
	userAgent string
	country   string
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
	country := strings.TrimSpace(cfg.Country)
	if country == "" {
		country = defaultCountry
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("nominatim: parse base url: %w", err)
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
		country:   country,
		baseURL:   baseURL,
		http:      client,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// Name identifies the provider in cache keys and logs.
func (c *Client) Name() string { return "nominatim" }

// Country reports the country scoping lookups; it qualifies cache keys.
func (c *Client) Country() string { return c.country }

// Lookup geocodes the city and returns its state.
func (c *Client) Lookup(ctx context.Context, city string) (string, error) {
	if c == nil {
		return "", errors.New("nominatim: client is nil")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := c.baseURL.JoinPath("search")
	params := url.Values{}
	params.Set("q", city+", "+c.country)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("nominatim: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("nominatim: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("nominatim: request failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("nominatim: decode response: %w", err)
	}

	if len(payload) == 0 {
		return "", fmt.Errorf("nominatim: city %q: %w", city, enrich.ErrNotFound)
	}
	state := strings.TrimSpace(payload[0].Address.State)
	if state == "" {
		return "", fmt.Errorf("nominatim: city %q has no state component: %w", city, enrich.ErrNotFound)
	}
	return state, nil
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		State string `json:"state"`
	} `json:"address"`
}
