// Package mapbox resolves US states from the Mapbox geocoding API.
package mapbox

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
	defaultBaseURL     = "https://api.mapbox.com"
	defaultCountry     = "us"
	defaultHTTPTimeout = 30 * time.Second
)

// Config describes the Mapbox client configuration.
type Config struct {
	AccessToken string
	// Country is the lowercase country code constraining the search.
	Country    string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps the Mapbox places geocoder.
type Client struct {
	accessToken string
	country     string
	baseURL     *url.URL
	http        *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errors.New("mapbox: access token is required")
	}
	country := strings.ToLower(strings.TrimSpace(cfg.Country))
	if country == "" {
		country = defaultCountry
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("mapbox: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{accessToken: accessToken, country: country, baseURL: baseURL, http: client}, nil
}

// Name identifies the provider in cache keys and logs.
func (c *Client) Name() string { return "mapbox" }

// Country reports the country code scoping lookups; it qualifies cache keys.
func (c *Client) Country() string { return c.country }

// Lookup geocodes the city and returns the region from the first feature's
// context chain.
func (c *Client) Lookup(ctx context.Context, city string) (string, error) {
	if c == nil {
		return "", errors.New("mapbox: client is nil")
	}

	endpoint := c.baseURL.JoinPath("geocoding", "v5", "mapbox.places", city+".json")
	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("country", c.country)
	params.Set("types", "place")
	params.Set("limit", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("mapbox: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mapbox: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("mapbox: request failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("mapbox: decode response: %w", err)
	}

	if len(payload.Features) == 0 {
		return "", fmt.Errorf("mapbox: city %q: %w", city, enrich.ErrNotFound)
	}
	for _, entry := range payload.Features[0].Context {
		if strings.HasPrefix(entry.ID, "region") {
			return entry.Text, nil
		}
	}
	return "", fmt.Errorf("mapbox: city %q has no region in context: %w", city, enrich.ErrNotFound)
}

type geocodeResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Context   []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"context"`
	} `json:"features"`
}
