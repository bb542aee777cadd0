// Package googlemaps resolves US states from the Google Geocoding API.
package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
)

const (
	defaultBaseURL     = "https://maps.googleapis.com"
	defaultCountry     = "US"
	defaultHTTPTimeout = 30 * time.Second
)

// Config describes the Google Geocoding client configuration.
type Config struct {
	APIKey string
	// Country is the country code appended to the address query.
	Country    string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps the Google Geocoding API.
type Client struct {
	apiKey  string
	country string
	baseURL *url.URL
	http    *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("googlemaps: api key is required")
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
		return nil, fmt.Errorf("googlemaps: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{apiKey: apiKey, country: country, baseURL: baseURL, http: client}, nil
}

// Name identifies the provider in cache keys and logs.
func (c *Client) Name() string { return "google" }

// Country reports the country code scoping lookups; it qualifies cache keys.
func (c *Client) Country() string { return c.country }

// Lookup geocodes the city and returns the long name of its first
// administrative_area_level_1 component.
func (c *Client) Lookup(ctx context.Context, city string) (string, error) {
	if c == nil {
		return "", errors.New("googlemaps: client is nil")
	}

	endpoint := c.baseURL.JoinPath("maps", "api", "geocode", "json")
	params := url.Values{}
	params.Set("address", city+", "+c.country)
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("googlemaps: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("googlemaps: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("googlemaps: request failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("googlemaps: decode response: %w", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return "", fmt.Errorf("googlemaps: city %q: %w", city, enrich.ErrNotFound)
	default:
		return "", fmt.Errorf("googlemaps: geocode status %s: %s", payload.Status, payload.ErrorMessage)
	}

	for _, result := range payload.Results {
		for _, component := range result.AddressComponents {
			if slices.Contains(component.Types, "administrative_area_level_1") {
				return component.LongName, nil
			}
		}
	}
	return "", fmt.Errorf("googlemaps: city %q has no state component: %w", city, enrich.ErrNotFound)
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		AddressComponents []struct {
			LongName  string   `json:"long_name"`
			ShortName string   `json:"short_name"`
			Types     []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}
