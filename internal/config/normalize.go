package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLookup()
	c.normalizeCredentials()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.GenreMapping) == "" {
		c.Paths.GenreMapping = defaultGenreMapping
	}
	if c.Paths.GenreMapping, err = expandPath(c.Paths.GenreMapping); err != nil {
		return fmt.Errorf("paths.genre_mapping: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateMapping) == "" {
		c.Paths.StateMapping = defaultStateMapping
	}
	if c.Paths.StateMapping, err = expandPath(c.Paths.StateMapping); err != nil {
		return fmt.Errorf("paths.state_mapping: %w", err)
	}
	if strings.TrimSpace(c.Paths.GenreCache) == "" {
		c.Paths.GenreCache = defaultCachePath("genre_cache.json")
	}
	if c.Paths.GenreCache, err = expandPath(c.Paths.GenreCache); err != nil {
		return fmt.Errorf("paths.genre_cache: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateCache) == "" {
		c.Paths.StateCache = defaultCachePath("state_cache.json")
	}
	if c.Paths.StateCache, err = expandPath(c.Paths.StateCache); err != nil {
		return fmt.Errorf("paths.state_cache: %w", err)
	}
	return nil
}

func (c *Config) normalizeLookup() {
	c.Lookup.UserAgent = strings.TrimSpace(c.Lookup.UserAgent)
	if c.Lookup.UserAgent == "" {
		c.Lookup.UserAgent = defaultUserAgent
	}
	if c.Lookup.TimeoutSeconds <= 0 {
		c.Lookup.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Lookup.RequestsPerSecond <= 0 {
		c.Lookup.RequestsPerSecond = defaultRequestsPerSecond
	}
	c.Lookup.Country = strings.TrimSpace(c.Lookup.Country)
	if c.Lookup.Country == "" {
		c.Lookup.Country = defaultCountry
	}
	c.Lookup.CountryCode = strings.TrimSpace(c.Lookup.CountryCode)
	if c.Lookup.CountryCode == "" {
		c.Lookup.CountryCode = defaultCountryCode
	}
}

func (c *Config) normalizeCredentials() {
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	if c.Spotify.ClientID == "" {
		if value, ok := os.LookupEnv("SPOTIFY_CLIENT_ID"); ok {
			c.Spotify.ClientID = strings.TrimSpace(value)
		}
	}
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	if c.Spotify.ClientSecret == "" {
		if value, ok := os.LookupEnv("SPOTIFY_CLIENT_SECRET"); ok {
			c.Spotify.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.LastFM.APIKey = strings.TrimSpace(c.LastFM.APIKey)
	if c.LastFM.APIKey == "" {
		if value, ok := os.LookupEnv("LASTFM_API_KEY"); ok {
			c.LastFM.APIKey = strings.TrimSpace(value)
		}
	}
	c.GoogleMaps.APIKey = strings.TrimSpace(c.GoogleMaps.APIKey)
	if c.GoogleMaps.APIKey == "" {
		if value, ok := os.LookupEnv("GOOGLE_API_KEY"); ok {
			c.GoogleMaps.APIKey = strings.TrimSpace(value)
		}
	}
	c.Mapbox.AccessToken = strings.TrimSpace(c.Mapbox.AccessToken)
	if c.Mapbox.AccessToken == "" {
		if value, ok := os.LookupEnv("MAPBOX_ACCESS_TOKEN"); ok {
			c.Mapbox.AccessToken = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
