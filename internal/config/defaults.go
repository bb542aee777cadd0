package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultGenreMapping      = "~/.local/share/tourdata/genre_mapping.json"
	defaultStateMapping      = "~/.local/share/tourdata/state_mapping.json"
	defaultUserAgent         = "tourdata/1.0 (+https://github.com/cheeseinvert/tour-data-eda)"
	defaultTimeoutSeconds    = 30
	defaultRequestsPerSecond = 1.0
	defaultCountry           = "United States"
	defaultCountryCode       = "US"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			GenreMapping: defaultGenreMapping,
			StateMapping: defaultStateMapping,
			GenreCache:   defaultCachePath("genre_cache.json"),
			StateCache:   defaultCachePath("state_cache.json"),
		},
		Lookup: Lookup{
			UserAgent:         defaultUserAgent,
			TimeoutSeconds:    defaultTimeoutSeconds,
			RequestsPerSecond: defaultRequestsPerSecond,
			Country:           defaultCountry,
			CountryCode:       defaultCountryCode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultCachePath(name string) string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "tourdata", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("~", ".cache", "tourdata", name)
	}
	return filepath.Join(home, ".cache", "tourdata", name)
}
