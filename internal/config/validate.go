package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Provider credentials are
// deliberately not checked here; each provider constructor rejects missing
// credentials when that provider is actually selected.
func (c *Config) Validate() error {
	if err := ensurePositiveMap(map[string]int{
		"lookup.timeout_seconds": c.Lookup.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Lookup.RequestsPerSecond <= 0 {
		return errors.New("lookup.requests_per_second must be positive")
	}
	if c.Lookup.Country == "" {
		return errors.New("lookup.country must be set")
	}
	if c.Paths.GenreMapping == c.Paths.StateMapping {
		return errors.New("paths.genre_mapping and paths.state_mapping must differ")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
