// Package geocode wires city-to-state providers to the generic enrichment
// driver: the provider registry, the City subject column filtered to US
// rows, and the State derived column.
package geocode

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cheeseinvert/tour-data-eda/internal/config"
	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
	"github.com/cheeseinvert/tour-data-eda/internal/geocode/googlemaps"
	"github.com/cheeseinvert/tour-data-eda/internal/geocode/mapbox"
	"github.com/cheeseinvert/tour-data-eda/internal/geocode/nominatim"
)

// DefaultProvider is used when no provider flag is given.
const DefaultProvider = "nominatim"

// Provider is a state lookup scoped to one country. The country string
// qualifies cache keys so lookups against different countries never collide.
type Provider interface {
	enrich.Provider[string]
	Country() string
}

type factory func(cfg *config.Config) (Provider, error)

var registry = map[string]factory{
	"nominatim": newNominatim,
	"google":    newGoogle,
	"mapbox":    newMapbox,
}

// Providers lists the registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider resolves a state provider by name. Unknown names and missing
// credentials fail here, before any dataset work starts.
func NewProvider(name string, cfg *config.Config) (Provider, error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("geocode: unknown provider %q (available: %s)", name, strings.Join(Providers(), ", "))
	}
	return build(cfg)
}

func newNominatim(cfg *config.Config) (Provider, error) {
	return nominatim.New(nominatim.Config{
		UserAgent:         cfg.Lookup.UserAgent,
		Country:           cfg.Lookup.Country,
		RequestsPerSecond: cfg.Lookup.RequestsPerSecond,
		HTTPClient:        httpClient(cfg),
	})
}

func newGoogle(cfg *config.Config) (Provider, error) {
	return googlemaps.New(googlemaps.Config{
		APIKey:     cfg.GoogleMaps.APIKey,
		Country:    cfg.Lookup.CountryCode,
		HTTPClient: httpClient(cfg),
	})
}

func newMapbox(cfg *config.Config) (Provider, error) {
	return mapbox.New(mapbox.Config{
		AccessToken: cfg.Mapbox.AccessToken,
		Country:     cfg.Lookup.CountryCode,
		HTTPClient:  httpClient(cfg),
	})
}

func httpClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.Lookup.TimeoutSeconds) * time.Second}
}

// Target describes state enrichment to the generic driver. Only rows whose
// Country column reads "United States" are considered; everything else keeps
// an empty State cell.
func Target() enrich.Target[string] {
	return enrich.Target[string]{
		Name:          "states",
		SubjectColumn: "City",
		RowQualifies:  rowIsDomestic,
		DerivedColumns: []string{
			"State",
		},
		Format:       func(state string) []string { return []string{state} },
		OutputSuffix: "_with_states",
	}
}

func rowIsDomestic(d *enrich.Dataset, row int) bool {
	column := d.ColumnIndex("Country")
	if column < 0 {
		return false
	}
	return strings.EqualFold(d.Value(row, column), "United States")
}
