// Package music wires artist genre providers to the generic enrichment
// driver: the provider registry, the Artist subject column, and the Genre
// and All_Genres derived columns.
package music

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cheeseinvert/tour-data-eda/internal/config"
	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
	"github.com/cheeseinvert/tour-data-eda/internal/music/lastfm"
	"github.com/cheeseinvert/tour-data-eda/internal/music/musicbrainz"
	"github.com/cheeseinvert/tour-data-eda/internal/music/spotify"
)

// DefaultProvider is used when no provider flag is given.
const DefaultProvider = "musicbrainz"

// Genre cells keep the dataset scannable; the full list lives in All_Genres.
const primaryGenreCount = 3

type factory func(cfg *config.Config) (enrich.Provider[[]string], error)

var registry = map[string]factory{
	"musicbrainz": newMusicBrainz,
	"spotify":     newSpotify,
	"lastfm":      newLastFM,
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

// NewProvider resolves a genre provider by name. Unknown names and missing
// credentials fail here, before any dataset work starts.
func NewProvider(name string, cfg *config.Config) (enrich.Provider[[]string], error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("music: unknown provider %q (available: %s)", name, strings.Join(Providers(), ", "))
	}
	return build(cfg)
}

func newMusicBrainz(cfg *config.Config) (enrich.Provider[[]string], error) {
	return musicbrainz.New(musicbrainz.Config{
		UserAgent:         cfg.Lookup.UserAgent,
		RequestsPerSecond: cfg.Lookup.RequestsPerSecond,
		HTTPClient:        httpClient(cfg),
	})
}

func newSpotify(cfg *config.Config) (enrich.Provider[[]string], error) {
	return spotify.New(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		HTTPClient:   httpClient(cfg),
	})
}

func newLastFM(cfg *config.Config) (enrich.Provider[[]string], error) {
	return lastfm.New(lastfm.Config{
		APIKey:     cfg.LastFM.APIKey,
		HTTPClient: httpClient(cfg),
	})
}

func httpClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.Lookup.TimeoutSeconds) * time.Second}
}

// Target describes genre enrichment to the generic driver.
func Target() enrich.Target[[]string] {
	return enrich.Target[[]string]{
		Name:           "genres",
		SubjectColumn:  "Artist",
		DerivedColumns: []string{"Genre", "All_Genres"},
		Format:         formatGenres,
		OutputSuffix:   "_with_genres",
	}
}

func formatGenres(genres []string) []string {
	primary := genres
	if len(primary) > primaryGenreCount {
		primary = primary[:primaryGenreCount]
	}
	return []string{
		strings.Join(primary, ", "),
		strings.Join(genres, ", "),
	}
}
