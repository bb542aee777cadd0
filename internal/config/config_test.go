package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Error("exists should be false for a missing file")
	}
	if cfg.Lookup.UserAgent == "" {
		t.Error("default user agent missing")
	}
	if cfg.Lookup.RequestsPerSecond != 1.0 {
		t.Errorf("requests_per_second = %v, want 1.0", cfg.Lookup.RequestsPerSecond)
	}
	if cfg.Lookup.Country != "United States" {
		t.Errorf("country = %q", cfg.Lookup.Country)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Errorf("logging defaults = %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if !filepath.IsAbs(cfg.Paths.GenreMapping) {
		t.Errorf("genre mapping path not expanded: %q", cfg.Paths.GenreMapping)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
genre_mapping = "` + filepath.Join(dir, "genres.json") + `"

[lookup]
requests_per_second = 4.0
country = "Canada"

[spotify]
client_id = "abc"
client_secret = "def"

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("resolved = %q (exists=%v)", resolved, exists)
	}
	if cfg.Lookup.RequestsPerSecond != 4.0 {
		t.Errorf("requests_per_second = %v", cfg.Lookup.RequestsPerSecond)
	}
	if cfg.Lookup.Country != "Canada" {
		t.Errorf("country = %q", cfg.Lookup.Country)
	}
	if cfg.Spotify.ClientID != "abc" || cfg.Spotify.ClientSecret != "def" {
		t.Errorf("spotify credentials = %q/%q", cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
	// Unset paths still default.
	if cfg.Paths.StateMapping == "" {
		t.Error("state mapping should default when unset")
	}
}

func TestLoadCredentialEnvFallback(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
	t.Setenv("LASTFM_API_KEY", "env-lastfm")
	t.Setenv("GOOGLE_API_KEY", "env-google")
	t.Setenv("MAPBOX_ACCESS_TOKEN", "env-mapbox")

	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Spotify.ClientID != "env-id" || cfg.Spotify.ClientSecret != "env-secret" {
		t.Errorf("spotify = %q/%q", cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	}
	if cfg.LastFM.APIKey != "env-lastfm" {
		t.Errorf("lastfm = %q", cfg.LastFM.APIKey)
	}
	if cfg.GoogleMaps.APIKey != "env-google" {
		t.Errorf("googlemaps = %q", cfg.GoogleMaps.APIKey)
	}
	if cfg.Mapbox.AccessToken != "env-mapbox" {
		t.Errorf("mapbox = %q", cfg.Mapbox.AccessToken)
	}
}

func TestLoadFileWinsOverEnv(t *testing.T) {
	t.Setenv("LASTFM_API_KEY", "env-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[lastfm]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LastFM.APIKey != "file-key" {
		t.Errorf("api key = %q, file value should win", cfg.LastFM.APIKey)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateRejectsSharedMappingPath(t *testing.T) {
	cfg := Default()
	cfg.Paths.GenreMapping = "/tmp/mapping.json"
	cfg.Paths.StateMapping = "/tmp/mapping.json"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for shared mapping path")
	}
}

func TestNormalizeLoggingFallsBackToConsole(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "YAML"
	cfg.normalizeLogging()
	if cfg.Logging.Format != "console" {
		t.Errorf("format = %q", cfg.Logging.Format)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[lookup]") {
		t.Error("sample config missing [lookup] section")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/data/concerts.csv")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "data", "concerts.csv") {
		t.Errorf("expanded = %q", got)
	}
}
