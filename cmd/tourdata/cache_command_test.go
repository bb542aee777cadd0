package main

import (
	"os"
	"strings"
	"testing"
)

func TestCacheStatsAndClear(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFile(t, env.genreCache, `{"coldplay|musicbrainz": ["pop"], "muse|musicbrainz": ["rock"]}`)
	writeFile(t, env.stateCache, `{"boise|nominatim|united states": "Idaho"}`)

	out, _, err := runCLI(t, env.configPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "genres")
	requireContains(t, out, "states")
	requireContains(t, out, "2")
	requireContains(t, out, "1")

	out, _, err = runCLI(t, env.configPath, "cache", "clear", "--domain", "genres")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Cleared 2 genres cache entries")

	data, err := os.ReadFile(env.genreCache)
	if err != nil {
		t.Fatalf("read cleared cache: %v", err)
	}
	if strings.TrimSpace(string(data)) != "{}" {
		t.Errorf("cleared cache should be empty, got %q", data)
	}
	if _, err := os.Stat(env.stateCache); err != nil {
		t.Error("state cache must survive a genres-only clear")
	}
}

func TestCacheStatsUnknownDomain(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "cache", "stats", "--domain", "venues")
	if err == nil || !strings.Contains(err.Error(), "unknown cache domain") {
		t.Fatalf("expected unknown domain error, got %v", err)
	}
}
