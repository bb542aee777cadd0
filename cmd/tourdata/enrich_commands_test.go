package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenresUnknownProvider(t *testing.T) {
	env := setupCLITestEnv(t)
	dataset := filepath.Join(env.baseDir, "concerts.csv")
	writeFile(t, dataset, "Artist\nColdplay\n")

	_, _, err := runCLI(t, env.configPath, "genres", dataset, "--provider", "soundcloud")
	if err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
}

func TestGenresMissingCredentialsFailBeforeLookup(t *testing.T) {
	env := setupCLITestEnv(t)
	dataset := filepath.Join(env.baseDir, "concerts.csv")
	writeFile(t, dataset, "Artist\nColdplay\n")

	_, _, err := runCLI(t, env.configPath, "genres", dataset, "--provider", "spotify")
	if err == nil || !strings.Contains(err.Error(), "client id") {
		t.Fatalf("expected credential error, got %v", err)
	}
}

func TestGenresFullyMappedRunsOffline(t *testing.T) {
	env := setupCLITestEnv(t)
	dataset := filepath.Join(env.baseDir, "concerts.csv")
	writeFile(t, dataset, "Artist,Venue\nColdplay,Red Rocks\nMuse,The Gorge\n")
	writeFile(t, env.genreMapSrc, `{"Coldplay": ["pop", "rock"], "Muse": ["rock"]}`)

	out, _, err := runCLI(t, env.configPath, "genres", dataset)
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	requireContains(t, out, "musicbrainz")
	requireContains(t, out, "New mappings")

	output, err := os.ReadFile(filepath.Join(env.baseDir, "concerts_with_genres.csv"))
	if err != nil {
		t.Fatalf("expected enriched output: %v", err)
	}
	content := string(output)
	requireContains(t, content, "Genre")
	requireContains(t, content, "All_Genres")
	requireContains(t, content, `"pop, rock"`)
}

func TestGenresDryRunWritesNoFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	dataset := filepath.Join(env.baseDir, "concerts.csv")
	writeFile(t, dataset, "Artist\nColdplay\n")
	writeFile(t, env.genreMapSrc, `{"Coldplay": ["pop"]}`)

	if _, _, err := runCLI(t, env.configPath, "genres", dataset, "--dry-run"); err != nil {
		t.Fatalf("genres --dry-run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.baseDir, "concerts_with_genres.csv")); !os.IsNotExist(err) {
		t.Error("dry run must not write the output dataset")
	}
}

func TestStatesFullyMappedRunsOffline(t *testing.T) {
	env := setupCLITestEnv(t)
	dataset := filepath.Join(env.baseDir, "concerts.csv")
	writeFile(t, dataset, "Artist,City,Country\nColdplay,Boise,United States\nColdplay,Toronto,Canada\n")
	writeFile(t, env.stateMapSrc, `{"Boise": "Idaho"}`)

	out, _, err := runCLI(t, env.configPath, "states", dataset)
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	requireContains(t, out, "nominatim")

	output, err := os.ReadFile(filepath.Join(env.baseDir, "concerts_with_states.csv"))
	if err != nil {
		t.Fatalf("expected enriched output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[1], ",Idaho") {
		t.Errorf("US row should carry the state: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",") {
		t.Errorf("non-US row should stay empty: %q", lines[2])
	}
}

func TestStatesMissingMapboxToken(t *testing.T) {
	env := setupCLITestEnv(t)
	dataset := filepath.Join(env.baseDir, "concerts.csv")
	writeFile(t, dataset, "Artist,City,Country\nColdplay,Boise,United States\n")

	_, _, err := runCLI(t, env.configPath, "states", dataset, "--provider", "mapbox")
	if err == nil || !strings.Contains(err.Error(), "access token") {
		t.Fatalf("expected access token error, got %v", err)
	}
}

func TestGenresCustomOutputPath(t *testing.T) {
	env := setupCLITestEnv(t)
	dataset := filepath.Join(env.baseDir, "concerts.csv")
	target := filepath.Join(env.baseDir, "enriched.csv")
	writeFile(t, dataset, "Artist\nColdplay\n")
	writeFile(t, env.genreMapSrc, `{"Coldplay": ["pop"]}`)

	if _, _, err := runCLI(t, env.configPath, "genres", dataset, "--output", target); err != nil {
		t.Fatalf("genres: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected output at %s: %v", target, err)
	}
}
