package lookupcache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/cheeseinvert/tour-data-eda/internal/fileutil"
	"github.com/cheeseinvert/tour-data-eda/internal/logging"
)

// keySeparator joins the subject, provider, and optional country qualifier.
const keySeparator = "|"

// Fold normalizes a subject for key comparison. Mapping membership tests use
// the same folding so the cache and the mapping agree on one policy.
func Fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// Key builds the cache key for a subject resolved through the named provider.
// country is an optional qualifier used by geocoding lookups.
func Key(subject, provider, country string) string {
	parts := []string{Fold(subject), strings.TrimSpace(provider)}
	if strings.TrimSpace(country) != "" {
		parts = append(parts, Fold(country))
	}
	return strings.Join(parts, keySeparator)
}

// Stats summarizes cache contents for diagnostics.
type Stats struct {
	Total            int
	DistinctSubjects int
}

// Cache provides thread-safe access to a persisted lookup cache. The value
// type matches the mapping value shape of the owning domain: a genre list for
// artists, a state name for cities.
type Cache[V any] struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]V
}

// New creates a cache instance backed by the JSON file at path. If path is
// empty, the cache is non-functional (all operations become no-ops). The file
// is created lazily on first Store call.
func New[V any](path string, logger *slog.Logger) *Cache[V] {
	logger = logging.NewComponentLogger(logger, "lookupcache")

	c := &Cache[V]{
		path:    path,
		logger:  logger,
		entries: make(map[string]V),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load lookup cache; starting empty",
			logging.Error(err),
			logging.String("path", path))
	}

	return c
}

// Lookup returns the cached value for key if present.
func (c *Cache[V]) Lookup(key string) (V, bool) {
	var zero V
	if key == "" || c.path == "" {
		return zero, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	value, found := c.entries[key]
	return value, found
}

// Store records a successful lookup and persists the cache to disk. Entries
// are write-once: storing an already-present key keeps the existing value.
func (c *Cache[V]) Store(key string, value V) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("cache key cannot be empty")
	}
	if c.path == "" {
		return nil // no-op when path not configured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return nil
	}
	c.entries[key] = value

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached lookup result", logging.String("key", key))
	return nil
}

// Count returns the number of entries in the cache.
func (c *Cache[V]) Count() int {
	if c.path == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Stats derives entry and distinct-subject counts from key decomposition.
func (c *Cache[V]) Stats() Stats {
	if c.path == "" {
		return Stats{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	subjects := make(map[string]struct{}, len(c.entries))
	for key := range c.entries {
		subject, _, _ := strings.Cut(key, keySeparator)
		subjects[subject] = struct{}{}
	}
	return Stats{Total: len(c.entries), DistinctSubjects: len(subjects)}
}

// Clear removes all entries and persists the empty cache.
func (c *Cache[V]) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]V)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cleared lookup cache")
	return nil
}

// load reads the cache from disk into memory.
func (c *Cache[V]) load() error {
	entries := make(map[string]V)
	if err := fileutil.ReadJSON(c.path, &entries); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	c.entries = entries
	c.logger.Debug("loaded lookup cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}

// save writes the cache to disk atomically. Keys sort deterministically
// because encoding/json orders map keys.
func (c *Cache[V]) save() error {
	return fileutil.WriteJSONAtomic(c.path, c.entries)
}
