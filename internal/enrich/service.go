package enrich

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cheeseinvert/tour-data-eda/internal/logging"
	"github.com/cheeseinvert/tour-data-eda/internal/lookupcache"
)

// ProgressFunc reports per-item batch progress. index is 1-based.
type ProgressFunc[V any] func(index, total int, subject string, result Result[V])

// Service is the single entry point for resolving subjects through a
// provider, with the lookup cache short-circuiting before any network call.
type Service[V any] struct {
	provider Provider[V]
	cache    *lookupcache.Cache[V]
	country  string // optional cache-key qualifier (geocoding only)
	logger   *slog.Logger
}

// NewService wires a resolved provider to its cache. country qualifies cache
// keys for geocoding lookups and may be empty.
func NewService[V any](provider Provider[V], cache *lookupcache.Cache[V], country string, logger *slog.Logger) (*Service[V], error) {
	if provider == nil {
		return nil, errors.New("enrich: provider is required")
	}
	if cache == nil {
		return nil, errors.New("enrich: cache is required")
	}
	return &Service[V]{
		provider: provider,
		cache:    cache,
		country:  country,
		logger:   logging.NewComponentLogger(logger, "lookup"),
	}, nil
}

// Provider returns the name of the configured provider.
func (s *Service[V]) Provider() string {
	return s.provider.Name()
}

// Lookup resolves a single subject. Cache hits return without touching the
// network. Provider misses and failures both collapse to found=false; only
// configuration problems abort a run, and those surfaced at construction.
func (s *Service[V]) Lookup(ctx context.Context, subject string) (V, bool) {
	key := lookupcache.Key(subject, s.provider.Name(), s.country)
	if value, ok := s.cache.Lookup(key); ok {
		s.logger.Debug("cache hit",
			logging.String("subject", subject),
			logging.String("provider", s.provider.Name()))
		return value, true
	}

	value, err := s.provider.Lookup(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug("subject not found",
				logging.String("subject", subject),
				logging.String("provider", s.provider.Name()))
		} else {
			s.logger.Warn("lookup failed",
				logging.String("subject", subject),
				logging.String("provider", s.provider.Name()),
				logging.Error(err))
		}
		var zero V
		return zero, false
	}

	if err := s.cache.Store(key, value); err != nil {
		// A cache write failure costs a repeat lookup next run, nothing more.
		s.logger.Warn("cache write failed",
			logging.String("subject", subject),
			logging.Error(err))
	}
	return value, true
}

// BatchLookup resolves subjects strictly sequentially in input order,
// returning one entry per subject. Individual misses never abort the batch.
// Duplicate subjects are looked up again; the repeat hits the cache.
func (s *Service[V]) BatchLookup(ctx context.Context, subjects []string, progress ProgressFunc[V]) map[string]Result[V] {
	results := make(map[string]Result[V], len(subjects))
	total := len(subjects)

	for i, subject := range subjects {
		value, found := s.Lookup(ctx, subject)
		result := Result[V]{Value: value, Found: found}
		results[subject] = result
		if progress != nil {
			progress(i+1, total, subject, result)
		}
	}

	return results
}

// Stats returns cache diagnostics.
func (s *Service[V]) Stats() lookupcache.Stats {
	return s.cache.Stats()
}
