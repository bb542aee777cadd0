package enrich

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cheeseinvert/tour-data-eda/internal/lookupcache"
)

// stubProvider resolves from a fixed table; nil table entries mean not found.
type stubProvider struct {
	name   string
	values map[string][]string
	calls  int
	fail   error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Lookup(_ context.Context, subject string) ([]string, error) {
	p.calls++
	if p.fail != nil {
		return nil, p.fail
	}
	value, ok := p.values[subject]
	if !ok || value == nil {
		return nil, ErrNotFound
	}
	return value, nil
}

func newTestService(t *testing.T, provider *stubProvider) (*Service[[]string], *lookupcache.Cache[[]string]) {
	t.Helper()
	cache := lookupcache.New[[]string](filepath.Join(t.TempDir(), "cache.json"), nil)
	service, err := NewService[[]string](provider, cache, "", nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return service, cache
}

func TestServiceRequiresProvider(t *testing.T) {
	cache := lookupcache.New[[]string]("", nil)
	if _, err := NewService[[]string](nil, cache, "", nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}

func TestLookupSuccessWritesThrough(t *testing.T) {
	provider := &stubProvider{name: "stub", values: map[string][]string{"Coldplay": {"pop", "rock"}}}
	service, cache := newTestService(t, provider)

	genres, found := service.Lookup(context.Background(), "Coldplay")
	if !found {
		t.Fatal("expected lookup success")
	}
	if len(genres) != 2 || genres[0] != "pop" {
		t.Errorf("unexpected value: %v", genres)
	}

	if _, ok := cache.Lookup(lookupcache.Key("Coldplay", "stub", "")); !ok {
		t.Error("successful lookup should be written through to the cache")
	}
}

func TestLookupCacheHitSkipsProvider(t *testing.T) {
	cache := lookupcache.New[[]string](filepath.Join(t.TempDir(), "cache.json"), nil)
	if err := cache.Store(lookupcache.Key("Coldplay", "stub", ""), []string{"pop"}); err != nil {
		t.Fatal(err)
	}

	provider := &stubProvider{name: "stub", fail: errors.New("provider must not be called")}
	service, err := NewService[[]string](provider, cache, "", nil)
	if err != nil {
		t.Fatal(err)
	}

	genres, found := service.Lookup(context.Background(), "Coldplay")
	if !found || len(genres) != 1 {
		t.Fatalf("expected cache hit, got %v (found=%v)", genres, found)
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times on a cache hit", provider.calls)
	}
}

func TestLookupFailureCollapsesToNotFound(t *testing.T) {
	provider := &stubProvider{name: "stub", fail: errors.New("connection refused")}
	service, cache := newTestService(t, provider)

	_, found := service.Lookup(context.Background(), "Coldplay")
	if found {
		t.Fatal("transport failure should collapse to not found")
	}
	if cache.Count() != 0 {
		t.Error("failures must not be cached")
	}
}

func TestLookupNotFoundNotCached(t *testing.T) {
	provider := &stubProvider{name: "stub", values: map[string][]string{}}
	service, cache := newTestService(t, provider)

	if _, found := service.Lookup(context.Background(), "Unknown Artist"); found {
		t.Fatal("expected not found")
	}
	if cache.Count() != 0 {
		t.Error("misses must not be cached")
	}
}

func TestBatchLookupOneEntryPerSubject(t *testing.T) {
	provider := &stubProvider{name: "stub", values: map[string][]string{}}
	service, _ := newTestService(t, provider)

	subjects := []string{"A", "B", "C"}
	results := service.BatchLookup(context.Background(), subjects, nil)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, subject := range subjects {
		result, ok := results[subject]
		if !ok {
			t.Errorf("missing result for %q", subject)
		}
		if result.Found {
			t.Errorf("result for %q should be not found", subject)
		}
	}
}

func TestBatchLookupSequentialProgress(t *testing.T) {
	provider := &stubProvider{name: "stub", values: map[string][]string{
		"Coldplay": {"pop"},
	}}
	service, _ := newTestService(t, provider)

	var order []string
	progress := func(index, total int, subject string, result Result[[]string]) {
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
		if index != len(order)+1 {
			t.Errorf("index = %d out of order", index)
		}
		order = append(order, subject)
	}

	service.BatchLookup(context.Background(), []string{"Coldplay", "Unknown"}, progress)

	if len(order) != 2 || order[0] != "Coldplay" || order[1] != "Unknown" {
		t.Errorf("progress order = %v", order)
	}
}

func TestBatchLookupDuplicateHitsCache(t *testing.T) {
	provider := &stubProvider{name: "stub", values: map[string][]string{"Coldplay": {"pop"}}}
	service, _ := newTestService(t, provider)

	service.BatchLookup(context.Background(), []string{"Coldplay", "Coldplay"}, nil)

	if provider.calls != 1 {
		t.Errorf("duplicate subject should hit cache on the repeat, provider called %d times", provider.calls)
	}
}
