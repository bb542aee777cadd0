package googlemaps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		APIKey:     "key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestLookupReturnsStateLongName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("address") != "Boise, US" || q.Get("key") != "key" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(`{"status": "OK", "results": [{"address_components": [
			{"long_name": "Boise", "short_name": "Boise", "types": ["locality", "political"]},
			{"long_name": "Idaho", "short_name": "ID", "types": ["administrative_area_level_1", "political"]}
		]}]}`))
	})

	state, err := client.Lookup(context.Background(), "Boise")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if state != "Idaho" {
		t.Errorf("state = %q, want long name Idaho", state)
	}
}

func TestLookupZeroResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, err := client.Lookup(context.Background(), "Nowhere")
	if !errors.Is(err, enrich.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupDeniedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
	})

	_, err := client.Lookup(context.Background(), "Boise")
	if err == nil || errors.Is(err, enrich.ErrNotFound) {
		t.Errorf("expected a non-ErrNotFound error, got %v", err)
	}
}

func TestLookupNoStateComponent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "results": [{"address_components": [
			{"long_name": "Boise", "types": ["locality"]}
		]}]}`))
	})

	_, err := client.Lookup(context.Background(), "Boise")
	if !errors.Is(err, enrich.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
