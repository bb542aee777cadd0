package mapbox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		AccessToken: "token",
		BaseURL:     server.URL,
		HTTPClient:  server.Client(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestNewRequiresAccessToken(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing access token")
	}
}

func TestLookupReturnsRegion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/Boise.json") {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("access_token") != "token" || q.Get("country") != "us" || q.Get("types") != "place" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(`{"features": [{"place_name": "Boise, Idaho, United States", "context": [
			{"id": "district.123", "text": "Ada County"},
			{"id": "region.456", "text": "Idaho"},
			{"id": "country.789", "text": "United States"}
		]}]}`))
	})

	state, err := client.Lookup(context.Background(), "Boise")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if state != "Idaho" {
		t.Errorf("state = %q", state)
	}
}

func TestLookupNoFeatures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": []}`))
	})

	_, err := client.Lookup(context.Background(), "Nowhere")
	if !errors.Is(err, enrich.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupNoRegionContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": [{"context": [{"id": "country.789", "text": "United States"}]}]}`))
	})

	_, err := client.Lookup(context.Background(), "Boise")
	if !errors.Is(err, enrich.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Authorized"}`, http.StatusUnauthorized)
	})

	if _, err := client.Lookup(context.Background(), "Boise"); err == nil {
		t.Fatal("expected error on 401")
	}
}
