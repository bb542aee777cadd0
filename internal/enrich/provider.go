package enrich

import (
	"context"
	"errors"
)

// ErrNotFound reports that a provider completed a lookup but found no value
// for the subject. It is the only lookup error callers are expected to test
// for; anything else is a transport or parse failure.
var ErrNotFound = errors.New("not found")

// Provider resolves a subject to a domain value through an external service.
// Implementations validate their credentials at construction, so Lookup never
// fails for configuration reasons.
type Provider[V any] interface {
	// Name identifies the provider in cache keys and progress output.
	Name() string
	// Lookup resolves subject, returning ErrNotFound when the service has no
	// answer.
	Lookup(ctx context.Context, subject string) (V, error)
}

// Result captures a single batch-lookup outcome.
type Result[V any] struct {
	Value V
	Found bool
}
