// Package logging assembles the structured slog loggers used across the
// tourdata CLI.
//
// Two output formats are supported: a compact console format for interactive
// runs and JSON for machine consumption. Components obtain a tagged logger via
// NewComponentLogger so every record carries a component attribute.
package logging
