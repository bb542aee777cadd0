// Package enrich implements the generic reference-data enrichment pipeline
// shared by the artist-genre and city-state subsystems.
//
// A Service resolves subjects through a provider adapter with a persisted
// lookup cache in front of the network. A Driver reconciles a persisted
// subject-to-value mapping with the subjects observed in a CSV dataset:
// missing subjects are looked up in batch, successes are merged into the
// mapping, and the mapping is applied back onto the dataset as derived
// columns. Domains parameterize the pipeline through Target: the subject
// column, an optional row filter, and the derived-column formatting.
package enrich
