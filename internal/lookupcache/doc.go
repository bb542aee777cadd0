// Package lookupcache provides a local cache of successful provider lookups.
//
// The cache exists purely to avoid repeat network calls across process
// invocations: once a provider has resolved a subject, subsequent runs read
// the stored value instead of querying the provider again. Entries are
// write-once and never expire.
//
// # Storage
//
// The cache is stored as a single JSON object at a configurable path, keyed
// by "<subject>|<provider>" or "<subject>|<provider>|<country>" with the
// subject and country case-folded. The format is human-readable and easy to
// inspect or edit manually.
//
// CLI commands for inspection and management:
//
//	tourdata cache stats   # Entry counts per cache
//	tourdata cache clear   # Remove all entries
package lookupcache
