// Package resolve composes scoped rule documents into one deterministic
// effective rule set per (target path, tool) request.
//
// Resolution walks four stages: reference expansion (cycle-safe, post-order),
// scope filtering, precedence ordering (most-specific-last), and merging
// (idempotent, deduplicating byte-identical blocks across documents). Results are memoized per
// request against the document set's fingerprint hash, so any document change
// naturally invalidates prior entries.
package resolve
