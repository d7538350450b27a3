// Package goIdentity provides a credential and session engine: local-password and
// OAuth-provider authentication, JWT access tokens, opaque rotating refresh tokens
// bound to a (user, device) pair, and a Redis-backed identity cache in front of a
// pluggable persistent store.
//
// The package is designed for concurrent server workloads: Engine methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goIdentity is the public surface. It exposes [Engine], [Builder], [Config], and
// value types (User, TokenPair, AuditEvent, etc.). The [IdentityStore] interface is
// the single durable source of truth; callers supply an implementation (see the
// pgstore subpackage for a PostgreSQL one). The identity cache is a derived,
// disposable view: dropping it at any point costs latency, never correctness.
//
// # What this package must NOT do
//
//   - Serve HTTP, parse cookies or headers, or perform OAuth redirect handshakes
//     (the provider subpackage only verifies already-obtained provider tokens).
//   - Enforce uniqueness constraints in the cache; email and token uniqueness
//     belong to the store alone.
//   - Make a security decision from a cached snapshot: password verification and
//     refresh-token consumption always read through to the store.
package goIdentity
