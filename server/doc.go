// Package server exposes the dissociation engine over HTTP.
//
// The Server type wires a corpus and a dissociator behind a gin router:
// liveness and status endpoints, single-predicate study listings, and the
// two dissociation endpoints. Every request carries a request ID (taken
// from X-Request-ID or generated) and is access-logged through slog.
//
// # Error Contract
//
// Malformed predicate input answers 400 with an error field. A corpus that
// cannot be consulted answers 500; the dissociation endpoints never degrade
// a failed lookup into an empty result.
package server
