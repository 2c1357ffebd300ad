// Package client is the REST boundary of the jobfit CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     authentication (Login, Register, Me), résumé upload and reads, job
//     match submission and reads, and the admin statistics endpoint.
//  2. A concrete HTTP implementation (see HTTPClient) that encodes JSON
//     requests, attaches the bearer token, and maps HTTP status codes to
//     sentinel errors.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which carries the status code
// and the server's "detail" text and unwraps to one of the sentinels:
// ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrUnavailable.
// Transport failures (dial errors, timeouts) unwrap to ErrUnavailable.
//
// Concurrency & Contexts
//
// HTTPClient holds no per-session state: every authenticated call takes the
// token explicitly, so a single instance is safe for concurrent use.
// All operations accept context.Context and honor cancellation/timeouts.
package client
