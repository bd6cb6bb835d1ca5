// Package client talks to the FeedbackHub backend.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts (AuthAPI, FeedbackAPI, Client).
//  2. HTTPClient, a JSON-over-HTTP implementation that attaches the bearer
//     token and a request id to every call and maps responses to errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database with embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses become *APIError. Its Unwrap maps 401 to
// ErrUnauthorized and 502/503/504 to ErrUnavailable; transport failures are
// wrapped in ErrUnavailable. IsEditWindowExpired detects the server's
// edit-window rejection and MessageOf extracts a displayable message.
//
// No timeout is applied to calls unless one is configured; cancellation
// follows the caller's context.
package client
