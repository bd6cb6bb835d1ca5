// Package common contains constants and small helpers shared by the client
// packages.
package common

// HTTP header names and values used on every outbound API request.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
	RequestIDHeaderName     = "X-Request-ID"
	ContentTypeJSON         = "application/json"
)
