// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

// AuthorizationHeaderName carries the bearer access token on outbound HTTP
// requests. gRPC metadata uses its lowercase form.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName correlates client and server log lines.
const RequestIDHeaderName = "X-Request-ID"

// Envelope codes shared by the backend and the client classifier.
const (
	CodeOK           = 200
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeInternal     = 500
)
