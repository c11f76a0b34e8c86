// Package common contains constants and helpers shared by the client layers.
package common

const (
	// AuthorizationHeaderName carries the bearer credential.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "
	// RequestIDHeaderName correlates client logs with server logs.
	RequestIDHeaderName = "X-Request-ID"
	// ContentTypeJSON is sent with every JSON request body.
	ContentTypeJSON = "application/json"
)
