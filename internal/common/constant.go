// Package common contains shared constants, sentinel errors and small helpers
// used across hireportal client components.
package common

const (
	// AuthorizationHeader carries the bearer access token on Identity Service calls.
	AuthorizationHeader = "Authorization"
	// RequestIDHeader correlates client log lines with server log lines.
	RequestIDHeader = "X-Request-ID"

	// AccessTokenKey and RefreshTokenKey are the persistence keys of the token pair.
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)
