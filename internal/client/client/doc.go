// Package client talks to the Identity Service, the external HTTP/JSON API
// that issues tokens and resolves the current user.
//
// # Overview
//
// Client is the transport-agnostic contract used by the session services and
// the auth flow controllers. HTTPClient implements it over net/http against
// these endpoints (relative to the configured base URL):
//
//	POST /auth/login     {email, password}                          -> {user, tokens}
//	POST /auth/register  {email, password, first_name, last_name, phone?} -> {user, tokens}
//	GET  /auth/me        (bearer)                                   -> user
//	PUT  /auth/me        (bearer) {first_name?, last_name?, ...}    -> user
//	POST /auth/refresh   {refresh_token}                            -> tokens
//	POST /auth/logout    (bearer)                                   -> 204
//
// # Error Handling
//
// Non-2xx responses become *APIError carrying the status code and the
// human-readable "detail" from the body. APIError unwraps to a sentinel so
// callers can branch with errors.Is:
//
//   - ErrRejected: any 4xx (credentials or input refused by the server).
//   - ErrUnauthorized: 401 and 403, in addition to ErrRejected.
//   - ErrUnavailable: 5xx, network failures and timeouts.
//   - ErrMalformedResponse: a 2xx whose body cannot be decoded.
//
// Every request carries an X-Request-ID header that is also logged.
package client
