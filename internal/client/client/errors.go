package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable       = errors.New("identity service unavailable")
	ErrRejected          = errors.New("request rejected")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx answer from the Identity Service.
type APIError struct {
	StatusCode int
	// Detail is the server-supplied message; empty when the body had none.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("identity service: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("identity service: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is matches the sentinel class of the status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRejected:
		return e.StatusCode >= 400 && e.StatusCode < 500
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrUnavailable:
		return e.StatusCode >= 500
	}
	return false
}

// Detail extracts the server-supplied message from err, if any.
func Detail(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return "", false
}

// IsRejected reports whether err is a 4xx answer.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
