package models

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned by AccessExpiry when the access token carries no exp claim.
var ErrNoExpiry = errors.New("access token has no expiry")

// TokenPair is the credential pair issued by the Identity Service.
//
// Both tokens are required together: a pair with only one of them is invalid
// and must never be stored or persisted.
type TokenPair struct {
	// AccessToken is the short-lived bearer credential.
	AccessToken string `json:"access_token"`
	// RefreshToken is the long-lived credential used to obtain a new pair.
	RefreshToken string `json:"refresh_token"`

	// TokenType is informational ("bearer").
	TokenType string `json:"token_type,omitempty"`
	// ExpiresIn is the access token lifetime in seconds, as reported at issue time.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// NewTokenPair builds a pair from the two raw tokens.
func NewTokenPair(access, refresh string) TokenPair {
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}
}

// Valid reports whether both tokens are present.
func (p TokenPair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// AccessExpiry reads the exp claim of the access token.
//
// The signature is NOT verified: the client cannot verify it and only uses
// the value as a hint (status output, early refresh).
func (p TokenPair) AccessExpiry() (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(p.AccessToken, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// AccessExpired reports whether the access token's exp claim is before now.
// Tokens without a readable expiry are treated as not expired.
func (p TokenPair) AccessExpired(now time.Time) bool {
	exp, err := p.AccessExpiry()
	if err != nil {
		return false
	}
	return !now.Before(exp)
}
