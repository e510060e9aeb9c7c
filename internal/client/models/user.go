// Package models defines client-side data models used by the hireportal CLI.
package models

import (
	"strings"
	"time"
)

// User is the profile returned by the Identity Service.
// It is replaced as a whole on re-fetch and never edited in place.
type User struct {
	// ID is the opaque server-side identifier (a UUID string).
	ID string `json:"id"`

	// Email is unique per account and lowercase by convention.
	Email string `json:"email"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Phone is optional.
	Phone *string `json:"phone,omitempty"`
	// AvatarURL is optional.
	AvatarURL *string `json:"avatar_url,omitempty"`

	// Status is the account status reported by the server, e.g. "active".
	Status string `json:"status,omitempty"`

	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// DisplayName joins first and last name, falling back to the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Initials returns the upper-cased first letters of first and last name.
func (u User) Initials() string {
	var b strings.Builder
	for _, s := range []string{u.FirstName, u.LastName} {
		for _, r := range s {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return b.String()
}

// ShortID returns the first 8 characters of the identifier followed by "...".
func (u User) ShortID() string {
	if len(u.ID) <= 8 {
		return u.ID
	}
	return u.ID[:8] + "..."
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	c := u
	c.Phone = cloneString(u.Phone)
	c.AvatarURL = cloneString(u.AvatarURL)
	c.EmailVerifiedAt = cloneTime(u.EmailVerifiedAt)
	c.LastLoginAt = cloneTime(u.LastLoginAt)
	return c
}

// UserUpdate is the partial profile update accepted by PUT /auth/me.
// Nil fields are left unchanged on the server.
type UserUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Empty reports whether no field is set.
func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil && u.AvatarURL == nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
