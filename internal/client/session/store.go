// Package session holds the process-wide authentication state of the client.
//
// The Store is the single source of truth for "who is logged in" while the
// process runs. It owns memory only: durability is the caller's job (see
// package tokens), and callers that establish a session must call both
// SetUser and SetTokens. Setting only one of them is a caller error; the
// store does not defend against it, it simply stays non-authenticated.
//
// Writers are the bootstrapper (at startup) and the auth flow controllers
// (login, register, logout). Everything else only reads State.
package session

import (
	"sync"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
)

// Status is the tag of the session state.
type Status int

const (
	StatusUnauthenticated Status = iota
	StatusRestoring
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusRestoring:
		return "restoring"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a read-only snapshot. User and Tokens are non-nil only when
// Status is StatusAuthenticated.
type State struct {
	Status Status
	User   *models.User
	Tokens *models.TokenPair
}

// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	restoring bool
	user      *models.User
	tokens    *models.TokenPair
}

// NewStore returns an unauthenticated store.
func NewStore() *Store {
	return &Store{}
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user != nil && s.tokens != nil {
		u := s.user.Clone()
		t := *s.tokens
		return State{Status: StatusAuthenticated, User: &u, Tokens: &t}
	}
	if s.restoring {
		return State{Status: StatusRestoring}
	}
	return State{Status: StatusUnauthenticated}
}

// Status is shorthand for State().Status.
func (s *Store) Status() Status {
	return s.State().Status
}

// IsAuthenticated reports whether a user and a token pair are held.
func (s *Store) IsAuthenticated() bool {
	return s.Status() == StatusAuthenticated
}

// BeginRestore marks the store as restoring. The restoring flag is dropped
// by Clear or superseded once both SetUser and SetTokens have been called.
func (s *Store) BeginRestore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoring = true
}

// SetUser replaces the current user.
func (s *Store) SetUser(u models.User) {
	c := u.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &c
	s.settleLocked()
}

// SetTokens replaces the current token pair.
func (s *Store) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.NewTokenPair(access, refresh)
	s.tokens = &p
	s.settleLocked()
}

// Clear drops user and tokens and returns to StatusUnauthenticated.
// It does not touch persisted tokens.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.tokens, s.restoring = nil, nil, false
}

func (s *Store) settleLocked() {
	if s.user != nil && s.tokens != nil {
		s.restoring = false
	}
}
