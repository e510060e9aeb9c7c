// Package identitytest provides an in-memory Identity Service for tests.
//
// It speaks the same JSON contract as the real service (login, register,
// me, refresh, logout) and lets tests inject failures per route.
package identitytest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/common"
)

// BasePath is the API prefix served by Server.
const BasePath = "/api/v1"

// Routes, relative to BasePath.
const (
	RouteLogin    = "/auth/login"
	RouteRegister = "/auth/register"
	RouteMe       = "/auth/me"
	RouteRefresh  = "/auth/refresh"
	RouteLogout   = "/auth/logout"
)

type account struct {
	user models.User
	hash []byte
}

type failure struct {
	status int
	detail string
}

// Server is a fake Identity Service. The zero value is not usable; call New.
type Server struct {
	router *mux.Router
	secret []byte

	// AccessTTL is the lifetime of issued access tokens.
	AccessTTL time.Duration
	// Now is the clock used for token issue and validation.
	Now func() time.Time

	mu       sync.Mutex
	byEmail  map[string]*account
	byID     map[string]*account
	refresh  map[string]string // refresh token -> user id
	revoked  map[string]bool   // revoked access tokens
	failures map[string][]failure
	calls    map[string]int
}

// New returns a ready Server.
func New() *Server {
	s := &Server{
		secret:    []byte(uuid.NewString()),
		AccessTTL: 15 * time.Minute,
		Now:       time.Now,
		byEmail:   map[string]*account{},
		byID:      map[string]*account{},
		refresh:   map[string]string{},
		revoked:   map[string]bool{},
		failures:  map[string][]failure{},
		calls:     map[string]int{},
	}

	r := mux.NewRouter()
	api := r.PathPrefix(BasePath).Subrouter()
	api.Use(s.countAndFail)
	api.HandleFunc(RouteLogin, s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc(RouteRegister, s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc(RouteMe, s.handleMe).Methods(http.MethodGet)
	api.HandleFunc(RouteMe, s.handleUpdateMe).Methods(http.MethodPut)
	api.HandleFunc(RouteRefresh, s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc(RouteLogout, s.handleLogout).Methods(http.MethodPost)
	s.router = r
	return s
}

// Start runs a new Server on an httptest listener that is closed with tb.
// It returns the server and the API base URL.
func Start(tb testing.TB) (*Server, string) {
	tb.Helper()
	s := New()
	ts := httptest.NewServer(s)
	tb.Cleanup(ts.Close)
	return s, ts.URL + BasePath
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// FailNext makes the next request to route (e.g. "/auth/me") answer with
// status and detail. Calls queue up.
func (s *Server) FailNext(route string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, detail: detail})
}

// Calls reports how many requests reached route, failed ones included.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// AddUser registers an account directly and returns it.
func (s *Server) AddUser(email, password, firstName, lastName string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.addLocked(email, password, firstName, lastName, "")
	if err != nil {
		return models.User{}, err
	}
	return acc.user.Clone(), nil
}

// Issue mints a fresh token pair for an existing account.
func (s *Server) Issue(email string) (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return models.TokenPair{}, fmt.Errorf("unknown user %q", email)
	}
	return s.issueLocked(acc)
}

// Revoke invalidates an access token.
func (s *Server) Revoke(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[accessToken] = true
}

func (s *Server) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := strings.TrimPrefix(r.URL.Path, BasePath)

		s.mu.Lock()
		s.calls[route]++
		var f *failure
		if q := s.failures[route]; len(q) > 0 {
			f = &q[0]
			s.failures[route] = q[1:]
		}
		s.mu.Unlock()

		if f != nil {
			writeDetail(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byEmail[strings.ToLower(req.Email)]
	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	now := s.Now().UTC()
	acc.user.LastLoginAt = &now

	s.writeAuthLocked(w, http.StatusOK, acc)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Password) < 8 {
		writeValidation(w, "password", "String should have at least 8 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.addLocked(req.Email, req.Password, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeAuthLocked(w, http.StatusCreated, acc)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.authenticateLocked(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var upd models.UserUpdate
	if !decode(w, r, &upd) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.authenticateLocked(w, r)
	if !ok {
		return
	}
	if upd.FirstName != nil {
		acc.user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		acc.user.LastName = *upd.LastName
	}
	if upd.Phone != nil {
		p := *upd.Phone
		acc.user.Phone = &p
	}
	if upd.AvatarURL != nil {
		a := *upd.AvatarURL
		acc.user.AvatarURL = &a
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.refresh[req.RefreshToken]
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	delete(s.refresh, req.RefreshToken)

	pair, err := s.issueLocked(s.byID[id])
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.authenticateLocked(w, r)
	if !ok {
		return
	}
	s.revoked[bearer(r)] = true
	for tok, id := range s.refresh {
		if id == acc.user.ID {
			delete(s.refresh, tok)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addLocked(email, password, firstName, lastName, phone string) (*account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, exists := s.byEmail[email]; exists {
		return nil, errors.New("Email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	acc := &account{
		user: models.User{
			ID:        uuid.NewString(),
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			Status:    "active",
			CreatedAt: s.Now().UTC(),
		},
		hash: hash,
	}
	if phone != "" {
		acc.user.Phone = &phone
	}
	s.byEmail[email] = acc
	s.byID[acc.user.ID] = acc
	return acc, nil
}

func (s *Server) issueLocked(acc *account) (models.TokenPair, error) {
	now := s.Now()
	claims := jwt.RegisteredClaims{
		Subject:   acc.user.ID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTTL)),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return models.TokenPair{}, err
	}
	s.refresh[refresh] = acc.user.ID

	pair := models.NewTokenPair(access, refresh)
	pair.ExpiresIn = int(s.AccessTTL / time.Second)
	return pair, nil
}

func (s *Server) writeAuthLocked(w http.ResponseWriter, status int, acc *account) {
	pair, err := s.issueLocked(acc)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, status, models.AuthResponse{User: acc.user, Tokens: pair})
}

func (s *Server) authenticateLocked(w http.ResponseWriter, r *http.Request) (*account, bool) {
	raw := bearer(r)
	if raw == "" || s.revoked[raw] {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.Now))
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}

	acc, ok := s.byID[claims.Subject]
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "User not found")
		return nil, false
	}
	return acc, true
}

func bearer(r *http.Request) string {
	h := r.Header.Get(common.AuthorizationHeader)
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeValidation(w, "body", "Invalid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidation(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"body", field}, "msg": msg, "type": "value_error"}},
	})
}
