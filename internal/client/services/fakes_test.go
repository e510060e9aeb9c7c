package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/client/repositories/tokens"
)

// fakeClient implements client.Client with overridable funcs and call counters.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	MeFn       func(ctx context.Context, access string) (*models.User, error)
	RefreshFn  func(ctx context.Context, refresh string) (*models.TokenPair, error)
	UpdateMeFn func(ctx context.Context, access string, upd models.UserUpdate) (*models.User, error)
	LogoutFn   func(ctx context.Context, access string) error

	LastAccess string
}

func (f *fakeClient) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	f.count("login")
	panic("unexpected Login")
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.count("register")
	panic("unexpected Register")
}

func (f *fakeClient) Me(ctx context.Context, access string) (*models.User, error) {
	f.count("me")
	f.LastAccess = access
	return f.MeFn(ctx, access)
}

func (f *fakeClient) UpdateMe(ctx context.Context, access string, upd models.UserUpdate) (*models.User, error) {
	f.count("update_me")
	f.LastAccess = access
	return f.UpdateMeFn(ctx, access, upd)
}

func (f *fakeClient) Refresh(ctx context.Context, refresh string) (*models.TokenPair, error) {
	f.count("refresh")
	return f.RefreshFn(ctx, refresh)
}

func (f *fakeClient) Logout(ctx context.Context, access string) error {
	f.count("logout")
	f.LastAccess = access
	if f.LogoutFn == nil {
		return nil
	}
	return f.LogoutFn(ctx, access)
}

// faultyRepo wraps a repository and injects errors per operation.
type faultyRepo struct {
	tokens.Repository
	LoadErr  error
	SaveErr  error
	ClearErr error

	Clears int
}

func (r *faultyRepo) Load(ctx context.Context) (models.TokenPair, bool, error) {
	if r.LoadErr != nil {
		return models.TokenPair{}, false, r.LoadErr
	}
	return r.Repository.Load(ctx)
}

func (r *faultyRepo) Save(ctx context.Context, p models.TokenPair) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	return r.Repository.Save(ctx, p)
}

func (r *faultyRepo) Clear(ctx context.Context) error {
	r.Clears++
	if r.ClearErr != nil {
		return r.ClearErr
	}
	return r.Repository.Clear(ctx)
}

func newFaultyRepo() *faultyRepo {
	return &faultyRepo{Repository: tokens.NewMemoryRepository()}
}

func testUser() models.User {
	return models.User{ID: "0b7c6f1e-5f7d-4c1a-9a43-7a8a3c2e9d11", Email: "user@example.com", FirstName: "Ada", LastName: "Lovelace"}
}
