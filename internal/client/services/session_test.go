package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hireportal/internal/client/client"
	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/client/session"
	"github.com/dmitrijs2005/hireportal/internal/common"
)

func authenticated(t *testing.T, repo *faultyRepo) *session.Store {
	t.Helper()
	store := session.NewStore()
	store.SetUser(testUser())
	store.SetTokens("acc", "ref")
	require.NoError(t, repo.Save(context.Background(), models.NewTokenPair("acc", "ref")))
	return store
}

func TestSessionService_Logout(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	fc := &fakeClient{}

	require.NoError(t, NewSessionService(fc, store, repo, nil).Logout(context.Background()))

	assert.Equal(t, session.StatusUnauthenticated, store.Status())
	assert.Equal(t, 1, fc.Calls("logout"))
	assert.Equal(t, "acc", fc.LastAccess)
	_, ok, _ := repo.Load(context.Background())
	assert.False(t, ok)
}

func TestSessionService_LogoutServerFailureIsIgnored(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	fc := &fakeClient{LogoutFn: func(ctx context.Context, access string) error {
		return fmt.Errorf("%w: timeout", client.ErrUnavailable)
	}}

	require.NoError(t, NewSessionService(fc, store, repo, nil).Logout(context.Background()))
	assert.Equal(t, session.StatusUnauthenticated, store.Status())
}

func TestSessionService_LogoutWithoutSessionSkipsServer(t *testing.T) {
	fc := &fakeClient{}
	repo := newFaultyRepo()

	require.NoError(t, NewSessionService(fc, session.NewStore(), repo, nil).Logout(context.Background()))
	assert.Zero(t, fc.Calls("logout"))
	assert.Equal(t, 1, repo.Clears)
}

func TestSessionService_LogoutStorageError(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	repo.ClearErr = fmt.Errorf("%w: locked", common.ErrStorage)

	err := NewSessionService(&fakeClient{}, store, repo, nil).Logout(context.Background())
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.Equal(t, session.StatusUnauthenticated, store.Status(), "memory is cleared regardless")
}

func TestSessionService_Refresh(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	fc := &fakeClient{RefreshFn: func(ctx context.Context, refresh string) (*models.TokenPair, error) {
		require.Equal(t, "ref", refresh)
		p := models.NewTokenPair("acc2", "ref2")
		return &p, nil
	}}

	got, err := NewSessionService(fc, store, repo, nil).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc2", got.AccessToken)

	st := store.State()
	assert.Equal(t, "acc2", st.Tokens.AccessToken)
	assert.Equal(t, "ref2", st.Tokens.RefreshToken)

	saved, ok, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "acc2", saved.AccessToken)
	assert.Equal(t, "ref2", saved.RefreshToken)
}

func TestSessionService_RefreshRollsBackOnStorageError(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	repo.SaveErr = fmt.Errorf("%w: disk full", common.ErrStorage)
	fc := &fakeClient{RefreshFn: func(ctx context.Context, refresh string) (*models.TokenPair, error) {
		p := models.NewTokenPair("acc2", "ref2")
		return &p, nil
	}}

	_, err := NewSessionService(fc, store, repo, nil).Refresh(context.Background())
	require.ErrorIs(t, err, common.ErrStorage)

	st := store.State()
	require.Equal(t, session.StatusAuthenticated, st.Status)
	assert.Equal(t, "acc", st.Tokens.AccessToken)
	assert.Equal(t, "ref", st.Tokens.RefreshToken)
}

func TestSessionService_RefreshRejectedEndsSession(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	fc := &fakeClient{RefreshFn: func(ctx context.Context, refresh string) (*models.TokenPair, error) {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Invalid refresh token"}
	}}

	_, err := NewSessionService(fc, store, repo, nil).Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, session.StatusUnauthenticated, store.Status())
	_, ok, _ := repo.Load(context.Background())
	assert.False(t, ok)
}

func TestSessionService_RefreshTransportErrorKeepsSession(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	fc := &fakeClient{RefreshFn: func(ctx context.Context, refresh string) (*models.TokenPair, error) {
		return nil, fmt.Errorf("%w: reset", client.ErrUnavailable)
	}}

	_, err := NewSessionService(fc, store, repo, nil).Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, session.StatusAuthenticated, store.Status())
}

func TestSessionService_RefreshRequiresSession(t *testing.T) {
	_, err := NewSessionService(&fakeClient{}, session.NewStore(), newFaultyRepo(), nil).Refresh(context.Background())
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestSessionService_ConcurrentRefreshSharesRequest(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	release := make(chan struct{})
	fc := &fakeClient{RefreshFn: func(ctx context.Context, refresh string) (*models.TokenPair, error) {
		<-release
		p := models.NewTokenPair("acc2", "ref2")
		return &p, nil
	}}
	svc := NewSessionService(fc, store, repo, nil)

	const n = 5
	var wg sync.WaitGroup
	results := make([]models.TokenPair, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.Refresh(context.Background())
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}

	require.Eventually(t, func() bool { return fc.Calls("refresh") == 1 }, time.Second, time.Millisecond)
	// give the other callers time to join the in-flight request
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, fc.Calls("refresh"))
	for _, p := range results {
		assert.Equal(t, "acc2", p.AccessToken)
	}
}

func TestSessionService_UpdateProfile(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	fc := &fakeClient{UpdateMeFn: func(ctx context.Context, access string, upd models.UserUpdate) (*models.User, error) {
		u := testUser()
		u.FirstName = *upd.FirstName
		return &u, nil
	}}
	svc := NewSessionService(fc, store, repo, nil)

	first := "Augusta"
	u, err := svc.UpdateProfile(context.Background(), models.UserUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", u.FirstName)
	assert.Equal(t, "Augusta", store.State().User.FirstName)
	assert.Equal(t, "acc", fc.LastAccess)

	// empty update is a no-op
	_, err = svc.UpdateProfile(context.Background(), models.UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, 1, fc.Calls("update_me"))
}

func TestSessionService_UpdateProfileFailureKeepsUser(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	fc := &fakeClient{UpdateMeFn: func(ctx context.Context, access string, upd models.UserUpdate) (*models.User, error) {
		return nil, errors.New("boom")
	}}

	last := "Byron"
	_, err := NewSessionService(fc, store, repo, nil).UpdateProfile(context.Background(), models.UserUpdate{LastName: &last})
	require.Error(t, err)
	assert.Equal(t, "Lovelace", store.State().User.LastName)
}

func TestSessionService_Reload(t *testing.T) {
	repo := newFaultyRepo()
	store := authenticated(t, repo)
	fc := &fakeClient{MeFn: func(ctx context.Context, access string) (*models.User, error) {
		u := testUser()
		u.LastName = "King"
		return &u, nil
	}}

	u, err := NewSessionService(fc, store, repo, nil).Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "King", u.LastName)
	assert.Equal(t, "King", store.State().User.LastName)
}
