package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/hireportal/internal/client/client"
	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/hireportal/internal/client/session"
	"github.com/dmitrijs2005/hireportal/internal/common"
	"github.com/dmitrijs2005/hireportal/internal/logging"
)

// SessionService operates on an authenticated session.
type SessionService struct {
	client client.Client
	store  *session.Store
	repo   tokens.Repository
	log    logging.Logger

	refreshes singleflight.Group
}

// NewSessionService wires a SessionService. A nil logger discards output.
func NewSessionService(c client.Client, store *session.Store, repo tokens.Repository, log logging.Logger) *SessionService {
	if log == nil {
		log = logging.Nop()
	}
	return &SessionService{client: c, store: store, repo: repo, log: log.With("component", "session")}
}

// Logout ends the session. The server is told on a best-effort basis; the
// local session and persisted tokens are dropped regardless. Only a
// persistence failure is returned.
func (s *SessionService) Logout(ctx context.Context) error {
	st := s.store.State()
	if st.Tokens != nil {
		if err := s.client.Logout(ctx, st.Tokens.AccessToken); err != nil {
			s.log.Warn(ctx, "server logout failed", "error", err)
		}
	}

	s.store.Clear()
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Error(ctx, "cannot clear persisted tokens", "error", err)
		return err
	}
	s.log.Info(ctx, "logged out")
	return nil
}

// Refresh exchanges the refresh token for a new pair. Store and persistence
// change together: if the new pair cannot be saved the previous pair is put
// back. A rejected refresh token ends the session. Concurrent callers share
// one request.
func (s *SessionService) Refresh(ctx context.Context) (models.TokenPair, error) {
	v, err, _ := s.refreshes.Do("refresh", func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return models.TokenPair{}, err
	}
	return v.(models.TokenPair), nil
}

func (s *SessionService) refresh(ctx context.Context) (models.TokenPair, error) {
	st := s.store.State()
	if st.Status != session.StatusAuthenticated {
		return models.TokenPair{}, common.ErrNotAuthenticated
	}
	prev := *st.Tokens

	next, err := s.client.Refresh(ctx, prev.RefreshToken)
	if err != nil {
		if client.IsRejected(err) {
			s.log.Info(ctx, "refresh token rejected, ending session", "error", err)
			s.store.Clear()
			if cerr := s.repo.Clear(ctx); cerr != nil {
				s.log.Error(ctx, "cannot clear persisted tokens", "error", cerr)
			}
		}
		return models.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}

	s.store.SetTokens(next.AccessToken, next.RefreshToken)
	if err := s.repo.Save(ctx, *next); err != nil {
		s.store.SetTokens(prev.AccessToken, prev.RefreshToken)
		s.log.Error(ctx, "cannot persist refreshed tokens", "error", err)
		return models.TokenPair{}, err
	}

	s.log.Debug(ctx, "tokens refreshed")
	return *next, nil
}

// UpdateProfile sends a partial profile update and replaces the stored user
// with the server's answer.
func (s *SessionService) UpdateProfile(ctx context.Context, upd models.UserUpdate) (models.User, error) {
	st := s.store.State()
	if st.Status != session.StatusAuthenticated {
		return models.User{}, common.ErrNotAuthenticated
	}
	if upd.Empty() {
		return *st.User, nil
	}

	user, err := s.client.UpdateMe(ctx, st.Tokens.AccessToken, upd)
	if err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	s.store.SetUser(*user)
	s.log.Info(ctx, "profile updated", "user_id", user.ID)
	return *user, nil
}

// Reload re-fetches the current user from the Identity Service.
func (s *SessionService) Reload(ctx context.Context) (models.User, error) {
	st := s.store.State()
	if st.Status != session.StatusAuthenticated {
		return models.User{}, common.ErrNotAuthenticated
	}
	user, err := s.client.Me(ctx, st.Tokens.AccessToken)
	if err != nil {
		return models.User{}, fmt.Errorf("reload profile: %w", err)
	}
	s.store.SetUser(*user)
	return *user, nil
}
