package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/hireportal/internal/client/client"
	"github.com/dmitrijs2005/hireportal/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/hireportal/internal/client/session"
	"github.com/dmitrijs2005/hireportal/internal/logging"
)

// Bootstrapper restores a persisted session into the store at startup.
type Bootstrapper struct {
	client client.Client
	store  *session.Store
	repo   tokens.Repository
	log    logging.Logger

	once sync.Once
}

// NewBootstrapper wires a Bootstrapper. A nil logger discards output.
func NewBootstrapper(c client.Client, store *session.Store, repo tokens.Repository, log logging.Logger) *Bootstrapper {
	if log == nil {
		log = logging.Nop()
	}
	return &Bootstrapper{client: c, store: store, repo: repo, log: log.With("component", "bootstrap")}
}

// Restore runs the restoration once; later calls return immediately.
// It never fails: any problem leaves the store unauthenticated.
func (b *Bootstrapper) Restore(ctx context.Context) {
	b.once.Do(func() { b.restore(ctx) })
}

func (b *Bootstrapper) restore(ctx context.Context) {
	b.store.BeginRestore()

	pair, ok, err := b.repo.Load(ctx)
	if err != nil {
		b.log.Warn(ctx, "cannot read persisted tokens", "error", err)
		b.store.Clear()
		return
	}
	if !ok {
		b.log.Debug(ctx, "no persisted session")
		b.store.Clear()
		return
	}

	user, err := b.client.Me(ctx, pair.AccessToken)
	if err != nil {
		b.store.Clear()
		if errors.Is(err, context.Canceled) {
			// shutting down; keep the tokens for the next start
			b.log.Info(ctx, "session restore canceled")
			return
		}
		b.log.Info(ctx, "persisted session rejected", "error", err)
		if err := b.repo.Clear(ctx); err != nil {
			b.log.Error(ctx, "cannot clear persisted tokens", "error", err)
		}
		return
	}

	b.store.SetUser(*user)
	b.store.SetTokens(pair.AccessToken, pair.RefreshToken)
	b.log.Info(ctx, "session restored", "user_id", user.ID)
}
