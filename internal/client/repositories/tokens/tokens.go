// Package tokens persists the access/refresh token pair so that a session
// survives a process restart.
//
// Both tokens are always written and deleted together. Load reports a pair
// as present only when both halves are found; a lone half is treated as
// absent. Every backend failure is wrapped with common.ErrStorage.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
)

// Repository is the durable mirror of the in-memory token pair.
type Repository interface {
	// Load returns the persisted pair and whether a complete pair was found.
	Load(ctx context.Context) (models.TokenPair, bool, error)
	// Save writes both tokens atomically.
	Save(ctx context.Context, pair models.TokenPair) error
	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
