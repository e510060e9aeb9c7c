package tokens

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/common"
)

// MemoryRepository keeps the pair in process memory only. It backs the
// "memory" storage backend, where a session deliberately ends with the process.
type MemoryRepository struct {
	mu   sync.Mutex
	pair models.TokenPair
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(_ context.Context) (models.TokenPair, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.pair.Valid() {
		return models.TokenPair{}, false, nil
	}
	return models.NewTokenPair(r.pair.AccessToken, r.pair.RefreshToken), true, nil
}

func (r *MemoryRepository) Save(_ context.Context, pair models.TokenPair) error {
	if !pair.Valid() {
		return fmt.Errorf("%w: %w", common.ErrStorage, ErrIncompletePair)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pair = pair
	return nil
}

func (r *MemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pair = models.TokenPair{}
	return nil
}
