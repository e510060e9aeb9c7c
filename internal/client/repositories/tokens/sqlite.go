package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/hireportal/internal/common"
	"github.com/dmitrijs2005/hireportal/internal/dbx"
)

// ErrIncompletePair is returned by Save for a pair missing either token.
var ErrIncompletePair = errors.New("token pair must carry both tokens")

// SQLiteRepository keeps the pair in the metadata table.
type SQLiteRepository struct {
	db *sql.DB
	// meta opens the key/value store on the database or on a transaction.
	meta func(db dbx.DBTX) metadata.Repository
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, meta: newMetadata}
}

func newMetadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (r *SQLiteRepository) Load(ctx context.Context) (models.TokenPair, bool, error) {
	meta := r.meta(r.db)

	access, err := meta.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return models.TokenPair{}, false, fmt.Errorf("%w: load access token: %w", common.ErrStorage, err)
	}
	refresh, err := meta.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return models.TokenPair{}, false, fmt.Errorf("%w: load refresh token: %w", common.ErrStorage, err)
	}

	pair := models.NewTokenPair(string(access), string(refresh))
	if !pair.Valid() {
		return models.TokenPair{}, false, nil
	}
	return pair, true, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, pair models.TokenPair) error {
	if !pair.Valid() {
		return fmt.Errorf("%w: %w", common.ErrStorage, ErrIncompletePair)
	}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := r.meta(tx)
		if err := meta.Set(ctx, common.AccessTokenKey, []byte(pair.AccessToken)); err != nil {
			return err
		}
		return meta.Set(ctx, common.RefreshTokenKey, []byte(pair.RefreshToken))
	})
	if err != nil {
		return fmt.Errorf("%w: save tokens: %w", common.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := r.meta(tx)
		if err := meta.Delete(ctx, common.AccessTokenKey); err != nil {
			return err
		}
		return meta.Delete(ctx, common.RefreshTokenKey)
	})
	if err != nil {
		return fmt.Errorf("%w: clear tokens: %w", common.ErrStorage, err)
	}
	return nil
}
