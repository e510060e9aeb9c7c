package client

import (
	"context"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
)

// Client is the Identity Service contract. All methods honor ctx.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, accessToken string) (*models.User, error)
	UpdateMe(ctx context.Context, accessToken string, upd models.UserUpdate) (*models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}
