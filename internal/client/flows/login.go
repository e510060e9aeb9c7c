package flows

import (
	"context"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/client/validation"
)

// InvalidCredentials replaces both login field errors after a rejection.
const InvalidCredentials = "Invalid credentials"

// LoginController drives the login form.
type LoginController struct {
	*controller
}

// NewLoginController returns an idle login controller.
func NewLoginController(deps Deps, cfg Config) *LoginController {
	c := newController("login", validation.LoginRules, messages{
		invalid: "Please fix the validation errors",
		success: "Login successful! Redirecting...",
		failed:  "Login failed. Please check your credentials.",
		storage: storageFailed,
	}, deps, cfg)

	c.authenticate = func(ctx context.Context, vs validation.Values) (*models.AuthResponse, error) {
		return deps.Client.Login(ctx, models.LoginRequest{
			Email:    vs[validation.FieldEmail],
			Password: vs[validation.FieldPassword],
		})
	}
	c.onRejected = func(f *validation.Form) {
		f.SetError(validation.FieldEmail, InvalidCredentials)
		f.SetError(validation.FieldPassword, InvalidCredentials)
	}
	return &LoginController{controller: c}
}
