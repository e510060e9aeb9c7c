package flows

import (
	"context"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/client/validation"
)

// RegisterController drives the registration form.
type RegisterController struct {
	*controller
}

// NewRegisterController returns an idle register controller.
func NewRegisterController(deps Deps, cfg Config) *RegisterController {
	c := newController("register", validation.RegisterRules, messages{
		invalid: "Please fix the errors before submitting",
		success: "Account created! Redirecting...",
		failed:  "Registration failed. Please try again.",
		storage: storageFailed,
	}, deps, cfg)

	c.authenticate = func(ctx context.Context, vs validation.Values) (*models.AuthResponse, error) {
		return deps.Client.Register(ctx, models.RegisterRequest{
			Email:     vs[validation.FieldEmail],
			Password:  vs[validation.FieldPassword],
			FirstName: vs[validation.FieldFirstName],
			LastName:  vs[validation.FieldLastName],
			Phone:     vs[validation.FieldPhone],
		})
	}
	return &RegisterController{controller: c}
}
