package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/hireportal/internal/client/client"
	"github.com/dmitrijs2005/hireportal/internal/client/flows"
	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/client/notify"
	"github.com/dmitrijs2005/hireportal/internal/client/session"
	"github.com/dmitrijs2005/hireportal/internal/client/validation"
	"github.com/dmitrijs2005/hireportal/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// form is the part of a flow controller the commands render.
type form interface {
	Errors() []*validation.FieldError
}

// Login prompts for credentials and submits them through the login controller.
func (a *App) Login(ctx context.Context) error {
	if !a.requireNoSession() {
		return nil
	}
	a.router.Navigate(a.config.LoginPath)

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	out := a.login.Submit(ctx, validation.Values{
		validation.FieldEmail:    email,
		validation.FieldPassword: string(password),
	})
	a.report(a.login, out)
	return nil
}

// Register prompts for the account fields and submits them through the
// register controller. The password strength is shown before submitting.
func (a *App) Register(ctx context.Context) error {
	if !a.requireNoSession() {
		return nil
	}
	a.router.Navigate(registerPath)

	vs := validation.Values{}
	for _, p := range []struct {
		field  validation.Field
		prompt string
	}{
		{validation.FieldFirstName, "First name"},
		{validation.FieldLastName, "Last name"},
		{validation.FieldEmail, "Email"},
		{validation.FieldPhone, "Phone (optional, e.g. +15551234567)"},
	} {
		v, err := getSimpleText(a.reader, p.prompt, a.out)
		if err != nil {
			return err
		}
		vs[p.field] = v
	}

	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	vs[validation.FieldPassword] = string(password)
	renderStrength(a.out, validation.PasswordStrength(string(password)))

	out := a.register.Submit(ctx, vs)
	a.report(a.register, out)
	return nil
}

func (a *App) report(f form, out flows.Outcome) {
	switch out {
	case flows.OutcomeInvalid, flows.OutcomeFailed:
		renderFieldErrors(a.out, f.Errors())
	case flows.OutcomeIgnored:
		a.printf("A request is already in progress.\n")
	}
}

// Logout ends the session locally and on the server.
func (a *App) Logout(ctx context.Context) error {
	if !a.requireSession() {
		return nil
	}
	err := a.sessions.Logout(ctx)
	if err != nil {
		a.printf("Logged out, but the saved session could not be removed: %v\n", err)
	} else {
		a.printf("Logged out.\n")
	}
	a.router.Navigate(a.config.LoginPath)
	return err
}

// Me reloads the profile from the Identity Service and shows the dashboard.
func (a *App) Me(ctx context.Context) error {
	if !a.requireSession() {
		return nil
	}
	u, err := a.sessions.Reload(ctx)
	if err != nil {
		a.printf("Could not load profile: %s\n", userMessage(err))
		if errors.Is(err, client.ErrUnauthorized) {
			a.printf("Your session has expired, try 'refresh' or log in again.\n")
		}
		return err
	}
	renderDashboard(a.out, u)
	return nil
}

// Profile edits the name and phone of the current user.
func (a *App) Profile(ctx context.Context) error {
	if !a.requireSession() {
		return nil
	}
	cur := a.store.State().User

	a.printf("Leave a field empty to keep the current value.\n")
	var upd models.UserUpdate
	first, err := getSimpleText(a.reader, "First name ["+cur.FirstName+"]", a.out)
	if err != nil {
		return err
	}
	last, err := getSimpleText(a.reader, "Last name ["+cur.LastName+"]", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone", a.out)
	if err != nil {
		return err
	}

	if phone != "" {
		var fe *validation.FieldError
		if err := validation.RegisterRules.Validate(validation.FieldPhone, phone); errors.As(err, &fe) {
			renderFieldErrors(a.out, []*validation.FieldError{fe})
			return nil
		}
		upd.Phone = &phone
	}
	if first != "" {
		upd.FirstName = &first
	}
	if last != "" {
		upd.LastName = &last
	}
	if upd.Empty() {
		a.printf("Nothing to update.\n")
		return nil
	}

	u, err := a.sessions.UpdateProfile(ctx, upd)
	if err != nil {
		a.printf("Profile update failed: %s\n", userMessage(err))
		return err
	}
	a.printf("Profile updated.\n")
	renderDashboard(a.out, u)
	return nil
}

// Refresh exchanges the refresh token for a new token pair.
func (a *App) Refresh(ctx context.Context) error {
	if !a.requireSession() {
		return nil
	}
	pair, err := a.sessions.Refresh(ctx)
	if err != nil {
		a.printf("Refresh failed: %s\n", userMessage(err))
		if !a.isLoggedIn() {
			a.router.Navigate(a.config.LoginPath)
		}
		return err
	}
	a.printf("Session refreshed.\n")
	renderExpiry(a.out, pair, a.now())
	return nil
}

// Status prints the session state.
func (a *App) Status(ctx context.Context) error {
	st := a.store.State()
	a.printf("Session: %s\n", st.Status)
	a.printf("Path:    %s\n", a.router.Path())
	if st.Status == session.StatusAuthenticated {
		a.printf("User:    %s <%s>\n", st.User.DisplayName(), st.User.Email)
		renderExpiry(a.out, *st.Tokens, a.now())
	}
	for _, n := range a.notices() {
		renderNotice(a.out, n)
	}
	return nil
}

// Strength rates a password without submitting anything.
func (a *App) Strength(ctx context.Context) error {
	password, err := getPassword(a.out, "Password to rate")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s := validation.PasswordStrength(string(password))
	if s.Label == "" {
		a.printf("Empty password.\n")
		return nil
	}
	renderStrength(a.out, s)
	return nil
}

// Dismiss hides visible notifications.
func (a *App) Dismiss(ctx context.Context) error {
	a.login.DismissNotice()
	a.register.DismissNotice()
	return nil
}

func (a *App) notices() []notify.Notification {
	var out []notify.Notification
	if n, ok := a.login.Notice(); ok {
		out = append(out, n)
	}
	if n, ok := a.register.Notice(); ok {
		out = append(out, n)
	}
	return out
}

// requireSession reports whether protected commands may run, explaining why
// not otherwise.
func (a *App) requireSession() bool {
	switch a.store.Status() {
	case session.StatusAuthenticated:
		return true
	case session.StatusRestoring:
		a.printf("Restoring session...\n")
	default:
		a.printf("Please log in first.\n")
	}
	return false
}

// requireNoSession reports whether login or register may start.
func (a *App) requireNoSession() bool {
	switch a.store.Status() {
	case session.StatusAuthenticated:
		a.printf("Already logged in. Use 'logout' first.\n")
	case session.StatusRestoring:
		a.printf("Restoring session...\n")
	default:
		return true
	}
	return false
}

// enter is called by the router whenever the current path changes.
func (a *App) enter(path string) {
	switch path {
	case a.config.DashboardPath:
		if st := a.store.State(); st.User != nil {
			a.printf("-> %s\n", path)
			renderDashboard(a.out, *st.User)
		}
	case a.config.LoginPath:
		a.printf("-> %s  (type 'login' or 'register')\n", path)
	default:
		a.printf("-> %s\n", path)
	}
}

// showNotice renders notifications as they appear.
func (a *App) showNotice(n notify.Notification, visible bool) {
	if visible {
		renderNotice(a.out, n)
	}
}

func userMessage(err error) string {
	if d, ok := client.Detail(err); ok {
		return d
	}
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "identity service unavailable"
	case errors.Is(err, common.ErrStorage):
		return "could not access saved session"
	case errors.Is(err, common.ErrNotAuthenticated):
		return "not logged in"
	}
	return err.Error()
}
