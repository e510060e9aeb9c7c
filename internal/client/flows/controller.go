package flows

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/hireportal/internal/client/client"
	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/client/notify"
	"github.com/dmitrijs2005/hireportal/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/hireportal/internal/client/session"
	"github.com/dmitrijs2005/hireportal/internal/client/validation"
	"github.com/dmitrijs2005/hireportal/internal/logging"
)

// Outcome is the result of one Submit call.
type Outcome int

const (
	OutcomeInvalid Outcome = iota
	OutcomeSuccess
	OutcomeFailed
	// OutcomeIgnored means another submission was already in flight.
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeIgnored:
		return "ignored"
	}
	return "unknown"
}

// Phase is the controller's position in the submission state machine.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	}
	return "unknown"
}

// Navigator moves the presentation layer to path.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Deps are the collaborators shared by both controllers.
type Deps struct {
	Client    client.Client
	Store     *session.Store
	Tokens    tokens.Repository
	Navigator Navigator

	// Scheduler drives the notification and redirect timers. Nil means real time.
	Scheduler notify.Scheduler
	// Clock stamps notification expiry. Nil means time.Now.
	Clock func() time.Time
	// OnNotice is told about every visible notification change.
	OnNotice notify.Listener
	Logger   logging.Logger
}

// Config tunes a controller.
type Config struct {
	NoticeTTL     time.Duration
	RedirectDelay time.Duration
	DashboardPath string
}

// messages are the user-facing strings of one form.
type messages struct {
	invalid string
	success string
	failed  string
	storage string
}

const storageFailed = "Could not save your session. Please try again."

type authenticateFunc func(ctx context.Context, vs validation.Values) (*models.AuthResponse, error)

// controller is the machinery shared by the login and register forms.
type controller struct {
	name string
	deps Deps
	cfg  Config
	msgs messages
	log  logging.Logger

	authenticate authenticateFunc
	// onRejected reshapes field errors after a 4xx answer.
	onRejected func(f *validation.Form)

	notices *notify.Channel
	phase   atomic.Int32

	formMu sync.Mutex
	form   *validation.Form

	redirectMu sync.Mutex
	redirect   notify.Timer
	redirectN  uint64
	closed     bool
}

func newController(name string, rules validation.Rules, msgs messages, deps Deps, cfg Config) *controller {
	if deps.Scheduler == nil {
		deps.Scheduler = notify.RealScheduler{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Navigator == nil {
		deps.Navigator = NavigatorFunc(func(string) {})
	}

	opts := []notify.Option{notify.WithScheduler(deps.Scheduler)}
	if deps.Clock != nil {
		opts = append(opts, notify.WithClock(deps.Clock))
	}
	if deps.OnNotice != nil {
		opts = append(opts, notify.WithListener(deps.OnNotice))
	}

	return &controller{
		name:    name,
		deps:    deps,
		cfg:     cfg,
		msgs:    msgs,
		log:     deps.Logger.With("form", name),
		notices: notify.New(cfg.NoticeTTL, opts...),
		form:    validation.NewForm(rules),
	}
}

// Submit validates vs and, if valid, authenticates against the Identity
// Service. A call made while another is in flight returns OutcomeIgnored
// without side effects.
func (c *controller) Submit(ctx context.Context, vs validation.Values) Outcome {
	if !c.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseValidating)) {
		c.log.Debug(ctx, "submit ignored, already in flight")
		return OutcomeIgnored
	}
	defer c.phase.Store(int32(PhaseIdle))

	c.formMu.Lock()
	c.form.Set(vs)
	valid := c.form.ValidateAll()
	values := c.form.Values()
	c.formMu.Unlock()

	if !valid {
		c.notices.Error(c.msgs.invalid)
		return OutcomeInvalid
	}

	c.phase.Store(int32(PhaseSubmitting))
	resp, err := c.authenticate(ctx, values)
	if err != nil {
		c.fail(ctx, err)
		return OutcomeFailed
	}

	if err := c.commit(ctx, resp); err != nil {
		c.log.Error(ctx, "cannot persist session", "error", err)
		c.notices.Error(c.msgs.storage)
		return OutcomeFailed
	}

	c.log.Info(ctx, "authenticated", "user_id", resp.User.ID)
	c.notices.Success(c.msgs.success)
	c.scheduleRedirect()
	return OutcomeSuccess
}

// commit stores the session in memory, then durably. A persistence failure
// rolls the memory state back.
func (c *controller) commit(ctx context.Context, resp *models.AuthResponse) error {
	c.deps.Store.SetUser(resp.User)
	c.deps.Store.SetTokens(resp.Tokens.AccessToken, resp.Tokens.RefreshToken)

	if err := c.deps.Tokens.Save(ctx, resp.Tokens); err != nil {
		c.deps.Store.Clear()
		return err
	}
	return nil
}

func (c *controller) fail(ctx context.Context, err error) {
	msg := c.msgs.failed
	if detail, ok := client.Detail(err); ok {
		msg = detail
	}

	switch {
	case client.IsRejected(err):
		c.log.Info(ctx, "rejected by identity service", "error", err)
		if c.onRejected != nil {
			c.formMu.Lock()
			c.onRejected(c.form)
			c.formMu.Unlock()
		}
	case errors.Is(err, client.ErrUnavailable):
		c.log.Warn(ctx, "identity service unavailable", "error", err)
	default:
		c.log.Error(ctx, "submit failed", "error", err)
	}

	c.notices.Error(msg)
}

func (c *controller) scheduleRedirect() {
	c.redirectMu.Lock()
	defer c.redirectMu.Unlock()
	if c.closed {
		return
	}
	if c.redirect != nil {
		c.redirect.Stop()
	}
	c.redirectN++
	n := c.redirectN
	c.redirect = c.deps.Scheduler.AfterFunc(c.cfg.RedirectDelay, func() {
		c.redirectMu.Lock()
		stale := c.closed || n != c.redirectN
		c.redirect = nil
		c.redirectMu.Unlock()
		if !stale {
			c.deps.Navigator.Navigate(c.cfg.DashboardPath)
		}
	})
}

// Phase reports where the controller is in the submission state machine.
func (c *controller) Phase() Phase {
	return Phase(c.phase.Load())
}

// Busy reports whether a submission is in flight, i.e. submit is disabled.
func (c *controller) Busy() bool {
	return c.Phase() != PhaseIdle
}

// Change forwards an edit to the form.
func (c *controller) Change(field validation.Field, value string) {
	c.formMu.Lock()
	defer c.formMu.Unlock()
	c.form.Change(field, value)
}

// Blur forwards a focus loss to the form.
func (c *controller) Blur(field validation.Field) {
	c.formMu.Lock()
	defer c.formMu.Unlock()
	c.form.Blur(field)
}

// Field returns the view state of field.
func (c *controller) Field(field validation.Field) validation.FieldState {
	c.formMu.Lock()
	defer c.formMu.Unlock()
	return c.form.Field(field)
}

// Fields lists the form's fields in presentation order.
func (c *controller) Fields() []validation.Field {
	return c.form.Rules().Fields()
}

// Errors returns the visible field errors in field order.
func (c *controller) Errors() []*validation.FieldError {
	c.formMu.Lock()
	defer c.formMu.Unlock()
	return c.form.Errors()
}

// Notice returns the visible notification of this form, if any.
func (c *controller) Notice() (notify.Notification, bool) {
	return c.notices.Current()
}

// DismissNotice hides the visible notification.
func (c *controller) DismissNotice() {
	c.notices.Dismiss()
}

// Close cancels a pending redirect and tears down the notification channel.
func (c *controller) Close() {
	c.redirectMu.Lock()
	c.closed = true
	if c.redirect != nil {
		c.redirect.Stop()
		c.redirect = nil
	}
	c.redirectMu.Unlock()

	c.notices.Close()
}
