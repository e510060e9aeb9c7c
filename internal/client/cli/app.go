package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/hireportal/internal/client/client"
	"github.com/dmitrijs2005/hireportal/internal/client/config"
	"github.com/dmitrijs2005/hireportal/internal/client/flows"
	"github.com/dmitrijs2005/hireportal/internal/client/notify"
	"github.com/dmitrijs2005/hireportal/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/hireportal/internal/client/services"
	"github.com/dmitrijs2005/hireportal/internal/client/session"
	"github.com/dmitrijs2005/hireportal/internal/client/storage"
	"github.com/dmitrijs2005/hireportal/internal/logging"
)

const registerPath = "/register"

type App struct {
	config *config.Config
	log    logging.Logger

	store    *session.Store
	boot     *services.Bootstrapper
	sessions *services.SessionService
	login    *flows.LoginController
	register *flows.RegisterController
	router   *Router

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	restored chan struct{}
	closers  []func() error
}

// parts are the collaborators NewApp builds from configuration.
type parts struct {
	client    client.Client
	tokens    tokens.Repository
	scheduler notify.Scheduler
	clock     func() time.Time
	in        io.Reader
	out       io.Writer
	log       logging.Logger
}

// NewApp opens token storage and connects the Identity Service client
// according to c. Call Close when done.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repo, closers, err := openTokens(ctx, c)
	if err != nil {
		log.Error(ctx, "error initializing token storage", "backend", c.StorageBackend, "error", err)
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
		client.WithRetries(c.RestoreRetries, 200*time.Millisecond),
	)

	a := newApp(c, parts{
		client: apiClient,
		tokens: repo,
		in:     os.Stdin,
		out:    os.Stdout,
		log:    log,
	})
	a.closers = closers
	return a, nil
}

func newApp(c *config.Config, p parts) *App {
	if p.log == nil {
		p.log = logging.Nop()
	}
	if p.clock == nil {
		p.clock = time.Now
	}

	out := &lockedWriter{w: p.out}
	a := &App{
		config:   c,
		log:      p.log,
		store:    session.NewStore(),
		reader:   bufio.NewReader(p.in),
		out:      out,
		now:      p.clock,
		restored: make(chan struct{}),
	}

	a.boot = services.NewBootstrapper(p.client, a.store, p.tokens, p.log)
	a.sessions = services.NewSessionService(p.client, a.store, p.tokens, p.log)
	a.router = NewRouter(a.store, c.LoginPath, a.enter, c.DashboardPath)

	deps := flows.Deps{
		Client:    p.client,
		Store:     a.store,
		Tokens:    p.tokens,
		Navigator: a.router,
		Scheduler: p.scheduler,
		Clock:     p.clock,
		OnNotice:  a.showNotice,
		Logger:    p.log,
	}
	a.login = flows.NewLoginController(deps, flows.Config{
		NoticeTTL:     c.LoginNoticeTTL,
		RedirectDelay: c.RedirectDelay,
		DashboardPath: c.DashboardPath,
	})
	a.register = flows.NewRegisterController(deps, flows.Config{
		NoticeTTL:     c.RegisterNoticeTTL,
		RedirectDelay: c.RedirectDelay,
		DashboardPath: c.DashboardPath,
	})
	return a
}

// openTokens builds the configured token repository and the functions that
// release its resources.
func openTokens(ctx context.Context, c *config.Config) (tokens.Repository, []func() error, error) {
	switch c.StorageBackend {
	case config.StorageMemory:
		return tokens.NewMemoryRepository(), nil, nil

	case config.StorageRedis:
		rdb, err := storage.OpenRedis(ctx, c.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return tokens.NewRedisRepository(rdb, c.RedisKey), []func() error{rdb.Close}, nil

	default:
		db, err := storage.OpenSQLite(ctx, c.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return tokens.NewSQLiteRepository(db), []func() error{db.Close}, nil
	}
}

// Run restores the persisted session in the background and then serves the
// REPL on the app's input until EOF or exit.
func (a *App) Run(ctx context.Context) {
	a.printf("Welcome to hireportal (type 'help' for commands)\n")
	a.printf("Restoring session...\n")

	a.startRestore(ctx)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// startRestore marks the session as restoring before returning, so no
// command can observe an unauthenticated store while the restore is pending.
func (a *App) startRestore(ctx context.Context) {
	a.store.BeginRestore()
	go a.restore(ctx)
}

func (a *App) restore(ctx context.Context) {
	defer close(a.restored)
	a.boot.Restore(ctx)
	if a.store.IsAuthenticated() {
		a.router.Navigate(a.config.DashboardPath)
	} else {
		a.router.Navigate(a.config.LoginPath)
	}
}

// Close stops timers and releases storage.
func (a *App) Close() error {
	a.login.Close()
	a.register.Close()

	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) getStatus() string {
	st := a.store.State()
	switch st.Status {
	case session.StatusRestoring:
		return "(restoring) " + a.router.Path()
	case session.StatusAuthenticated:
		return fmt.Sprintf("(%s) %s", st.User.Email, a.router.Path())
	}
	return a.router.Path()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// lockedWriter serializes writes from the REPL and from timer callbacks.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
