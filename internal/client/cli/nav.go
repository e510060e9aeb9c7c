package cli

import (
	"sync"

	"github.com/dmitrijs2005/hireportal/internal/client/session"
)

// Router tracks the current path. Protected paths are only entered with an
// authenticated session; otherwise the login path is entered instead.
type Router struct {
	mu        sync.Mutex
	path      string
	loginPath string
	protected map[string]bool
	store     *session.Store
	onEnter   func(path string)
}

// NewRouter returns a router positioned nowhere ("").
func NewRouter(store *session.Store, loginPath string, onEnter func(string), protected ...string) *Router {
	r := &Router{
		loginPath: loginPath,
		protected: make(map[string]bool, len(protected)),
		store:     store,
		onEnter:   onEnter,
	}
	for _, p := range protected {
		r.protected[p] = true
	}
	return r
}

// Navigate implements flows.Navigator.
func (r *Router) Navigate(path string) {
	if r.protected[path] && !r.store.IsAuthenticated() {
		path = r.loginPath
	}

	r.mu.Lock()
	r.path = path
	r.mu.Unlock()

	if r.onEnter != nil {
		r.onEnter(path)
	}
}

// Path returns the current path.
func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}
