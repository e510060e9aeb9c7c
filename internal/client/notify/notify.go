// Package notify provides a single-slot, auto-dismissing notification channel.
//
// At most one Notification is visible at a time. Show replaces whatever is
// visible and restarts the only pending dismiss timer; there is no queue and
// the latest call wins. Dismiss and Close cancel the timer. After Close the
// channel ignores every call, including timer callbacks that were already
// in flight.
package notify

import (
	"sync"
	"time"
)

// Kind is the notification flavour.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient message shown to the user.
type Notification struct {
	Kind      Kind
	Message   string
	ExpiresAt time.Time
}

// Listener is called after every visible change. visible is false when the
// notification was dismissed or expired.
type Listener func(n Notification, visible bool)

// Channel holds the currently visible notification.
type Channel struct {
	mu        sync.Mutex
	ttl       time.Duration
	scheduler Scheduler
	now       func() time.Time
	listener  Listener

	current Notification
	visible bool
	timer   Timer
	gen     uint64
	closed  bool
}

// Option configures a Channel.
type Option func(*Channel)

// WithScheduler overrides the timer source.
func WithScheduler(s Scheduler) Option {
	return func(c *Channel) { c.scheduler = s }
}

// WithClock overrides the time source used for ExpiresAt.
func WithClock(now func() time.Time) Option {
	return func(c *Channel) { c.now = now }
}

// WithListener registers a callback for visible changes.
func WithListener(l Listener) Option {
	return func(c *Channel) { c.listener = l }
}

// New returns a channel whose notifications auto-dismiss after ttl.
func New(ttl time.Duration, opts ...Option) *Channel {
	c := &Channel{ttl: ttl, scheduler: RealScheduler{}, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TTL returns the auto-dismiss duration.
func (c *Channel) TTL() time.Duration { return c.ttl }

// Show replaces the visible notification and restarts the dismiss timer.
func (c *Channel) Show(kind Kind, message string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.gen++
	gen := c.gen
	c.current = Notification{Kind: kind, Message: message, ExpiresAt: c.now().Add(c.ttl)}
	c.visible = true
	c.timer = c.scheduler.AfterFunc(c.ttl, func() { c.expire(gen) })
	n, l := c.current, c.listener
	c.mu.Unlock()

	if l != nil {
		l(n, true)
	}
}

// Success is shorthand for Show(KindSuccess, message).
func (c *Channel) Success(message string) { c.Show(KindSuccess, message) }

// Error is shorthand for Show(KindError, message).
func (c *Channel) Error(message string) { c.Show(KindError, message) }

// Dismiss clears the visible notification and cancels the pending timer.
func (c *Channel) Dismiss() {
	c.mu.Lock()
	if c.closed || !c.visible {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.gen++
	n, l := c.clearLocked()
	c.mu.Unlock()

	if l != nil {
		l(n, false)
	}
}

// Current returns the visible notification, if any.
func (c *Channel) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.visible
}

// Close cancels the pending timer and makes every later call a no-op.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.gen++
	c.closed = true
	c.current, c.visible = Notification{}, false
}

func (c *Channel) expire(gen uint64) {
	c.mu.Lock()
	// a newer Show, a Dismiss or Close already superseded this timer
	if c.closed || gen != c.gen || !c.visible {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	n, l := c.clearLocked()
	c.mu.Unlock()

	if l != nil {
		l(n, false)
	}
}

func (c *Channel) clearLocked() (Notification, Listener) {
	n := c.current
	c.current, c.visible = Notification{}, false
	return n, c.listener
}

func (c *Channel) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
