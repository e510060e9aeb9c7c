package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hireportal/internal/client/notify"
	"github.com/dmitrijs2005/hireportal/internal/client/notify/notifytest"
)

var t0 = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newChannel(ttl time.Duration, opts ...notify.Option) (*notify.Channel, *notifytest.Scheduler) {
	s := notifytest.NewScheduler(t0)
	opts = append([]notify.Option{notify.WithScheduler(s), notify.WithClock(s.Now)}, opts...)
	return notify.New(ttl, opts...), s
}

func TestShow_AutoDismissAfterTTL(t *testing.T) {
	c, s := newChannel(5 * time.Second)

	c.Show(notify.KindSuccess, "hello")
	n, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, notify.Notification{Kind: notify.KindSuccess, Message: "hello", ExpiresAt: t0.Add(5 * time.Second)}, n)

	s.Advance(4999 * time.Millisecond)
	_, ok = c.Current()
	assert.True(t, ok)

	s.Advance(time.Millisecond)
	_, ok = c.Current()
	assert.False(t, ok)
}

func TestShow_TwiceKeepsOnlyLatestWithFreshExpiry(t *testing.T) {
	c, s := newChannel(4 * time.Second)

	c.Error("first")
	s.Advance(3 * time.Second)
	c.Success("second")

	assert.Equal(t, 1, s.Pending())
	n, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "second", n.Message)
	assert.Equal(t, t0.Add(7*time.Second), n.ExpiresAt)

	// the first timer's deadline passes without effect
	s.Advance(1500 * time.Millisecond)
	n, ok = c.Current()
	require.True(t, ok)
	assert.Equal(t, "second", n.Message)

	s.Advance(2500 * time.Millisecond)
	_, ok = c.Current()
	assert.False(t, ok)
}

func TestDismiss_CancelsTimer(t *testing.T) {
	c, s := newChannel(time.Second)

	c.Show(notify.KindError, "boom")
	c.Dismiss()

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Pending())

	// dismiss on empty channel is a no-op
	c.Dismiss()
}

func TestClose_IgnoresLaterCalls(t *testing.T) {
	var events []bool
	c, s := newChannel(time.Second, notify.WithListener(func(_ notify.Notification, visible bool) {
		events = append(events, visible)
	}))

	c.Show(notify.KindSuccess, "x")
	c.Close()
	s.Advance(time.Hour)
	c.Show(notify.KindError, "after close")
	c.Dismiss()

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Equal(t, []bool{true}, events)
	assert.Equal(t, 0, s.Pending())
}

func TestListener_ReceivesShowAndExpiry(t *testing.T) {
	type ev struct {
		msg     string
		visible bool
	}
	var got []ev
	c, s := newChannel(time.Second, notify.WithListener(func(n notify.Notification, visible bool) {
		got = append(got, ev{n.Message, visible})
	}))

	c.Success("a")
	c.Success("b")
	s.Advance(time.Second)

	assert.Equal(t, []ev{{"a", true}, {"b", true}, {"b", false}}, got)
}

func TestRealScheduler_Fires(t *testing.T) {
	c := notify.New(10 * time.Millisecond)
	c.Success("real")

	require.Eventually(t, func() bool {
		_, ok := c.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, c.TTL())
}
