// Package notify is the shared signaling surface of the admin screens: one
// transient banner slot and one confirmation slot. Newer requests replace
// older ones in either slot; nothing is queued.
package notify

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"sweetshop-admin/internal/telemetry"
)

type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Error   Severity = "error"
)

// DismissAfter is how long a banner stays up without user interaction.
const DismissAfter = 3 * time.Second

type Notification struct {
	Message  string
	Severity Severity
}

// State is a snapshot of both slots handed to subscribers.
type State struct {
	Notification *Notification
	Confirmation *string
}

type Center struct {
	mu           sync.Mutex
	current      *Notification
	generation   uint64
	timer        *time.Timer
	confirmMsg   *string
	confirmFn    func()
	confirmGen   uint64
	resolving    bool
	dismissAfter time.Duration
	subscribers  []func(State)

	log     *zap.Logger
	metrics *telemetry.Metrics
}

type Option func(*Center)

func WithDismissAfter(d time.Duration) Option {
	return func(c *Center) { c.dismissAfter = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Center) { c.log = log }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Center) { c.metrics = m }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		dismissAfter: DismissAfter,
		log:          zap.NewNop(),
		metrics:      telemetry.NopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to receive a snapshot after every change. fn runs
// on the goroutine that made the change, which for auto-dismissal is a
// timer goroutine.
func (c *Center) Subscribe(fn func(State)) {
	c.mu.Lock()
	c.subscribers = append(c.subscribers, fn)
	c.mu.Unlock()
}

// Notify shows message, replacing any banner already up, and schedules its
// dismissal.
func (c *Center) Notify(message string, severity Severity) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.current = &Notification{Message: message, Severity: severity}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.dismissAfter, func() { c.expire(gen) })
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.metrics.Notifications.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("severity", string(severity))))
	c.log.Debug("notification shown", zap.String("severity", string(severity)), zap.String("message", message))
	c.publish(state)
}

// Dismiss clears the banner immediately, as a click on it does.
func (c *Center) Dismiss() {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	c.generation++
	c.current = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(state)
}

// expire is the timer callback. A timer that belongs to a replaced banner
// does nothing.
func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.timer = nil
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(state)
}

func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Confirm asks the user to approve onConfirm. An unresolved earlier
// request is dropped without running its action.
func (c *Center) Confirm(message string, onConfirm func()) {
	c.mu.Lock()
	c.confirmGen++
	msg := message
	c.confirmMsg = &msg
	c.confirmFn = onConfirm
	c.resolving = false
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(state)
}

// Pending returns the prompt of the open confirmation, if any.
func (c *Center) Pending() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirmMsg == nil {
		return "", false
	}
	return *c.confirmMsg, true
}

// Resolve closes the open confirmation. With ok the action runs first.
// It reports whether a confirmation was open and not already resolving.
func (c *Center) Resolve(ok bool) bool {
	c.mu.Lock()
	if c.confirmMsg == nil || c.resolving {
		c.mu.Unlock()
		return false
	}
	fn := c.confirmFn
	gen := c.confirmGen
	if !ok {
		c.clearConfirmLocked()
		state := c.snapshotLocked()
		c.mu.Unlock()
		c.publish(state)
		return true
	}
	c.resolving = true
	c.mu.Unlock()

	if fn != nil {
		fn()
	}

	c.mu.Lock()
	// The action may have opened a new confirmation; leave that one alone.
	if gen != c.confirmGen {
		c.mu.Unlock()
		return true
	}
	c.clearConfirmLocked()
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(state)
	return true
}

func (c *Center) clearConfirmLocked() {
	c.confirmMsg = nil
	c.confirmFn = nil
	c.resolving = false
}

func (c *Center) snapshotLocked() State {
	var s State
	if c.current != nil {
		n := *c.current
		s.Notification = &n
	}
	if c.confirmMsg != nil {
		m := *c.confirmMsg
		s.Confirmation = &m
	}
	return s
}

func (c *Center) publish(s State) {
	c.mu.Lock()
	subs := make([]func(State), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}
