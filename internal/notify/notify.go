// Package notify emits transient status notices. Each notice becomes
// visible shortly after creation, hides after a fixed display time and is
// removed once its hide transition has finished. Notices are independent:
// there is no stacking limit and no de-duplication.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/config"
	"github.com/iliyamo/utility-ordering-client/internal/metrics"
)

// Severity of a notice.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Error   Severity = "error"
)

// Notifier is what workflows use to surface a message.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Notice is a point-in-time copy of one live notice.
type Notice struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	Visible   bool      `json:"visible"`
}

type entry struct {
	Notice
	timers []*time.Timer
}

// Center holds the live notices of one workspace.
type Center struct {
	log    *zap.SugaredLogger
	timing config.NotifyConfig

	mu      sync.Mutex
	entries []*entry
	closed  bool
}

// NewCenter returns an empty Center using the given timings.
func NewCenter(timing config.NotifyConfig, log *zap.SugaredLogger) *Center {
	return &Center{log: log.Named("notify"), timing: timing}
}

// Notify appends a notice and arms its show and hide timers.
func (c *Center) Notify(message string, severity Severity) {
	e := &entry{Notice: Notice{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.entries = append(c.entries, e)
	e.timers = append(e.timers,
		time.AfterFunc(c.timing.ShowDelay, func() { c.setVisible(e, true) }),
		time.AfterFunc(c.timing.DisplayFor, func() { c.hide(e) }),
	)
	c.mu.Unlock()

	metrics.Notifications.WithLabelValues(string(severity)).Inc()
	switch severity {
	case Error:
		c.log.Warnw("notice", "severity", severity, "message", message)
	default:
		c.log.Infow("notice", "severity", severity, "message", message)
	}
}

func (c *Center) setVisible(e *entry, visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.Visible = visible
}

// hide starts the hide transition and schedules removal.
func (c *Center) hide(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.Visible = false
	if c.closed {
		return
	}
	e.timers = append(e.timers, time.AfterFunc(c.timing.RemoveAfter, func() { c.remove(e) }))
}

func (c *Center) remove(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cur := range c.entries {
		if cur == e {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Snapshot lists live notices in creation order.
func (c *Center) Snapshot() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Notice)
	}
	return out
}

// Close stops all pending timers and drops every notice.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, e := range c.entries {
		for _, t := range e.timers {
			t.Stop()
		}
	}
	c.entries = nil
}
