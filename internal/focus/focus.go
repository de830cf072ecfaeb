// Package focus drives focus mode: the idle/active state machine shared by
// the TUI and the CLI.
package focus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sadopc/focuslock/internal/kv"
	"github.com/sadopc/focuslock/internal/ledger"
)

// ActiveStartKey holds the start instant of an in-flight session.
const ActiveStartKey = "active_focus_start"

var (
	ErrUnregisteredTag = errors.New("tag is not registered")
	ErrNoTagRegistry   = errors.New("no tag registry configured")
)

// Recorder stores finished sessions.
type Recorder interface {
	CreateSession(start, end time.Time) ledger.Session
}

// TagRegistry answers whether a scanned NFC tag may toggle focus mode.
type TagRegistry interface {
	IsRegistered(id string) (bool, error)
}

// Transition describes what a Toggle or tag scan did. Exactly one of
// Started and Stopped is set.
type Transition struct {
	Started bool
	Stopped bool
	Session ledger.Session
}

type ScanResult struct {
	TagID string
	Transition
}

type Controller struct {
	mu    sync.Mutex
	rec   Recorder
	kv    kv.Store
	tags  TagRegistry
	clock clockwork.Clock
	log   *slog.Logger

	active    bool
	startedAt time.Time
	goal      time.Duration
}

type Option func(*Controller)

func WithClock(c clockwork.Clock) Option {
	return func(fc *Controller) { fc.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(fc *Controller) { fc.log = l }
}

func WithTags(t TagRegistry) Option {
	return func(fc *Controller) { fc.tags = t }
}

// WithGoal sets the session length at which Tick stops focus mode.
func WithGoal(d time.Duration) Option {
	return func(fc *Controller) { fc.goal = d }
}

// New returns a controller, resuming a session left active by an earlier
// process.
func New(rec Recorder, store kv.Store, opts ...Option) *Controller {
	c := &Controller{
		rec:   rec,
		kv:    store,
		clock: clockwork.NewRealClock(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.restore()
	return c
}

func (c *Controller) restore() {
	var raw string
	err := kv.GetJSON(c.kv, ActiveStartKey, &raw)
	if errors.Is(err, kv.ErrNotFound) {
		return
	}
	if err != nil {
		c.log.Error("load active focus session", "key", ActiveStartKey, "error", err)
		return
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		c.log.Warn("discarding unreadable active focus start", "key", ActiveStartKey, "value", raw)
		if err := c.kv.Remove(ActiveStartKey); err != nil {
			c.log.Error("remove active focus start", "key", ActiveStartKey, "error", err)
		}
		return
	}
	c.active = true
	c.startedAt = t
	c.log.Info("resumed focus session", "started_at", t)
}

// Start enters focus mode. It reports false if focus mode was already on.
func (c *Controller) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked()
}

func (c *Controller) startLocked() bool {
	if c.active {
		return false
	}
	c.active = true
	c.startedAt = c.clock.Now()
	if err := kv.SetJSON(c.kv, ActiveStartKey, c.startedAt.Format(time.RFC3339Nano)); err != nil {
		c.log.Error("save active focus start", "key", ActiveStartKey, "error", err)
	}
	c.log.Info("focus mode started")
	return true
}

// Stop leaves focus mode and records the session. It reports false, with a
// zero Session, if focus mode was off.
func (c *Controller) Stop() (ledger.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked(c.clock.Now())
}

func (c *Controller) stopLocked(end time.Time) (ledger.Session, bool) {
	if !c.active {
		return ledger.Session{}, false
	}
	s := c.rec.CreateSession(c.startedAt, end)
	c.active = false
	c.startedAt = time.Time{}
	if err := c.kv.Remove(ActiveStartKey); err != nil {
		c.log.Error("remove active focus start", "key", ActiveStartKey, "error", err)
	}
	c.log.Info("focus mode stopped", "session", s.ID, "duration", s.Duration, "apps_blocked", s.AppsBlocked)
	return s, true
}

// Toggle starts focus mode when idle and stops it when active.
func (c *Controller) Toggle() Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		s, ok := c.stopLocked(c.clock.Now())
		return Transition{Stopped: ok, Session: s}
	}
	return Transition{Started: c.startLocked()}
}

func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// StartedAt is the zero time when idle.
func (c *Controller) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startedAt
}

// Elapsed is 0 when idle.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return 0
	}
	return c.clock.Since(c.startedAt)
}

func (c *Controller) SetGoal(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.goal = d
}

func (c *Controller) Goal() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goal
}

// Remaining is the time left until the goal, or false when no goal is set
// or focus mode is off.
func (c *Controller) Remaining() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active || c.goal == 0 {
		return 0, false
	}
	left := c.goal - c.clock.Since(c.startedAt)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Tick stops and records the session once a non-zero goal is reached. The
// session ends at the goal, even when Tick runs long after it.
func (c *Controller) Tick() (ledger.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active || c.goal == 0 || c.clock.Since(c.startedAt) < c.goal {
		return ledger.Session{}, false
	}
	return c.stopLocked(c.startedAt.Add(c.goal))
}

// HandleTagScan toggles focus mode if tagID is registered. Unregistered
// tags return ErrUnregisteredTag and leave the state alone.
func (c *Controller) HandleTagScan(tagID string) (ScanResult, error) {
	res := ScanResult{TagID: tagID}
	if c.tags == nil {
		return res, ErrNoTagRegistry
	}
	ok, err := c.tags.IsRegistered(tagID)
	if err != nil {
		return res, fmt.Errorf("checking tag %s: %w", tagID, err)
	}
	if !ok {
		c.log.Warn("ignoring unregistered tag", "tag", tagID)
		return res, ErrUnregisteredTag
	}
	res.Transition = c.Toggle()
	return res, nil
}
