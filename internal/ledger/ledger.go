// Package ledger records completed focus sessions and derives statistics
// from the capped history.
package ledger

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"

	"github.com/sadopc/focuslock/internal/catalog"
	"github.com/sadopc/focuslock/internal/kv"
	"github.com/sadopc/focuslock/internal/logging"
)

const (
	SessionsKey = "focus_sessions"

	// MaxSessions caps the history; the oldest sessions are dropped first.
	MaxSessions = 50

	topBlockedApps = 10
)

// AppDirectory is the read side of the app catalog the ledger needs.
type AppDirectory interface {
	Snapshot() ([]string, error)
	ListApps() []catalog.App
}

// Ledger owns the newest-first session history. All methods are safe for
// concurrent use and never surface storage errors; failures are logged.
type Ledger struct {
	mu       sync.Mutex
	kv       kv.Store
	apps     AppDirectory
	clock    clockwork.Clock
	log      *slog.Logger
	entropy  *ulid.MonotonicEntropy
	lastID   ulid.ULID
	sessions []Session
}

type Option func(*Ledger)

func WithClock(c clockwork.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// New loads the persisted history once and returns the ledger.
func New(store kv.Store, apps AppDirectory, opts ...Option) *Ledger {
	l := &Ledger{
		kv:      store,
		apps:    apps,
		clock:   clockwork.NewRealClock(),
		log:     slog.Default(),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.Reload()
	return l
}

// Reload replaces the in-memory history with what storage holds.
func (l *Ledger) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	sessions, err := l.read()
	l.sessions = logging.Lenient(l.log, "load focus sessions", sessions, err, []Session{})
	for _, s := range l.sessions {
		if id, err := ulid.ParseStrict(s.ID); err == nil && id.Compare(l.lastID) > 0 {
			l.lastID = id
		}
	}
}

func (l *Ledger) read() ([]Session, error) {
	var recs []record
	err := kv.GetJSON(l.kv, SessionsKey, &recs)
	if errors.Is(err, kv.ErrNotFound) {
		return []Session{}, nil
	}
	if err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(recs))
	for _, r := range recs {
		s, err := fromRecord(r)
		if err != nil {
			l.log.Warn("skipping unreadable focus session", "key", SessionsKey, "error", err)
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (l *Ledger) persistLocked() {
	recs := make([]record, len(l.sessions))
	for i, s := range l.sessions {
		recs[i] = toRecord(s)
	}
	if err := kv.SetJSON(l.kv, SessionsKey, recs); err != nil {
		l.log.Error("save focus sessions", "key", SessionsKey, "error", err)
	}
}

// newIDLocked returns an id above every id issued or loaded so far, even
// when the clock steps backwards.
func (l *Ledger) newIDLocked(now time.Time) string {
	id, err := ulid.New(max(ulid.Timestamp(now), l.lastID.Time()), l.entropy)
	if err == nil && id.Compare(l.lastID) <= 0 {
		id, err = ulid.New(l.lastID.Time()+1, l.entropy)
	}
	if err != nil {
		l.log.Warn("ulid generation failed, using timestamp id", "error", err)
		return strconv.FormatInt(now.UnixMilli(), 10)
	}
	l.lastID = id
	return id.String()
}

// CreateSession records a finished session blocking the current selection.
// If the selection cannot be read the session is still recorded with no
// blocked apps. end before start is not rejected and yields a negative
// duration.
func (l *Ledger) CreateSession(start, end time.Time) Session {
	blocked, err := l.snapshot()
	if err != nil {
		l.log.Error("snapshot selected apps, recording session without apps", "error", err)
		blocked = []string{}
	}
	if end.Before(start) {
		l.log.Warn("focus session ends before it starts", "start", start, "end", end)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s := newSession(l.newIDLocked(l.clock.Now()), start, end, slices.Clone(blocked))
	l.sessions = slices.Insert(l.sessions, 0, s)
	if len(l.sessions) > MaxSessions {
		l.sessions = l.sessions[:MaxSessions]
	}
	l.persistLocked()
	return s.clone()
}

// Sessions returns the whole history, newest first.
func (l *Ledger) Sessions() []Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneAll(l.sessions)
}

// RecentSessions returns up to limit sessions, newest first.
func (l *Ledger) RecentSessions(limit int) []Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 {
		return []Session{}
	}
	if limit > len(l.sessions) {
		limit = len(l.sessions)
	}
	return cloneAll(l.sessions[:limit])
}

// SessionsBetween returns sessions whose start lies in [from, to].
func (l *Ledger) SessionsBetween(from, to time.Time) []Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.betweenLocked(from, to)
}

func (l *Ledger) betweenLocked(from, to time.Time) []Session {
	out := []Session{}
	for _, s := range l.sessions {
		if s.StartTime.Before(from) || s.StartTime.After(to) {
			continue
		}
		out = append(out, s.clone())
	}
	return out
}

func (l *Ledger) lastDaysLocked(days int) []Session {
	now := l.clock.Now()
	return l.betweenLocked(now.AddDate(0, 0, -days), now)
}

// TotalFocusTime sums the sessions that started within the last days days.
func (l *Ledger) TotalFocusTime(days int) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sumDurations(l.lastDaysLocked(days))
}

// AverageSessionDuration is TotalFocusTime divided by the session count, or
// 0 when no session falls in the window.
func (l *Ledger) AverageSessionDuration(days int) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	sessions := l.lastDaysLocked(days)
	if len(sessions) == 0 {
		return 0
	}
	return sumDurations(sessions) / time.Duration(len(sessions))
}

// BlockedAppStats counts, over the whole history, how many sessions blocked
// each app. MostBlockedApps holds the top ten by count; equal counts keep
// the order in which the apps were first seen.
func (l *Ledger) BlockedAppStats() BlockedAppStats {
	names := l.appNames()

	l.mu.Lock()
	defer l.mu.Unlock()

	stats := BlockedAppStats{MostBlockedApps: []AppBlockCount{}}
	if len(l.sessions) == 0 {
		return stats
	}

	counts := make(map[string]int)
	var order []string
	for _, s := range l.sessions {
		for _, id := range s.BlockedAppIDs {
			if _, seen := counts[id]; !seen {
				order = append(order, id)
			}
			counts[id]++
			stats.TotalBlockedApps++
		}
	}

	for _, id := range order {
		name, ok := names[id]
		if !ok {
			name = id
		}
		stats.MostBlockedApps = append(stats.MostBlockedApps, AppBlockCount{AppID: id, Name: name, Count: counts[id]})
	}
	sort.SliceStable(stats.MostBlockedApps, func(i, j int) bool {
		return stats.MostBlockedApps[i].Count > stats.MostBlockedApps[j].Count
	})
	if len(stats.MostBlockedApps) > topBlockedApps {
		stats.MostBlockedApps = stats.MostBlockedApps[:topBlockedApps]
	}

	stats.TotalSessions = len(l.sessions)
	stats.AverageAppsPerSession = float64(stats.TotalBlockedApps) / float64(stats.TotalSessions)
	return stats
}

// SessionsWithAppDetails resolves each session's blocked ids to app names.
func (l *Ledger) SessionsWithAppDetails() []SessionDetail {
	names := l.appNames()

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]SessionDetail, 0, len(l.sessions))
	for _, s := range l.sessions {
		d := SessionDetail{
			Session:          s.clone(),
			BlockedAppNames:  []string{},
			UnresolvedAppIDs: []string{},
		}
		for _, id := range s.BlockedAppIDs {
			if name, ok := names[id]; ok {
				d.BlockedAppNames = append(d.BlockedAppNames, name)
			} else {
				d.UnresolvedAppIDs = append(d.UnresolvedAppIDs, id)
			}
		}
		out = append(out, d)
	}
	return out
}

// ClearAllSessions empties the history and removes it from storage.
func (l *Ledger) ClearAllSessions() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessions = []Session{}
	if err := l.kv.Remove(SessionsKey); err != nil {
		l.log.Error("clear focus sessions", "key", SessionsKey, "error", err)
	}
}

// CreateSampleData replaces the history with three illustrative sessions.
func (l *Ledger) CreateSampleData() {
	now := l.clock.Now()
	social := []string{"com.instagram.ios", "com.facebook.Facebook", "com.twitter.ios"}

	sample := []Session{
		newSession("1", now.Add(-2*time.Hour), now.Add(-1*time.Hour),
			append(slices.Clone(social), "com.burbn.tiktok", "com.netflix.Netflix")),
		newSession("2", now.Add(-24*time.Hour), now.Add(-24*time.Hour+45*time.Minute),
			slices.Clone(social)),
		newSession("3", now.Add(-48*time.Hour), now.Add(-46*time.Hour),
			append(slices.Clone(social), "com.burbn.tiktok", "com.netflix.Netflix", "com.youtube.ios", "com.reddit.Reddit")),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessions = sample
	l.persistLocked()
}

func (l *Ledger) snapshot() ([]string, error) {
	if l.apps == nil {
		return []string{}, nil
	}
	return l.apps.Snapshot()
}

func (l *Ledger) appNames() map[string]string {
	names := make(map[string]string)
	if l.apps == nil {
		return names
	}
	for _, a := range l.apps.ListApps() {
		names[a.ID] = a.Name
	}
	return names
}

func sumDurations(sessions []Session) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration
	}
	return total
}

func cloneAll(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		out[i] = s.clone()
	}
	return out
}
