package ledger

import (
	"fmt"
	"slices"
	"time"
)

// Session is one completed focus interval. Values returned by the Ledger
// are copies; mutating them does not change history.
type Session struct {
	ID            string
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	AppsBlocked   int
	BlockedAppIDs []string
}

func newSession(id string, start, end time.Time, blocked []string) Session {
	start = start.Round(0).Truncate(time.Millisecond)
	end = end.Round(0).Truncate(time.Millisecond)
	if blocked == nil {
		blocked = []string{}
	}
	return Session{
		ID:            id,
		StartTime:     start,
		EndTime:       end,
		Duration:      end.Sub(start),
		AppsBlocked:   len(blocked),
		BlockedAppIDs: blocked,
	}
}

func (s Session) clone() Session {
	s.BlockedAppIDs = slices.Clone(s.BlockedAppIDs)
	return s
}

// SessionDetail is a Session with blocked app ids resolved against the
// catalog. Ids with no catalog entry are left out of BlockedAppNames and
// listed in UnresolvedAppIDs.
type SessionDetail struct {
	Session
	BlockedAppNames  []string
	UnresolvedAppIDs []string
}

// AppBlockCount is how many sessions blocked one app.
type AppBlockCount struct {
	AppID string
	Name  string
	Count int
}

type BlockedAppStats struct {
	TotalSessions         int
	TotalBlockedApps      int
	MostBlockedApps       []AppBlockCount
	AverageAppsPerSession float64
}

// record is the persisted JSON shape of a Session.
type record struct {
	ID            string   `json:"id"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	Duration      int64    `json:"duration"`
	AppsBlocked   int      `json:"appsBlocked"`
	BlockedAppIDs []string `json:"blockedAppIds"`
}

// isoMillis matches the ISO-8601 form with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func toRecord(s Session) record {
	return record{
		ID:            s.ID,
		StartTime:     s.StartTime.UTC().Format(isoMillis),
		EndTime:       s.EndTime.UTC().Format(isoMillis),
		Duration:      s.Duration.Milliseconds(),
		AppsBlocked:   s.AppsBlocked,
		BlockedAppIDs: s.BlockedAppIDs,
	}
}

// fromRecord rebuilds a Session. Records written before blockedAppIds
// existed decode with an empty list; duration and count are derived.
func fromRecord(r record) (Session, error) {
	start, err := time.Parse(time.RFC3339Nano, r.StartTime)
	if err != nil {
		return Session{}, fmt.Errorf("session %s start time: %w", r.ID, err)
	}
	end, err := time.Parse(time.RFC3339Nano, r.EndTime)
	if err != nil {
		return Session{}, fmt.Errorf("session %s end time: %w", r.ID, err)
	}
	return newSession(r.ID, start, end, r.BlockedAppIDs), nil
}
