package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/focuslock/internal/config"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// setup points the config at a fresh data directory.
func setup(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FOCUSLOCK_DATA_DIR", dir)
	t.Setenv("FOCUSLOCK_BACKEND", backend)
	t.Setenv("FOCUSLOCK_LOG_LEVEL", "error")
	t.Setenv("FOCUSLOCK_LOG_FORMAT", "text")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New("test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, out)
	return out
}

func TestVersion(t *testing.T) {
	out := mustExecute(t, "version")
	assert.Equal(t, "focuslock test\n", out)
}

func TestInvalidBackend(t *testing.T) {
	setup(t, "redis")
	_, err := execute(t, "apps", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOCUSLOCK_BACKEND")
}

// ============================================================
// apps
// ============================================================

func TestApps_ListFilters(t *testing.T) {
	setup(t, config.BackendSQLite)

	out := mustExecute(t, "apps", "list", "--category", "Media")
	assert.Contains(t, out, "Camera")
	assert.Contains(t, out, "Photos")
	assert.NotContains(t, out, "Instagram")

	out = mustExecute(t, "apps", "list", "--search", "insta")
	assert.Contains(t, out, "com.instagram.ios")
	assert.NotContains(t, out, "Netflix")

	out = mustExecute(t, "apps", "list", "--search", "com.apple", "--category", "Media")
	assert.Contains(t, out, "Camera")
	assert.NotContains(t, out, "Safari")
}

func TestApps_SelectPersists(t *testing.T) {
	setup(t, config.BackendSQLite)

	out := mustExecute(t, "apps", "select", "com.netflix.Netflix", "com.instagram.ios", "com.unknown")
	assert.Contains(t, out, "warning: com.unknown is not in the catalog")
	assert.Contains(t, out, "3 apps selected")

	out = mustExecute(t, "apps", "selected")
	assert.Contains(t, out, "Netflix")
	assert.Contains(t, out, "Instagram")
	assert.NotContains(t, out, "com.unknown")
	assert.Less(t, strings.Index(out, "Netflix"), strings.Index(out, "Instagram"))

	out = mustExecute(t, "apps", "stats")
	assert.Contains(t, out, "Entertainment")

	mustExecute(t, "apps", "reset")
	out = mustExecute(t, "apps", "selected")
	assert.NotContains(t, out, "Netflix")
}

func TestApps_Toggle(t *testing.T) {
	setup(t, config.BackendDisk)

	assert.Contains(t, mustExecute(t, "apps", "toggle", "com.discord"), "com.discord blocked")
	assert.Contains(t, mustExecute(t, "apps", "toggle", "com.discord"), "com.discord unblocked")
}

func TestApps_Categorize(t *testing.T) {
	setup(t, config.BackendSQLite)

	mustExecute(t, "apps", "categorize", "com.spotify.client", "Entertainment")
	out := mustExecute(t, "apps", "categories")
	assert.NotContains(t, out, "Music")

	_, err := execute(t, "apps", "categorize", "com.unknown", "Social")
	assert.Error(t, err)
}

func TestFailedCommandReleasesRuntime(t *testing.T) {
	setup(t, config.BackendSQLite)

	root, rt := newRoot("test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"apps", "categorize", "com.unknown", "Social"})
	require.Error(t, root.Execute())

	assert.Nil(t, rt.svc)
	assert.Nil(t, rt.logFile)

	// The database is usable by the next invocation.
	mustExecute(t, "apps", "select", "com.discord")
}

func TestMemoryBackend_DoesNotPersist(t *testing.T) {
	setup(t, config.BackendMemory)

	mustExecute(t, "apps", "select", "com.instagram.ios")
	out := mustExecute(t, "apps", "selected")
	assert.NotContains(t, out, "Instagram")
}

// ============================================================
// sessions
// ============================================================

func TestSessions_RecordAndList(t *testing.T) {
	setup(t, config.BackendSQLite)

	assert.Contains(t, mustExecute(t, "sessions", "list"), "no sessions recorded")

	mustExecute(t, "apps", "select", "com.instagram.ios", "com.youtube.ios")
	out := mustExecute(t, "sessions", "record",
		"--start", "2026-01-01T10:00:00Z", "--end", "2026-01-01T11:00:00Z")
	assert.Contains(t, out, "1h 0m, 2 apps blocked")

	out = mustExecute(t, "sessions", "list")
	assert.Contains(t, out, "Instagram, com.youtube.ios")

	out = mustExecute(t, "sessions", "between",
		"--from", "2026-01-01T00:00:00Z", "--to", "2026-01-02T00:00:00Z")
	assert.Contains(t, out, "1h 0m")

	out = mustExecute(t, "sessions", "between",
		"--from", "2026-02-01T00:00:00Z", "--to", "2026-03-01T00:00:00Z")
	assert.NotContains(t, out, "1h 0m")
}

func TestSessions_RecordRejectsBadTime(t *testing.T) {
	setup(t, config.BackendSQLite)

	_, err := execute(t, "sessions", "record", "--start", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")

	_, err = execute(t, "sessions", "record")
	assert.Error(t, err)
}

func TestSessions_SampleStatsClear(t *testing.T) {
	setup(t, config.BackendSQLite)

	assert.Contains(t, mustExecute(t, "sessions", "sample"), "created 3 sample sessions")

	out := mustExecute(t, "sessions", "stats")
	assert.Contains(t, out, "Focus time (7d)")
	assert.Contains(t, out, "3h 45m")
	assert.Contains(t, out, "Instagram")

	out = mustExecute(t, "sessions", "list", "--limit", "1")
	assert.Contains(t, out, "1h 0m")
	assert.NotContains(t, out, "2h 0m")

	mustExecute(t, "sessions", "clear")
	assert.Contains(t, mustExecute(t, "sessions", "list"), "no sessions recorded")
}

func TestSessions_ExportJSON(t *testing.T) {
	setup(t, config.BackendSQLite)
	mustExecute(t, "sessions", "sample")

	path := filepath.Join(t.TempDir(), "out.json")
	out := mustExecute(t, "sessions", "export", "--format", "json", "--out", path)
	assert.Contains(t, out, "exported 3 sessions")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Count    int `json:"count"`
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 3, doc.Count)
	assert.Len(t, doc.Sessions, 3)
}

func TestSessions_ExportUnknownFormat(t *testing.T) {
	setup(t, config.BackendSQLite)
	_, err := execute(t, "sessions", "export", "--format", "xml", "--out", filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}

// ============================================================
// focus and tags
// ============================================================

func TestFocus_StartStopAcrossInvocations(t *testing.T) {
	setup(t, config.BackendDisk)
	mustExecute(t, "apps", "select", "com.reddit.Reddit")

	assert.Contains(t, mustExecute(t, "focus", "status"), "not active")
	assert.Contains(t, mustExecute(t, "focus", "start"), "blocking 1 apps")
	assert.Contains(t, mustExecute(t, "focus", "start"), "already focusing")
	assert.Contains(t, mustExecute(t, "focus", "status"), "Elapsed")

	assert.Contains(t, mustExecute(t, "focus", "stop"), "recorded")
	assert.Contains(t, mustExecute(t, "focus", "stop"), "not active")

	assert.Contains(t, mustExecute(t, "sessions", "list"), "Reddit")
}

func TestFocus_Toggle(t *testing.T) {
	setup(t, config.BackendSQLite)
	assert.Contains(t, mustExecute(t, "focus", "toggle"), "focus started")
	assert.Contains(t, mustExecute(t, "focus", "toggle"), "focus stopped")
}

func TestTags_RegisterScanRemove(t *testing.T) {
	setup(t, config.BackendSQLite)

	_, err := execute(t, "tags", "scan", "04:A2:19")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")

	assert.Contains(t, mustExecute(t, "tags", "register", "04:A2:19", "Desk"), "registered Desk (04:A2:19)")
	assert.Contains(t, mustExecute(t, "tags", "list"), "Desk")

	assert.Contains(t, mustExecute(t, "tags", "scan", "04:A2:19"), "focus started")
	assert.Contains(t, mustExecute(t, "tags", "scan", "04:A2:19"), "focus stopped")

	mustExecute(t, "tags", "remove", "04:A2:19")
	assert.Contains(t, mustExecute(t, "tags", "list"), "no tags registered")

	_, err = execute(t, "tags", "remove", "04:A2:19")
	assert.Error(t, err)
}

// ============================================================
// settings
// ============================================================

func TestSettings_SetAndList(t *testing.T) {
	setup(t, config.BackendSQLite)

	out := mustExecute(t, "settings", "list")
	assert.Contains(t, out, "report_days")
	assert.Contains(t, out, "recent_limit")

	mustExecute(t, "settings", "set", "recent_limit", "1")
	mustExecute(t, "sessions", "sample")
	out = mustExecute(t, "sessions", "list")
	assert.Contains(t, out, "1h 0m")
	assert.NotContains(t, out, "45m")

	_, err := execute(t, "settings", "set", "recent_limit", "0")
	assert.Error(t, err)
	_, err = execute(t, "settings", "set", "colour", "1")
	assert.Error(t, err)
}

func TestSettings_Goal(t *testing.T) {
	setup(t, config.BackendSQLite)

	assert.Contains(t, mustExecute(t, "settings", "goal", "1h30m"), "focus goal set to 1h 30m")
	assert.Contains(t, mustExecute(t, "settings", "list"), "90")

	mustExecute(t, "focus", "start")
	assert.Contains(t, mustExecute(t, "focus", "status"), "Remaining")
	mustExecute(t, "focus", "stop")

	assert.Contains(t, mustExecute(t, "settings", "goal", "0"), "disabled")
	_, err := execute(t, "settings", "goal", "soon")
	assert.Error(t, err)
}
