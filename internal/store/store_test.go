package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/focuslock/internal/kv"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != len(migrations) {
		t.Fatalf("expected user_version %d, got %d", len(migrations), version)
	}
}

func TestNewWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "focuslock.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("selected_apps_for_focus", []byte(`["a"]`)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migration is not re-run.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Get("selected_apps_for_focus")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `["a"]` {
		t.Fatalf("unexpected value after reopen: %s", got)
	}
}

func TestDBPath(t *testing.T) {
	if got := DBPath("/tmp/focuslock"); filepath.Base(got) != "focuslock.db" {
		t.Fatalf("unexpected db path %q", got)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Blobs
// ============================================================

func TestBlobRoundTrip(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("focus_sessions", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("focus_sessions", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get("focus_sessions")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("expected overwritten value, got %s", got)
	}
}

func TestBlobGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("missing")
	if !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBlobRemoveTwice(t *testing.T) {
	s := newTestStore(t)
	s.Set("k", []byte("v"))
	if err := s.Remove("k"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("k"); err != nil {
		t.Fatalf("second remove should be a no-op, got %v", err)
	}
	if _, err := s.Get("k"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestBlobClosedDatabase(t *testing.T) {
	s, _ := NewMemory()
	s.Close()
	_, err := s.Get("k")
	if kv.KindOf(err) != kv.KindRead {
		t.Fatalf("expected read error kind, got %v", err)
	}
	if kv.KindOf(s.Set("k", nil)) != kv.KindWrite {
		t.Fatal("expected write error kind")
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 default settings, got %d", len(settings))
	}
	// Sorted by key.
	if settings[0].Key != "focus_goal" || settings[1].Key != "recent_limit" || settings[2].Key != "report_days" {
		t.Fatalf("unexpected settings order: %+v", settings)
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("report_days", "30"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting("report_days")
	if err != nil {
		t.Fatal(err)
	}
	if v != "30" {
		t.Fatalf("expected 30, got %s", v)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nope"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetIntSetting(t *testing.T) {
	s := newTestStore(t)
	if got := s.GetIntSetting("report_days", 1); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	s.SetSetting("report_days", "abc")
	if got := s.GetIntSetting("report_days", 1); got != 1 {
		t.Fatalf("expected fallback 1, got %d", got)
	}
	if got := s.GetIntSetting("nope", 42); got != 42 {
		t.Fatalf("expected fallback 42, got %d", got)
	}
}

func TestFocusGoal(t *testing.T) {
	s := newTestStore(t)
	if s.FocusGoal() != 0 {
		t.Fatalf("default goal = %v, want 0", s.FocusGoal())
	}
	if err := s.SetFocusGoal(90*time.Minute + 30*time.Second); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.GetSetting(SettingFocusGoal); v != "90" {
		t.Fatalf("stored goal = %q, want 90", v)
	}
	if s.FocusGoal() != 90*time.Minute {
		t.Fatalf("goal = %v", s.FocusGoal())
	}
	s.SetSetting(SettingFocusGoal, "-5")
	if s.FocusGoal() != 0 {
		t.Fatal("negative goal should read as none")
	}
}

// ============================================================
// NFC tags
// ============================================================

func TestRegisterAndGetTag(t *testing.T) {
	s := newTestStore(t)
	tag, err := s.RegisterTag("tag-001", "Office Tag")
	if err != nil {
		t.Fatal(err)
	}
	if tag.ID != "tag-001" || tag.Name != "Office Tag" {
		t.Fatalf("unexpected tag: %+v", tag)
	}
	if tag.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestRegisterTagDefaultName(t *testing.T) {
	s := newTestStore(t)
	tag, err := s.RegisterTag("  tag-042 ", "")
	if err != nil {
		t.Fatal(err)
	}
	if tag.ID != "tag-042" {
		t.Fatalf("id should be trimmed, got %q", tag.ID)
	}
	if tag.Name != "Tag 042" {
		t.Fatalf("expected default name, got %q", tag.Name)
	}
}

func TestRegisterTagEmptyID(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.RegisterTag("   ", "x"); !errors.Is(err, ErrEmptyTagID) {
		t.Fatalf("expected ErrEmptyTagID, got %v", err)
	}
}

func TestRegisterTagRenames(t *testing.T) {
	s := newTestStore(t)
	s.RegisterTag("tag-001", "Office")
	s.RegisterTag("tag-001", "Desk")

	tags, err := s.ListTags()
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(tags))
	}
	if tags[0].Name != "Desk" {
		t.Fatalf("expected renamed tag, got %q", tags[0].Name)
	}
}

func TestIsRegistered(t *testing.T) {
	s := newTestStore(t)
	s.RegisterTag("tag-001", "Office")

	ok, err := s.IsRegistered("tag-001")
	if err != nil || !ok {
		t.Fatalf("expected registered, got %v %v", ok, err)
	}
	ok, err = s.IsRegistered("tag-999")
	if err != nil || ok {
		t.Fatalf("expected unregistered, got %v %v", ok, err)
	}
}

func TestListTagsEmpty(t *testing.T) {
	s := newTestStore(t)
	tags, err := s.ListTags()
	if err != nil {
		t.Fatal(err)
	}
	if tags != nil {
		t.Fatalf("expected nil slice, got %d items", len(tags))
	}
}

func TestRemoveTag(t *testing.T) {
	s := newTestStore(t)
	s.RegisterTag("tag-001", "Office")
	if err := s.RemoveTag("tag-001"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.IsRegistered("tag-001"); ok {
		t.Fatal("tag should be gone")
	}
	if err := s.RemoveTag("tag-001"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows for unknown tag, got %v", err)
	}
}
