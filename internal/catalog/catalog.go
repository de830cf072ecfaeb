// Package catalog owns the known-app catalog and the user's blocking
// selection.
package catalog

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/sadopc/focuslock/internal/kv"
)

// Storage keys.
const (
	SelectionKey  = "selected_apps_for_focus"
	CategoriesKey = "app_categories"
)

// Store is the app catalog plus the persisted selection. All methods are
// safe for concurrent use. Storage failures never reach callers: reads
// degrade to empty values and writes keep the in-memory state.
type Store struct {
	mu  sync.RWMutex
	kv  kv.Store
	log *slog.Logger

	seed      []App
	apps      []App
	selection []string
	overrides map[string]string

	// selectionErr is the error from the initial selection load, cleared by
	// the next SetSelection whether or not it persists.
	selectionErr error
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithApps replaces the seeded catalog.
func WithApps(apps []App) Option {
	return func(s *Store) { s.seed = slices.Clone(apps) }
}

// New builds the catalog and loads the selection and category overrides
// from store once.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:        store,
		log:       slog.Default(),
		seed:      DefaultApps(),
		overrides: map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.selection, s.selectionErr = s.loadSelection()
	s.overrides = s.loadOverrides()
	s.apps = s.buildCatalog()
	return s
}

func (s *Store) loadSelection() ([]string, error) {
	var ids []string
	err := kv.GetJSON(s.kv, SelectionKey, &ids)
	if errors.Is(err, kv.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		s.log.Error("load selected apps", "key", SelectionKey, "error", err)
		return []string{}, err
	}
	return dedupe(ids), nil
}

func (s *Store) loadOverrides() map[string]string {
	m := map[string]string{}
	err := kv.GetJSON(s.kv, CategoriesKey, &m)
	if errors.Is(err, kv.ErrNotFound) {
		return map[string]string{}
	}
	if err != nil {
		s.log.Error("load app categories", "key", CategoriesKey, "error", err)
		return map[string]string{}
	}
	if m == nil {
		m = map[string]string{}
	}
	return m
}

func (s *Store) buildCatalog() []App {
	apps := slices.Clone(s.seed)
	for i := range apps {
		if c, ok := s.overrides[apps[i].ID]; ok && c != "" {
			apps[i].Category = c
			continue
		}
		if apps[i].Category == "" {
			apps[i].Category = Categorize(apps[i].Name, apps[i].BundleID)
		}
	}
	return apps
}

// ListApps returns the full catalog.
func (s *Store) ListApps() []App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.apps)
}

// Selection returns the selected app ids in the order they were chosen.
func (s *Store) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selection)
}

// Snapshot is Selection with the initial load error, if any.
func (s *Store) Snapshot() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectionErr != nil {
		return []string{}, s.selectionErr
	}
	return slices.Clone(s.selection), nil
}

// SetSelection replaces the selection and persists it before returning.
// Duplicate ids keep their first position.
func (s *Store) SetSelection(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSelectionLocked(ids)
}

func (s *Store) setSelectionLocked(ids []string) {
	s.selection = dedupe(ids)
	s.selectionErr = nil
	if err := kv.SetJSON(s.kv, SelectionKey, s.selection); err != nil {
		s.log.Error("save selected apps", "key", SelectionKey, "error", err)
	}
}

// ResetSelection clears the selection.
func (s *Store) ResetSelection() {
	s.SetSelection(nil)
}

func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.selection, id)
}

// Toggle adds id to the end of the selection or removes it.
func (s *Store) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := slices.Clone(s.selection)
	if i := slices.Index(sel, id); i >= 0 {
		sel = slices.Delete(sel, i, i+1)
	} else {
		sel = append(sel, id)
	}
	s.setSelectionLocked(sel)
}

// SelectedAppDetails returns the selected apps in selection order. Ids with
// no catalog entry are dropped.
func (s *Store) SelectedAppDetails() []App {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.indexLocked()
	out := make([]App, 0, len(s.selection))
	for _, id := range s.selection {
		if app, ok := byID[id]; ok {
			out = append(out, app)
		}
	}
	return out
}

// Lookup returns the catalog entry for id.
func (s *Store) Lookup(id string) (App, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.apps {
		if a.ID == id {
			return a, true
		}
	}
	return App{}, false
}

func (s *Store) AppsByCategory(category string) []App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []App
	for _, a := range s.apps {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// Categories returns the distinct categories in catalog order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoriesLocked()
}

func (s *Store) categoriesLocked() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range s.apps {
		if seen[a.Category] {
			continue
		}
		seen[a.Category] = true
		out = append(out, a.Category)
	}
	return out
}

// SearchApps matches query case-insensitively against name and bundle id.
func (s *Store) SearchApps(query string) []App {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []App
	for _, a := range s.apps {
		if strings.Contains(strings.ToLower(a.Name), q) ||
			(a.BundleID != "" && strings.Contains(strings.ToLower(a.BundleID), q)) {
			out = append(out, a)
		}
	}
	return out
}

// UpdateAppCategory overrides the category of a catalog app and persists the
// override map. Unknown ids are ignored.
func (s *Store) UpdateAppCategory(id, category string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.apps, func(a App) bool { return a.ID == id })
	if idx < 0 {
		return false
	}
	s.apps[idx].Category = category
	s.overrides[id] = category
	if err := kv.SetJSON(s.kv, CategoriesKey, s.overrides); err != nil {
		s.log.Error("save app categories", "key", CategoriesKey, "error", err)
	}
	return true
}

// FocusModeStats counts the catalog and picks the category with the most
// selected apps. Ties go to the category seen first in selection order.
func (s *Store) FocusModeStats() FocusModeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.indexLocked()
	counts := make(map[string]int)
	var order []string
	for _, id := range s.selection {
		app, ok := byID[id]
		if !ok {
			continue
		}
		if _, seen := counts[app.Category]; !seen {
			order = append(order, app.Category)
		}
		counts[app.Category]++
	}

	most := CategoryOther
	best := 0
	for _, c := range order {
		if counts[c] > best {
			most, best = c, counts[c]
		}
	}

	return FocusModeStats{
		TotalApps:            len(s.apps),
		SelectedApps:         len(s.selection),
		Categories:           s.categoriesLocked(),
		MostSelectedCategory: most,
	}
}

func (s *Store) indexLocked() map[string]App {
	byID := make(map[string]App, len(s.apps))
	for _, a := range s.apps {
		byID[a.ID] = a
	}
	return byID
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
