package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/focuslock/internal/catalog"
	"github.com/sadopc/focuslock/internal/focus"
	"github.com/sadopc/focuslock/internal/ledger"
	"github.com/sadopc/focuslock/internal/store"
)

// Services are the components the views read from and act on.
type Services struct {
	Store   *store.Store
	Catalog *catalog.Store
	Ledger  *ledger.Ledger
	Focus   *focus.Controller

	// ExportDir is where exports are written; empty means the home directory.
	ExportDir string
}

// viewState represents the currently active view.
type viewState int

const (
	viewFocus viewState = iota
	viewApps
	viewHistory
	viewSettings
)

var viewNames = []string{"Focus", "Apps", "History", "Settings"}

// --- Messages ---

type focusStartedMsg struct{}

type focusStoppedMsg struct {
	session ledger.Session
	reason  string
}

type statusMsg struct {
	text    string
	isError bool
}

// clearStatusMsg clears the footer status if nothing replaced it since.
type clearStatusMsg struct {
	seq int
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}

// formatShort renders d as "1h 05m" or "12m".
func formatShort(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func formatHours(d time.Duration) string {
	return fmt.Sprintf("%.1fh", d.Hours())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
