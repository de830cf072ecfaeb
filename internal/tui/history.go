package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focuslock/internal/ledger"
	"github.com/sadopc/focuslock/internal/store"
)

// dayTotal is the focus time of the sessions that started on one day.
type dayTotal struct {
	day      time.Time
	total    time.Duration
	sessions int
}

type historyModel struct {
	svc    *Services
	width  int
	height int

	days    int
	daily   []dayTotal
	total   time.Duration
	average time.Duration
	stats   ledger.BlockedAppStats

	chart barchart.Model

	formActive bool
	form       *huh.Form
	confirm    *bool
}

func newHistoryModel(svc *Services) historyModel {
	ok := false
	return historyModel{
		svc:     svc,
		days:    7,
		chart:   barchart.New(60, 12),
		confirm: &ok,
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type historyDataMsg struct {
	days    int
	daily   []dayTotal
	total   time.Duration
	average time.Duration
	stats   ledger.BlockedAppStats
}

func (h historyModel) refresh() tea.Cmd {
	svc := h.svc
	return func() tea.Msg {
		days := svc.Store.GetIntSetting(store.SettingReportDays, 7)
		if days < 1 {
			days = 1
		}
		now := time.Now()
		return historyDataMsg{
			days:    days,
			daily:   dailyTotals(svc.Ledger, now, days),
			total:   svc.Ledger.TotalFocusTime(days),
			average: svc.Ledger.AverageSessionDuration(days),
			stats:   svc.Ledger.BlockedAppStats(),
		}
	}
}

// dailyTotals buckets the sessions of the last days local calendar days,
// oldest first.
func dailyTotals(l *ledger.Ledger, now time.Time, days int) []dayTotal {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := today.AddDate(0, 0, -(days - 1))

	out := make([]dayTotal, days)
	for i := range out {
		out[i].day = first.AddDate(0, 0, i)
	}
	for _, s := range l.SessionsBetween(first, now) {
		start := s.StartTime.In(now.Location())
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
		for i := range out {
			if out[i].day.Equal(day) {
				out[i].total += s.Duration
				out[i].sessions++
				break
			}
		}
	}
	return out
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case historyDataMsg:
		h.days = msg.days
		h.daily = msg.daily
		h.total = msg.total
		h.average = msg.average
		h.stats = msg.stats
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Clear):
			return h.showClearForm()
		case key.Matches(msg, keys.Sample):
			h.svc.Ledger.CreateSampleData()
			return h, tea.Batch(h.refresh(), func() tea.Msg {
				return statusMsg{text: "Sample sessions created"}
			})
		}
	}
	return h, nil
}

func (h historyModel) showClearForm() (historyModel, tea.Cmd) {
	*h.confirm = false
	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete all focus sessions?").
				Affirmative("Delete").
				Negative("Cancel").
				Value(h.confirm),
		),
	).WithShowHelp(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h historyModel) updateForm(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		h.form = nil
		if !*h.confirm {
			return h, nil
		}
		h.svc.Ledger.ClearAllSessions()
		return h, tea.Batch(h.refresh(), func() tea.Msg {
			return statusMsg{text: "History cleared"}
		})
	}

	return h, cmd
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if h.height > 34 {
		chartHeight = 14
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	label := "Mon 02"
	if len(h.daily) > 10 {
		label = "02"
	}

	var bars []barchart.BarData
	for _, d := range h.daily {
		style := barStyle
		if d.total == 0 {
			style = barDimStyle
		}
		bars = append(bars, barchart.BarData{
			Label: d.day.Format(label),
			Values: []barchart.BarValue{{
				Name:  "focus",
				Value: d.total.Hours(),
				Style: style,
			}},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	if h.formActive && h.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Clear History"), "", h.form.View())
		return activePanelStyle.Width(w).Render(content)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		mutedStyle.Render(fmt.Sprintf("last %d days", h.days)), "  ",
		highlightStyle.Render(formatHours(h.total)), "  ",
		mutedStyle.Render("avg "+formatShort(h.average)),
	)

	nav := mutedStyle.Render("  c: clear history  g: sample data  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", h.renderStats(w), "", nav,
		),
	)
}

func (h historyModel) renderStats(w int) string {
	s := h.stats
	if s.TotalSessions == 0 {
		return mutedStyle.Render("  No sessions recorded")
	}

	var rows []string
	rows = append(rows, fmt.Sprintf("  %s sessions  %s apps blocked  %s per session",
		highlightStyle.Render(fmt.Sprintf("%d", s.TotalSessions)),
		highlightStyle.Render(fmt.Sprintf("%d", s.TotalBlockedApps)),
		highlightStyle.Render(fmt.Sprintf("%.1f", s.AverageAppsPerSession)),
	))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-22s %8s", "#", "Most blocked", "Sessions")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 36))))
	for i, a := range s.MostBlockedApps {
		rows = append(rows, fmt.Sprintf("  %-4d %-22s %8d", i+1, truncate(a.Name, 22), a.Count))
	}
	return strings.Join(rows, "\n")
}
