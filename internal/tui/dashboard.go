package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focuslock/internal/catalog"
	"github.com/sadopc/focuslock/internal/focus"
	"github.com/sadopc/focuslock/internal/ledger"
	"github.com/sadopc/focuslock/internal/store"
)

type dashboardModel struct {
	svc    *Services
	width  int
	height int

	todayTotal time.Duration
	windowDays int
	windowTot  time.Duration
	recent     []ledger.SessionDetail
	selected   []catalog.App

	formActive bool
	form       *huh.Form
	tagID      *string
}

func newDashboardModel(svc *Services) dashboardModel {
	tag := ""
	return dashboardModel{
		svc:   svc,
		tagID: &tag,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isActive() bool { return d.svc.Focus.Active() }
func (d dashboardModel) elapsed() time.Duration {
	return d.svc.Focus.Elapsed()
}

type dashboardDataMsg struct {
	todayTotal time.Duration
	windowDays int
	windowTot  time.Duration
	recent     []ledger.SessionDetail
	selected   []catalog.App
}

func (d dashboardModel) loadData() tea.Cmd {
	svc := d.svc
	return func() tea.Msg {
		days := svc.Store.GetIntSetting(store.SettingReportDays, 7)
		limit := svc.Store.GetIntSetting(store.SettingRecentLimit, 10)

		details := svc.Ledger.SessionsWithAppDetails()
		if limit >= 0 && len(details) > limit {
			details = details[:limit]
		}

		return dashboardDataMsg{
			todayTotal: svc.Ledger.TotalFocusTime(1),
			windowDays: days,
			windowTot:  svc.Ledger.TotalFocusTime(days),
			recent:     details,
			selected:   svc.Catalog.SelectedAppDetails(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todayTotal = msg.todayTotal
		d.windowDays = msg.windowDays
		d.windowTot = msg.windowTot
		d.recent = msg.recent
		d.selected = msg.selected
		return d, nil

	case tickMsg:
		if s, stopped := d.svc.Focus.Tick(); stopped {
			return d, tea.Batch(
				d.loadData(),
				func() tea.Msg { return focusStoppedMsg{session: s, reason: "goal reached"} },
			)
		}
		return d, nil
	}

	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if !d.svc.Focus.Start() {
				return d, func() tea.Msg {
					return statusMsg{text: "Focus mode is already on"}
				}
			}
			return d, tea.Batch(d.loadData(), func() tea.Msg { return focusStartedMsg{} })

		case key.Matches(msg, keys.Stop):
			return d.stop()

		case key.Matches(msg, keys.Toggle):
			return d, d.transitionCmd(d.svc.Focus.Toggle(), "")

		case key.Matches(msg, keys.Scan):
			return d.showScanForm()
		}
	}
	return d, nil
}

func (d dashboardModel) stop() (dashboardModel, tea.Cmd) {
	s, ok := d.svc.Focus.Stop()
	if !ok {
		return d, func() tea.Msg {
			return statusMsg{text: "Focus mode is not on"}
		}
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return focusStoppedMsg{session: s} },
	)
}

func (d dashboardModel) transitionCmd(tr focus.Transition, reason string) tea.Cmd {
	switch {
	case tr.Started:
		return tea.Batch(d.loadData(), func() tea.Msg { return focusStartedMsg{} })
	case tr.Stopped:
		return tea.Batch(d.loadData(), func() tea.Msg {
			return focusStoppedMsg{session: tr.Session, reason: reason}
		})
	}
	return nil
}

func (d dashboardModel) showScanForm() (dashboardModel, tea.Cmd) {
	*d.tagID = ""
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tag ID").
				Description("Enter the id of the scanned NFC tag").
				Value(d.tagID),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		d.form = nil
		return d, d.scan(strings.TrimSpace(*d.tagID))
	}

	return d, cmd
}

func (d dashboardModel) scan(tagID string) tea.Cmd {
	if tagID == "" {
		return nil
	}
	res, err := d.svc.Focus.HandleTagScan(tagID)
	switch {
	case errors.Is(err, focus.ErrUnregisteredTag):
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Tag %s is not registered", tagID), isError: true}
		}
	case err != nil:
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Scan error: %v", err), isError: true}
		}
	}
	return d.transitionCmd(res.Transition, "tag "+tagID)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Scan Tag"), "", d.form.View())
		return activePanelStyle.Width(contentWidth).Render(content)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(contentWidth),
		d.renderSummaryPanel(contentWidth),
		d.renderRecentPanel(contentWidth),
	)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.isActive() {
		timeStr := formatDuration(d.elapsed())
		timeDisplay := timerActiveStyle.Width(w - 6).Render(timeStr)
		indicator := successStyle.Render("●  FOCUS ON")

		goalLine := mutedStyle.Render("No goal set")
		if left, ok := d.svc.Focus.Remaining(); ok {
			goalLine = timerGoalStyle.Render(formatDuration(left) + " to goal")
		}

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			highlightStyle.Render(fmt.Sprintf("Blocking %d apps", len(d.selected))),
			goalLine,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	timeDisplay := timerStyle.Width(w - 6).Render("00:00:00")
	indicator := mutedStyle.Render("■  IDLE")
	hint := mutedStyle.Render("Press s to start focus mode or t to scan a tag")

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		hint,
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	title := titleStyle.Render("Focus time")
	totals := fmt.Sprintf("%s  %s   %s  %s",
		mutedStyle.Render("24h"), highlightStyle.Render(formatShort(d.todayTotal)),
		mutedStyle.Render(fmt.Sprintf("%dd", d.windowDays)), highlightStyle.Render(formatShort(d.windowTot)),
	)

	var apps string
	if len(d.selected) == 0 {
		apps = mutedStyle.Render("No apps selected. Press 2 to pick apps to block.")
	} else {
		names := make([]string, len(d.selected))
		for i, a := range d.selected {
			names[i] = a.Name
		}
		apps = accentStyle.Render("Blocked: ") + truncate(strings.Join(names, ", "), w-16)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title+"  "+totals, apps))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, s := range d.recent {
		startStr := s.StartTime.Local().Format("Jan 02 15:04")
		apps := truncate(strings.Join(s.BlockedAppNames, ", "), w-52)
		if n := len(s.UnresolvedAppIDs); n > 0 {
			apps += mutedStyle.Render(fmt.Sprintf(" +%d unknown", n))
		}
		row := fmt.Sprintf("  ✓ %s  %8s  %2d apps  %s",
			startStr, formatShort(s.Duration), s.AppsBlocked, apps)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
