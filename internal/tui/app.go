package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-homedir"

	"github.com/sadopc/focuslock/internal/export"
	"github.com/sadopc/focuslock/internal/ledger"
)

// statusTTL is how long a footer status message stays visible.
const statusTTL = 5 * time.Second

type exportFormat struct {
	name  string
	ext   string
	write func([]ledger.SessionDetail, string) error
}

var exportFormats = []exportFormat{
	{name: "CSV", ext: "csv", write: export.ToCSV},
	{name: "JSON", ext: "json", write: export.ToJSON},
}

// App is the root Bubble Tea model. It owns the tab bar, the footer and
// the export picker; each tab is a child model.
type App struct {
	svc    *Services
	width  int
	height int

	activeView viewState
	showHelp   bool

	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	apps      appsModel
	history   historyModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
	statusSeq int
}

func NewApp(svc *Services) App {
	h := help.New()
	h.ShowAll = false

	return App{
		svc:        svc,
		activeView: viewFocus,
		dashboard:  newDashboardModel(svc),
		apps:       newAppsModel(svc),
		history:    newHistoryModel(svc),
		settings:   newSettingsModel(svc),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.dashboard.Init(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// setStatus shows text in the footer and schedules its removal.
func (a *App) setStatus(text string, isError bool) tea.Cmd {
	a.status, a.statusErr = text, isError
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		body := a.height - 4
		a.dashboard.setSize(a.width, body)
		a.apps.setSize(a.width, body)
		a.history.setSize(a.width, body)
		a.settings.setSize(a.width, body)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		// Forms own the keyboard until they close.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}
		if next, cmd, ok := a.handleGlobalKey(msg); ok {
			return next, cmd
		}

	case tickMsg:
		// The focus view sees every tick so a goal ends the session on any tab.
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		return a, a.setStatus(msg.text, msg.isError)

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status, a.statusErr = "", false
		}
		return a, nil

	case focusStartedMsg:
		n := len(a.svc.Catalog.Selection())
		return a, a.setStatus(fmt.Sprintf("Focus mode on, blocking %d apps", n), false)

	case focusStoppedMsg:
		text := fmt.Sprintf("Focus mode off, %s recorded", formatShort(msg.session.Duration))
		if msg.reason != "" {
			text += " (" + msg.reason + ")"
		}
		cmds := []tea.Cmd{a.setStatus(text, false)}
		if a.activeView == viewHistory {
			cmds = append(cmds, a.history.refresh())
		}
		return a, tea.Batch(cmds...)

	case exportDoneMsg:
		a.exportPicking = false
		return a, a.setStatus("Exported to "+msg.path, false)

	case dashboardDataMsg:
		// Focus data may land while another tab is showing.
		a.dashboard, _ = a.dashboard.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit, true
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil, true
	case key.Matches(msg, keys.Export):
		a.exportPicking, a.exportCursor = true, 0
		return a, nil, true
	case key.Matches(msg, keys.Tab):
		a.activeView = (a.activeView + 1) % viewState(len(viewNames))
		return a, a.refreshCurrentView(), true
	}

	tabs := []key.Binding{keys.Tab1, keys.Tab2, keys.Tab3, keys.Tab4}
	for i, b := range tabs {
		if key.Matches(msg, b) {
			a.activeView = viewState(i)
			return a, a.refreshCurrentView(), true
		}
	}
	return a, nil, false
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewFocus:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewApps:
		a.apps, cmd = a.apps.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewFocus:
		return a.dashboard.formActive
	case viewApps:
		return a.apps.formActive
	case viewHistory:
		return a.history.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewFocus:
		return a.dashboard.loadData()
	case viewApps:
		return a.apps.refresh()
	case viewHistory:
		return a.history.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()
	body := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	var content string
	switch {
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.activeView == viewFocus:
		content = a.dashboard.view()
	case a.activeView == viewApps:
		content = a.apps.view()
	case a.activeView == viewHistory:
		content = a.history.view()
	case a.activeView == viewSettings:
		content = a.settings.view()
	}

	content = lipgloss.NewStyle().Width(a.width).Height(body).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// focusBadge shows whether apps are currently blocked.
func (a App) focusBadge() string {
	if !a.svc.Focus.Active() {
		return badgeOffStyle.Render("○ idle")
	}
	return badgeOnStyle.Render(fmt.Sprintf("● FOCUS · %d blocked", len(a.svc.Catalog.Selection())))
}

func (a App) renderHeader() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		style := inactiveTabStyle
		if viewState(i) == a.activeView {
			style = activeTabStyle
		}
		tabs[i] = style.Render(name)
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	left := lipgloss.JoinHorizontal(lipgloss.Bottom, brandStyle.Render("focuslock"), " ", a.focusBadge())
	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(tabRow)-4)

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, left, strings.Repeat(" ", gap), tabRow),
	)
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	var right string
	if a.svc.Focus.Active() {
		clock := formatDuration(a.svc.Focus.Elapsed())
		if rem, ok := a.svc.Focus.Remaining(); ok {
			clock += " / " + formatShort(rem) + " left"
		}
		right = successStyle.Render(" ● " + clock)
	}
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		right += style.Render(" " + a.status)
	}

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, strings.Repeat(" ", gap), right)
}

func (a App) renderExportPicker() string {
	n := len(a.svc.Ledger.Sessions())
	rows := []string{
		titleStyle.Render("Export Sessions"),
		mutedStyle.Render(fmt.Sprintf("%d sessions", n)),
		"",
	}
	for i, f := range exportFormats {
		cursor, style := "  ", normalItemStyle
		if i == a.exportCursor {
			cursor, style = "> ", selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f.name)+mutedStyle.Render("  ."+f.ext))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		a.exportCursor = max(0, a.exportCursor-1)
	case key.Matches(msg, keys.Down):
		a.exportCursor = min(len(exportFormats)-1, a.exportCursor+1)
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// ExportPath is the file an export in the given extension is written to.
func ExportPath(dir, ext string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("focuslock-export-%s.%s", now.Format("2006-01-02"), ext))
}

func (a App) doExport(i int) tea.Cmd {
	svc, f := a.svc, exportFormats[i]
	return func() tea.Msg {
		dir := svc.ExportDir
		if dir == "" {
			home, err := homedir.Dir()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			dir = home
		}

		path := ExportPath(dir, f.ext, time.Now())
		if err := f.write(svc.Ledger.SessionsWithAppDetails(), path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", f.name, err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
