package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focuslock/internal/catalog"
)

type appsModel struct {
	svc    *Services
	width  int
	height int

	apps   []catalog.App
	stats  catalog.FocusModeStats
	query  string
	cursor int

	formActive bool
	form       *huh.Form
	formQuery  *string
}

func newAppsModel(svc *Services) appsModel {
	q := ""
	return appsModel{
		svc:       svc,
		formQuery: &q,
	}
}

func (a *appsModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

type appsDataMsg struct {
	apps  []catalog.App
	stats catalog.FocusModeStats
}

func (a appsModel) refresh() tea.Cmd {
	svc, query := a.svc, a.query
	return func() tea.Msg {
		var apps []catalog.App
		if query == "" {
			apps = svc.Catalog.ListApps()
		} else {
			apps = svc.Catalog.SearchApps(query)
		}
		return appsDataMsg{apps: apps, stats: svc.Catalog.FocusModeStats()}
	}
}

func (a appsModel) update(msg tea.Msg) (appsModel, tea.Cmd) {
	if a.formActive && a.form != nil {
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case appsDataMsg:
		a.apps = msg.apps
		a.stats = msg.stats
		if a.cursor >= len(a.apps) {
			a.cursor = max(0, len(a.apps)-1)
		}
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if a.cursor > 0 {
				a.cursor--
			}
		case key.Matches(msg, keys.Down):
			if a.cursor < len(a.apps)-1 {
				a.cursor++
			}
		case key.Matches(msg, keys.Select):
			if len(a.apps) > 0 {
				a.svc.Catalog.Toggle(a.apps[a.cursor].ID)
				return a, a.refresh()
			}
		case key.Matches(msg, keys.Search):
			return a.showSearchForm()
		case key.Matches(msg, keys.Reset):
			a.svc.Catalog.ResetSelection()
			return a, tea.Batch(a.refresh(), func() tea.Msg {
				return statusMsg{text: "Selection cleared"}
			})
		case key.Matches(msg, keys.Back):
			if a.query != "" {
				a.query = ""
				a.cursor = 0
				return a, a.refresh()
			}
		}
	}
	return a, nil
}

func (a appsModel) showSearchForm() (appsModel, tea.Cmd) {
	*a.formQuery = a.query
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search apps").Placeholder("name or bundle id").Value(a.formQuery),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.formActive = true
	return a, a.form.Init()
}

func (a appsModel) updateForm(msg tea.Msg) (appsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.formActive = false
			a.form = nil
			return a, nil
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a.formActive = false
		a.form = nil
		a.query = strings.TrimSpace(*a.formQuery)
		a.cursor = 0
		return a, a.refresh()
	}

	return a, cmd
}

func (a appsModel) view() string {
	w := a.width - 4

	if a.formActive && a.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Search"), "", a.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Apps")
	summary := mutedStyle.Render(fmt.Sprintf("%d of %d blocked  ·  most blocked: %s",
		a.stats.SelectedApps, a.stats.TotalApps, a.stats.MostSelectedCategory))
	header := title + "  " + summary
	if a.query != "" {
		header += "  " + highlightStyle.Render(fmt.Sprintf("search: %q", a.query))
	}

	if len(a.apps) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("No apps match. Press esc to clear the search."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-20s %-16s %s", "", "Name", "Category", "Bundle ID")))

	from, to := a.visibleRange()
	for i := from; i < to; i++ {
		app := a.apps[i]
		cursor := "  "
		style := normalItemStyle
		if i == a.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := "[ ]"
		if a.svc.Catalog.IsSelected(app.ID) {
			mark = blockedMarkStyle.Render("[x]")
		}
		name := style.Render(fmt.Sprintf("%-20s", truncate(app.Name, 20)))
		cat := categoryStyle.Render(fmt.Sprintf("%-16s", app.Category))
		rows = append(rows, fmt.Sprintf("%s%s %s %s %s", cursor, mark, name, cat, mutedStyle.Render(app.BundleID)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: block/unblock  /: search  r: reset  esc: clear search"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// visibleRange keeps the cursor inside the rows that fit the panel.
func (a appsModel) visibleRange() (int, int) {
	rows := a.height - 10
	if rows < 5 {
		rows = 5
	}
	if len(a.apps) <= rows {
		return 0, len(a.apps)
	}
	from := a.cursor - rows/2
	from = max(0, min(from, len(a.apps)-rows))
	return from, from + rows
}
