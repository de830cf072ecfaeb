package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focuslock/internal/store"
)

type settingsModel struct {
	svc    *Services
	width  int
	height int

	settings  []store.Setting
	tags      []store.Tag
	tagCursor int

	formActive bool
	form       *huh.Form
	formType   string // "settings", "tag"

	// Form values as pointers (survive value copies)
	reportDays  *string
	recentLimit *string
	focusGoal   *string
	tagID       *string
	tagName     *string
}

func newSettingsModel(svc *Services) settingsModel {
	rd, rl, fg, id, name := "", "", "", "", ""
	return settingsModel{
		svc:         svc,
		reportDays:  &rd,
		recentLimit: &rl,
		focusGoal:   &fg,
		tagID:       &id,
		tagName:     &name,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	tags     []store.Tag
}

func (s settingsModel) refresh() tea.Cmd {
	st := s.svc.Store
	return func() tea.Msg {
		settings, _ := st.GetAllSettings()
		tags, _ := st.ListTags()
		return settingsDataMsg{settings: settings, tags: tags}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.tags = msg.tags
		if s.tagCursor >= len(s.tags) {
			s.tagCursor = max(0, len(s.tags)-1)
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showSettingsForm()
		case key.Matches(msg, keys.New):
			return s.showTagForm()
		case key.Matches(msg, keys.Up):
			if s.tagCursor > 0 {
				s.tagCursor--
			}
		case key.Matches(msg, keys.Down):
			if s.tagCursor < len(s.tags)-1 {
				s.tagCursor++
			}
		case key.Matches(msg, keys.Delete):
			if len(s.tags) > 0 {
				tag := s.tags[s.tagCursor]
				if err := s.svc.Store.RemoveTag(tag.ID); err != nil {
					return s, func() tea.Msg {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
				}
				return s, tea.Batch(s.refresh(), func() tea.Msg {
					return statusMsg{text: "Removed " + tag.Name}
				})
			}
		}
	}
	return s, nil
}

func (s settingsModel) showSettingsForm() (settingsModel, tea.Cmd) {
	*s.reportDays = s.getVal(store.SettingReportDays, "7")
	*s.recentLimit = s.getVal(store.SettingRecentLimit, "10")
	*s.focusGoal = s.getVal(store.SettingFocusGoal, "0")
	s.formType = "settings"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Report window (days)").Value(s.reportDays).Validate(positiveInt),
			huh.NewInput().Title("Recent sessions shown").Value(s.recentLimit).Validate(positiveInt),
			huh.NewInput().Title("Focus goal (min, 0 = none)").Value(s.focusGoal).Validate(nonNegativeInt),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showTagForm() (settingsModel, tea.Cmd) {
	*s.tagID = ""
	*s.tagName = ""
	s.formType = "tag"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Tag ID").Value(s.tagID).Validate(func(v string) error {
				if strings.TrimSpace(v) == "" {
					return errors.New("tag id is required")
				}
				return nil
			}),
			huh.NewInput().Title("Name (optional)").Value(s.tagName),
		).Title("Register NFC tag"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		switch s.formType {
		case "settings":
			s.saveSettings()
			return s, s.refresh()
		case "tag":
			tag, err := s.svc.Store.RegisterTag(*s.tagID, *s.tagName)
			if err != nil {
				return s, func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
				}
			}
			return s, tea.Batch(s.refresh(), func() tea.Msg {
				return statusMsg{text: "Registered " + tag.Name}
			})
		}
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.svc.Store.SetSetting(store.SettingReportDays, strings.TrimSpace(*s.reportDays))
	s.svc.Store.SetSetting(store.SettingRecentLimit, strings.TrimSpace(*s.recentLimit))
	s.svc.Store.SetSetting(store.SettingFocusGoal, strings.TrimSpace(*s.focusGoal))
	s.svc.Focus.SetGoal(s.svc.Store.FocusGoal())
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.svc.Store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		if s.formType == "tag" {
			title = titleStyle.Render("NFC Tags")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"), "")
	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	rows = append(rows, "", titleStyle.Render("NFC Tags"), "")

	if len(s.tags) == 0 {
		rows = append(rows, mutedStyle.Render("  No tags registered. Press n to add one."))
	}
	for i, tag := range s.tags {
		cursor := "  "
		style := normalItemStyle
		if i == s.tagCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-20s", cursor, tag.Name))+" "+mutedStyle.Render(tag.ID))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit settings  n: register tag  d: remove tag"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingReportDays:
		return v + " days"
	case store.SettingFocusGoal:
		if v == "0" {
			return "none"
		}
		return v + " min"
	}
	return v
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return errors.New("enter a whole number above zero")
	}
	return nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("enter a whole number, 0 or more")
	}
	return nil
}
