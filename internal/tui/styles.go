package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Focus-on states use the green family, blocked apps the red one.
var (
	colorBrand   = lipgloss.Color("#5B8DEF")
	colorFocusOn = lipgloss.Color("#3DDC97")
	colorBlocked = lipgloss.Color("#F25F5C")
	colorGoal    = lipgloss.Color("#FFB547")
	colorTeal    = lipgloss.Color("#3BB8C3")
	colorError   = lipgloss.Color("#E5484D")
	colorText    = lipgloss.Color("#D4D8E8")
	colorDim     = lipgloss.Color("#6B7089")
	colorBorder  = lipgloss.Color("#3A3F58")
	colorLink    = lipgloss.Color("#8AB4F8")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boxed(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
}

var (
	activeTabStyle   = fg(colorBrand).Bold(true).Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(colorBrand).Padding(0, 2)
	inactiveTabStyle = fg(colorDim).Padding(0, 2)

	panelStyle       = boxed(colorBorder)
	activePanelStyle = boxed(colorBrand)

	// Big elapsed clock on the Focus view.
	timerStyle       = fg(colorBrand).Bold(true).Align(lipgloss.Center)
	timerActiveStyle = fg(colorFocusOn).Bold(true).Align(lipgloss.Center)
	timerGoalStyle   = fg(colorGoal).Bold(true).Align(lipgloss.Center)

	// Header badge.
	badgeOnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101318")).Background(colorFocusOn).Padding(0, 1)
	badgeOffStyle = fg(colorDim).Padding(0, 1)

	titleStyle     = fg(colorText).Bold(true)
	brandStyle     = fg(colorBrand).Bold(true)
	accentStyle    = fg(colorBlocked)
	successStyle   = fg(colorFocusOn)
	errorStyle     = fg(colorError)
	mutedStyle     = fg(colorDim)
	highlightStyle = fg(colorLink)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = fg(colorDim).Padding(0, 1)

	blockedMarkStyle = fg(colorBlocked).Bold(true)
	categoryStyle    = fg(colorTeal)

	selectedItemStyle = fg(colorBrand).Bold(true)
	normalItemStyle   = fg(colorText)

	barStyle    = fg(colorBrand)
	barDimStyle = fg(colorBorder)
)
