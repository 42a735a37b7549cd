package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/squash/internal/ui"
)

// Style variables for the TUI.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle       lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	versionStyle     lipgloss.Style
	elapsedStyle     lipgloss.Style
	sectionStyle     lipgloss.Style
	cursorStyle      lipgloss.Style
	selectedStyle    lipgloss.Style
	optionStyle      lipgloss.Style
	descriptionStyle lipgloss.Style
	hintStyle        lipgloss.Style
	warningStyle     lipgloss.Style
	errorStyle       lipgloss.Style
	successStyle     lipgloss.Style
	failureStyle     lipgloss.Style
	labelStyle       lipgloss.Style
	valueStyle       lipgloss.Style
	linkStyle        lipgloss.Style
	spinnerStyle     lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text)

	cursorStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	selectedStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	optionStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	descriptionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	hintStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	warningStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	successStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	failureStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	labelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	valueStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	linkStyle = lipgloss.NewStyle().
		Foreground(t.Info).
		Underline(true)

	spinnerStyle = lipgloss.NewStyle().
		Foreground(t.Accent)
}
