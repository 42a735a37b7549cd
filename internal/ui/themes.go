package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for line-oriented output (CLI reports, REPL).
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the accent for headings and the active format.
	Primary string
	// Secondary is used for labels and hints.
	Secondary string
	// Success marks a completed compression.
	Success string
	// Warning marks advisory notes such as the size hint.
	Warning string
	// Error marks failed outcomes and validation messages.
	Error string
	// Info is used for links and informational values.
	Info string
	// Bold is the escape code for bold text.
	Bold string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme targets dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;44m",  // Teal
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;78m",  // Green
		Warning:   "\033[38;5;221m", // Amber
		Error:     "\033[38;5;203m", // Coral red
		Info:      "\033[38;5;111m", // Sky blue
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme targets light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;30m",  // Dark teal
		Secondary: "\033[38;5;240m", // Dark grey
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Brown
		Error:     "\033[38;5;124m", // Dark red
		Info:      "\033[38;5;25m",  // Navy
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color flag is provided.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// ThemeNames lists the names accepted by SetTheme.
var ThemeNames = []string{"dark", "light", "none"}

// TUITheme defines lipgloss-compatible colors for the TUI.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default teal palette.
	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("#E4E4E4"),
		Border:  lipgloss.Color("#2AA198"),
		Accent:  lipgloss.Color("#35D0C3"),
		Success: lipgloss.Color("#8CD17D"),
		Warning: lipgloss.Color("#F2C94C"),
		Error:   lipgloss.Color("#FF6B6B"),
		Dim:     lipgloss.Color("#6C6C6C"),
		Info:    lipgloss.Color("#7AB8FF"),
	}

	// LightTUITheme darkens every color for light backgrounds.
	LightTUITheme = TUITheme{
		Text:    lipgloss.Color("#1F1F1F"),
		Border:  lipgloss.Color("#00766C"),
		Accent:  lipgloss.Color("#006D66"),
		Success: lipgloss.Color("#2E7D32"),
		Warning: lipgloss.Color("#8D5A00"),
		Error:   lipgloss.Color("#B3261E"),
		Dim:     lipgloss.Color("#8A8A8A"),
		Info:    lipgloss.Color("#1E4FA0"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the TUI palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	switch currentTheme.Name {
	case "none":
		return NoColorTUITheme
	case "light":
		return LightTUITheme
	default:
		return DarkTUITheme
	}
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name. Unknown names select the dark theme.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case "light":
		currentTheme = LightTheme
	case "none":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// InitTheme picks the theme for this process. noColor and the NO_COLOR
// environment variable (https://no-color.org/) both force NoColorTheme;
// otherwise the named theme is used.
//
// Parameters:
//   - name: The configured theme name.
//   - noColor: If true, disables all color output regardless of environment.
func InitTheme(name string, noColor bool) {
	if noColor {
		SetTheme("none")
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		SetTheme("none")
		return
	}
	SetTheme(name)
}
