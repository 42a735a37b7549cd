package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/squash/internal/format"
)

// HeaderModel renders the top bar: title, version, service and the elapsed
// time of the current request.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	server    string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version, server string) HeaderModel {
	return HeaderModel{
		version: version,
		server:  server,
	}
}

// Start begins the elapsed timer.
func (h *HeaderModel) Start(at time.Time) {
	h.startTime = at
	h.endTime = time.Time{}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone(elapsed time.Duration) {
	if h.startTime.IsZero() {
		return
	}
	h.endTime = h.startTime.Add(elapsed)
}

// Reset hides the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Time{}
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "squash"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	leftPart := titleStyle.Render(titleText)
	if h.server != "" {
		leftPart += versionStyle.Render(" | " + h.server)
	}

	if !h.startTime.IsZero() {
		var duration time.Duration
		if !h.endTime.IsZero() {
			duration = h.endTime.Sub(h.startTime)
		} else {
			duration = time.Since(h.startTime)
		}
		leftPart += versionStyle.Render(" | ") +
			elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(duration)))
	}

	innerWidth := max(h.width-2, 0)
	gap := max(innerWidth-lipgloss.Width(leftPart), 0)
	row := leftPart + spaces(gap)

	if h.width <= 0 {
		return headerStyle.Render(row)
	}
	return headerStyle.Width(h.width).Render(row)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
