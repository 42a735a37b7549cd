package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/squash/internal/format"
	"github.com/agbru/squash/internal/intake"
	"github.com/agbru/squash/internal/orchestration"
	"github.com/agbru/squash/internal/report"
)

// View renders the whole screen.
func (m Model) View() string {
	var body string
	switch m.snap.State {
	case orchestration.Submitting:
		body = m.renderBusy()
	case orchestration.Resulted:
		body = m.renderResult()
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderFormats(), "", m.renderIntake())
	}

	panel := panelStyle
	if m.width > 4 {
		panel = panel.Width(m.width - 2)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		panel.Render(body),
		" "+m.help.View(m.keymap),
	)
}

// renderFormats draws the format radio list.
func (m Model) renderFormats() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Select Compression Format"))
	b.WriteString("\n")
	if m.orch.Catalog().FromFallback() {
		b.WriteString(hintStyle.Render("Service unavailable, showing built-in formats"))
		b.WriteString("\n")
	}

	for _, d := range m.orch.Catalog().Formats() {
		cursor, radio, name := "  ", "( )", optionStyle.Render(d.DisplayName)
		if d.ID == m.snap.Format.ID {
			cursor, radio, name = cursorStyle.Render("› "), selectedStyle.Render("(•)"), selectedStyle.Render(d.DisplayName)
		}
		fmt.Fprintf(&b, "%s%s %s %s  %s\n", cursor, radio, d.Icon, name, descriptionStyle.Render(d.Description))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderIntake draws the path input with its hints and the inline
// validation message.
func (m Model) renderIntake() string {
	policy := m.snap.Policy
	lines := []string{
		sectionStyle.Render("Select " + policy.Display.Noun),
		m.input.View(),
		hintStyle.Render(intake.AdvisoryNote(policy, m.opts.MaxSize)),
		hintStyle.Render(policy.Display.TargetHint),
	}
	if m.validation != "" {
		lines = append(lines, errorStyle.Render("✗ "+m.validation))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderBusy draws the spinner with the policy's busy text.
func (m Model) renderBusy() string {
	lines := []string{
		m.spinner.View() + " " + valueStyle.Render(m.snap.Policy.Display.BusyText),
	}
	if m.snap.FileName != "" {
		file := fmt.Sprintf("%s (%s)", m.snap.FileName, format.FormatBytes(m.snap.FileSize))
		lines = append(lines, hintStyle.Render(file))
		if intake.OverAdvisoryLimit(m.snap.FileSize, m.opts.MaxSize) {
			lines = append(lines, warningStyle.Render("Larger than the advised "+format.FormatBytes(m.opts.MaxSize)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderResult draws the report.
func (m Model) renderResult() string {
	r, ok := m.report()
	if !ok {
		return ""
	}

	var lines []string
	if r.Success {
		lines = append(lines, successStyle.Render("✓ "+r.Heading))
		if r.HasRatio {
			lines = append(lines, valueStyle.Render(r.RatioText))
		}
		lines = append(lines, "", m.renderSizes(r))
		if r.Download.Enabled {
			lines = append(lines, "",
				cursorStyle.Render("[d] ")+optionStyle.Render(r.Download.Label),
				"    "+linkStyle.Render(r.DownloadLink))
		}
	} else {
		lines = append(lines, failureStyle.Render("✗ "+r.Heading), errorStyle.Render(r.Message))
	}

	if m.notice != "" {
		style := successStyle
		if m.noticeErr {
			style = errorStyle
		}
		lines = append(lines, "", style.Render(m.notice))
	}
	lines = append(lines, "", cursorStyle.Render("[r] ")+optionStyle.Render(r.Reset.Label))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSizes(r report.Report) string {
	width := max(len(report.OriginalSizeLabel), len(r.OutputSizeLabel))
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-*s", width, label)) + "  " + valueStyle.Render(value)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		row(report.OriginalSizeLabel, r.InputSize),
		row(r.OutputSizeLabel, r.OutputSize),
	)
}
