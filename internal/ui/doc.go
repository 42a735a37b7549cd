// Package ui provides theme and color support for the squash front ends.
// It defines ANSI color schemes for the CLI and REPL and lipgloss palettes
// for the TUI, so presentation packages share one notion of the active theme.
package ui
