// Package logging provides a unified logging interface for the squash client.
// It abstracts the underlying logging implementation, allowing consistent logging
// across components while supporting multiple backends (zerolog for the CLI,
// a rotating file sink for the TUI, the standard logger for tests).
package logging
