package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats how long a submission took.
// Durations under a millisecond are shown in microseconds, under a second in
// milliseconds, under a minute with two decimals of seconds, and otherwise
// rounded to the second.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}
