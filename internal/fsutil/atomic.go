// Package fsutil writes files so that readers never observe a partial
// result: content goes to a temporary file in the target directory and
// replaces the target only once fully written.
package fsutil

import "io"

// WriteFunc streams content into w.
type WriteFunc func(w io.Writer) error
