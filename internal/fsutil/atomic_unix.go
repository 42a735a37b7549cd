//go:build !windows

package fsutil

import (
	"fmt"

	"github.com/google/renameio/v2"
)

// WriteAtomic writes path through write. On error the target is left
// untouched and the temporary file is removed.
func WriteAtomic(path string, write WriteFunc) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pendingFile.Cleanup() }()

	if err := write(pendingFile); err != nil {
		return err
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}
