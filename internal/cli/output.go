// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayReport], [DisplayQuietReport], [DisplayFormats].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietReport].
//
//   - Write* functions write data to files on the filesystem.
//     They handle directory setup and replace the target atomically.
//     Examples: [WriteReportJSON].

package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/fsutil"
	"github.com/agbru/squash/internal/report"
)

// ReportDocument is the JSON form of a report written with -o.
type ReportDocument struct {
	Generated    time.Time `json:"generated"`
	File         string    `json:"file"`
	Format       string    `json:"format"`
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	InputSize    *int64    `json:"input_size,omitempty"`
	OutputSize   *int64    `json:"output_size,omitempty"`
	Ratio        *float64  `json:"ratio,omitempty"`
	DownloadLink string    `json:"download_link,omitempty"`
	Elapsed      string    `json:"elapsed"`
}

// NewReportDocument captures r for the named file and format label.
func NewReportDocument(r report.Report, file, formatLabel string, elapsed time.Duration) ReportDocument {
	outcome := r.Outcome()
	doc := ReportDocument{
		Generated:  time.Now().UTC(),
		File:       file,
		Format:     formatLabel,
		Success:    r.Success,
		Message:    outcome.Message,
		InputSize:  outcome.InputSize,
		OutputSize: outcome.OutputSize,
		Elapsed:    elapsed.Round(time.Millisecond).String(),
	}
	if r.HasRatio {
		ratio := r.Ratio
		doc.Ratio = &ratio
	}
	if r.Download.Enabled {
		doc.DownloadLink = r.DownloadLink
	}
	return doc
}

// WriteReportJSON writes doc to path as indented JSON. Missing parent
// directories are created.
//
// Parameters:
//   - path: The destination file. Empty means no output.
//   - doc: The report to save.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteReportJSON(path string, doc ReportDocument) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "failed to create directory %s", dir)
		}
	}

	return fsutil.WriteAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	})
}
