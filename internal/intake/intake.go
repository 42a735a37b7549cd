// Package intake accepts the file a user drops or types and checks it
// against the active format policy before anything is sent anywhere.
package intake

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/agbru/squash/internal/catalog"
	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/format"
	"github.com/agbru/squash/internal/logging"
)

// DefaultAdvisoryLimit is the size shown in the intake hint. It is never enforced.
const DefaultAdvisoryLimit = 100 << 20

// ErrBusy is returned by Offer while a submission is outstanding. Front ends
// ignore it.
var ErrBusy = errors.New("intake: submission in progress")

// ErrNoFile is returned by Offer for an event that carried no file.
var ErrNoFile = errors.New("intake: no file offered")

// Source is one file from a drop or browse event.
type Source struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FromPath stats a local file and returns it as a Source. Missing paths and
// anything that is not a regular file are validation errors.
func FromPath(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Source{}, apperrors.ValidationError{Field: "file", Message: fmt.Sprintf("%s does not exist", path)}
		}
		return Source{}, apperrors.ValidationError{Field: "file", Message: err.Error()}
	}
	if !info.Mode().IsRegular() {
		return Source{}, apperrors.ValidationError{Field: "file", Message: fmt.Sprintf("%s is not a regular file", path)}
	}
	return Source{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// Candidate is a file that passed the policy of the format it was offered
// for. Only Offer creates one.
type Candidate struct {
	name     string
	size     int64
	mimeType string
	formatID string
	open     func() (io.ReadCloser, error)
}

// Name is the file name sent to the service.
func (c Candidate) Name() string { return c.name }

// Size is the declared size in bytes, for display only.
func (c Candidate) Size() int64 { return c.size }

// MIMEType is a hint derived from the extension, possibly empty.
func (c Candidate) MIMEType() string { return c.mimeType }

// FormatID is the format the candidate was validated against.
func (c Candidate) FormatID() string { return c.formatID }

// Open returns the file content.
func (c Candidate) Open() (io.ReadCloser, error) { return c.open() }

// Intake validates offered files. The busy check is supplied by the
// orchestrator that owns the session.
type Intake struct {
	busy   func() bool
	logger logging.Logger
}

// New creates an Intake. A nil busy check means never busy.
func New(busy func() bool, logger logging.Logger) *Intake {
	if busy == nil {
		busy = func() bool { return false }
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Intake{busy: busy, logger: logger}
}

// Offer handles one drop or browse event. Only the first source is
// considered; the rest are discarded. The returned error is ErrBusy,
// ErrNoFile or an apperrors.ValidationError carrying the inline message.
func (in *Intake) Offer(sources []Source, policy catalog.Policy) (Candidate, error) {
	if in.busy() {
		return Candidate{}, ErrBusy
	}
	if len(sources) == 0 {
		return Candidate{}, ErrNoFile
	}
	if len(sources) > 1 {
		in.logger.Debug("extra files discarded", logging.Int("discarded", len(sources)-1))
	}

	src := sources[0]
	if !policy.Accepts(src.Name) {
		return Candidate{}, apperrors.ValidationError{Field: "file", Message: policy.Display.RejectMessage}
	}

	return Candidate{
		name:     src.Name,
		size:     src.Size,
		mimeType: mime.TypeByExtension(strings.ToLower(filepath.Ext(src.Name))),
		formatID: policy.FormatID,
		open:     src.Open,
	}, nil
}

// AdvisoryNote renders the intake hint, e.g. "PDF files only • Max size: 100.00 MB".
func AdvisoryNote(policy catalog.Policy, limit int64) string {
	return fmt.Sprintf("%s • Max size: %s", policy.Display.AcceptHint, format.FormatBytes(limit))
}

// OverAdvisoryLimit reports whether size exceeds the advisory limit. The
// file is still accepted; front ends may show a warning.
func OverAdvisoryLimit(size, limit int64) bool {
	return limit > 0 && size > limit
}
