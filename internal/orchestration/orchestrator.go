package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agbru/squash/internal/catalog"
	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/fsutil"
	"github.com/agbru/squash/internal/intake"
	"github.com/agbru/squash/internal/logging"
	"github.com/agbru/squash/internal/metrics"
	"github.com/agbru/squash/internal/report"
	"github.com/agbru/squash/internal/service"
)

var (
	// ErrBusy is returned for commands arriving while a request is
	// outstanding. Front ends ignore it.
	ErrBusy = intake.ErrBusy
	// ErrNotSelecting is returned for commands that only apply while
	// selecting. Front ends ignore it.
	ErrNotSelecting = errors.New("orchestration: session is not selecting")
	// ErrNoDownload is returned by Download when the current outcome offers
	// nothing to download.
	ErrNoDownload = errors.New("orchestration: no download available")
)

// Orchestrator runs one compression session. It is safe for concurrent use;
// at most one request is outstanding at any time and extra attempts are
// dropped rather than queued.
type Orchestrator struct {
	mu   sync.Mutex
	sess session

	selector   *catalog.Selector
	intake     *intake.Intake
	svc        CompressionService
	downloader Downloader
	metrics    metrics.Sink
	logger     logging.Logger
	observers  []StateObserver
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.Sink) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithObserver registers a state observer. It may be given more than once.
func WithObserver(obs StateObserver) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, obs) }
}

// WithDownloader sets the downloader. By default the compression service is
// used when it also implements Downloader.
func WithDownloader(d Downloader) Option {
	return func(o *Orchestrator) { o.downloader = d }
}

// New creates an orchestrator in the Selecting state.
func New(svc CompressionService, selector *catalog.Selector, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sess:     session{state: Selecting},
		selector: selector,
		svc:      svc,
		metrics:  metrics.Discard{},
		logger:   logging.Nop(),
	}
	if d, ok := svc.(Downloader); ok {
		o.downloader = d
	}
	for _, opt := range opts {
		opt(o)
	}
	o.intake = intake.New(o.Busy, o.logger)
	return o
}

// Busy reports whether a request is outstanding.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sess.state == Submitting
}

// State returns the current phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sess.state
}

// Snapshot returns a copy of the session.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Catalog returns the catalog the session selects from.
func (o *Orchestrator) Catalog() *catalog.Catalog { return o.selector.Catalog() }

// Policy returns the policy of the selected format.
func (o *Orchestrator) Policy() catalog.Policy {
	return catalog.PolicyFor(o.selector.Selected().ID)
}

// Dispatch applies cmd. SubmitFiles blocks until the outcome is known.
func (o *Orchestrator) Dispatch(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case SelectFormat:
		return o.SelectFormat(c.ID)
	case MoveFormat:
		_, err := o.MoveFormat(c.Delta)
		return err
	case SubmitFiles:
		_, err := o.Submit(ctx, c.Sources)
		return err
	case Reset:
		return o.Reset()
	default:
		return fmt.Errorf("orchestration: unknown command %T", cmd)
	}
}

// SelectFormat chooses the format for the next submission.
func (o *Orchestrator) SelectFormat(id string) error {
	o.mu.Lock()
	if err := o.requireSelectingLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	if err := o.selector.Select(id); err != nil {
		o.mu.Unlock()
		return err
	}
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.logger.Debug("format selected", logging.String("format", snap.Format.Label()))
	o.notify(snap)
	return nil
}

// MoveFormat shifts the selection by delta with wrap-around.
func (o *Orchestrator) MoveFormat(delta int) (catalog.FormatDescriptor, error) {
	o.mu.Lock()
	if err := o.requireSelectingLocked(); err != nil {
		o.mu.Unlock()
		return o.selector.Selected(), err
	}
	d := o.selector.Move(delta)
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.notify(snap)
	return d, nil
}

// Submit runs intake on sources with the active policy and compresses the
// accepted candidate. Policy violations are returned as
// apperrors.ValidationError and never reach the service.
func (o *Orchestrator) Submit(ctx context.Context, sources []intake.Source) (service.Outcome, error) {
	if err := o.requireSelecting(); err != nil {
		return service.Outcome{}, err
	}
	policy := o.Policy()
	candidate, err := o.intake.Offer(sources, policy)
	if err != nil {
		if !errors.Is(err, ErrBusy) && !errors.Is(err, intake.ErrNoFile) {
			o.metrics.CandidateRejected(policy.FormatID)
		}
		return service.Outcome{}, err
	}
	outcome, ok := o.Compress(ctx, candidate, policy.FormatID)
	if !ok {
		return service.Outcome{}, ErrBusy
	}
	return outcome, nil
}

// Compress submits candidate in formatID. When a request is already
// outstanding, or the session is not selecting, the call does nothing and
// returns false. Otherwise it returns the outcome and true; any transport
// failure becomes the generic failure outcome.
func (o *Orchestrator) Compress(ctx context.Context, candidate intake.Candidate, formatID string) (service.Outcome, bool) {
	o.mu.Lock()
	if o.sess.state != Selecting {
		o.mu.Unlock()
		o.metrics.SubmissionDropped()
		o.logger.Debug("submission dropped", logging.String("file", candidate.Name()))
		return service.Outcome{}, false
	}
	o.sess.state = Submitting
	o.sess.fileName = candidate.Name()
	o.sess.fileSize = candidate.Size()
	policy := catalog.PolicyFor(formatID)
	o.sess.policy = &policy
	o.sess.started = time.Now()
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap)

	o.logger.Info("compression started",
		logging.String("file", candidate.Name()),
		logging.Int64("size", candidate.Size()),
		logging.String("format", catalog.Describe(formatID).Label()),
	)

	outcome, result := o.exchange(ctx, candidate, formatID)

	o.mu.Lock()
	o.sess.state = Resulted
	o.sess.outcome = &outcome
	o.sess.elapsed = time.Since(o.sess.started)
	elapsed := o.sess.elapsed
	snap = o.snapshotLocked()
	o.mu.Unlock()

	o.metrics.SubmissionFinished(result, formatID, elapsed)
	o.logger.Info("compression finished",
		logging.String("file", candidate.Name()),
		logging.Bool("success", outcome.Success),
		logging.Duration("elapsed", elapsed),
	)
	o.notify(snap)
	return outcome, true
}

func (o *Orchestrator) exchange(ctx context.Context, candidate intake.Candidate, formatID string) (service.Outcome, string) {
	content, err := candidate.Open()
	if err != nil {
		o.logger.Error("failed to open file", err, logging.String("file", candidate.Name()))
		return service.FailureOutcome(), metrics.ResultTransport
	}
	defer content.Close()

	outcome, err := o.svc.Compress(ctx, service.Request{
		Filename:    candidate.Name(),
		ContentType: candidate.MIMEType(),
		Content:     content,
		FormatID:    formatID,
	})
	if err != nil {
		o.logger.Error("compression request failed", err, logging.String("file", candidate.Name()))
		return service.FailureOutcome(), metrics.ResultTransport
	}
	if !outcome.Success {
		return outcome, metrics.ResultServerFailure
	}
	return outcome, metrics.ResultSuccess
}

// Reset discards the outcome and returns to Selecting with the chosen
// format kept. It returns ErrBusy while a request is outstanding.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	switch o.sess.state {
	case Submitting:
		o.mu.Unlock()
		return ErrBusy
	case Selecting:
		o.mu.Unlock()
		return nil
	}
	o.sess.clear()
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.logger.Debug("session reset")
	o.notify(snap)
	return nil
}

// Report builds the report for the current outcome. ok is false unless the
// session is in Resulted.
func (o *Orchestrator) Report() (report.Report, bool) {
	snap := o.Snapshot()
	if snap.State != Resulted || snap.Outcome == nil {
		return report.Report{}, false
	}
	return report.Build(*snap.Outcome, snap.Policy.Display), true
}

// Download saves the current outcome's file into dir and returns its path.
// It returns ErrNoDownload unless the report offers a download.
func (o *Orchestrator) Download(ctx context.Context, dir string) (string, error) {
	r, ok := o.Report()
	if !ok || !r.Download.Enabled {
		return "", ErrNoDownload
	}
	if o.downloader == nil {
		return "", fmt.Errorf("orchestration: no downloader configured")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.WrapError(err, "orchestration: download directory %s", dir)
	}

	target := filepath.Join(dir, service.DownloadFilename(r.DownloadLink))
	var n int64
	err := fsutil.WriteAtomic(target, func(w io.Writer) error {
		var err error
		n, err = o.downloader.Download(ctx, r.DownloadLink, w)
		return err
	})
	if err != nil {
		return "", err
	}

	o.metrics.Downloaded(n)
	o.logger.Info("download saved", logging.String("path", target), logging.Int64("bytes", n))
	return target, nil
}

func (o *Orchestrator) requireSelecting() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.requireSelectingLocked()
}

// requireSelectingLocked must be called with o.mu held. Format changes
// stay under the same lock so none lands after a submission starts.
func (o *Orchestrator) requireSelectingLocked() error {
	switch o.sess.state {
	case Selecting:
		return nil
	case Submitting:
		return ErrBusy
	default:
		return ErrNotSelecting
	}
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	format := o.selector.Selected()
	policy := catalog.PolicyFor(format.ID)
	if o.sess.policy != nil {
		policy = *o.sess.policy
	}
	snap := Snapshot{
		State:    o.sess.state,
		Format:   format,
		Policy:   policy,
		FileName: o.sess.fileName,
		FileSize: o.sess.fileSize,
		Started:  o.sess.started,
		Elapsed:  o.sess.elapsed,
	}
	if o.sess.outcome != nil {
		out := *o.sess.outcome
		snap.Outcome = &out
	}
	return snap
}

func (o *Orchestrator) notify(snap Snapshot) {
	for _, obs := range o.observers {
		obs.StateChanged(snap)
	}
}
