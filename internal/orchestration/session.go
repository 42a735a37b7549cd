package orchestration

import (
	"time"

	"github.com/agbru/squash/internal/catalog"
	"github.com/agbru/squash/internal/service"
)

// State is the phase of a session.
type State int

const (
	// Selecting accepts format changes and files.
	Selecting State = iota
	// Submitting waits for the single outstanding request.
	Submitting
	// Resulted shows an outcome until reset.
	Resulted
)

func (s State) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Submitting:
		return "submitting"
	case Resulted:
		return "resulted"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the session handed to observers and front ends.
type Snapshot struct {
	State State
	// Format is the selected format. Policy is the policy of the submitted
	// format while Submitting and Resulted, and of Format otherwise.
	Format catalog.FormatDescriptor
	Policy catalog.Policy

	// FileName and FileSize describe the submitted file while Submitting
	// and Resulted.
	FileName string
	FileSize int64

	// Outcome is set only in Resulted.
	Outcome *service.Outcome

	Started time.Time
	Elapsed time.Duration
}

// Busy reports whether a request is outstanding.
func (s Snapshot) Busy() bool { return s.State == Submitting }

type session struct {
	state    State
	fileName string
	fileSize int64
	policy   *catalog.Policy
	outcome  *service.Outcome
	started  time.Time
	elapsed  time.Duration
}

func (s *session) clear() {
	*s = session{state: Selecting}
}
