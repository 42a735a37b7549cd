package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/squash/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge can send messages.
//
// Send never blocks: transitions started from inside Update notify the
// bridge on the event loop's own goroutine, and tea.Program.Send would wait
// for that same loop. Messages are queued and delivered in order by a
// single drain goroutine.
type programRef struct {
	mu       sync.Mutex
	program  *tea.Program
	queue    []tea.Msg
	draining bool
}

// SetProgram sets the tea.Program reference (thread-safe). Messages queued
// for a previous program are dropped.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.queue = nil
	r.mu.Unlock()
}

// Send queues msg for the program. It is a no-op without a program.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.program == nil {
		return
	}
	r.queue = append(r.queue, msg)
	if !r.draining {
		r.draining = true
		go r.drain()
	}
}

// drain delivers queued messages until the queue is empty. Program.Send
// returns once the program has exited, so drain never outlives it.
func (r *programRef) drain() {
	for {
		r.mu.Lock()
		p := r.program
		if p == nil || len(r.queue) == 0 {
			r.draining = false
			r.mu.Unlock()
			return
		}
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		p.Send(msg)
	}
}

// StateMsg tells the program the session changed. Snapshot is the state at
// the time of the transition; the model re-reads the orchestrator since
// later transitions may already have been applied.
type StateMsg struct {
	Snapshot orchestration.Snapshot
}

// submitDoneMsg is returned by the submission command once the orchestrator
// has an outcome or refused the files.
type submitDoneMsg struct {
	err error
}

// downloadDoneMsg reports where a download was saved.
type downloadDoneMsg struct {
	path string
	err  error
}

// Bridge implements orchestration.StateObserver by forwarding snapshots to
// the running program. Register it on the orchestrator before calling Run;
// snapshots sent while no program runs are dropped.
type Bridge struct {
	ref *programRef
}

// Verify interface compliance.
var _ orchestration.StateObserver = (*Bridge)(nil)

// NewBridge creates a bridge with no program attached.
func NewBridge() *Bridge {
	return &Bridge{ref: &programRef{}}
}

// StateChanged forwards snap as a StateMsg.
func (b *Bridge) StateChanged(snap orchestration.Snapshot) {
	b.ref.Send(StateMsg{Snapshot: snap})
}
