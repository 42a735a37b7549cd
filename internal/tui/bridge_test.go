package tui

import (
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/squash/internal/orchestration"
)

func TestProgramRef_Send_NilProgram(t *testing.T) {
	ref := &programRef{}
	ref.Send(StateMsg{})
}

func TestBridge_NilProgram(t *testing.T) {
	obs := NewBridge()
	obs.StateChanged(orchestration.Snapshot{State: orchestration.Submitting})
}

func TestBridge_ConcurrentWithoutProgram(t *testing.T) {
	obs := NewBridge()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			obs.StateChanged(orchestration.Snapshot{FileSize: int64(i)})
		}(i)
	}
	wg.Wait()
}

// stateRecorder quits on the first StateMsg it sees.
type stateRecorder struct {
	got chan orchestration.Snapshot
}

func (r stateRecorder) Init() tea.Cmd { return nil }

func (r stateRecorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m, ok := msg.(StateMsg); ok {
		r.got <- m.Snapshot
		return r, tea.Quit
	}
	return r, nil
}

func (r stateRecorder) View() string { return "" }

func TestBridge_DeliversSnapshots(t *testing.T) {
	rec := stateRecorder{got: make(chan orchestration.Snapshot, 1)}
	p := tea.NewProgram(rec,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	bridge := NewBridge()
	bridge.ref.SetProgram(p)

	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()

	bridge.StateChanged(orchestration.Snapshot{State: orchestration.Resulted, FileName: "a.pdf"})

	select {
	case snap := <-rec.got:
		if snap.State != orchestration.Resulted || snap.FileName != "a.pdf" {
			t.Errorf("snapshot = %+v", snap)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("snapshot not delivered")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("program did not quit")
	}
}

// reentrantModel notifies its bridge from inside Update, the way an
// orchestrator transition started by a key press does.
type reentrantModel struct {
	bridge *Bridge
	seen   int
	got    chan int
}

func (r reentrantModel) Init() tea.Cmd { return nil }

func (r reentrantModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg:
		r.bridge.StateChanged(orchestration.Snapshot{State: orchestration.Selecting})
		r.bridge.StateChanged(orchestration.Snapshot{State: orchestration.Selecting})
	case StateMsg:
		r.seen++
		if r.seen == 2 {
			r.got <- r.seen
			return r, tea.Quit
		}
	}
	return r, nil
}

func (r reentrantModel) View() string { return "" }

func TestBridge_StateChangedFromUpdateDoesNotBlock(t *testing.T) {
	bridge := NewBridge()
	model := reentrantModel{bridge: bridge, got: make(chan int, 1)}
	p := tea.NewProgram(model,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	bridge.ref.SetProgram(p)
	defer bridge.ref.SetProgram(nil)

	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()
	defer p.Kill()

	go p.Send(tea.KeyMsg{Type: tea.KeyDown})

	select {
	case n := <-model.got:
		if n != 2 {
			t.Errorf("delivered %d state messages, want 2", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event loop blocked by a notification sent from Update")
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("program did not quit")
	}
}
