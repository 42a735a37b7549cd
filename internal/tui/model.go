package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/intake"
	"github.com/agbru/squash/internal/orchestration"
	"github.com/agbru/squash/internal/report"
)

// Options configures a TUI session.
type Options struct {
	// Version is shown in the header.
	Version string
	// Server is the service URL shown in the header.
	Server string
	// DownloadDir receives downloads; empty means the working directory.
	DownloadDir string
	// MaxSize is the advisory upload size.
	MaxSize int64
}

// Model is the root bubbletea model for the TUI.
type Model struct {
	header  HeaderModel
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keymap  KeyMap

	ctx  context.Context
	orch *orchestration.Orchestrator
	opts Options

	snap       orchestration.Snapshot
	validation string
	notice     string
	noticeErr  bool

	width  int
	height int
}

// NewModel creates a new TUI model over orch.
func NewModel(ctx context.Context, orch *orchestration.Orchestrator, opts Options) Model {
	if opts.MaxSize <= 0 {
		opts.MaxSize = intake.DefaultAdvisoryLimit
	}

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Drop a file here or type its path"
	input.CharLimit = 4096
	input.Focus()

	m := Model{
		header:  NewHeaderModel(opts.Version, opts.Server),
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		help:    help.New(),
		keymap:  DefaultKeyMap(),
		ctx:     ctx,
		orch:    orch,
		opts:    opts,
	}
	m.applySnapshot(orch.Snapshot())
	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 20)
		return m, nil

	case StateMsg:
		wasBusy := m.snap.Busy()
		m.applySnapshot(m.orch.Snapshot())
		if m.snap.Busy() && !wasBusy {
			return m, m.spinner.Tick
		}
		return m, nil

	case submitDoneMsg:
		m.applySnapshot(m.orch.Snapshot())
		m.handleSubmitError(msg.err)
		return m, nil

	case downloadDoneMsg:
		if msg.err != nil {
			m.notice, m.noticeErr = "Download failed: "+msg.err.Error(), true
		} else {
			m.notice, m.noticeErr = "Saved to "+msg.path, false
		}
		return m, nil

	case spinner.TickMsg:
		if !m.snap.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.snap.State {
	case orchestration.Submitting:
		return m, nil

	case orchestration.Resulted:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Download):
			m.notice = ""
			return m, downloadCmd(m.ctx, m.orch, m.opts.DownloadDir)
		case key.Matches(msg, m.keymap.Reset):
			if err := m.orch.Reset(); err != nil {
				return m, nil
			}
			m.applySnapshot(m.orch.Snapshot())
			m.input.Reset()
			m.validation, m.notice = "", ""
			return m, m.input.Focus()
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Up):
		return m.moveFormat(-1)
	case key.Matches(msg, m.keymap.Down):
		return m.moveFormat(1)
	case key.Matches(msg, m.keymap.Submit):
		return m.submit(m.input.Value())
	case msg.Paste:
		text := string(msg.Runes)
		m.input.SetValue(strings.TrimSpace(text))
		return m.submit(text)
	}

	m.validation = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) moveFormat(delta int) (tea.Model, tea.Cmd) {
	if _, err := m.orch.MoveFormat(delta); err != nil {
		return m, nil
	}
	m.applySnapshot(m.orch.Snapshot())
	m.validation = ""
	return m, nil
}

// submit offers the paths in text. Intake errors are shown inline and
// nothing is sent.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	sources, err := intake.SourcesFromText(text)
	if err != nil {
		m.handleSubmitError(err)
		return m, nil
	}
	if len(sources) == 0 {
		return m, nil
	}
	m.validation, m.notice = "", ""
	return m, submitCmd(m.ctx, m.orch, sources)
}

func (m *Model) handleSubmitError(err error) {
	var validationErr apperrors.ValidationError
	switch {
	case err == nil:
		m.validation = ""
	case errors.As(err, &validationErr):
		m.validation = validationErr.Message
	case errors.Is(err, orchestration.ErrBusy), errors.Is(err, orchestration.ErrNotSelecting), errors.Is(err, intake.ErrNoFile):
	default:
		m.validation = err.Error()
	}
}

func (m *Model) applySnapshot(snap orchestration.Snapshot) {
	prev := m.snap.State
	m.snap = snap

	switch snap.State {
	case orchestration.Submitting:
		if prev != orchestration.Submitting {
			m.header.Start(snap.Started)
		}
	case orchestration.Resulted:
		m.header.SetDone(snap.Elapsed)
	case orchestration.Selecting:
		if prev == orchestration.Resulted {
			m.header.Reset()
		}
	}

	rep, ok := m.report()
	m.keymap.setState(snap.State == orchestration.Selecting, snap.State == orchestration.Resulted, ok && rep.Download.Enabled)
}

func (m Model) report() (report.Report, bool) {
	if m.snap.State != orchestration.Resulted || m.snap.Outcome == nil {
		return report.Report{}, false
	}
	return report.Build(*m.snap.Outcome, m.snap.Policy.Display), true
}

func submitCmd(ctx context.Context, orch *orchestration.Orchestrator, sources []intake.Source) tea.Cmd {
	return func() tea.Msg {
		_, err := orch.Submit(ctx, sources)
		return submitDoneMsg{err: err}
	}
}

func downloadCmd(ctx context.Context, orch *orchestration.Orchestrator, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := orch.Download(ctx, dir)
		return downloadDoneMsg{path: path, err: err}
	}
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
// bridge must already be registered as an observer of orch.
func Run(ctx context.Context, orch *orchestration.Orchestrator, bridge *Bridge, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, orch, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so the bridge can Send.
	bridge.ref.SetProgram(p)
	defer bridge.ref.SetProgram(nil)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
