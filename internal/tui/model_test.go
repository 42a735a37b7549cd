package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/squash/internal/catalog"
	"github.com/agbru/squash/internal/orchestration"
	"github.com/agbru/squash/internal/service"
	"github.com/agbru/squash/internal/service/servicetest"
)

func newTestModel(t *testing.T, baseURL, format string, opts Options) (Model, *orchestration.Orchestrator) {
	t.Helper()
	client, err := service.New(baseURL)
	require.NoError(t, err)
	orch := orchestration.New(client, catalog.NewSelector(catalog.Default(), format))
	return NewModel(context.Background(), orch, opts), orch
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestModel_FormatNavigation(t *testing.T) {
	m, orch := newTestModel(t, "http://127.0.0.1:1", catalog.AutoID, Options{})

	view := m.View()
	assert.Contains(t, view, "Select Compression Format")
	assert.Contains(t, view, "(•) 🤖 Auto Select")
	assert.Contains(t, view, "Any file type supported • Max size: 100.00 MB")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "pdf", orch.Snapshot().Format.ID)
	view = m.View()
	assert.Contains(t, view, "(•) 📄 PDF Optimize")
	assert.Contains(t, view, "( ) 🤖 Auto Select")
	assert.Contains(t, view, "PDF files only • Max size: 100.00 MB")
	assert.Contains(t, view, "Will be optimized as PDF")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "zip", orch.Snapshot().Format.ID)
	assert.Contains(t, m.View(), "(•) 📦 ZIP")
}

func TestModel_SubmitDownloadReset(t *testing.T) {
	srv := servicetest.New()
	t.Cleanup(srv.Close)
	downloads := t.TempDir()
	path := writeInput(t, "notes.txt", "0123456789")

	m, orch := newTestModel(t, srv.URL, "zip", Options{DownloadDir: downloads})

	m, _ = update(t, m, runes(path))
	assert.Equal(t, path, m.input.Value())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, submitDoneMsg{}, msg)
	m, _ = update(t, m, msg)

	assert.Equal(t, orchestration.Resulted, m.snap.State)
	view := m.View()
	assert.Contains(t, view, "✓ Compression Complete!")
	assert.Contains(t, view, "Compressed by 50.0%")
	assert.Contains(t, view, "10.00 B")
	assert.Contains(t, view, "[d] Download Compressed File")
	assert.Contains(t, view, "/download/notes_compressed.zip")
	assert.Contains(t, view, "[r] Compress Another File")

	m, cmd = update(t, m, runes("d"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	target := filepath.Join(downloads, "notes_compressed.zip")
	assert.Contains(t, m.View(), "Saved to "+target)
	saved, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "01234", string(saved))

	m, _ = update(t, m, runes("r"))
	assert.Equal(t, orchestration.Selecting, m.snap.State)
	assert.Equal(t, orchestration.Selecting, orch.State())
	assert.Equal(t, "zip", m.snap.Format.ID)
	assert.Empty(t, m.input.Value())
	assert.NotContains(t, m.View(), "Saved to")
}

func TestModel_PastedDropRejected(t *testing.T) {
	srv := servicetest.New()
	t.Cleanup(srv.Close)
	path := writeInput(t, "notes.txt", "text")

	m, _ := newTestModel(t, srv.URL, "pdf", Options{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(path + "\n"), Paste: true})
	assert.Equal(t, path, m.input.Value())
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, orchestration.Selecting, m.snap.State)
	assert.Contains(t, m.View(), "✗ Please select a PDF file for PDF compression")
	assert.Zero(t, srv.CompressCalls())

	// Typing clears the message.
	m, _ = update(t, m, runes("x"))
	assert.NotContains(t, m.View(), "Please select a PDF file")
}

func TestModel_MissingPath(t *testing.T) {
	m, _ := newTestModel(t, "http://127.0.0.1:1", "zip", Options{})

	m, _ = update(t, m, runes(filepath.Join(t.TempDir(), "absent.txt")))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "does not exist")

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	_ = m
	assert.Nil(t, cmd)
}

func TestModel_IgnoresInputWhileSubmitting(t *testing.T) {
	gate := make(chan struct{})
	srv := servicetest.New(servicetest.WithGate(gate))
	t.Cleanup(srv.Close)
	path := writeInput(t, "notes.txt", "0123456789")

	m, orch := newTestModel(t, srv.URL, "zip", Options{})
	m, _ = update(t, m, runes(path))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	<-srv.Entered()

	m, tick := update(t, m, StateMsg{Snapshot: orch.Snapshot()})
	assert.NotNil(t, tick, "spinner should start")
	view := m.View()
	assert.Contains(t, view, "Compressing your file...")
	assert.Contains(t, view, "notes.txt (10.00 B)")

	m, tick = update(t, m, m.spinner.Tick())
	assert.NotNil(t, tick)

	for _, k := range []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}, runes("q"), runes("r")} {
		var cmd tea.Cmd
		m, cmd = update(t, m, k)
		assert.Nil(t, cmd, "key %q", k.String())
	}
	assert.Equal(t, "zip", orch.Snapshot().Format.ID)
	assert.Equal(t, orchestration.Submitting, orch.State())

	close(gate)
	m, _ = update(t, m, <-done)
	assert.Equal(t, orchestration.Resulted, m.snap.State)
	assert.Equal(t, 1, srv.CompressCalls())

	_, tick = update(t, m, spinner.TickMsg{})
	assert.Nil(t, tick, "spinner should stop once resulted")
}

func TestModel_FailureView(t *testing.T) {
	srv := servicetest.New()
	url := srv.URL
	srv.Close()
	path := writeInput(t, "notes.txt", "0123456789")

	m, _ := newTestModel(t, url, "zip", Options{})
	m, _ = update(t, m, runes(path))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	view := m.View()
	assert.Contains(t, view, "✗ Compression Failed")
	assert.Contains(t, view, service.GenericFailureMessage)
	assert.Contains(t, view, "[r] Try Again")
	assert.NotContains(t, view, "[d]")

	_, cmd = update(t, m, runes("d"))
	assert.Nil(t, cmd)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, "http://127.0.0.1:1", "zip", Options{})

	m, _ = update(t, m, runes("q"))
	assert.Equal(t, "q", m.input.Value(), "q is typed while selecting")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := newTestModel(t, "http://127.0.0.1:1", "zip", Options{Version: "v1.0.0", Server: "http://svc"})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, 100, m.width)
	assert.Equal(t, 92, m.input.Width)
	view := m.View()
	assert.Contains(t, view, "squash v1.0.0")
	assert.Contains(t, view, "http://svc")
	assert.Contains(t, view, "ctrl+c")
}
