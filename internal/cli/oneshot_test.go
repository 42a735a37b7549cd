package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/squash/internal/catalog"
	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/orchestration"
	"github.com/agbru/squash/internal/orchestration/mocks"
	"github.com/agbru/squash/internal/report"
	"github.com/agbru/squash/internal/service"
	"github.com/agbru/squash/internal/service/servicetest"
)

func newTestOrchestrator(t *testing.T, baseURL, format string) *orchestration.Orchestrator {
	t.Helper()
	client, err := service.New(baseURL)
	require.NoError(t, err)
	return orchestration.New(client, catalog.NewSelector(catalog.Default(), format))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunOnce_Success(t *testing.T) {
	noColor(t)
	srv := servicetest.New()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	input := writeFile(t, dir, "report.txt", "0123456789")
	jsonPath := filepath.Join(dir, "out", "report.json")
	downloads := t.TempDir()

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), newTestOrchestrator(t, srv.URL, "zip"), RunConfig{
		Files:       []string{input},
		OutputFile:  jsonPath,
		DownloadDir: downloads,
	}, &out, &errOut)

	require.Equal(t, apperrors.ExitSuccess, code, errOut.String())
	assert.Contains(t, out.String(), "report.txt (10.00 B)")
	assert.Contains(t, out.String(), "Compression Complete!")
	assert.Contains(t, out.String(), "Compressed by 50.0%")
	assert.Contains(t, out.String(), "Report saved to: "+jsonPath)

	saved, err := os.ReadFile(filepath.Join(downloads, "report_compressed.zip"))
	require.NoError(t, err)
	assert.Equal(t, "01234", string(saved))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var doc ReportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.True(t, doc.Success)
	assert.Equal(t, "report.txt", doc.File)
	assert.Equal(t, "zip", doc.Format)

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "zip", uploads[0].Format)
}

func TestRunOnce_QuietAuto(t *testing.T) {
	noColor(t)
	srv := servicetest.New()
	t.Cleanup(srv.Close)

	input := writeFile(t, t.TempDir(), "scan.pdf", "0123456789")

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), newTestOrchestrator(t, srv.URL, catalog.AutoID), RunConfig{
		Files: []string{input, "ignored.pdf"},
		Quiet: true,
	}, &out, &errOut)

	require.Equal(t, apperrors.ExitSuccess, code)
	assert.Equal(t, "success\t10.00 B\t5.00 B\t50.0%\t/download/scan_compressed.pdf\n", out.String())
	assert.Empty(t, errOut.String())

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.False(t, uploads[0].HasFormat)
	assert.Equal(t, "scan.pdf", uploads[0].Filename)
}

func TestRunOnce_PolicyRejection(t *testing.T) {
	noColor(t)
	srv := servicetest.New()
	t.Cleanup(srv.Close)

	input := writeFile(t, t.TempDir(), "notes.docx", "text")

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), newTestOrchestrator(t, srv.URL, "pdf"), RunConfig{Files: []string{input}}, &out, &errOut)

	assert.Equal(t, apperrors.ExitErrorValidation, code)
	assert.Contains(t, errOut.String(), "Please select a PDF file for PDF compression")
	assert.Zero(t, srv.CompressCalls())
}

func TestRunOnce_ServerFailure(t *testing.T) {
	noColor(t)
	srv := servicetest.New(servicetest.WithCompressHandler(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Disk full"}`))
	}))
	t.Cleanup(srv.Close)

	input := writeFile(t, t.TempDir(), "report.txt", "0123456789")
	downloads := t.TempDir()

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), newTestOrchestrator(t, srv.URL, "zip"), RunConfig{
		Files:       []string{input},
		DownloadDir: downloads,
	}, &out, &errOut)

	assert.Equal(t, apperrors.ExitErrorCompression, code)
	assert.Contains(t, out.String(), "✗ Compression Failed")
	assert.Contains(t, out.String(), "Disk full")

	entries, err := os.ReadDir(downloads)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunOnce_TransportFailure(t *testing.T) {
	noColor(t)
	srv := servicetest.New()
	url := srv.URL
	srv.Close()

	input := writeFile(t, t.TempDir(), "report.txt", "0123456789")

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), newTestOrchestrator(t, url, "zip"), RunConfig{Files: []string{input}}, &out, &errOut)

	assert.Equal(t, apperrors.ExitErrorCompression, code)
	assert.Contains(t, out.String(), service.GenericFailureMessage)
}

func TestRunOnce_MissingFile(t *testing.T) {
	noColor(t)
	srv := servicetest.New()
	t.Cleanup(srv.Close)

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), newTestOrchestrator(t, srv.URL, "zip"),
		RunConfig{Files: []string{filepath.Join(t.TempDir(), "absent.txt")}}, &out, &errOut)

	assert.Equal(t, apperrors.ExitErrorValidation, code)
	assert.Contains(t, errOut.String(), "does not exist")
	assert.Zero(t, srv.CompressCalls())
}

func TestRunOnce_ConfiguredPresenter(t *testing.T) {
	srv := servicetest.New()
	t.Cleanup(srv.Close)
	input := writeFile(t, t.TempDir(), "report.txt", "0123456789")

	ctrl := gomock.NewController(t)
	presenter := mocks.NewMockResultPresenter(ctrl)
	presenter.EXPECT().PresentReport(gomock.Any(), gomock.Any()).Do(func(r report.Report, out io.Writer) {
		assert.Equal(t, "Compression Complete!", r.Heading)
		fmt.Fprint(out, "presented")
	}).Times(1)
	errs := mocks.NewMockErrorHandler(ctrl)
	errs.EXPECT().HandleError(gomock.Any(), gomock.Any()).Times(0)

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), newTestOrchestrator(t, srv.URL, "zip"), RunConfig{
		Files:     []string{input},
		Quiet:     true,
		Presenter: presenter,
		Errors:    errs,
	}, &out, &errOut)

	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Equal(t, "presented", out.String())
}

func TestRunOnce_ConfiguredErrorHandler(t *testing.T) {
	srv := servicetest.New()
	t.Cleanup(srv.Close)

	ctrl := gomock.NewController(t)
	errs := mocks.NewMockErrorHandler(ctrl)
	errs.EXPECT().HandleError(gomock.Any(), gomock.Any()).DoAndReturn(func(err error, out io.Writer) int {
		var validationErr apperrors.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		fmt.Fprint(out, "handled")
		return 42
	}).Times(1)

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), newTestOrchestrator(t, srv.URL, "zip"), RunConfig{
		Files:  []string{filepath.Join(t.TempDir(), "absent.txt")},
		Quiet:  true,
		Errors: errs,
	}, &out, &errOut)

	assert.Equal(t, 42, code)
	assert.Equal(t, "handled", errOut.String())
	assert.Empty(t, out.String())
}

func TestSourcesFromPaths(t *testing.T) {
	t.Parallel()

	_, err := SourcesFromPaths(nil)
	var validationErr apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)

	first := writeFile(t, t.TempDir(), "a.pdf", "abc")
	sources, err := SourcesFromPaths([]string{first, "/elsewhere/b.pdf"})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "a.pdf", sources[0].Name)
	assert.EqualValues(t, 3, sources[0].Size)
	assert.Equal(t, "b.pdf", sources[1].Name)
	assert.Nil(t, sources[1].Open)
}
