package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fetcherFunc func(ctx context.Context) ([]string, error)

func (f fetcherFunc) Formats(ctx context.Context) ([]string, error) { return f(ctx) }

type recordingObserver struct {
	calls    int
	fallback bool
}

func (r *recordingObserver) CatalogLoaded(fallback bool) {
	r.calls++
	r.fallback = fallback
}

func TestLoad_MergesMetadataAndPrependsAuto(t *testing.T) {
	t.Parallel()
	calls := 0
	f := fetcherFunc(func(context.Context) ([]string, error) {
		calls++
		return []string{"zip", "pdf", "gz"}, nil
	})

	c := Load(context.Background(), f)

	want := []FormatDescriptor{
		{ID: "", DisplayName: "Auto Select", Description: "Maintain original file format (e.g., PDF stays as PDF)", Icon: "🤖"},
		{ID: "zip", DisplayName: "ZIP", Description: "Good balance of compression ratio and compatibility", Icon: "📦"},
		{ID: "pdf", DisplayName: "PDF Optimize", Description: "Lossless PDF compression while maintaining quality", Icon: "📄"},
		{ID: "gz", DisplayName: "GZ", Description: "Compression format", Icon: "📁"},
	}
	if diff := cmp.Diff(want, c.Formats()); diff != "" {
		t.Errorf("Formats() mismatch (-want +got):\n%s", diff)
	}
	if c.FromFallback() {
		t.Error("FromFallback() = true for a fetched catalog")
	}
	if calls != 1 {
		t.Errorf("fetcher called %d times, want 1", calls)
	}
}

func TestLoad_FallsBackOnError(t *testing.T) {
	t.Parallel()
	calls := 0
	obs := &recordingObserver{}
	f := fetcherFunc(func(context.Context) ([]string, error) {
		calls++
		return nil, errors.New("connection refused")
	})

	c := Load(context.Background(), f, WithObserver(obs))

	if diff := cmp.Diff(Default().Formats(), c.Formats()); diff != "" {
		t.Errorf("fallback catalog mismatch (-want +got):\n%s", diff)
	}
	if !c.FromFallback() {
		t.Error("FromFallback() = false after a failed fetch")
	}
	if calls != 1 {
		t.Errorf("fetcher called %d times, want exactly 1 (no retry)", calls)
	}
	if obs.calls != 1 || !obs.fallback {
		t.Errorf("observer = %+v, want one fallback notification", obs)
	}
}

func TestLoad_AppliesTimeout(t *testing.T) {
	t.Parallel()
	f := fetcherFunc(func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	c := Load(context.Background(), f, WithTimeout(10*time.Millisecond))
	if !c.FromFallback() {
		t.Error("a stalled fetch should end in the default catalog")
	}
}

func TestFromIDs_DropsDuplicatesAndSentinel(t *testing.T) {
	t.Parallel()
	c := FromIDs([]string{"zip", "", "zip", " png ", "png"})
	if diff := cmp.Diff([]string{"auto", "zip", "png"}, c.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromIDs_EmptyListKeepsAuto(t *testing.T) {
	t.Parallel()
	c := FromIDs(nil)
	if c.Len() != 1 || !c.At(0).IsAuto() {
		t.Errorf("FromIDs(nil) = %v, want only the auto sentinel", c.IDs())
	}
}

func TestDefault_IsACopy(t *testing.T) {
	t.Parallel()
	c := Default()
	formats := c.Formats()
	formats[0].DisplayName = "mutated"
	if Default().At(0).DisplayName != "Auto Select" {
		t.Error("Default() shares storage with callers")
	}
	if c.At(0).DisplayName != "Auto Select" {
		t.Error("Formats() exposes internal storage")
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"auto": AutoID,
		"AUTO": AutoID,
		"":     AutoID,
		" Zip": "zip",
		"pdf":  "pdf",
	}
	for in, want := range tests {
		if got := ParseID(in); got != want {
			t.Errorf("ParseID(%q) = %q, want %q", in, got, want)
		}
	}
}
