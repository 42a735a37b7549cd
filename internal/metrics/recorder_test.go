package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Submissions(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.SubmissionFinished(ResultSuccess, "zip", 200*time.Millisecond)
	r.SubmissionFinished(ResultSuccess, "zip", time.Second)
	r.SubmissionFinished(ResultTransport, "", time.Second)

	if got := testutil.ToFloat64(r.submissions.WithLabelValues(ResultSuccess, "zip")); got != 2 {
		t.Errorf("success/zip = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.submissions.WithLabelValues(ResultTransport, "auto")); got != 1 {
		t.Errorf("transport_failure/auto = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.submissionTime); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestRecorder_Counters(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.SubmissionDropped()
	r.SubmissionDropped()
	r.CandidateRejected("pdf")
	r.CatalogLoaded(true)
	r.CatalogLoaded(false)
	r.Downloaded(524288)

	if got := testutil.ToFloat64(r.dropped); got != 2 {
		t.Errorf("dropped = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.rejections.WithLabelValues("pdf")); got != 1 {
		t.Errorf("rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.catalogLoads.WithLabelValues("fallback")); got != 1 {
		t.Errorf("fallback loads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.downloadedBytes); got != 524288 {
		t.Errorf("downloaded bytes = %v, want 524288", got)
	}
}

func TestRecorder_Handler(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.ObserveRequest("compress", "200", 30*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"squash_service_request_duration_seconds_bucket",
		`op="compress"`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition should contain %q", want)
		}
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	var s Sink = Discard{}
	s.SubmissionFinished(ResultSuccess, "zip", time.Second)
	s.SubmissionDropped()
	s.CandidateRejected("pdf")
	s.Downloaded(1)
}
