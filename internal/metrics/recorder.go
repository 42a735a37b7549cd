// Package metrics records client-side Prometheus metrics: submissions and
// their results, dropped submissions, intake rejections, the catalog source
// and per-request service latency.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission results used as the "result" label.
const (
	ResultSuccess       = "success"
	ResultServerFailure = "server_failure"
	ResultTransport     = "transport_failure"
)

// Recorder owns a private registry so that tests and multiple sessions in
// one process do not collide on global collectors.
type Recorder struct {
	registry *prometheus.Registry

	submissions      *prometheus.CounterVec
	submissionTime   prometheus.Histogram
	dropped          prometheus.Counter
	rejections       *prometheus.CounterVec
	catalogLoads     *prometheus.CounterVec
	requestDurations *prometheus.HistogramVec
	downloadedBytes  prometheus.Counter
}

// NewRecorder creates a Recorder with Go runtime and process collectors registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squash_submissions_total",
			Help: "Compression submissions by result (success|server_failure|transport_failure).",
		}, []string{"result", "format"}),
		submissionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "squash_submission_duration_seconds",
			Help:    "Time from submission to outcome.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squash_submissions_dropped_total",
			Help: "Submissions ignored because another one was outstanding.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squash_intake_rejections_total",
			Help: "Files rejected by the active format policy.",
		}, []string{"format"}),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squash_catalog_loads_total",
			Help: "Catalog loads by source (remote|fallback).",
		}, []string{"source"}),
		requestDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "squash_service_request_duration_seconds",
			Help:    "Latency of requests to the compression service.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		downloadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squash_downloaded_bytes_total",
			Help: "Bytes saved from download links.",
		}),
	}
	reg.MustRegister(
		r.submissions,
		r.submissionTime,
		r.dropped,
		r.rejections,
		r.catalogLoads,
		r.requestDurations,
		r.downloadedBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// SubmissionFinished records one resolved submission.
func (r *Recorder) SubmissionFinished(result, format string, d time.Duration) {
	if format == "" {
		format = "auto"
	}
	r.submissions.WithLabelValues(result, format).Inc()
	r.submissionTime.Observe(d.Seconds())
}

// SubmissionDropped records a submission ignored by the busy guard.
func (r *Recorder) SubmissionDropped() { r.dropped.Inc() }

// CandidateRejected records a file refused by the policy of format.
func (r *Recorder) CandidateRejected(format string) {
	r.rejections.WithLabelValues(format).Inc()
}

// CatalogLoaded records where the catalog came from.
func (r *Recorder) CatalogLoaded(fallback bool) {
	source := "remote"
	if fallback {
		source = "fallback"
	}
	r.catalogLoads.WithLabelValues(source).Inc()
}

// ObserveRequest records the latency of one service request.
func (r *Recorder) ObserveRequest(op, status string, d time.Duration) {
	r.requestDurations.WithLabelValues(op, status).Observe(d.Seconds())
}

// Downloaded records bytes written by a download.
func (r *Recorder) Downloaded(n int64) {
	r.downloadedBytes.Add(float64(n))
}

// Sink is the subset of Recorder the orchestrator reports into.
type Sink interface {
	SubmissionFinished(result, format string, d time.Duration)
	SubmissionDropped()
	CandidateRejected(format string)
	Downloaded(n int64)
}

// Discard is a Sink that records nothing.
type Discard struct{}

func (Discard) SubmissionFinished(string, string, time.Duration) {}
func (Discard) SubmissionDropped()                               {}
func (Discard) CandidateRejected(string)                         {}
func (Discard) Downloaded(int64)                                 {}

var _ Sink = (*Recorder)(nil)
