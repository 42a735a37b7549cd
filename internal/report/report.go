package report

import (
	"fmt"
	"math"

	"github.com/agbru/squash/internal/catalog"
	"github.com/agbru/squash/internal/format"
	"github.com/agbru/squash/internal/service"
)

// Reset affordance labels.
const (
	ResetAfterSuccess = "Compress Another File"
	ResetAfterFailure = "Try Again"
)

// OriginalSizeLabel heads the input size in a successful report.
const OriginalSizeLabel = "Original Size"

// Affordance is an action a report offers.
type Affordance struct {
	Label   string
	Enabled bool
}

// Report is the presentable form of one outcome.
type Report struct {
	Success bool
	Heading string
	// Message is the failure text. Empty on success.
	Message string

	InputSize       string
	OutputSize      string
	OutputSizeLabel string

	// Ratio is the reduction percentage; HasRatio is false when it cannot
	// be computed.
	Ratio     float64
	HasRatio  bool
	RatioText string

	Download     Affordance
	DownloadLink string
	Reset        Affordance

	outcome service.Outcome
}

// Outcome returns the outcome the report was built from.
func (r Report) Outcome() service.Outcome { return r.outcome }

// CompressionRatio returns round((1 - out/in) * 100, 1). It is absent when
// either size is missing or the input size is zero.
func CompressionRatio(in, out *int64) (float64, bool) {
	if in == nil || out == nil || *in == 0 {
		return 0, false
	}
	ratio := (1 - float64(*out)/float64(*in)) * 100
	return math.Round(ratio*10) / 10, true
}

// Build assembles the report for outcome using the wording in display.
// Missing sizes render as "0 B".
func Build(outcome service.Outcome, display catalog.DisplayMetadata) Report {
	r := Report{
		Success: outcome.Success,
		outcome: outcome,
	}

	if !outcome.Success {
		r.Heading = display.FailureHeading
		r.Message = outcome.Message
		r.Reset = Affordance{Label: ResetAfterFailure, Enabled: true}
		return r
	}

	r.Heading = display.SuccessHeading
	r.InputSize = sizeText(outcome.InputSize)
	r.OutputSize = sizeText(outcome.OutputSize)
	r.OutputSizeLabel = display.OutputSizeLabel
	if ratio, ok := CompressionRatio(outcome.InputSize, outcome.OutputSize); ok {
		r.Ratio, r.HasRatio = ratio, true
		r.RatioText = fmt.Sprintf("%s by %.1f%%", display.ReductionVerb, ratio)
	}
	r.Download = Affordance{Label: display.DownloadLabel, Enabled: outcome.HasDownload()}
	if r.Download.Enabled {
		r.DownloadLink = outcome.DownloadLink
	}
	r.Reset = Affordance{Label: ResetAfterSuccess, Enabled: true}
	return r
}

func sizeText(n *int64) string {
	if n == nil {
		return format.FormatBytes(0)
	}
	return format.FormatBytes(*n)
}
