package service

import "io"

// GenericFailureMessage is the text shown for every failure the service did
// not describe itself: network errors, bad statuses, unreadable bodies.
const GenericFailureMessage = "An error occurred while compressing the file"

// Request is one compression submission. FormatID is left empty to let the
// service keep the original format; the form field is then omitted.
// ContentType labels the file part and defaults to application/octet-stream.
type Request struct {
	Filename    string
	ContentType string
	Content     io.Reader
	FormatID    string
}

// Outcome is the terminal result of one compression attempt, either decoded
// from the service or synthesized locally. Sizes are pointers so that an
// absent size is not mistaken for zero.
type Outcome struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	DownloadLink string `json:"downloadLink,omitempty"`
	OutputSize   *int64 `json:"outputSize,omitempty"`
	InputSize    *int64 `json:"inputSize,omitempty"`
}

// FailureOutcome is the outcome synthesized when the exchange itself failed.
func FailureOutcome() Outcome {
	return Outcome{Success: false, Message: GenericFailureMessage}
}

// HasDownload reports whether the outcome can be downloaded.
func (o Outcome) HasDownload() bool {
	return o.Success && o.DownloadLink != ""
}

// Size returns a pointer to n, for building outcomes in code.
func Size(n int64) *int64 { return &n }

// outcomeWire mirrors the response body; Success is a pointer so a body
// without the field is detected as malformed.
type outcomeWire struct {
	Success      *bool  `json:"success"`
	Message      string `json:"message"`
	DownloadLink string `json:"downloadLink"`
	OutputSize   *int64 `json:"outputSize"`
	InputSize    *int64 `json:"inputSize"`
}

func (w outcomeWire) outcome() Outcome {
	return Outcome{
		Success:      *w.Success,
		Message:      w.Message,
		DownloadLink: w.DownloadLink,
		OutputSize:   w.OutputSize,
		InputSize:    w.InputSize,
	}
}

type formatsWire struct {
	Formats *[]string `json:"formats"`
}
