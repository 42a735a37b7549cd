package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DisplayMetadata carries the wording that differs between format policies.
type DisplayMetadata struct {
	Noun            string
	BusyText        string
	SuccessHeading  string
	FailureHeading  string
	ReductionVerb   string
	OutputSizeLabel string
	DownloadLabel   string
	AcceptHint      string
	TargetHint      string
	RejectMessage   string
}

// Policy decides which files a format accepts and how its results read.
// A nil AcceptedExtensions means any file is accepted.
type Policy struct {
	FormatID           string
	AcceptedExtensions []string
	Display            DisplayMetadata
}

// Restricted reports whether the policy limits file extensions.
func (p Policy) Restricted() bool { return len(p.AcceptedExtensions) > 0 }

// Accepts reports whether filename passes the policy. The extension
// comparison is case-insensitive.
func (p Policy) Accepts(filename string) bool {
	if !p.Restricted() {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, accepted := range p.AcceptedExtensions {
		if ext == accepted {
			return true
		}
	}
	return false
}

// restrictedExtensions mirrors the service, which refuses these formats
// unless the upload already has the matching extension.
var restrictedExtensions = map[string][]string{
	"pdf":  {".pdf"},
	"png":  {".png"},
	"jpg":  {".jpg"},
	"jpeg": {".jpeg"},
}

var genericDisplay = DisplayMetadata{
	Noun:            "file",
	BusyText:        "Compressing your file...",
	SuccessHeading:  "Compression Complete!",
	FailureHeading:  "Compression Failed",
	ReductionVerb:   "Compressed",
	OutputSizeLabel: "Compressed Size",
	DownloadLabel:   "Download Compressed File",
	AcceptHint:      "Any file type supported",
}

var pdfDisplay = DisplayMetadata{
	Noun:            "PDF",
	BusyText:        "Optimizing PDF...",
	SuccessHeading:  "PDF Optimized Successfully!",
	FailureHeading:  "PDF Optimization Failed",
	ReductionVerb:   "Reduced",
	OutputSizeLabel: "Optimized Size",
	DownloadLabel:   "Download Optimized PDF",
	AcceptHint:      "PDF files only",
	TargetHint:      "Will be optimized as PDF",
	RejectMessage:   "Please select a PDF file for PDF compression",
}

// PolicyFor returns the policy of format id.
func PolicyFor(id string) Policy {
	if id == "pdf" {
		return Policy{FormatID: id, AcceptedExtensions: restrictedExtensions[id], Display: pdfDisplay}
	}

	display := genericDisplay
	if id == AutoID {
		display.TargetHint = "Will keep its original format"
	} else {
		display.TargetHint = fmt.Sprintf("Will be compressed as .%s", strings.ToLower(id))
	}

	exts, restricted := restrictedExtensions[id]
	if restricted {
		upper := strings.ToUpper(id)
		display.Noun = upper
		display.AcceptHint = upper + " files only"
		display.RejectMessage = fmt.Sprintf("Please select a %s file for %s compression", upper, upper)
	}
	return Policy{FormatID: id, AcceptedExtensions: exts, Display: display}
}
