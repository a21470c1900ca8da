package debrief

import (
	"fmt"
	"strings"
)

// WarningCode classifies a non-fatal problem found during a run.
type WarningCode string

const (
	// WarnDocumentSkipped: the document could not be parsed.
	WarnDocumentSkipped WarningCode = "document_skipped"
	// WarnUnsupportedFormat: the upload is not a .docx document.
	WarnUnsupportedFormat WarningCode = "unsupported_format"
	// WarnMissingDate and WarnMissingShift: the header field was not found.
	WarnMissingDate  WarningCode = "missing_date"
	WarnMissingShift WarningCode = "missing_shift"
	// WarnNoObservations: no category was answered in the document.
	WarnNoObservations WarningCode = "no_observations"
	// WarnDateExcluded: an observation was left out of a per-date layout
	// because its date is empty or does not parse.
	WarnDateExcluded WarningCode = "date_excluded"
)

// Warning is a non-fatal problem tied to one source document.
type Warning struct {
	Code    WarningCode
	Source  string
	Message string
}

func (w Warning) String() string {
	if w.Source == "" {
		return fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Source, w.Message)
}

// FormatWarnings joins warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// HasCode reports whether any warning carries code.
func HasCode(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
