// Package export renders the objective-tracking report and converts it to a
// downloadable PDF.
package export

import (
	"errors"

	"compass/api/internal/records"
	"compass/api/internal/viewstate"
)

// Request contains parameters for a report export.
type Request struct {
	Records   []records.ObjectiveRecord
	State     viewstate.State
	Generated string // display timestamp for the report header
}

// Result contains the export output.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
var ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
