// Package records defines the objective record type and the parsers that
// produce validated records from a published spreadsheet export.
package records

// ObjectiveRecord is a single tracked objective. Records are immutable once
// parsed; a reload replaces the full set, it never patches it.
type ObjectiveRecord struct {
	Department string  `json:"department"`
	Boss       string  `json:"boss,omitempty"`
	Owner      string  `json:"owner"`
	Objective  string  `json:"objective"`
	Progress   float64 `json:"progress"`
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
