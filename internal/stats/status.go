package stats

// Status classifies a progress value into a display band.
type Status struct {
	Level string `json:"level"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Classify maps progress to its status band. Both thresholds are closed on
// the lower bound: exactly 80 is excellent, exactly 50 is good.
func Classify(progress float64) Status {
	switch {
	case progress >= 80:
		return Status{Level: "excellent", Label: "Excelente", Color: "#2ecc71"}
	case progress >= 50:
		return Status{Level: "good", Label: "Bueno", Color: "#f39c12"}
	default:
		return Status{Level: "needs_improvement", Label: "Necesita mejora", Color: "#e74c3c"}
	}
}
