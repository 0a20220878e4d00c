package stats

// palette is the fixed chart palette. Keys past the palette length wrap
// around with modulo, so assignment stays deterministic for a given ordering
// and chart colors survive a reload.
var palette = []string{
	"rgba(54, 162, 235, 0.7)",
	"rgba(255, 99, 132, 0.7)",
	"rgba(75, 192, 192, 0.7)",
	"rgba(255, 159, 64, 0.7)",
	"rgba(153, 102, 255, 0.7)",
	"rgba(255, 205, 86, 0.7)",
	"rgba(201, 203, 207, 0.7)",
	"rgba(255, 99, 71, 0.7)",
	"rgba(50, 205, 50, 0.7)",
	"rgba(138, 43, 226, 0.7)",
	"rgba(70, 130, 180, 0.7)",
	"rgba(210, 105, 30, 0.7)",
	"rgba(0, 128, 128, 0.7)",
	"rgba(186, 85, 211, 0.7)",
	"rgba(220, 20, 60, 0.7)",
}

// AssignColors maps each key to a palette color by position.
func AssignColors(keys []string) map[string]string {
	assigned := make(map[string]string, len(keys))
	for i, key := range keys {
		assigned[key] = palette[i%len(palette)]
	}
	return assigned
}
