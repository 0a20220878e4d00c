package export

import (
	"strings"
	"testing"

	"compass/api/internal/stats"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Reporte de Objetivos", "Reporte-de-Objetivos"},
		{"con/barras\\y:puntos", "conbarrasypuntos"},
		{"", "report"},
		{"---", "---"},
		{"ñáé", "report"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.expected {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("a", 80)
	if got := sanitizeFilename(long); len(got) != 50 {
		t.Errorf("expected truncation to 50, got %d", len(got))
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"hello world", "hello%20world"},
		{"a&b", "a%26b"},
		{"<html>", "%3Chtml%3E"},
		{"safe-._~", "safe-._~"},
		// Multibyte characters encode as their UTF-8 bytes, not code points.
		{"ñ", "%C3%B1"},
		{"Campaña", "Campa%C3%B1a"},
		{"á", "%C3%A1"},
	}

	for _, tt := range tests {
		if got := percentEncodeForDataURL(tt.input); got != tt.expected {
			t.Errorf("percentEncodeForDataURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderReportHTML(t *testing.T) {
	data := TemplateData{
		Title:            "Reporte de Objetivos",
		Generated:        "2026-09-01 10:00",
		TotalObjectives:  5,
		TotalDepartments: 3,
		TotalOwners:      4,
		OverallProgress:  67,
		OverallStatus:    stats.Classify(67),
		Departments: []stats.DepartmentStat{
			{Department: "Operaciones", AvgProgress: 85, ObjectiveCount: 1},
			{Department: "Ventas", AvgProgress: 65, ObjectiveCount: 2},
		},
	}

	html, err := RenderReportHTML(data)
	if err != nil {
		t.Fatalf("RenderReportHTML failed: %v", err)
	}

	for _, want := range []string{
		"Reporte de Objetivos",
		"2026-09-01 10:00",
		"Total de Objetivos: 5",
		"67.00%",
		"Bueno",
		"Operaciones",
		"85.00%",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}

	if strings.Contains(html, "Detalle:") {
		t.Error("report without a selection must not include the detail section")
	}
}

func TestRenderReportHTMLScopedSection(t *testing.T) {
	data := TemplateData{
		Title:      "Reporte de Objetivos",
		ScopeLabel: "Departamento: Ventas",
		ScopedOwners: []stats.OwnerStat{
			{Owner: "Ana Garcia", Department: "Ventas", AvgProgress: 90, ObjectiveCount: 1, Status: stats.Classify(90)},
		},
	}

	html, err := RenderReportHTML(data)
	if err != nil {
		t.Fatalf("RenderReportHTML failed: %v", err)
	}

	if !strings.Contains(html, "Detalle: Departamento: Ventas") {
		t.Error("expected scoped detail heading")
	}
	if !strings.Contains(html, "Ana Garcia") {
		t.Error("expected scoped owner row")
	}
}

func TestRenderReportHTMLEscapesContent(t *testing.T) {
	data := TemplateData{
		Title: "<script>alert(1)</script>",
	}
	html, err := RenderReportHTML(data)
	if err != nil {
		t.Fatalf("RenderReportHTML failed: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("template must escape HTML in data")
	}
}
