package export

import (
	"fmt"

	"compass/api/internal/stats"
	"compass/api/internal/viewstate"
)

const reportTitle = "Reporte de Objetivos"

// Service provides report export functionality
type Service struct{}

// NewService creates a new export service
func NewService() *Service {
	return &Service{}
}

// Export renders the objective report for the current selection and converts
// it to PDF.
func (s *Service) Export(req Request) (*Result, error) {
	overview := stats.ComputeOverview(req.Records)

	data := TemplateData{
		Title:            reportTitle,
		Generated:        req.Generated,
		TotalObjectives:  overview.TotalObjectives,
		TotalDepartments: overview.TotalDepartments,
		TotalOwners:      overview.TotalOwners,
		OverallProgress:  overview.OverallProgress,
		OverallStatus:    overview.Status,
		Departments:      overview.DepartmentStats,
	}

	// A drilled-down selection adds a per-owner detail section scoped to the
	// selected group.
	if req.State.Group != "" {
		scope := stats.Scope{Dimension: req.State.ScopeDimension, Value: req.State.Group}
		data.ScopedOwners = stats.ByOwner(req.Records, scope)
		data.ScopeLabel = scopeLabel(req.State.ScopeDimension, req.State.Group)
	} else if req.State.Owner != nil {
		scope := stats.Scope{Dimension: req.State.ScopeDimension, Value: req.State.ScopeValue}
		all := stats.ByOwner(req.Records, scope)
		for _, o := range all {
			if o.Owner == req.State.Owner.Owner && o.Department == req.State.Owner.Department {
				data.ScopedOwners = append(data.ScopedOwners, o)
			}
		}
		data.ScopeLabel = fmt.Sprintf("Propietario: %s", req.State.Owner.Owner)
	}

	html, err := RenderReportHTML(data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	return exportPDF(html, reportTitle)
}

func scopeLabel(dimension, value string) string {
	if dimension == viewstate.DimensionDepartment {
		return fmt.Sprintf("Departamento: %s", value)
	}
	return fmt.Sprintf("Jefe: %s", value)
}
