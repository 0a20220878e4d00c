package export

import (
	"bytes"
	"html/template"

	"compass/api/internal/stats"
)

// TemplateData holds data for report template rendering
type TemplateData struct {
	Title            string
	Generated        string
	TotalObjectives  int
	TotalDepartments int
	TotalOwners      int
	OverallProgress  float64
	OverallStatus    stats.Status
	Departments      []stats.DepartmentStat
	ScopeLabel       string
	ScopedOwners     []stats.OwnerStat
}

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateHTML))

// RenderReportHTML renders the report template with provided data
func RenderReportHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const reportTemplateHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Helvetica, Arial, sans-serif; line-height: 1.5; color: #2c3e50; max-width: 800px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #2c3e50; padding-bottom: 0.5rem; }
    .meta { color: #7f8c8d; font-size: 0.9em; margin-bottom: 2rem; }
    table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
    th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; font-size: 0.9em; }
    th { background: #f5f5f5; }
    .progress { text-align: right; }
    .footer { margin-top: 3rem; color: #7f8c8d; font-size: 0.8em; border-top: 1px solid #eee; padding-top: 0.5rem; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">Generado el: {{.Generated}} | Fuente: hoja de cálculo publicada</div>

  <h2>Resumen Ejecutivo</h2>
  <ul>
    <li>Total de Objetivos: {{.TotalObjectives}}</li>
    <li>Total de Departamentos: {{.TotalDepartments}}</li>
    <li>Total de Propietarios: {{.TotalOwners}}</li>
    <li>Avance Promedio General: {{printf "%.2f" .OverallProgress}}% ({{.OverallStatus.Label}})</li>
  </ul>

  <h2>Avance por Departamento</h2>
  <table>
    <tr><th>Departamento</th><th class="progress">Avance</th><th class="progress">Objetivos</th></tr>
    {{range .Departments}}
    <tr>
      <td>{{.Department}}</td>
      <td class="progress">{{printf "%.2f" .AvgProgress}}%</td>
      <td class="progress">{{.ObjectiveCount}}</td>
    </tr>
    {{end}}
  </table>

  {{if .ScopedOwners}}
  <h2>Detalle: {{.ScopeLabel}}</h2>
  <table>
    <tr><th>Propietario</th><th>Departamento</th><th class="progress">Avance</th><th class="progress">Objetivos</th></tr>
    {{range .ScopedOwners}}
    <tr>
      <td>{{.Owner}}</td>
      <td>{{.Department}}</td>
      <td class="progress">{{printf "%.2f" .AvgProgress}}%</td>
      <td class="progress">{{.ObjectiveCount}}</td>
    </tr>
    {{end}}
  </table>
  {{end}}

  <div class="footer">Reporte generado automáticamente - Sistema de Seguimiento de Objetivos</div>
</body>
</html>`
