package records

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseTSV parses a tab-separated spreadsheet export. The first line is the
// header and is always skipped. A row needs at least four columns
// (department, owner, objective, progress); a fifth layout with a leading
// boss column is detected from the header. Rows missing department, owner or
// objective after trimming are dropped, not reported. Input row order is
// preserved.
func ParseTSV(raw string) []ObjectiveRecord {
	lines := splitLines(raw)
	if len(lines) < 2 {
		return nil
	}

	hasBoss := headerHasBossColumn(strings.Split(lines[0], "\t"))

	var parsed []ObjectiveRecord
	for _, line := range lines[1:] {
		cells := strings.Split(line, "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		if record, ok := recordFromCells(cells, hasBoss); ok {
			parsed = append(parsed, record)
		}
	}
	return parsed
}

var (
	tableRowPattern  = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	tableCellPattern = regexp.MustCompile(`(?is)<t[dh][^>]*>(.*?)</t[dh]>`)
	tagPattern       = regexp.MustCompile(`(?s)<[^>]*>`)
)

// ParseHTMLTable parses the HTML-table export variant. Header rows are
// recognized by content rather than position because the export sometimes
// repeats them mid-table.
func ParseHTMLTable(raw string) []ObjectiveRecord {
	rows := tableRowPattern.FindAllStringSubmatch(raw, -1)
	if len(rows) < 2 {
		return nil
	}

	var parsed []ObjectiveRecord
	hasBoss := false
	for i, row := range rows {
		matches := tableCellPattern.FindAllStringSubmatch(row[1], -1)
		cells := make([]string, 0, len(matches))
		for _, m := range matches {
			cells = append(cells, strings.TrimSpace(tagPattern.ReplaceAllString(m[1], "")))
		}
		if isHeaderRow(cells) {
			if i == 0 {
				hasBoss = headerHasBossColumn(cells)
			}
			continue
		}
		if record, ok := recordFromCells(cells, hasBoss); ok {
			parsed = append(parsed, record)
		}
	}
	return parsed
}

func recordFromCells(cells []string, hasBoss bool) (ObjectiveRecord, bool) {
	minColumns := 4
	if hasBoss {
		minColumns = 5
	}
	if len(cells) < minColumns {
		return ObjectiveRecord{}, false
	}

	record := ObjectiveRecord{}
	idx := 0
	record.Department = cells[idx]
	idx++
	if hasBoss {
		record.Boss = cells[idx]
		idx++
	}
	record.Owner = cells[idx]
	record.Objective = cells[idx+1]
	record.Progress = ParseProgress(cells[idx+2])

	if record.Department == "" || record.Owner == "" || record.Objective == "" {
		return ObjectiveRecord{}, false
	}
	return record, true
}

// ParseProgress normalizes a progress cell: trailing percent sign stripped,
// decimal comma converted to a point, unparseable values default to 0, and
// the result is clamped to [0,100].
func ParseProgress(cell string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.TrimSuffix(strings.TrimSpace(cell), "%"), ",", "."))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return clampProgress(value)
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func headerHasBossColumn(header []string) bool {
	for _, cell := range header {
		lowered := strings.ToLower(strings.TrimSpace(cell))
		if strings.Contains(lowered, "boss") || strings.Contains(lowered, "jefe") {
			return true
		}
	}
	return false
}

func isHeaderRow(cells []string) bool {
	for _, cell := range cells {
		lowered := strings.ToLower(cell)
		if strings.Contains(lowered, "departamento") || strings.Contains(lowered, "propietario") || strings.Contains(lowered, "department") {
			return true
		}
	}
	return false
}
