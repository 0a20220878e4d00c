// Package search provides the multi-field substring search over the current
// record set. The index is rebuilt from the flat record array on every call;
// there is no persistent index to invalidate.
package search

import (
	"strings"
	"unicode/utf8"

	"compass/api/internal/records"
	"compass/api/internal/stats"
)

// Results in each category are capped after matching.
const maxResultsPerCategory = 10

// Queries shorter than this (after trimming) return empty results. Short
// queries are a debounce signal from the UI, not an error.
const minQueryLen = 2

// OwnerResult is a search hit on an owner.
type OwnerResult struct {
	Name           string       `json:"name"`
	Boss           string       `json:"boss,omitempty"`
	Department     string       `json:"department"`
	AvgProgress    float64      `json:"avgProgress"`
	ObjectiveCount int          `json:"objectiveCount"`
	Status         stats.Status `json:"status"`
}

// BossResult is a search hit on a boss.
type BossResult struct {
	Name            string  `json:"name"`
	AvgProgress     float64 `json:"avgProgress"`
	ObjectiveCount  int     `json:"objectiveCount"`
	DepartmentCount int     `json:"departmentCount"`
	OwnerCount      int     `json:"ownerCount"`
}

// DepartmentResult is a search hit on a department.
type DepartmentResult struct {
	Name           string  `json:"name"`
	AvgProgress    float64 `json:"avgProgress"`
	ObjectiveCount int     `json:"objectiveCount"`
}

// Results groups hits by entity category.
type Results struct {
	Owners      []OwnerResult      `json:"owners"`
	Bosses      []BossResult       `json:"bosses"`
	Departments []DepartmentResult `json:"departments"`
}

// Search matches the query case-insensitively as a substring: owners against
// owner, boss and department names; bosses and departments against their own
// name only. Categories keep the order of the underlying unique listings,
// which sort by descending average progress - a useful default ranking.
func Search(recs []records.ObjectiveRecord, query string) Results {
	empty := Results{Owners: []OwnerResult{}, Bosses: []BossResult{}, Departments: []DepartmentResult{}}

	term := strings.ToLower(strings.TrimSpace(query))
	if len(recs) == 0 || utf8.RuneCountInString(term) < minQueryLen {
		return empty
	}

	results := empty
	for _, owner := range stats.ByOwner(recs, stats.Scope{}) {
		if len(results.Owners) >= maxResultsPerCategory {
			break
		}
		if contains(owner.Owner, term) || contains(owner.Boss, term) || contains(owner.Department, term) {
			results.Owners = append(results.Owners, OwnerResult{
				Name:           owner.Owner,
				Boss:           owner.Boss,
				Department:     owner.Department,
				AvgProgress:    owner.AvgProgress,
				ObjectiveCount: owner.ObjectiveCount,
				Status:         owner.Status,
			})
		}
	}

	for _, boss := range stats.ByBoss(recs) {
		if len(results.Bosses) >= maxResultsPerCategory {
			break
		}
		if contains(boss.Boss, term) {
			results.Bosses = append(results.Bosses, BossResult{
				Name:            boss.Boss,
				AvgProgress:     boss.AvgProgress,
				ObjectiveCount:  boss.ObjectiveCount,
				DepartmentCount: boss.DepartmentCount,
				OwnerCount:      boss.OwnerCount,
			})
		}
	}

	for _, dept := range stats.ByDepartment(recs) {
		if len(results.Departments) >= maxResultsPerCategory {
			break
		}
		if contains(dept.Department, term) {
			results.Departments = append(results.Departments, DepartmentResult{
				Name:           dept.Department,
				AvgProgress:    dept.AvgProgress,
				ObjectiveCount: dept.ObjectiveCount,
			})
		}
	}

	return results
}

func contains(field, term string) bool {
	return strings.Contains(strings.ToLower(field), term)
}
