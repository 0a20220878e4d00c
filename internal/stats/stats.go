// Package stats computes grouped progress statistics over an objective
// record set. Every function recomputes from scratch on each call: record
// counts stay in the low thousands, so recompute-per-request is cheaper than
// any invalidation bookkeeping.
package stats

import (
	"math"
	"sort"

	"compass/api/internal/records"
)

// DepartmentStat is the per-department rollup.
type DepartmentStat struct {
	Department     string  `json:"department"`
	AvgProgress    float64 `json:"avgProgress"`
	ObjectiveCount int     `json:"objectiveCount"`
	BossCount      int     `json:"bossCount"`
	OwnerCount     int     `json:"ownerCount"`
}

// BossStat is the per-boss rollup. Records without a boss are excluded from
// this grouping entirely rather than bucketed under an "unknown" boss.
type BossStat struct {
	Boss             string   `json:"boss"`
	AvgProgress      float64  `json:"avgProgress"`
	ObjectiveCount   int      `json:"objectiveCount"`
	DepartmentCount  int      `json:"departmentCount"`
	OwnerCount       int      `json:"ownerCount"`
	SampleObjectives []string `json:"sampleObjectives,omitempty"`
}

// OwnerStat is the per-owner rollup. The grouping key is the
// (owner, department) pair so same-name owners in different departments stay
// distinct.
type OwnerStat struct {
	Owner          string  `json:"owner"`
	Boss           string  `json:"boss,omitempty"`
	Department     string  `json:"department"`
	AvgProgress    float64 `json:"avgProgress"`
	ObjectiveCount int     `json:"objectiveCount"`
	Status         Status  `json:"status"`
}

// Scope limits an owner rollup to a single boss or department. The zero
// value applies no filter.
type Scope struct {
	Dimension string // "boss" or "department"
	Value     string
}

func (s Scope) matches(r records.ObjectiveRecord) bool {
	if s.Value == "" {
		return true
	}
	switch s.Dimension {
	case "boss":
		return r.Boss == s.Value
	default:
		return r.Department == s.Value
	}
}

// ByDepartment groups records by department and averages progress per group,
// sorted descending by average. The sort is stable: tied groups keep
// first-encountered order.
func ByDepartment(recs []records.ObjectiveRecord) []DepartmentStat {
	if len(recs) == 0 {
		return nil
	}

	type acc struct {
		total   float64
		count   int
		bosses  map[string]struct{}
		owners  map[string]struct{}
	}
	groups := make(map[string]*acc)
	var order []string

	for _, r := range recs {
		g, ok := groups[r.Department]
		if !ok {
			g = &acc{bosses: map[string]struct{}{}, owners: map[string]struct{}{}}
			groups[r.Department] = g
			order = append(order, r.Department)
		}
		g.total += r.Progress
		g.count++
		if r.Boss != "" {
			g.bosses[r.Boss] = struct{}{}
		}
		g.owners[r.Owner] = struct{}{}
	}

	result := make([]DepartmentStat, 0, len(order))
	for _, dept := range order {
		g := groups[dept]
		result = append(result, DepartmentStat{
			Department:     dept,
			AvgProgress:    round2(g.total / float64(g.count)),
			ObjectiveCount: g.count,
			BossCount:      len(g.bosses),
			OwnerCount:     len(g.owners),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AvgProgress > result[j].AvgProgress
	})
	return result
}

// ByBoss groups records by boss, skipping records with no boss.
func ByBoss(recs []records.ObjectiveRecord) []BossStat {
	if len(recs) == 0 {
		return nil
	}

	type acc struct {
		total       float64
		count       int
		departments map[string]struct{}
		owners      map[string]struct{}
		samples     []string
	}
	groups := make(map[string]*acc)
	var order []string

	for _, r := range recs {
		if r.Boss == "" {
			continue
		}
		g, ok := groups[r.Boss]
		if !ok {
			g = &acc{departments: map[string]struct{}{}, owners: map[string]struct{}{}}
			groups[r.Boss] = g
			order = append(order, r.Boss)
		}
		g.total += r.Progress
		g.count++
		g.departments[r.Department] = struct{}{}
		g.owners[r.Owner] = struct{}{}
		if len(g.samples) < 3 {
			g.samples = append(g.samples, r.Objective)
		}
	}

	result := make([]BossStat, 0, len(order))
	for _, boss := range order {
		g := groups[boss]
		result = append(result, BossStat{
			Boss:             boss,
			AvgProgress:      round2(g.total / float64(g.count)),
			ObjectiveCount:   g.count,
			DepartmentCount:  len(g.departments),
			OwnerCount:       len(g.owners),
			SampleObjectives: g.samples,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AvgProgress > result[j].AvgProgress
	})
	return result
}

// ByOwner groups records by (owner, department), optionally filtered to a
// scope first.
func ByOwner(recs []records.ObjectiveRecord, scope Scope) []OwnerStat {
	if len(recs) == 0 {
		return nil
	}

	type acc struct {
		owner      string
		boss       string
		department string
		total      float64
		count      int
	}
	groups := make(map[string]*acc)
	var order []string

	for _, r := range recs {
		if !scope.matches(r) {
			continue
		}
		key := r.Owner + "|" + r.Department
		g, ok := groups[key]
		if !ok {
			g = &acc{owner: r.Owner, boss: r.Boss, department: r.Department}
			groups[key] = g
			order = append(order, key)
		}
		g.total += r.Progress
		g.count++
	}

	result := make([]OwnerStat, 0, len(order))
	for _, key := range order {
		g := groups[key]
		avg := round2(g.total / float64(g.count))
		result = append(result, OwnerStat{
			Owner:          g.owner,
			Boss:           g.boss,
			Department:     g.department,
			AvgProgress:    avg,
			ObjectiveCount: g.count,
			Status:         Classify(avg),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AvgProgress > result[j].AvgProgress
	})
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
