package stats

import (
	"sort"

	"compass/api/internal/records"
)

// Overview is the dashboard-level rollup across the whole record set.
type Overview struct {
	TotalObjectives  int              `json:"totalObjectives"`
	TotalBosses      int              `json:"totalBosses"`
	TotalDepartments int              `json:"totalDepartments"`
	TotalOwners      int              `json:"totalOwners"`
	OverallProgress  float64          `json:"overallProgress"`
	Status           Status           `json:"status"`
	DepartmentStats  []DepartmentStat `json:"departmentStats"`
	BossStats        []BossStat       `json:"bossStats"`
}

// ComputeOverview derives dashboard totals plus the two aggregate listings.
func ComputeOverview(recs []records.ObjectiveRecord) Overview {
	if len(recs) == 0 {
		return Overview{DepartmentStats: []DepartmentStat{}, BossStats: []BossStat{}, Status: Classify(0)}
	}

	bosses := map[string]struct{}{}
	departments := map[string]struct{}{}
	owners := map[string]struct{}{}
	total := 0.0
	for _, r := range recs {
		if r.Boss != "" {
			bosses[r.Boss] = struct{}{}
		}
		departments[r.Department] = struct{}{}
		owners[r.Owner] = struct{}{}
		total += r.Progress
	}

	overall := round2(total / float64(len(recs)))
	return Overview{
		TotalObjectives:  len(recs),
		TotalBosses:      len(bosses),
		TotalDepartments: len(departments),
		TotalOwners:      len(owners),
		OverallProgress:  overall,
		Status:           Classify(overall),
		DepartmentStats:  nonNilDepartments(ByDepartment(recs)),
		BossStats:        nonNilBosses(ByBoss(recs)),
	}
}

// Compliance is the scoped overall average shown on the compliance panel.
type Compliance struct {
	Value float64 `json:"value"`
	Scope string  `json:"scope"`
}

// ComputeCompliance averages progress across the scope, or across everything
// when the scope is empty.
func ComputeCompliance(recs []records.ObjectiveRecord, scope Scope) Compliance {
	label := scope.Value
	if label == "" {
		label = "all"
	}

	total := 0.0
	count := 0
	for _, r := range recs {
		if !scope.matches(r) {
			continue
		}
		total += r.Progress
		count++
	}
	if count == 0 {
		return Compliance{Value: 0, Scope: label}
	}
	return Compliance{Value: round2(total / float64(count)), Scope: label}
}

// Criteria filters a record set on multiple axes at once. Zero-valued fields
// apply no filter; Min/MaxProgress use pointers so 0 remains expressible.
type Criteria struct {
	Boss        string
	Department  string
	Owner       string
	MinProgress *float64
	MaxProgress *float64
	StatusLevel string
}

// Filter returns the records matching every set criterion, in input order.
func Filter(recs []records.ObjectiveRecord, c Criteria) []records.ObjectiveRecord {
	var filtered []records.ObjectiveRecord
	for _, r := range recs {
		if c.Boss != "" && r.Boss != c.Boss {
			continue
		}
		if c.Department != "" && r.Department != c.Department {
			continue
		}
		if c.Owner != "" && r.Owner != c.Owner {
			continue
		}
		if c.MinProgress != nil && r.Progress < *c.MinProgress {
			continue
		}
		if c.MaxProgress != nil && r.Progress > *c.MaxProgress {
			continue
		}
		if c.StatusLevel != "" && Classify(r.Progress).Level != c.StatusLevel {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// Critical returns the lowest-progress objectives (below 50), ascending.
func Critical(recs []records.ObjectiveRecord, limit int) []records.ObjectiveRecord {
	var critical []records.ObjectiveRecord
	for _, r := range recs {
		if r.Progress < 50 {
			critical = append(critical, r)
		}
	}
	sort.SliceStable(critical, func(i, j int) bool {
		return critical[i].Progress < critical[j].Progress
	})
	if limit > 0 && len(critical) > limit {
		critical = critical[:limit]
	}
	return critical
}

// Top returns the highest-progress objectives (80 and above), descending.
func Top(recs []records.ObjectiveRecord, limit int) []records.ObjectiveRecord {
	var top []records.ObjectiveRecord
	for _, r := range recs {
		if r.Progress >= 80 {
			top = append(top, r)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Progress > top[j].Progress
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}

func nonNilDepartments(s []DepartmentStat) []DepartmentStat {
	if s == nil {
		return []DepartmentStat{}
	}
	return s
}

func nonNilBosses(s []BossStat) []BossStat {
	if s == nil {
		return []BossStat{}
	}
	return s
}
