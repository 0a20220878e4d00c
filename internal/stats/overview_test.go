package stats

import (
	"testing"

	"compass/api/internal/records"
)

func TestComputeOverview(t *testing.T) {
	overview := ComputeOverview(testRecords())

	if overview.TotalObjectives != 5 {
		t.Errorf("expected 5 objectives, got %d", overview.TotalObjectives)
	}
	if overview.TotalDepartments != 3 {
		t.Errorf("expected 3 departments, got %d", overview.TotalDepartments)
	}
	if overview.TotalBosses != 2 {
		t.Errorf("expected 2 bosses, got %d", overview.TotalBosses)
	}
	if overview.TotalOwners != 4 {
		t.Errorf("expected 4 owners, got %d", overview.TotalOwners)
	}
	// (90+40+70+50+85)/5 = 67
	if overview.OverallProgress != 67 {
		t.Errorf("expected overall progress 67, got %v", overview.OverallProgress)
	}
	if overview.Status != Classify(67) {
		t.Errorf("overview status must classify the overall average")
	}
	if len(overview.DepartmentStats) != 3 || len(overview.BossStats) != 2 {
		t.Errorf("unexpected listing sizes: %d departments, %d bosses", len(overview.DepartmentStats), len(overview.BossStats))
	}
}

func TestComputeOverviewEmpty(t *testing.T) {
	overview := ComputeOverview(nil)
	if overview.TotalObjectives != 0 || overview.OverallProgress != 0 {
		t.Errorf("unexpected empty overview: %+v", overview)
	}
	if overview.DepartmentStats == nil || overview.BossStats == nil {
		t.Error("empty overview listings must be non-nil")
	}
}

func TestComputeCompliance(t *testing.T) {
	all := ComputeCompliance(testRecords(), Scope{})
	if all.Value != 67 {
		t.Errorf("expected unscoped compliance 67, got %v", all.Value)
	}
	if all.Scope != "all" {
		t.Errorf("expected scope label all, got %q", all.Scope)
	}

	scoped := ComputeCompliance(testRecords(), Scope{Dimension: "department", Value: "Marketing"})
	if scoped.Value != 60 {
		t.Errorf("expected Marketing compliance 60, got %v", scoped.Value)
	}
	if scoped.Scope != "Marketing" {
		t.Errorf("expected scope label Marketing, got %q", scoped.Scope)
	}

	missing := ComputeCompliance(testRecords(), Scope{Dimension: "department", Value: "Inexistente"})
	if missing.Value != 0 {
		t.Errorf("expected 0 for empty scope, got %v", missing.Value)
	}
}

func TestFilter(t *testing.T) {
	min := 60.0
	filtered := Filter(testRecords(), Criteria{Department: "Ventas", MinProgress: &min})
	if len(filtered) != 1 {
		t.Fatalf("expected 1 record, got %d", len(filtered))
	}
	if filtered[0].Owner != "Ana Garcia" {
		t.Errorf("unexpected record: %+v", filtered[0])
	}

	byStatus := Filter(testRecords(), Criteria{StatusLevel: "needs_improvement"})
	if len(byStatus) != 1 || byStatus[0].Progress != 40 {
		t.Errorf("unexpected status filter result: %+v", byStatus)
	}

	// Zero criteria matches everything.
	if got := Filter(testRecords(), Criteria{}); len(got) != len(testRecords()) {
		t.Errorf("empty criteria should match all, got %d", len(got))
	}
}

func TestFilterMinProgressZeroIsExpressible(t *testing.T) {
	zero := 0.0
	recs := []records.ObjectiveRecord{
		{Department: "D", Owner: "O", Objective: "X", Progress: 0},
	}
	if got := Filter(recs, Criteria{MinProgress: &zero}); len(got) != 1 {
		t.Errorf("MinProgress of 0 must still filter, got %d records", len(got))
	}
}

func TestCritical(t *testing.T) {
	recs := []records.ObjectiveRecord{
		{Department: "D", Owner: "A", Objective: "X", Progress: 45},
		{Department: "D", Owner: "B", Objective: "Y", Progress: 10},
		{Department: "D", Owner: "C", Objective: "Z", Progress: 50},
		{Department: "D", Owner: "E", Objective: "W", Progress: 30},
	}

	critical := Critical(recs, 0)
	if len(critical) != 3 {
		t.Fatalf("expected 3 critical records (50 excluded), got %d", len(critical))
	}
	// Ascending: worst first.
	if critical[0].Progress != 10 || critical[2].Progress != 45 {
		t.Errorf("unexpected critical order: %+v", critical)
	}

	limited := Critical(recs, 2)
	if len(limited) != 2 {
		t.Errorf("expected limit applied, got %d", len(limited))
	}
}

func TestTop(t *testing.T) {
	recs := []records.ObjectiveRecord{
		{Department: "D", Owner: "A", Objective: "X", Progress: 95},
		{Department: "D", Owner: "B", Objective: "Y", Progress: 79.9},
		{Department: "D", Owner: "C", Objective: "Z", Progress: 80},
		{Department: "D", Owner: "E", Objective: "W", Progress: 88},
	}

	top := Top(recs, 0)
	if len(top) != 3 {
		t.Fatalf("expected 3 top records (79.9 excluded), got %d", len(top))
	}
	// Descending: best first.
	if top[0].Progress != 95 || top[2].Progress != 80 {
		t.Errorf("unexpected top order: %+v", top)
	}
}
