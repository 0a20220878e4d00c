package search

import (
	"fmt"
	"testing"

	"compass/api/internal/records"
)

func testRecords() []records.ObjectiveRecord {
	return []records.ObjectiveRecord{
		{Department: "Ventas", Boss: "Carmen Vega", Owner: "Ana Garcia", Objective: "Cerrar pipeline Q3", Progress: 90},
		{Department: "Ventas", Boss: "Carmen Vega", Owner: "Luis Perez", Objective: "Renovar contratos", Progress: 40},
		{Department: "Marketing", Boss: "Diego Sol", Owner: "Sofia Ruiz", Objective: "Campaña de marca", Progress: 70},
	}
}

func TestSearchMatchesOwnerName(t *testing.T) {
	results := Search(testRecords(), "ana")
	if len(results.Owners) != 1 {
		t.Fatalf("expected 1 owner hit, got %d", len(results.Owners))
	}
	if results.Owners[0].Name != "Ana Garcia" {
		t.Errorf("unexpected owner: %+v", results.Owners[0])
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	results := Search(testRecords(), "VENTAS")
	if len(results.Departments) != 1 {
		t.Errorf("expected department hit for uppercase query, got %d", len(results.Departments))
	}
}

func TestSearchOwnersMatchOnBossAndDepartment(t *testing.T) {
	// Owners are matched on their boss's name too.
	byBoss := Search(testRecords(), "carmen")
	if len(byBoss.Owners) != 2 {
		t.Errorf("expected 2 owners under boss Carmen, got %d", len(byBoss.Owners))
	}
	if len(byBoss.Bosses) != 1 {
		t.Errorf("expected 1 boss hit, got %d", len(byBoss.Bosses))
	}

	// And on their department.
	byDept := Search(testRecords(), "marketing")
	if len(byDept.Owners) != 1 {
		t.Errorf("expected 1 owner in Marketing, got %d", len(byDept.Owners))
	}
	if len(byDept.Departments) != 1 {
		t.Errorf("expected 1 department hit, got %d", len(byDept.Departments))
	}
}

func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	for _, q := range []string{"", "a", " a "} {
		results := Search(testRecords(), q)
		if len(results.Owners) != 0 || len(results.Bosses) != 0 || len(results.Departments) != 0 {
			t.Errorf("query %q below minimum length must return no hits", q)
		}
		if results.Owners == nil || results.Bosses == nil || results.Departments == nil {
			t.Errorf("empty results must use non-nil slices")
		}
	}
}

func TestSearchMinimumLengthCountsCharacters(t *testing.T) {
	recs := []records.ObjectiveRecord{
		{Department: "Ventas", Owner: "Niña Flores", Objective: "Obj", Progress: 50},
	}

	// One accented character is one character, even if it is two bytes.
	results := Search(recs, "ñ")
	if len(results.Owners) != 0 {
		t.Errorf("1-character query %q must return no hits, got %d owners", "ñ", len(results.Owners))
	}

	results = Search(recs, "iñ")
	if len(results.Owners) != 1 {
		t.Errorf("2-character query %q must match, got %d owners", "iñ", len(results.Owners))
	}
}

func TestSearchNilRecords(t *testing.T) {
	results := Search(nil, "ventas")
	if results.Owners == nil || results.Bosses == nil || results.Departments == nil {
		t.Error("nil record set must yield empty non-nil result slices")
	}
}

func TestSearchCapsResultsPerCategory(t *testing.T) {
	var recs []records.ObjectiveRecord
	for i := 0; i < 25; i++ {
		recs = append(recs, records.ObjectiveRecord{
			Department: "Ventas",
			Owner:      fmt.Sprintf("Vendedor %02d", i),
			Objective:  "Objetivo",
			Progress:   float64(i),
		})
	}

	results := Search(recs, "vendedor")
	if len(results.Owners) != 10 {
		t.Errorf("expected owner hits capped at 10, got %d", len(results.Owners))
	}
}

func TestSearchNoMatches(t *testing.T) {
	results := Search(testRecords(), "zzzz")
	if len(results.Owners)+len(results.Bosses)+len(results.Departments) != 0 {
		t.Errorf("expected no hits, got %+v", results)
	}
}
