package survey

import (
	"math"
	"testing"
)

func TestAnalyzeCoverage_Empty(t *testing.T) {
	got := AnalyzeCoverage(nil, DefaultEngineConfig())
	if got != (CoverageAnalysis{}) {
		t.Errorf("empty input = %+v, want zero value", got)
	}
}

func TestAnalyzeCoverage_Scenario(t *testing.T) {
	// Living=0.9, Bedroom=0.3, Kitchen=0.6 on one floor.
	rooms := []Room{
		{ID: "001/living room", Name: "Living Room", Floor: 1, Signal: 0.9},
		{ID: "001/bedroom", Name: "Bedroom", Floor: 1, Signal: 0.3},
		{ID: "001/kitchen", Name: "Kitchen", Floor: 1, Signal: 0.6},
	}

	got := AnalyzeCoverage(rooms, DefaultEngineConfig())
	if got.TotalRooms != 3 {
		t.Errorf("TotalRooms = %d, want 3", got.TotalRooms)
	}
	if got.WeakAreas != 1 {
		t.Errorf("WeakAreas = %d, want 1", got.WeakAreas)
	}
	if got.WellCoveredRooms != 1 {
		t.Errorf("WellCoveredRooms = %d, want 1", got.WellCoveredRooms)
	}
	if math.Abs(got.CoveragePercentage-0.6) > 1e-9 {
		t.Errorf("CoveragePercentage = %g, want 0.6", got.CoveragePercentage)
	}
}

func TestAnalyzeCoverage_Bounds(t *testing.T) {
	// weak + well covered can never exceed total, and the mean stays in [0,1].
	sets := [][]Room{
		{{ID: "a", Signal: 0}, {ID: "b", Signal: 1}},
		{{ID: "a", Signal: 0.39}, {ID: "b", Signal: 0.4}, {ID: "c", Signal: 0.7}},
		{{ID: "a", Signal: 1}, {ID: "b", Signal: 1}, {ID: "c", Signal: 1}},
	}
	for i, rooms := range sets {
		got := AnalyzeCoverage(rooms, DefaultEngineConfig())
		if got.WeakAreas+got.WellCoveredRooms > got.TotalRooms {
			t.Errorf("set %d: weak %d + well %d > total %d", i, got.WeakAreas, got.WellCoveredRooms, got.TotalRooms)
		}
		if got.CoveragePercentage < 0 || got.CoveragePercentage > 1 {
			t.Errorf("set %d: CoveragePercentage = %g outside [0,1]", i, got.CoveragePercentage)
		}
	}
}

func TestAnalyzeCoverage_ThresholdEdges(t *testing.T) {
	rooms := []Room{
		{ID: "a", Signal: 0.4}, // exactly at weak threshold: not weak
		{ID: "b", Signal: 0.7}, // exactly at strong threshold: well covered
	}
	got := AnalyzeCoverage(rooms, DefaultEngineConfig())
	if got.WeakAreas != 0 {
		t.Errorf("WeakAreas = %d, want 0 (0.4 is not below threshold)", got.WeakAreas)
	}
	if got.WellCoveredRooms != 1 {
		t.Errorf("WellCoveredRooms = %d, want 1 (0.7 meets threshold)", got.WellCoveredRooms)
	}
}

func TestWeakRooms_SortedWeakestFirst(t *testing.T) {
	rooms := []Room{
		{ID: "001/a", Name: "A", Signal: 0.35},
		{ID: "001/b", Name: "B", Signal: 0.1},
		{ID: "001/c", Name: "C", Signal: 0.5},
		{ID: "001/d", Name: "D", Signal: 0.2},
	}

	weak := WeakRooms(rooms, DefaultEngineConfig())
	if len(weak) != 3 {
		t.Fatalf("len(weak) = %d, want 3", len(weak))
	}
	if weak[0].Name != "B" || weak[1].Name != "D" || weak[2].Name != "A" {
		t.Errorf("weak order = %s,%s,%s, want B,D,A", weak[0].Name, weak[1].Name, weak[2].Name)
	}
}
