package survey

import (
	"reflect"
	"testing"
)

func walkSample(name string, floor int, x, y, signal float64) CalibrationPoint {
	return CalibrationPoint{
		Name:     name,
		Floor:    floor,
		Position: &Point{X: x, Y: y},
		Signal:   signal,
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	snap := MustSnapshot([]CalibrationPoint{
		walkSample("Living Room", 1, 1, 1, 0.9),
		walkSample("Bedroom", 1, 1, 5, 0.3),
		walkSample("Kitchen", 1, 6, 1, 0.6),
	})
	cfg := DefaultEngineConfig()

	a := Analyze(snap, nil, cfg)
	b := Analyze(snap, nil, cfg)

	if !reflect.DeepEqual(a.Rooms, b.Rooms) {
		t.Error("Rooms differ between runs on the same snapshot")
	}
	if a.Coverage != b.Coverage {
		t.Errorf("Coverage differs: %+v vs %+v", a.Coverage, b.Coverage)
	}
	if !reflect.DeepEqual(a.Router, b.Router) {
		t.Error("Router differs between runs")
	}
	if !reflect.DeepEqual(a.Extenders, b.Extenders) {
		t.Error("Extenders differ between runs")
	}
	if a.Health != b.Health {
		t.Errorf("Health differs: %+v vs %+v", a.Health, b.Health)
	}
}

func TestAnalyze_OrderIndependent(t *testing.T) {
	samples := []CalibrationPoint{
		walkSample("Living Room", 1, 1, 1, 0.9),
		walkSample("Bedroom", 1, 1, 5, 0.3),
		walkSample("Kitchen", 1, 6, 1, 0.6),
		walkSample("Study", 2, 3, 3, 0.5),
	}
	cfg := DefaultEngineConfig()
	base := Analyze(MustSnapshot(samples), nil, cfg)

	shuffled := []CalibrationPoint{samples[2], samples[3], samples[0], samples[1]}
	got := Analyze(MustSnapshot(shuffled), nil, cfg)

	if !reflect.DeepEqual(base.Rooms, got.Rooms) {
		t.Error("room set depends on sample arrival order")
	}
	if base.Coverage != got.Coverage {
		t.Error("coverage depends on sample arrival order")
	}
	if !reflect.DeepEqual(base.Router, got.Router) {
		t.Error("router pick depends on sample arrival order")
	}
	if !reflect.DeepEqual(base.Extenders, got.Extenders) {
		t.Error("extender list depends on sample arrival order")
	}
}

func TestAnalyze_FixingAWeakRoomIsMonotonic(t *testing.T) {
	cfg := DefaultEngineConfig()
	before := Analyze(MustSnapshot([]CalibrationPoint{
		walkSample("Living Room", 1, 1, 1, 0.9),
		walkSample("Bedroom", 1, 1, 5, 0.3),
		walkSample("Kitchen", 1, 6, 1, 0.6),
	}), nil, cfg)

	after := Analyze(MustSnapshot([]CalibrationPoint{
		walkSample("Living Room", 1, 1, 1, 0.9),
		walkSample("Bedroom", 1, 1, 5, 1.0),
		walkSample("Kitchen", 1, 6, 1, 0.6),
	}), nil, cfg)

	if after.Coverage.CoveragePercentage < before.Coverage.CoveragePercentage {
		t.Errorf("coverage dropped from %g to %g after raising a room's signal",
			before.Coverage.CoveragePercentage, after.Coverage.CoveragePercentage)
	}
	if after.Coverage.WeakAreas >= before.Coverage.WeakAreas {
		t.Errorf("weak areas = %d, want fewer than %d", after.Coverage.WeakAreas, before.Coverage.WeakAreas)
	}
	for _, rec := range after.Extenders {
		if rec.TargetRoom == "Bedroom" {
			t.Error("fully covered Bedroom still targeted by an extender")
		}
	}
}

func TestAnalyze_EmptyWalk(t *testing.T) {
	snap := MustSnapshot(nil)
	result := Analyze(snap, nil, DefaultEngineConfig())

	if result.Coverage != (CoverageAnalysis{}) {
		t.Errorf("Coverage = %+v, want zero value", result.Coverage)
	}
	if result.Router != nil {
		t.Errorf("Router = %+v, want nil", result.Router)
	}
	if len(result.Extenders) != 0 {
		t.Errorf("Extenders = %v, want none", result.Extenders)
	}
	if result.Health.Value != 0 || result.Health.Label != HealthNeedsAttention {
		t.Errorf("Health = %+v, want zero / needs attention", result.Health)
	}
	if result.Predict(Point{X: 1, Y: 1}, 1) != 0 {
		t.Error("Predict on an empty result should be 0")
	}
}

func TestAnalyze_CoverageCountsAreConsistent(t *testing.T) {
	result := Analyze(MustSnapshot([]CalibrationPoint{
		walkSample("Living Room", 1, 1, 1, 0.9),
		walkSample("Bedroom", 1, 1, 5, 0.3),
		walkSample("Kitchen", 1, 6, 1, 0.6),
		walkSample("Bathroom", 1, 6, 5, 0.1),
		walkSample("Hallway", 1, 3, 3, 0.75),
	}), nil, DefaultEngineConfig())

	cov := result.Coverage
	if cov.TotalRooms != len(result.Rooms) {
		t.Errorf("TotalRooms = %d, want %d", cov.TotalRooms, len(result.Rooms))
	}
	if cov.WellCoveredRooms+cov.WeakAreas > cov.TotalRooms {
		t.Errorf("well (%d) + weak (%d) exceeds total (%d)",
			cov.WellCoveredRooms, cov.WeakAreas, cov.TotalRooms)
	}
	if cov.CoveragePercentage < 0 || cov.CoveragePercentage > 1 {
		t.Errorf("CoveragePercentage = %g outside [0,1]", cov.CoveragePercentage)
	}
}

func TestAnalyze_TwoFloorScenario(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MaxExtenders = 10

	// Floor 1 uniformly strong, floor 2 uniformly weak.
	result := Analyze(MustSnapshot([]CalibrationPoint{
		walkSample("Living Room", 1, 1, 1, 0.9),
		walkSample("Kitchen", 1, 5, 1, 0.85),
		walkSample("Bedroom", 2, 1, 1, 0.3),
		walkSample("Study", 2, 5, 1, 0.2),
		walkSample("Bathroom", 2, 3, 4, 0.25),
	}), nil, cfg)

	if result.Router == nil {
		t.Fatal("expected a router recommendation")
	}
	if result.Router.Floor != 1 {
		t.Errorf("router on floor %d, want the uniformly strong floor 1", result.Router.Floor)
	}

	targets := make(map[string]int)
	for i, rec := range result.Extenders {
		targets[rec.TargetRoom] = i
	}
	for _, weak := range []string{"Bedroom", "Study", "Bathroom"} {
		if _, ok := targets[weak]; !ok {
			t.Errorf("weak floor-2 room %q missing from extender list", weak)
		}
	}
	if !(targets["Study"] < targets["Bathroom"] && targets["Bathroom"] < targets["Bedroom"]) {
		t.Errorf("extender order %v not weakest-first", result.Extenders)
	}
}

func TestAnalysisResult_Heatmap(t *testing.T) {
	result := Analyze(MustSnapshot([]CalibrationPoint{
		walkSample("Living Room", 1, 1, 1, 0.9),
		walkSample("Kitchen", 1, 5, 1, 0.6),
	}), nil, DefaultEngineConfig())

	grid, ok := result.Heatmap(1, 40)
	if !ok {
		t.Fatal("expected a heatmap for floor 1")
	}
	if grid.Floor != 1 || len(grid.Values) != grid.Cols*grid.Rows {
		t.Errorf("grid shape %dx%d with %d values inconsistent", grid.Cols, grid.Rows, len(grid.Values))
	}

	if _, ok := result.Heatmap(7, 40); ok {
		t.Error("expected no heatmap for an absent floor")
	}
}

func TestAnalyze_RoomAnnotations(t *testing.T) {
	result := Analyze(MustSnapshot([]CalibrationPoint{
		walkSample("Living Room", 1, 1, 1, 0.9),
		{Name: "Cellar", Floor: 1, Signal: 0.2}, // no position fix
	}), nil, DefaultEngineConfig())

	for _, r := range result.Rooms {
		if len(r.Recommendations) == 0 {
			t.Errorf("room %q has no recommendation text", r.Name)
		}
		if r.Name == "Cellar" && r.ExplicitLayout {
			t.Error("room without a position fix marked as explicitly placed")
		}
	}
}
