package survey

import "fmt"

// AnalysisResult bundles everything the engine derives from one snapshot.
// It is a pure function of (snapshot, layout, config): identical input
// always yields an identical result.
type AnalysisResult struct {
	Rooms     []Room                   `json:"rooms"`
	Coverage  CoverageAnalysis         `json:"coverage"`
	Router    *RouterRecommendation    `json:"router,omitempty"` // nil for an empty walk
	Extenders []ExtenderRecommendation `json:"extenders,omitempty"`
	Health    HealthScore              `json:"health"`

	surface *Surface
	cfg     EngineConfig
}

// Analyze runs the full pipeline on an immutable snapshot: resolve rooms,
// aggregate coverage, build the predicted-signal surface, pick the router
// location, rank extender placements, and score overall health. An empty
// snapshot produces zeroed aggregates and empty recommendations, never an
// error.
func Analyze(snap *Snapshot, layout *Layout, cfg EngineConfig) *AnalysisResult {
	cfg = cfg.withDefaults()

	rooms := ResolveRooms(snap, layout, cfg)
	annotateRooms(rooms, cfg)

	surface := BuildSurface(rooms, cfg)
	coverage := AnalyzeCoverage(rooms, cfg)

	result := &AnalysisResult{
		Rooms:     rooms,
		Coverage:  coverage,
		Extenders: RecommendExtenders(rooms, surface, cfg),
		Health:    ScoreHealth(coverage),
		surface:   surface,
		cfg:       cfg,
	}

	if rec, ok := OptimizeRouter(rooms, surface, cfg); ok {
		result.Router = &rec
	}

	return result
}

// annotateRooms attaches per-room recommendation strings.
func annotateRooms(rooms []Room, cfg EngineConfig) {
	for i := range rooms {
		r := &rooms[i]
		switch {
		case r.Signal < cfg.WeakThreshold:
			r.Recommendations = append(r.Recommendations,
				fmt.Sprintf("Signal is weak (%.0f%%); an extender or router move would help here.", r.Signal*100))
		case r.Signal >= cfg.StrongThreshold:
			r.Recommendations = append(r.Recommendations,
				fmt.Sprintf("Signal is strong (%.0f%%); no action needed.", r.Signal*100))
		default:
			r.Recommendations = append(r.Recommendations,
				fmt.Sprintf("Signal is adequate (%.0f%%).", r.Signal*100))
		}
		if !r.ExplicitLayout {
			r.Recommendations = append(r.Recommendations,
				"Room position was estimated from its name; add a layout for a more accurate picture.")
		}
	}
}

// Predict exposes the result's continuous predicted-signal function for
// on-demand heatmap sampling: (point, floor) -> signal in [0, 1].
func (r *AnalysisResult) Predict(p Point, floor int) float64 {
	if r == nil {
		return 0
	}
	return r.surface.Predict(p, floor)
}

// Heatmap samples the predicted-signal surface over a floor's padded
// bounding box at the given resolution. The second return is false when the
// floor has no rooms.
func (r *AnalysisResult) Heatmap(floor, resolution int) (*Grid, bool) {
	if r == nil {
		return nil, false
	}
	min, max, ok := FloorBounds(r.Rooms, floor, r.cfg)
	if !ok {
		return nil, false
	}
	return r.surface.SampleGrid(floor, min, max, resolution), true
}

// Floors returns the sorted floors present in the result.
func (r *AnalysisResult) Floors() []int {
	if r == nil {
		return nil
	}
	return FloorsOf(r.Rooms)
}

// Config returns the engine configuration the result was computed with.
func (r *AnalysisResult) Config() EngineConfig {
	return r.cfg
}
