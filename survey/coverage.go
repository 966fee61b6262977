package survey

import "sort"

// AnalyzeCoverage aggregates room signals into coverage statistics.
// An empty room set yields the zero value; there is no division by zero
// because an empty walk is valid input, not an error.
func AnalyzeCoverage(rooms []Room, cfg EngineConfig) CoverageAnalysis {
	cfg = cfg.withDefaults()

	if len(rooms) == 0 {
		return CoverageAnalysis{}
	}

	var analysis CoverageAnalysis
	var sum float64
	for _, r := range rooms {
		analysis.TotalRooms++
		sum += r.Signal
		if r.Signal >= cfg.StrongThreshold {
			analysis.WellCoveredRooms++
		}
		if r.Signal < cfg.WeakThreshold {
			analysis.WeakAreas++
		}
	}
	analysis.CoveragePercentage = sum / float64(analysis.TotalRooms)

	return analysis
}

// WeakRooms returns the rooms below the weak threshold, weakest first.
// Ties keep canonical room order, so the result is content-deterministic.
func WeakRooms(rooms []Room, cfg EngineConfig) []Room {
	cfg = cfg.withDefaults()

	var weak []Room
	for _, r := range rooms {
		if r.Signal < cfg.WeakThreshold {
			weak = append(weak, r)
		}
	}
	// Stable sort preserves canonical order among equal signals.
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].Signal < weak[j].Signal
	})
	return weak
}
