package survey

// ScoreHealth rolls a coverage analysis into a single health score:
// mean coverage, penalized 0.1 per weak area and credited 0.05 per
// well-covered room, clamped to [0, 1]. Pure function.
func ScoreHealth(cov CoverageAnalysis) HealthScore {
	value := clamp01(cov.CoveragePercentage - 0.1*float64(cov.WeakAreas) + 0.05*float64(cov.WellCoveredRooms))

	label := HealthNeedsAttention
	switch {
	case value >= 0.8:
		label = HealthExcellent
	case value >= 0.6:
		label = HealthGood
	}

	return HealthScore{Value: value, Label: label}
}
