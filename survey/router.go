package survey

import (
	"fmt"
	"sort"
)

// routerSourceStrength is the assumed transmit strength of the candidate
// router when scoring coverage breadth. The router is the primary source, so
// it gets the full-strength kernel.
const routerSourceStrength = 1.0

type routerFactors struct {
	signal     float64
	centrality float64
	breadth    float64
}

// OptimizeRouter scores every room as a candidate router location and
// returns the global best across all floors. The score weights the room's
// measured signal, its centrality among all rooms, and the mean signal a
// full-strength source at the candidate would deliver to every other room.
// Centrality and breadth dominate the measured signal, which reflects the
// existing source's position rather than the candidate's potential.
//
// Ties resolve to the lowest floor, then to canonical room order, so the
// pick depends only on content, never on sample arrival order. The second
// return is false when there are no rooms.
func OptimizeRouter(rooms []Room, surface *Surface, cfg EngineConfig) (RouterRecommendation, bool) {
	cfg = cfg.withDefaults()

	if len(rooms) == 0 {
		return RouterRecommendation{}, false
	}

	candidates := make([]Room, len(rooms))
	copy(candidates, rooms)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Floor != candidates[j].Floor {
			return candidates[i].Floor < candidates[j].Floor
		}
		return candidates[i].ID < candidates[j].ID
	})

	centroid, maxDist := roomCentroid(candidates)

	const eps = 1e-9
	best := candidates[0]
	bestScore := -1.0
	var bestFactors routerFactors

	for _, c := range candidates {
		f := scoreCandidate(c, candidates, surface, centroid, maxDist, cfg)
		score := cfg.RouterSignalWeight*f.signal +
			cfg.RouterCentralityWeight*f.centrality +
			cfg.RouterBreadthWeight*f.breadth
		if score > bestScore+eps {
			best = c
			bestScore = score
			bestFactors = f
		}
	}

	return RouterRecommendation{
		Floor:     best.Floor,
		Room:      best.Name,
		Score:     clamp01(bestScore),
		Reasoning: routerReasoning(best, bestFactors, cfg),
	}, true
}

// OptimizeRouterPerFloor is the explicitly named per-floor alternative to
// the default global recommendation: each floor gets its own best candidate,
// scored only against that floor's rooms.
func OptimizeRouterPerFloor(rooms []Room, surface *Surface, cfg EngineConfig) map[int]RouterRecommendation {
	out := make(map[int]RouterRecommendation)
	for _, floor := range FloorsOf(rooms) {
		if rec, ok := OptimizeRouter(RoomsOnFloor(rooms, floor), surface, cfg); ok {
			out[floor] = rec
		}
	}
	return out
}

// roomCentroid returns the centroid of all room positions (floors projected
// onto one plane) and the largest distance from any room to it. A max
// distance of 0 marks degenerate geometry where all rooms coincide.
func roomCentroid(rooms []Room) (Point, float64) {
	points := make([]Point, len(rooms))
	for i, r := range rooms {
		points[i] = r.Position
	}
	centroid := Centroid(points)

	maxDist := 0.0
	for _, p := range points {
		if d := Distance(p, centroid); d > maxDist {
			maxDist = d
		}
	}
	return centroid, maxDist
}

func scoreCandidate(c Room, all []Room, surface *Surface, centroid Point, maxDist float64, cfg EngineConfig) routerFactors {
	f := routerFactors{signal: c.Signal}

	// Coincident rooms make every candidate equally central.
	f.centrality = 1.0
	if maxDist > 0 {
		f.centrality = 1.0 - Distance(c.Position, centroid)/maxDist
	}

	// Mean signal a source at the candidate would deliver to every other
	// room. Cross-floor rooms receive nothing from the planar kernel, which
	// penalizes candidates on outlying floors of a multi-floor home.
	others := 0
	var sum float64
	for _, r := range all {
		if r.ID == c.ID && r.Floor == c.Floor {
			continue
		}
		others++
		if r.Floor == c.Floor {
			sum += surface.SourceOnly(r.Position, c.Position, routerSourceStrength)
		}
	}
	if others > 0 {
		f.breadth = sum / float64(others)
	} else {
		// Single-room home: the candidate trivially covers everything.
		f.breadth = 1.0
	}

	return f
}

// routerReasoning names the dominant weighted factor(s) for the pick.
func routerReasoning(r Room, f routerFactors, cfg EngineConfig) string {
	type term struct {
		name     string
		weighted float64
	}
	terms := []term{
		{"strong measured signal", cfg.RouterSignalWeight * f.signal},
		{"central position", cfg.RouterCentralityWeight * f.centrality},
		{"broad coverage of other rooms", cfg.RouterBreadthWeight * f.breadth},
	}
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].weighted > terms[j].weighted })

	dominant := terms[0].name
	// Mention a close runner-up too.
	if terms[1].weighted > 0 && terms[0].weighted-terms[1].weighted < 0.05 {
		dominant = dominant + " and " + terms[1].name
	}

	return fmt.Sprintf("%s on floor %d offers the best router placement: %s (coverage breadth %.0f%%, centrality %.0f%%).",
		r.Name, r.Floor, dominant, f.breadth*100, f.centrality*100)
}
