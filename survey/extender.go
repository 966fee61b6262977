package survey

import (
	"fmt"
	"math"
)

// RecommendExtenders pairs each weak room with a placement suggestion.
//
// For every room below the weak threshold (weakest first), the nearest
// non-weak room reachable under the adjacency thresholds becomes the anchor
// and the extender goes at their midpoint. With no reachable anchor the
// extender defaults to the weak room's own position, flagged low-confidence
// in the reasoning. Improvement is the predicted signal at the weak room
// after simulating an extender-strength kernel at the recommended position;
// placements that fail to improve are kept but flagged marginal so callers
// can still render them.
//
// The result is capped at cfg.MaxExtenders, ordered weakest target first,
// with Priority 1 as most urgent.
func RecommendExtenders(rooms []Room, surface *Surface, cfg EngineConfig) []ExtenderRecommendation {
	cfg = cfg.withDefaults()

	weak := WeakRooms(rooms, cfg)
	if len(weak) == 0 {
		return nil
	}

	var recs []ExtenderRecommendation
	for _, target := range weak {
		if len(recs) >= cfg.MaxExtenders {
			break
		}

		anchor, found := nearestAnchor(target, rooms, cfg)

		var position Point
		var placementRoom string
		if found {
			position = Midpoint(target.Position, anchor.Position)
			placementRoom = anchor.Name
		} else {
			position = target.Position
		}

		predicted := surface.PredictWithSource(target.Position, target.Floor, position, cfg.ExtenderStrength)
		improvement := predicted - target.Signal

		recs = append(recs, ExtenderRecommendation{
			Floor:             target.Floor,
			TargetRoom:        target.Name,
			PlacementRoom:     placementRoom,
			Position:          position,
			SignalImprovement: improvement,
			Reasoning:         extenderReasoning(target, anchor, found, improvement),
			Priority:          len(recs) + 1,
		})
	}

	return recs
}

// nearestAnchor finds the closest non-weak room adjacent to the target:
// same floor within threshold A, or one floor away within the smaller
// threshold B. Distance ties resolve by canonical room order.
func nearestAnchor(target Room, rooms []Room, cfg EngineConfig) (Room, bool) {
	var best Room
	bestDist := math.MaxFloat64
	found := false

	for _, r := range rooms {
		if r.ID == target.ID && r.Floor == target.Floor {
			continue
		}
		if r.Signal < cfg.WeakThreshold {
			continue
		}

		d := Distance(target.Position, r.Position)
		floorDiff := r.Floor - target.Floor
		if floorDiff < 0 {
			floorDiff = -floorDiff
		}

		switch floorDiff {
		case 0:
			if d > cfg.AdjacencySameFloor {
				continue
			}
		case 1:
			if d > cfg.AdjacencyCrossFloor {
				continue
			}
		default:
			continue
		}

		if d < bestDist {
			best = r
			bestDist = d
			found = true
		}
	}

	return best, found
}

func extenderReasoning(target, anchor Room, hasAnchor bool, improvement float64) string {
	var msg string
	if hasAnchor {
		msg = fmt.Sprintf("Place an extender between %s and %s to relay signal into %s (projected improvement %+.0f%%).",
			anchor.Name, target.Name, target.Name, improvement*100)
	} else {
		msg = fmt.Sprintf("%s on floor %d has weak signal and no well-covered room nearby; placing an extender in the room itself is a low-confidence fallback.",
			target.Name, target.Floor)
	}
	if improvement <= 0 {
		msg += " Marginal: the projected signal does not exceed the current measurement."
	}
	return msg
}
