package survey

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// quadrant anchors for name-keyword placement, as fractions of the floor
// extent. Front of the house is low Y.
var keywordAnchors = []struct {
	keywords []string
	anchor   Point
}{
	{[]string{"living", "lounge", "family"}, Point{X: 0.25, Y: 0.25}}, // front-left
	{[]string{"kitchen", "dining"}, Point{X: 0.75, Y: 0.25}},         // front-right
	{[]string{"bed", "nursery"}, Point{X: 0.25, Y: 0.75}},            // back-left
	{[]string{"bath", "toilet", "laundry"}, Point{X: 0.75, Y: 0.75}}, // back-right
	{[]string{"hall", "corridor", "landing", "entry"}, Point{X: 0.5, Y: 0.5}},
	{[]string{"stair"}, Point{X: 0.5, Y: 0.5}},
}

// ResolveRooms maps an ordered sample set to positioned rooms.
//
// Samples sharing name+floor are merged into one room with the mean signal.
// Position comes from the layout when an entry links to the room (by sample
// id or name+floor); otherwise a deterministic heuristic places the room:
// a keyword anchor quadrant when the name matches, a stable hash-derived
// coordinate inside the floor extent square when it doesn't. Heuristic
// placements carry ExplicitLayout=false so downstream consumers can treat
// them as lower confidence.
//
// The returned slice is in canonical order (floor ascending, then name),
// which keeps every downstream computation independent of sample arrival
// order.
func ResolveRooms(snap *Snapshot, layout *Layout, cfg EngineConfig) []Room {
	if snap == nil || snap.Len() == 0 {
		return nil
	}
	cfg = cfg.withDefaults()

	type agg struct {
		sum      float64
		count    int
		sampleID string // first sample's id, used for layout linking
		position *Point // first explicit sample position, if any
	}

	byKey := make(map[string]*agg)
	var keys []string
	names := make(map[string]string)
	floors := make(map[string]int)

	for _, p := range snap.points {
		key := roomKey(p.Name, p.Floor)
		a, ok := byKey[key]
		if !ok {
			a = &agg{sampleID: p.ID}
			byKey[key] = a
			keys = append(keys, key)
			names[key] = p.Name
			floors[key] = p.Floor
		}
		a.sum += p.Signal
		a.count++
		if a.position == nil && p.Position != nil {
			pos := *p.Position
			a.position = &pos
		}
	}

	sort.Strings(keys)

	rooms := make([]Room, 0, len(keys))
	for _, key := range keys {
		a := byKey[key]
		name := names[key]
		floor := floors[key]

		room := Room{
			ID:        key,
			Name:      name,
			Type:      classifyRoom(name),
			Floor:     floor,
			Elevation: float64(floor-1) * cfg.FloorHeight,
			Signal:    a.sum / float64(a.count),
		}

		entry := layout.find(a.sampleID, name, floor)
		switch {
		case entry != nil:
			room.Position = entry.Position
			room.Size = entry.Size
			room.ExplicitLayout = true
			if entry.RoomID != "" {
				room.ID = entry.RoomID
			}
		case a.position != nil:
			// The walk recorded a position fix; trust it over keywords.
			room.Position = *a.position
			room.Size = defaultRoomSize(cfg)
			room.ExplicitLayout = true
		default:
			room.Position = heuristicPosition(name, floor, cfg)
			room.Size = defaultRoomSize(cfg)
			room.ExplicitLayout = false
		}

		rooms = append(rooms, room)
	}

	return rooms
}

// roomKey builds the canonical name+floor key. Keys sort by floor first so
// canonical room order is floor ascending, then name.
func roomKey(name string, floor int) string {
	return fmt.Sprintf("%03d/%s", floor, strings.ToLower(strings.TrimSpace(name)))
}

func classifyRoom(name string) RoomType {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "stair") {
		return RoomTypeStaircase
	}
	for _, kw := range []string{"hall", "corridor", "landing"} {
		if strings.Contains(lower, kw) {
			return RoomTypeHallway
		}
	}
	return RoomTypeRoom
}

// heuristicPosition derives a stable position for a room without layout or
// position data. Keyword-matched names land in their quadrant with a small
// hash-derived offset so duplicates (Bedroom 1, Bedroom 2) don't coincide;
// unmatched names get fully hash-derived coordinates inside the floor extent
// square. The same name+floor always yields the same position, which keeps
// adjacency and interpolation stable across invocations.
func heuristicPosition(name string, floor int, cfg EngineConfig) Point {
	lower := strings.ToLower(name)
	hx, hy := hashUnitPair(lower, floor)

	for _, ka := range keywordAnchors {
		for _, kw := range ka.keywords {
			if strings.Contains(lower, kw) {
				// Offset up to ±15% of the extent inside the quadrant.
				return Point{
					X: (ka.anchor.X + (hx-0.5)*0.3) * cfg.FloorExtent,
					Y: (ka.anchor.Y + (hy-0.5)*0.3) * cfg.FloorExtent,
				}
			}
		}
	}

	// No keyword match: bounded hash placement with a 10% margin.
	return Point{
		X: (0.1 + hx*0.8) * cfg.FloorExtent,
		Y: (0.1 + hy*0.8) * cfg.FloorExtent,
	}
}

// hashUnitPair maps name+floor to two stable values in [0, 1).
func hashUnitPair(name string, floor int) (float64, float64) {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d", name, floor)
	sum := h.Sum64()
	x := float64(sum&0xFFFFFFFF) / float64(1<<32)
	y := float64(sum>>32) / float64(1<<32)
	return x, y
}

func defaultRoomSize(cfg EngineConfig) Point {
	side := cfg.FloorExtent * 0.3
	return Point{X: side, Y: side}
}

// RoomsOnFloor filters rooms to a single floor, preserving canonical order.
func RoomsOnFloor(rooms []Room, floor int) []Room {
	var out []Room
	for _, r := range rooms {
		if r.Floor == floor {
			out = append(out, r)
		}
	}
	return out
}

// FloorsOf returns the sorted distinct floors present in a room set.
func FloorsOf(rooms []Room) []int {
	seen := make(map[int]bool)
	var floors []int
	for _, r := range rooms {
		if !seen[r.Floor] {
			seen[r.Floor] = true
			floors = append(floors, r.Floor)
		}
	}
	sort.Ints(floors)
	return floors
}
