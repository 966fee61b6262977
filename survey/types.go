package survey

import "math"

// Point represents a 2D coordinate in meters within a floor's plane.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Centroid returns the centroid of a point set, or the zero point for an
// empty set.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return Point{X: sx / n, Y: sy / n}
}

// CalibrationPoint is one measured reading from a guided walk-through.
// Instances are produced by the acquisition collaborator and are read-only
// to the analysis engine.
type CalibrationPoint struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Floor          int     `json:"floor"`              // 1-based
	Position       *Point  `json:"position,omitempty"` // nil when the walk had no position fix
	RelativeHeight float64 `json:"relativeHeight"`
	Heading        float64 `json:"heading"` // degrees, [0, 360)
	Signal         float64 `json:"signal"`  // normalized [0, 1]
	Timestamp      int64   `json:"timestamp"`
	StepCount      int     `json:"stepCount"`
}

// RoomType classifies a resolved room.
type RoomType string

const (
	RoomTypeRoom      RoomType = "room"
	RoomTypeHallway   RoomType = "hallway"
	RoomTypeStaircase RoomType = "staircase"
)

// Room is the per-area aggregate derived from calibration samples, keyed by
// name+floor. Position is either taken from an explicit layout or derived
// heuristically; ExplicitLayout records which.
type Room struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            RoomType `json:"type"`
	Floor           int      `json:"floor"`
	Position        Point    `json:"position"`  // center, meters
	Elevation       float64  `json:"elevation"` // (floor-1) * floor height
	Size            Point    `json:"size"`      // width/depth, meters
	Signal          float64  `json:"signal"`    // mean of contributing samples
	Recommendations []string `json:"recommendations,omitempty"`
	ExplicitLayout  bool     `json:"explicitLayout"` // false = heuristic placement, lower confidence
}

// LayoutRoom is one explicitly positioned room from a user-supplied layout.
// A layout entry is linked to samples either by SampleID or by name+floor.
type LayoutRoom struct {
	RoomID   string `yaml:"roomId" json:"roomId"`
	Name     string `yaml:"name" json:"name"`
	Floor    int    `yaml:"floor" json:"floor"`
	Position Point  `yaml:"position" json:"position"`
	Size     Point  `yaml:"size" json:"size"`
	SampleID string `yaml:"sampleId,omitempty" json:"sampleId,omitempty"`
}

// Layout is an optional explicit floor plan. A nil or empty Layout triggers
// heuristic room placement.
type Layout struct {
	Rooms []LayoutRoom `yaml:"rooms" json:"rooms"`
}

// find returns the layout entry linked to the given sample, preferring an
// explicit sample-id link over a name+floor match.
func (l *Layout) find(sampleID, name string, floor int) *LayoutRoom {
	if l == nil {
		return nil
	}
	if sampleID != "" {
		for i := range l.Rooms {
			if l.Rooms[i].SampleID == sampleID {
				return &l.Rooms[i]
			}
		}
	}
	for i := range l.Rooms {
		if l.Rooms[i].Name == name && l.Rooms[i].Floor == floor {
			return &l.Rooms[i]
		}
	}
	return nil
}

// CoverageAnalysis holds aggregate coverage statistics. It is a pure derived
// value, recomputed on demand from the current room set.
type CoverageAnalysis struct {
	TotalRooms         int     `json:"totalRooms"`
	WellCoveredRooms   int     `json:"wellCoveredRooms"`
	WeakAreas          int     `json:"weakAreas"`
	CoveragePercentage float64 `json:"coveragePercentage"` // mean room signal, [0, 1]
}

// RouterRecommendation is the optimizer's pick for router placement.
type RouterRecommendation struct {
	Floor     int     `json:"floor"`
	Room      string  `json:"room"`
	Score     float64 `json:"score"` // [0, 1]
	Reasoning string  `json:"reasoning"`
}

// ExtenderRecommendation pairs a weak room with a placement suggestion.
// PlacementRoom is empty when no non-weak anchor was reachable; the position
// then falls back to the weak room itself.
type ExtenderRecommendation struct {
	Floor             int     `json:"floor"`
	TargetRoom        string  `json:"targetRoom"`
	PlacementRoom     string  `json:"placementRoom,omitempty"`
	Position          Point   `json:"recommendedPosition"`
	SignalImprovement float64 `json:"signalImprovement"`
	Reasoning         string  `json:"reasoning"`
	Priority          int     `json:"priority"` // 1 = weakest room first
}

// HealthLabel is the qualitative bucket for a health score.
type HealthLabel string

const (
	HealthExcellent      HealthLabel = "Excellent"
	HealthGood           HealthLabel = "Good"
	HealthNeedsAttention HealthLabel = "Needs Attention"
)

// HealthScore is the single rolled-up network quality score.
type HealthScore struct {
	Value float64     `json:"value"` // [0, 1]
	Label HealthLabel `json:"label"`
}

// NormalizeHeading normalizes a heading in degrees to the range [0, 360).
func NormalizeHeading(degrees float64) float64 {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	return degrees
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
