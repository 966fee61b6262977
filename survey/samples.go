package survey

import (
	"fmt"
	"sort"
)

// Snapshot is an immutable, ordered collection of calibration samples.
// It is the only input surface of the analysis engine: every derived value
// (rooms, coverage, recommendations) is a pure function of a Snapshot plus
// an optional Layout and the engine config.
type Snapshot struct {
	points []CalibrationPoint
}

// NewSnapshot validates and normalizes samples into an immutable snapshot.
// Signal values outside [0, 1] are clamped and headings normalized to
// [0, 360); these are measurement noise, not caller bugs. Structurally
// malformed records (floor < 1, negative step count) are rejected here so
// they can never reach the scoring math.
func NewSnapshot(points []CalibrationPoint) (*Snapshot, error) {
	normalized := make([]CalibrationPoint, 0, len(points))
	for i, p := range points {
		if p.Floor < 1 {
			return nil, fmt.Errorf("sample[%d] %q: floor must be >= 1, got %d", i, p.Name, p.Floor)
		}
		if p.StepCount < 0 {
			return nil, fmt.Errorf("sample[%d] %q: stepCount must be >= 0, got %d", i, p.Name, p.StepCount)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("sample[%d]: name is required", i)
		}
		p.Signal = clamp01(p.Signal)
		p.Heading = NormalizeHeading(p.Heading)
		if p.Position != nil {
			pos := *p.Position // copy so callers can't mutate through the pointer
			p.Position = &pos
		}
		normalized = append(normalized, p)
	}
	return &Snapshot{points: normalized}, nil
}

// MustSnapshot is NewSnapshot for inputs known to be valid, such as test
// fixtures. It panics on validation failure.
func MustSnapshot(points []CalibrationPoint) *Snapshot {
	s, err := NewSnapshot(points)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of samples.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.points)
}

// Points returns a copy of the sample list in walk order.
func (s *Snapshot) Points() []CalibrationPoint {
	if s == nil {
		return nil
	}
	out := make([]CalibrationPoint, len(s.points))
	copy(out, s.points)
	for i := range out {
		if out[i].Position != nil {
			pos := *out[i].Position
			out[i].Position = &pos
		}
	}
	return out
}

// Floors returns the sorted distinct floor numbers present in the snapshot.
func (s *Snapshot) Floors() []int {
	if s == nil {
		return nil
	}
	seen := make(map[int]bool)
	var floors []int
	for _, p := range s.points {
		if !seen[p.Floor] {
			seen[p.Floor] = true
			floors = append(floors, p.Floor)
		}
	}
	sort.Ints(floors)
	return floors
}
