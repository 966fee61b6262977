package survey

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Contour is one iso-signal level extracted from the predicted surface.
type Contour struct {
	Level float64
	Lines []orb.LineString
}

// DefaultContourLevels are the levels drawn on heatmap overlays: the weak
// and strong thresholds plus a midpoint band.
func DefaultContourLevels(cfg EngineConfig) []float64 {
	cfg = cfg.withDefaults()
	return []float64{cfg.WeakThreshold, (cfg.WeakThreshold + cfg.StrongThreshold) / 2, cfg.StrongThreshold}
}

// ExtractContours runs marching squares over the sampled grid for each
// requested level and returns simplified iso-lines in world coordinates.
// Levels outside the grid's value range produce empty contours.
func ExtractContours(g *Grid, levels []float64) []Contour {
	contours := make([]Contour, 0, len(levels))
	sorted := append([]float64(nil), levels...)
	sort.Float64s(sorted)

	for _, level := range sorted {
		segments := marchingSquares(g, level)
		lines := chainSegments(segments, g.CellSize*0.01)

		// Simplify with a tolerance of a quarter cell; iso-lines from a
		// coarse grid carry no sub-cell detail worth keeping.
		tolerance := g.CellSize * 0.25
		simplified := make([]orb.LineString, 0, len(lines))
		for _, ls := range lines {
			if len(ls) < 2 {
				continue
			}
			s := simplify.DouglasPeucker(tolerance).Simplify(ls.Clone())
			if out, ok := s.(orb.LineString); ok && len(out) >= 2 {
				simplified = append(simplified, out)
			}
		}

		contours = append(contours, Contour{Level: level, Lines: simplified})
	}

	return contours
}

type segment struct {
	a, b orb.Point
}

// marchingSquares emits one or two line segments per grid cell where the
// level crosses, with linearly interpolated crossing points.
func marchingSquares(g *Grid, level float64) []segment {
	var segments []segment

	for row := 0; row < g.Rows-1; row++ {
		for col := 0; col < g.Cols-1; col++ {
			// Corner values, counter-clockwise from bottom-left.
			v0 := g.At(col, row)
			v1 := g.At(col+1, row)
			v2 := g.At(col+1, row+1)
			v3 := g.At(col, row+1)

			idx := 0
			if v0 >= level {
				idx |= 1
			}
			if v1 >= level {
				idx |= 2
			}
			if v2 >= level {
				idx |= 4
			}
			if v3 >= level {
				idx |= 8
			}
			if idx == 0 || idx == 15 {
				continue
			}

			p0 := g.CellCenter(col, row)
			p1 := g.CellCenter(col+1, row)
			p2 := g.CellCenter(col+1, row+1)
			p3 := g.CellCenter(col, row+1)

			// Edge crossing points, interpolated along each cell edge.
			bottom := interpCrossing(p0, p1, v0, v1, level)
			right := interpCrossing(p1, p2, v1, v2, level)
			top := interpCrossing(p3, p2, v3, v2, level)
			left := interpCrossing(p0, p3, v0, v3, level)

			for _, e := range marchingEdges[idx] {
				pts := [4]orb.Point{bottom, right, top, left}
				segments = append(segments, segment{a: pts[e[0]], b: pts[e[1]]})
			}
		}
	}

	return segments
}

// marchingEdges maps a cell's corner index to the edges its contour
// segments connect: 0=bottom, 1=right, 2=top, 3=left. Ambiguous saddle
// cases (5, 10) use the default disambiguation.
var marchingEdges = [16][][2]int{
	1:  {{3, 0}},
	2:  {{0, 1}},
	3:  {{3, 1}},
	4:  {{1, 2}},
	5:  {{3, 2}, {0, 1}},
	6:  {{0, 2}},
	7:  {{3, 2}},
	8:  {{2, 3}},
	9:  {{0, 2}},
	10: {{3, 0}, {1, 2}},
	11: {{1, 2}},
	12: {{1, 3}},
	13: {{0, 1}},
	14: {{3, 0}},
}

func interpCrossing(a, b Point, va, vb, level float64) orb.Point {
	if math.Abs(vb-va) < 1e-12 {
		return orb.Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
	}
	t := (level - va) / (vb - va)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return orb.Point{a.X + t*(b.X-a.X), a.Y + t*(b.Y-a.Y)}
}

// chainSegments joins raw marching-squares segments into polylines by
// matching endpoints within tol. Greedy but deterministic: segments are
// consumed in emission order, which is fixed by grid traversal order.
func chainSegments(segments []segment, tol float64) []orb.LineString {
	used := make([]bool, len(segments))
	var lines []orb.LineString

	for i := range segments {
		if used[i] {
			continue
		}
		used[i] = true
		line := orb.LineString{segments[i].a, segments[i].b}

		// Extend forward from the tail, then backward from the head.
		for extended := true; extended; {
			extended = false
			tail := line[len(line)-1]
			head := line[0]
			for j := range segments {
				if used[j] {
					continue
				}
				switch {
				case pointsClose(tail, segments[j].a, tol):
					line = append(line, segments[j].b)
				case pointsClose(tail, segments[j].b, tol):
					line = append(line, segments[j].a)
				case pointsClose(head, segments[j].b, tol):
					line = append(orb.LineString{segments[j].a}, line...)
				case pointsClose(head, segments[j].a, tol):
					line = append(orb.LineString{segments[j].b}, line...)
				default:
					continue
				}
				used[j] = true
				extended = true
				break
			}
		}

		lines = append(lines, line)
	}

	return lines
}

func pointsClose(a, b orb.Point, tol float64) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx+dy*dy <= tol*tol
}

// ContoursToFeatureCollection exports contours as GeoJSON line features
// tagged with their signal level.
func ContoursToFeatureCollection(contours []Contour, floor int) *FeatureCollection {
	fc := NewFeatureCollection()
	for _, c := range contours {
		for _, ls := range c.Lines {
			path := make([]Point, len(ls))
			for i, p := range ls {
				path[i] = Point{X: p[0], Y: p[1]}
			}
			fc.AddFeature(NewFeature(LineGeometry(path), map[string]interface{}{
				"kind":  "contour",
				"level": c.Level,
				"floor": floor,
			}))
		}
	}
	return fc
}
