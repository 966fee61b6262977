package survey

import "math"

// kernel is one radially decaying signal source on a floor.
type kernel struct {
	center Point
	signal float64
	radius float64
}

// value returns the kernel's contribution at distance d from its center:
// the full signal out to plateau*radius, a linear decay to zero at
// falloff*radius, and zero beyond.
func (k kernel) value(d, plateau, falloff float64) float64 {
	if k.radius <= 0 {
		return 0
	}
	inner := k.radius * plateau
	outer := k.radius * falloff
	switch {
	case d <= inner:
		return k.signal
	case d < outer:
		return k.signal * (outer - d) / (outer - inner)
	default:
		return 0
	}
}

// Surface is the continuous predicted-signal function built from positioned
// rooms. Each room contributes one kernel on its floor; the prediction at a
// point is the maximum over overlapping kernels, modeling non-constructive
// combination of independent sources. A Surface is immutable once built.
type Surface struct {
	kernels map[int][]kernel // keyed by floor
	cfg     EngineConfig
}

// BuildSurface constructs the predicted-signal surface from resolved rooms.
// Kernel radius grows with the room's signal: a stronger measurement implies
// a closer or less obstructed source with a larger influence footprint.
// Zero rooms yields a surface that predicts 0 everywhere.
func BuildSurface(rooms []Room, cfg EngineConfig) *Surface {
	cfg = cfg.withDefaults()
	s := &Surface{
		kernels: make(map[int][]kernel),
		cfg:     cfg,
	}
	for _, r := range rooms {
		s.kernels[r.Floor] = append(s.kernels[r.Floor], kernel{
			center: r.Position,
			signal: r.Signal,
			radius: cfg.kernelRadius(r.Signal),
		})
	}
	return s
}

func (c EngineConfig) kernelRadius(signal float64) float64 {
	return c.KernelBaseRadius + c.KernelRadiusScale*signal
}

// Predict returns the estimated signal at a point on a floor, in [0, 1].
// With no samples on the floor the prediction is 0.
func (s *Surface) Predict(p Point, floor int) float64 {
	if s == nil {
		return 0
	}
	best := 0.0
	for _, k := range s.kernels[floor] {
		v := k.value(Distance(p, k.center), s.cfg.KernelPlateau, s.cfg.KernelFalloff)
		if v > best {
			best = v
		}
	}
	return best
}

// PredictWithSource returns the estimated signal at a point if an additional
// source of the given strength were placed at src on the same floor. Used to
// score hypothetical router and extender placements without mutating the
// surface.
func (s *Surface) PredictWithSource(p Point, floor int, src Point, strength float64) float64 {
	base := s.Predict(p, floor)
	added := kernel{
		center: src,
		signal: strength,
		radius: s.cfg.kernelRadius(strength),
	}
	v := added.value(Distance(p, src), s.cfg.KernelPlateau, s.cfg.KernelFalloff)
	return math.Max(base, v)
}

// SourceOnly returns the signal a standalone source of the given strength at
// src would deliver to point p, ignoring every measured kernel.
func (s *Surface) SourceOnly(p, src Point, strength float64) float64 {
	k := kernel{
		center: src,
		signal: strength,
		radius: s.cfg.kernelRadius(strength),
	}
	return k.value(Distance(p, src), s.cfg.KernelPlateau, s.cfg.KernelFalloff)
}

// Grid is a dense row-major sampling of the surface over a bounding box,
// consumed by the heatmap renderer and the contour extractor.
type Grid struct {
	Floor    int
	MinX     float64
	MinY     float64
	CellSize float64
	Cols     int
	Rows     int
	Values   []float64 // row-major, len = Cols*Rows
}

// At returns the sampled value at grid cell (col, row).
func (g *Grid) At(col, row int) float64 {
	return g.Values[row*g.Cols+col]
}

// CellCenter returns the world coordinate at the center of cell (col, row).
func (g *Grid) CellCenter(col, row int) Point {
	return Point{
		X: g.MinX + (float64(col)+0.5)*g.CellSize,
		Y: g.MinY + (float64(row)+0.5)*g.CellSize,
	}
}

// SampleGrid evaluates the surface over [min, max] at the given resolution
// (cells along the longer axis). Resolution below 2 is clamped to 2.
func (s *Surface) SampleGrid(floor int, min, max Point, resolution int) *Grid {
	if resolution < 2 {
		resolution = 2
	}
	width := max.X - min.X
	height := max.Y - min.Y
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	longer := math.Max(width, height)
	cellSize := longer / float64(resolution)
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))

	g := &Grid{
		Floor:    floor,
		MinX:     min.X,
		MinY:     min.Y,
		CellSize: cellSize,
		Cols:     cols,
		Rows:     rows,
		Values:   make([]float64, cols*rows),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			g.Values[row*cols+col] = s.Predict(g.CellCenter(col, row), floor)
		}
	}

	return g
}

// FloorBounds returns the bounding box of rooms on a floor, padded by the
// largest kernel falloff distance so heatmaps include the decay fringe.
// The second return is false when the floor has no rooms.
func FloorBounds(rooms []Room, floor int, cfg EngineConfig) (Point, Point, bool) {
	cfg = cfg.withDefaults()

	minP := Point{X: math.MaxFloat64, Y: math.MaxFloat64}
	maxP := Point{X: -math.MaxFloat64, Y: -math.MaxFloat64}
	found := false
	for _, r := range rooms {
		if r.Floor != floor {
			continue
		}
		found = true
		minP.X = math.Min(minP.X, r.Position.X)
		minP.Y = math.Min(minP.Y, r.Position.Y)
		maxP.X = math.Max(maxP.X, r.Position.X)
		maxP.Y = math.Max(maxP.Y, r.Position.Y)
	}
	if !found {
		return Point{}, Point{}, false
	}

	pad := cfg.kernelRadius(1.0) * cfg.KernelFalloff
	minP.X -= pad
	minP.Y -= pad
	maxP.X += pad
	maxP.Y += pad
	return minP, maxP, true
}
