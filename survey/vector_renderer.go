package survey

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// nrgbaToRGBA converts color.NRGBA to color.RGBA by premultiplying alpha.
// The canvas library expects premultiplied RGBA.
func nrgbaToRGBA(c color.NRGBA) color.RGBA {
	if c.A == 0 {
		return color.RGBA{0, 0, 0, 0}
	}
	if c.A == 255 {
		return color.RGBA{c.R, c.G, c.B, 255}
	}
	alpha32 := uint32(c.A)
	return color.RGBA{
		R: uint8((uint32(c.R) * alpha32) / 255),
		G: uint8((uint32(c.G) * alpha32) / 255),
		B: uint8((uint32(c.B) * alpha32) / 255),
		A: c.A,
	}
}

// PlanRenderer renders one floor of an analysis result as a vector floor
// plan: signal-colored room rectangles, iso-signal contour lines, grid
// lines, and router/extender markers.
type PlanRenderer struct {
	Result      *AnalysisResult
	Floor       int
	Padding     float64           // padding around the plan, meters
	GridSpacing float64           // grid line spacing in meters; 0 disables
	Resolution  canvas.Resolution // resolution for PNG output (default 300 DPI)
	ContourRes  int               // grid resolution for contour extraction
}

// NewPlanRenderer creates a plan renderer with default settings.
func NewPlanRenderer(result *AnalysisResult, floor int) *PlanRenderer {
	return &PlanRenderer{
		Result:      result,
		Floor:       floor,
		Padding:     1.0,
		GridSpacing: 1.0,
		Resolution:  canvas.DPI(300),
		ContourRes:  80,
	}
}

// canvasRenderer is an interface that both svg and rasterizer renderers implement
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the floor plan as an SVG to the provided writer.
func (r *PlanRenderer) RenderToSVG(w io.Writer) error {
	minP, maxP, ok := FloorBounds(r.Result.Rooms, r.Floor, r.Result.Config())
	if !ok {
		return fmt.Errorf("no rooms on floor %d", r.Floor)
	}

	width := (maxP.X - minP.X) + 2*r.Padding
	height := (maxP.Y - minP.Y) + 2*r.Padding

	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, minP, maxP, width, height)

	if err := svgRenderer.Close(); err != nil {
		return err
	}
	return nil
}

// RenderToPNG writes the floor plan as a PNG to the provided writer.
func (r *PlanRenderer) RenderToPNG(w io.Writer) error {
	minP, maxP, ok := FloorBounds(r.Result.Rooms, r.Floor, r.Result.Config())
	if !ok {
		return fmt.Errorf("no rooms on floor %d", r.Floor)
	}

	width := (maxP.X - minP.X) + 2*r.Padding
	height := (maxP.Y - minP.Y) + 2*r.Padding

	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, minP, maxP, width, height)

	return png.Encode(w, rast)
}

// renderToCanvas renders the plan to a canvas renderer (shared logic for SVG and PNG)
func (r *PlanRenderer) renderToCanvas(renderer canvasRenderer, minP, maxP Point, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	toCanvas := func(p Point) (float64, float64) {
		return (p.X - minP.X) + r.Padding, (p.Y - minP.Y) + r.Padding
	}

	// Room rectangles, filled with the signal ramp color.
	for _, room := range RoomsOnFloor(r.Result.Rooms, r.Floor) {
		fill := signalColor(room.Signal)
		fill.A = 170

		roomStyle := canvas.DefaultStyle
		roomStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(fill)}
		roomStyle.Stroke = canvas.Paint{Color: canvas.Black}
		roomStyle.StrokeWidth = 0.03

		hw := room.Size.X / 2
		hh := room.Size.Y / 2
		cp := &canvas.Path{}
		x0, y0 := toCanvas(Point{X: room.Position.X - hw, Y: room.Position.Y - hh})
		x1, y1 := toCanvas(Point{X: room.Position.X + hw, Y: room.Position.Y + hh})
		cp.MoveTo(x0, y0)
		cp.LineTo(x1, y0)
		cp.LineTo(x1, y1)
		cp.LineTo(x0, y1)
		cp.Close()
		renderer.RenderPath(cp, roomStyle, canvas.Identity)
	}

	// Iso-signal contour lines over the sampled surface.
	if grid, ok := r.Result.Heatmap(r.Floor, r.ContourRes); ok {
		contourStyle := canvas.DefaultStyle
		contourStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		contourStyle.Stroke = canvas.Paint{Color: canvas.Darkgray}
		contourStyle.StrokeWidth = 0.02
		contourStyle.Dashes = []float64{0.1, 0.1}

		for _, contour := range ExtractContours(grid, DefaultContourLevels(r.Result.Config())) {
			for _, line := range contour.Lines {
				cp := &canvas.Path{}
				for i, pt := range line {
					cx, cy := toCanvas(Point{X: pt[0], Y: pt[1]})
					if i == 0 {
						cp.MoveTo(cx, cy)
					} else {
						cp.LineTo(cx, cy)
					}
				}
				renderer.RenderPath(cp, contourStyle, canvas.Identity)
			}
		}
	}

	// Grid lines.
	if r.GridSpacing > 0 {
		gridStyle := canvas.DefaultStyle
		gridStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		gridStyle.Stroke = canvas.Paint{Color: canvas.Gray}
		gridStyle.StrokeWidth = 0.01
		gridStyle.Dashes = []float64{0.05, 0.05}

		for x := math.Floor(minP.X/r.GridSpacing) * r.GridSpacing; x <= maxP.X; x += r.GridSpacing {
			gridPath := &canvas.Path{}
			x1, y1 := toCanvas(Point{X: x, Y: minP.Y})
			x2, y2 := toCanvas(Point{X: x, Y: maxP.Y})
			gridPath.MoveTo(x1, y1)
			gridPath.LineTo(x2, y2)
			renderer.RenderPath(gridPath, gridStyle, canvas.Identity)
		}
		for y := math.Floor(minP.Y/r.GridSpacing) * r.GridSpacing; y <= maxP.Y; y += r.GridSpacing {
			gridPath := &canvas.Path{}
			x1, y1 := toCanvas(Point{X: minP.X, Y: y})
			x2, y2 := toCanvas(Point{X: maxP.X, Y: y})
			gridPath.MoveTo(x1, y1)
			gridPath.LineTo(x2, y2)
			renderer.RenderPath(gridPath, gridStyle, canvas.Identity)
		}
	}

	// Router marker: filled circle in the picked room.
	if rec := r.Result.Router; rec != nil && rec.Floor == r.Floor {
		for _, room := range RoomsOnFloor(r.Result.Rooms, r.Floor) {
			if room.Name != rec.Room {
				continue
			}
			routerStyle := canvas.DefaultStyle
			routerStyle.Fill = canvas.Paint{Color: canvas.Blue}
			routerStyle.Stroke = canvas.Paint{Color: canvas.Black}
			routerStyle.StrokeWidth = 0.02

			cx, cy := toCanvas(room.Position)
			marker := canvas.Circle(0.25).Translate(cx, cy)
			renderer.RenderPath(marker, routerStyle, canvas.Identity)
			break
		}
	}

	// Extender markers: smaller circles at the recommended positions.
	for _, e := range r.Result.Extenders {
		if e.Floor != r.Floor {
			continue
		}
		extStyle := canvas.DefaultStyle
		extStyle.Fill = canvas.Paint{Color: canvas.Purple}
		extStyle.Stroke = canvas.Paint{Color: canvas.Black}
		extStyle.StrokeWidth = 0.02

		cx, cy := toCanvas(e.Position)
		marker := canvas.Circle(0.18).Translate(cx, cy)
		renderer.RenderPath(marker, extStyle, canvas.Identity)
	}
}
