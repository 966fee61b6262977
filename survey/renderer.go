package survey

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// HeatmapRenderer rasterizes one floor's predicted-signal surface as a PNG:
// a red-to-green signal ramp with room labels and recommendation markers.
type HeatmapRenderer struct {
	Result     *AnalysisResult
	Floor      int
	Resolution int     // grid cells along the longer axis (default 120)
	PixelsPer  float64 // output pixels per grid cell (default 4)
	ShowLabels bool
}

// NewHeatmapRenderer creates a renderer with default settings.
func NewHeatmapRenderer(result *AnalysisResult, floor int) *HeatmapRenderer {
	return &HeatmapRenderer{
		Result:     result,
		Floor:      floor,
		Resolution: 120,
		PixelsPer:  4,
		ShowLabels: true,
	}
}

// Render produces the heatmap image, or an error when the floor has no
// rooms to render.
func (r *HeatmapRenderer) Render() (*image.NRGBA, error) {
	grid, ok := r.Result.Heatmap(r.Floor, r.Resolution)
	if !ok {
		return nil, fmt.Errorf("no rooms on floor %d", r.Floor)
	}

	scale := r.PixelsPer
	if scale <= 0 {
		scale = 4
	}
	width := int(math.Ceil(float64(grid.Cols) * scale))
	height := int(math.Ceil(float64(grid.Rows) * scale))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for py := 0; py < height; py++ {
		for px := 0; px < width; px++ {
			col := int(float64(px) / scale)
			row := int(float64(py) / scale)
			if col >= grid.Cols {
				col = grid.Cols - 1
			}
			if row >= grid.Rows {
				row = grid.Rows - 1
			}
			// Flip Y so north is up in the image.
			img.SetNRGBA(px, height-1-py, signalColor(grid.At(col, row)))
		}
	}

	toImage := func(p Point) (int, int) {
		px := int((p.X - grid.MinX) / grid.CellSize * scale)
		py := int((p.Y - grid.MinY) / grid.CellSize * scale)
		return px, height - 1 - py
	}

	for _, room := range RoomsOnFloor(r.Result.Rooms, r.Floor) {
		px, py := toImage(room.Position)
		drawMarker(img, px, py, color.NRGBA{0, 0, 0, 255}, 3)
		if r.ShowLabels {
			drawLabel(img, px+5, py-5, fmt.Sprintf("%s %.0f%%", room.Name, room.Signal*100))
		}
	}

	if rec := r.Result.Router; rec != nil && rec.Floor == r.Floor {
		for _, room := range RoomsOnFloor(r.Result.Rooms, r.Floor) {
			if room.Name == rec.Room {
				px, py := toImage(room.Position)
				drawMarker(img, px, py, color.NRGBA{0, 0, 255, 255}, 6)
				if r.ShowLabels {
					drawLabel(img, px+8, py+12, "ROUTER")
				}
				break
			}
		}
	}

	for _, e := range r.Result.Extenders {
		if e.Floor != r.Floor {
			continue
		}
		px, py := toImage(e.Position)
		drawMarker(img, px, py, color.NRGBA{128, 0, 128, 255}, 5)
		if r.ShowLabels {
			drawLabel(img, px+8, py+12, fmt.Sprintf("EXT %d", e.Priority))
		}
	}

	return img, nil
}

// RenderPNG renders the heatmap and encodes it to the writer.
func (r *HeatmapRenderer) RenderPNG(w io.Writer) error {
	img, err := r.Render()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// signalColor maps a signal in [0, 1] to a red-yellow-green ramp.
// Zero signal renders as a dim gray so dead zones are visually distinct
// from merely weak ones.
func signalColor(signal float64) color.NRGBA {
	if signal <= 0 {
		return color.NRGBA{40, 40, 40, 255}
	}
	s := clamp01(signal)
	if s < 0.5 {
		// red -> yellow
		t := s / 0.5
		return color.NRGBA{255, uint8(220 * t), 0, 255}
	}
	// yellow -> green
	t := (s - 0.5) / 0.5
	return color.NRGBA{uint8(255 * (1 - t)), uint8(220 - 40*t), 0, 255}
}

// drawMarker draws a filled square marker centered at (x, y).
func drawMarker(img *image.NRGBA, x, y int, c color.NRGBA, half int) {
	b := img.Bounds()
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			px, py := x+dx, y+dy
			if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
				img.SetNRGBA(px, py, c)
			}
		}
	}
}

// drawLabel renders small text at (x, y) using the built-in 7x13 face.
func drawLabel(img *image.NRGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{0, 0, 0, 255}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
