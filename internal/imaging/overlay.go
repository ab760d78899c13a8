package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/microquant/cytometrics/internal/geometry"
)

// Merge composes blue, green, and red planes into a color image. The
// plane order mirrors the BGR convention of the reference tool's debug
// output. All planes must share the same bounds.
func Merge(bluePlane, greenPlane, redPlane *image.Gray) *image.NRGBA {
	bounds := bluePlane.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := bluePlane.PixOffset(x, y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: redPlane.Pix[i],
				G: greenPlane.Pix[i],
				B: bluePlane.Pix[i],
				A: 255,
			})
		}
	}
	return out
}

// ObjectColor returns a distinct, stable color for the i-th object of an
// overlay. Hues advance by the golden angle so neighboring indices stay
// visually separated.
func ObjectColor(i int) color.NRGBA {
	hue := math.Mod(float64(i)*137.507764, 360)
	r, g, b := colorful.Hsv(hue, 0.85, 0.95).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// DrawBoundary strokes a closed polygon outline onto dst, one pixel wide.
// Points outside dst's bounds are clipped silently.
func DrawBoundary(dst draw.Image, boundary geometry.Polygon, c color.Color) {
	n := len(boundary)
	if n == 0 {
		return
	}
	if n == 1 {
		setPixel(dst, int(boundary[0].X), int(boundary[0].Y), c)
		return
	}
	for i := 0; i < n; i++ {
		a := boundary[i]
		b := boundary[(i+1)%n]
		drawLine(dst, int(a.X), int(a.Y), int(b.X), int(b.Y), c)
	}
}

// drawLine draws a line segment using Bresenham's algorithm.
func drawLine(dst draw.Image, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		setPixel(dst, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func setPixel(dst draw.Image, x, y int, c color.Color) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.Set(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
