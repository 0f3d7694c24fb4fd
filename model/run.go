package model

import (
	"image"
	"math"
	"strings"
)

// PositionedRun is one fragment of text on a page.
// X and Y are the origin of the run's text matrix in PDF user space, so
// larger Y values are higher on the page.
type PositionedRun struct {
	Text string
	X, Y float64

	// Width is the advance of the whole run in user space units (0 if unknown)
	Width float64

	// FontSize in user space units (0 if unknown)
	FontSize float64

	// EndsLine is true for the last run of a visual line
	EndsLine bool
}

// Right returns the X coordinate where the run ends.
func (r PositionedRun) Right() float64 {
	return r.X + r.Width
}

// IsBlank reports whether the run carries no visible text.
func (r PositionedRun) IsBlank() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Viewport is the pixel geometry of a page at a given scale.
type Viewport struct {
	Width    float64
	Height   float64
	Scale    float64
	Rotation int
}

// Pixels returns the raster bounds needed to draw the viewport.
func (v Viewport) Pixels() image.Rectangle {
	w := int(math.Ceil(v.Width))
	h := int(math.Ceil(v.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Rect(0, 0, w, h)
}

// ToDevice maps a point in PDF user space to raster coordinates with row 0
// at the top of the rotated page. Rotation is clockwise in multiples of 90.
func (v Viewport) ToDevice(x, y float64) (float64, float64) {
	s := v.Scale
	if s == 0 {
		s = 1
	}
	switch NormalizeRotation(v.Rotation) {
	case 90:
		return y * s, x * s
	case 180:
		return v.Width - x*s, y * s
	case 270:
		return v.Width - y*s, v.Height - x*s
	default:
		return x * s, v.Height - y*s
	}
}

// NormalizeRotation folds a rotation in degrees into 0, 90, 180 or 270.
func NormalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg / 90 * 90
}
