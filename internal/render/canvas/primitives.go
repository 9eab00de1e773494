// Package canvas holds the drawing primitives shared by the gauges and the
// vehicle view. Every primitive takes the surface explicitly; a nil fill or
// stroke pattern skips that operation rather than defaulting it.
package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// Surface is the part of a 2D context the renderers draw through.
// *gg.Context satisfies it.
type Surface interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticTo(x1, y1, x2, y2 float64)
	ClosePath()
	ClearPath()
	DrawArc(x, y, r, angle1, angle2 float64)
	DrawRectangle(x, y, w, h float64)

	SetFillStyle(pattern gg.Pattern)
	SetStrokeStyle(pattern gg.Pattern)
	SetLineWidth(lineWidth float64)
	FillPreserve()
	StrokePreserve()

	DrawImage(im image.Image, x, y int)

	SetColor(c color.Color)
	SetFontFace(fontFace font.Face)
	DrawStringAnchored(s string, x, y, ax, ay float64)
}

var _ Surface = (*gg.Context)(nil)

// Radii holds per-corner radii; zero means a square corner.
type Radii struct {
	UpperLeft, UpperRight, LowerLeft, LowerRight float64
}

// RoundedRect draws a closed rectangle whose corners are quadratic curves.
func RoundedRect(s Surface, x, y, width, height float64, radii Radii, fill, stroke gg.Pattern) {
	s.ClearPath()
	s.MoveTo(x+radii.UpperLeft, y)
	s.LineTo(x+width-radii.UpperRight, y)
	s.QuadraticTo(x+width, y, x+width, y+radii.UpperRight)
	s.LineTo(x+width, y+height-radii.LowerRight)
	s.QuadraticTo(x+width, y+height, x+width-radii.LowerRight, y+height)
	s.LineTo(x+radii.LowerLeft, y+height)
	s.QuadraticTo(x, y+height, x, y+height-radii.LowerLeft)
	s.LineTo(x, y+radii.UpperLeft)
	s.QuadraticTo(x, y, x+radii.UpperLeft, y)
	s.ClosePath()
	fillStroke(s, fill, stroke)
}

// Rect draws an axis-aligned rectangle. Non-positive sizes draw nothing.
func Rect(s Surface, x, y, width, height float64, fill, stroke gg.Pattern) {
	if width <= 0 || height <= 0 {
		return
	}
	s.ClearPath()
	s.DrawRectangle(x, y, width, height)
	fillStroke(s, fill, stroke)
}

// Arc draws a pie slice: center, along the arc, back to the center.
func Arc(s Surface, start, end float64, counterclockwise bool, cx, cy, radius float64, fill, stroke gg.Pattern) {
	a1, a2 := ArcSweep(start, end, counterclockwise)
	s.ClearPath()
	s.MoveTo(cx, cy)
	s.DrawArc(cx, cy, radius, a1, a2)
	s.ClosePath()
	fillStroke(s, fill, stroke)
}

// Circle draws a full 0..2π arc.
func Circle(s Surface, cx, cy, radius float64, fill, stroke gg.Pattern) {
	s.ClearPath()
	s.DrawArc(cx, cy, radius, 0, 2*math.Pi)
	s.ClosePath()
	fillStroke(s, fill, stroke)
}

// Line strokes a single segment.
func Line(s Surface, x0, y0, x1, y1, width float64, stroke gg.Pattern) {
	s.ClearPath()
	s.MoveTo(x0, y0)
	s.LineTo(x1, y1)
	s.SetLineWidth(width)
	fillStroke(s, nil, stroke)
}

// ArcSweep resolves an HTML-canvas style arc into the explicit angle pair
// gg walks linearly. Clockwise arcs end at or after start, counterclockwise
// arcs at or before it; a requested sweep of a full turn or more is drawn
// as exactly one turn.
func ArcSweep(start, end float64, counterclockwise bool) (float64, float64) {
	const turn = 2 * math.Pi
	if !counterclockwise {
		if end-start >= turn {
			return start, start + turn
		}
		return start, start + positiveMod(end-start, turn)
	}
	if start-end >= turn {
		return start, start - turn
	}
	return start, start - positiveMod(start-end, turn)
}

func positiveMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// DrawImageScaled draws img into the (x, y, width, height) box.
func DrawImageScaled(s Surface, img image.Image, x, y, width, height float64) {
	scaled := ScaleImage(img, width, height)
	if scaled == nil {
		return
	}
	s.DrawImage(scaled, int(math.Round(x)), int(math.Round(y)))
}

// ScaleImage resamples img to width x height, rounded to whole pixels. It
// returns img itself when no resampling is needed and nil for empty sizes.
func ScaleImage(img image.Image, width, height float64) image.Image {
	w, h := int(math.Round(width)), int(math.Round(height))
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		return img
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return scaled
}

func fillStroke(s Surface, fill, stroke gg.Pattern) {
	if fill != nil {
		s.SetFillStyle(fill)
		s.FillPreserve()
	}
	if stroke != nil {
		s.SetStrokeStyle(stroke)
		s.StrokePreserve()
	}
	s.ClearPath()
}
