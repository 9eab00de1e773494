package canvas

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

// Stop is one entry of a color stop table.
type Stop struct {
	Offset float64
	Color  ColorSpec
}

// Stops is an ordered color stop table. Tables are static and never
// modified after definition.
type Stops []Stop

// Validate checks that offsets start at 0, end at 1, never decrease and
// that every color parses.
func (stops Stops) Validate() error {
	if len(stops) < 2 {
		return fmt.Errorf("need at least 2 stops, got %d", len(stops))
	}
	if stops[0].Offset != 0 {
		return fmt.Errorf("first stop at %g, want 0", stops[0].Offset)
	}
	if last := stops[len(stops)-1].Offset; last != 1 {
		return fmt.Errorf("last stop at %g, want 1", last)
	}
	for i, stop := range stops {
		if i > 0 && stop.Offset < stops[i-1].Offset {
			return fmt.Errorf("stop %d at %g precedes stop %d at %g", i, stop.Offset, i-1, stops[i-1].Offset)
		}
		if stop.Color == nil {
			return fmt.Errorf("stop %d has no color", i)
		}
		if _, err := ParseColor(stop.Color.String()); err != nil {
			return fmt.Errorf("stop %d: %w", i, err)
		}
	}
	return nil
}

// LinearGradient builds a gradient from (x0,y0) to (x1,y1) carrying every stop.
func LinearGradient(stops Stops, x0, y0, x1, y1 float64) gg.Gradient {
	grad := gg.NewLinearGradient(x0, y0, x1, y1)
	addStops(grad, stops)
	return grad
}

// RadialGradient builds a gradient between two concentric circles at (cx,cy).
func RadialGradient(stops Stops, cx, cy, innerRadius, outerRadius float64) gg.Gradient {
	grad := gg.NewRadialGradient(cx, cy, innerRadius, cx, cy, outerRadius)
	addStops(grad, stops)
	return grad
}

// Triples are registered through their rgb() string form so both kinds of
// table take the same path. Unparseable colors register as transparent.
func addStops(grad gg.Gradient, stops Stops) {
	for _, stop := range stops {
		var c color.Color = color.Transparent
		if stop.Color != nil {
			if parsed, err := ParseColor(stop.Color.String()); err == nil {
				c = parsed
			}
		}
		grad.AddColorStop(stop.Offset, c)
	}
}

// Solid wraps a color spec as a fill or stroke pattern.
func Solid(spec string) gg.Pattern {
	c, err := ParseColor(spec)
	if err != nil {
		c = color.Transparent
	}
	return gg.NewSolidPattern(c)
}
