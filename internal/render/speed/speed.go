// Package speed draws the circular speed and power dial.
//
// The ring carries two arcs. Speed sweeps clockwise from 6 o'clock over at
// most three quarters of a turn. Power starts at 3 o'clock: regeneration
// sweeps down toward 6 o'clock over at most a quarter turn, consumption
// sweeps up toward 12 o'clock over at most a quarter turn. Both use a log
// scale so small values stay visible.
package speed

import (
	"math"
	"strconv"
	"time"

	"github.com/fogleman/gg"

	"github.com/rook-computer/vtdash/internal/metrics"
	"github.com/rook-computer/vtdash/internal/render/canvas"
)

// Full-scale inputs of the log scales: speed in mph, regeneration and draw
// in kW.
const (
	MaxSpeed = 120
	MaxRegen = 60
	MaxDraw  = 240

	// Epsilon keeps arcs from collapsing to nothing or closing into a full
	// circle when the log scale lands exactly on a boundary.
	Epsilon = 0.001

	speedStart = math.Pi / 2
	speedSweep = 1.5 * math.Pi
)

var (
	ringStops  = canvas.Stops{{0, canvas.CSS("#666")}, {0.25, canvas.CSS("#666")}, {0.75, canvas.CSS("#ddd")}, {1, canvas.CSS("#666")}}
	speedStops = canvas.Stops{{0, canvas.CSS("#4D4DFF")}, {0.25, canvas.CSS("#4D4DFF")}, {0.75, canvas.CSS("#A3C2FF")}, {1, canvas.CSS("#4D4DFF")}}
	regenStops = canvas.Stops{{0, canvas.CSS("#006600")}, {0.25, canvas.CSS("#006600")}, {0.75, canvas.CSS("#009900")}, {1, canvas.CSS("#006600")}}
	drawStops  = canvas.Stops{{0, canvas.CSS("#FF9900")}, {0.25, canvas.CSS("#FF9900")}, {0.75, canvas.CSS("#FFD699")}, {1, canvas.CSS("#FF9900")}}
	faceStops  = canvas.Stops{
		{0, canvas.CSS("#111")}, {0.45, canvas.CSS("#555")}, {0.5, canvas.CSS("#666")},
		{0.55, canvas.CSS("#555")}, {1, canvas.CSS("#111")},
	}
)

// LogScale maps v in (0, max] onto (-inf, 1]. v is capped at max first.
// Callers handle v <= 0 themselves.
func LogScale(v, max float64) float64 {
	return math.Log(math.Min(v, max)) / math.Log(max)
}

// ArcSpec is an arc in canvas terms.
type ArcSpec struct {
	Start            float64
	End              float64
	CounterClockwise bool
}

// Sweep is the signed angle actually drawn: positive clockwise.
func (a ArcSpec) Sweep() float64 {
	a1, a2 := canvas.ArcSweep(a.Start, a.End, a.CounterClockwise)
	return a2 - a1
}

// SpeedArc starts at 6 o'clock and runs clockwise. Zero speed is a zero
// length arc; speeds up to 1 mph clamp to a sliver.
func SpeedArc(speed float64) ArcSpec {
	arc := ArcSpec{Start: speedStart, End: speedStart}
	if speed <= 0 || math.IsNaN(speed) {
		return arc
	}
	arc.End = speedStart + speedSweep*LogScale(speed, MaxSpeed)
	if arc.End <= arc.Start {
		arc.End = arc.Start + Epsilon
	}
	return arc
}

// PowerArc starts at 3 o'clock. Regeneration runs clockwise to at most a
// quarter turn; consumption runs counterclockwise, its end angle kept
// strictly below a full turn.
func PowerArc(power float64) ArcSpec {
	switch {
	case power < 0:
		end := 0.5 * math.Pi * LogScale(math.Min(-power, MaxRegen), MaxRegen)
		if end <= 0 {
			end = Epsilon
		}
		return ArcSpec{Start: 0, End: end}
	case power > 0:
		end := (2 - 0.5*LogScale(math.Min(power, MaxDraw), MaxDraw)) * math.Pi
		if end > 2*math.Pi-Epsilon {
			end = 2*math.Pi - Epsilon
		}
		return ArcSpec{Start: 0, End: end, CounterClockwise: true}
	}
	return ArcSpec{}
}

// Dial is the geometry of a gauge of a given size.
type Dial struct {
	CX, CY float64
	Outer  float64
	Inner  float64
}

// Geometry reserves a 1px border and centers the dial in what remains.
func Geometry(w, h float64) Dial {
	w, h = w-2, h-2
	outer := math.Min(w, h) / 2
	return Dial{CX: w/2 + 1, CY: h/2 + 1, Outer: outer, Inner: outer * 0.75}
}

// Gauge renders speed dials. It holds no per-render state, so one Gauge
// may serve concurrent renders; font faces are built for each render.
type Gauge struct{}

func NewGauge() *Gauge {
	return &Gauge{}
}

// Render draws a w x h dial at the surface origin. Negative speed is drawn
// as zero.
func (g *Gauge) Render(s canvas.Surface, w, h, speed, power float64) {
	start := time.Now()
	defer func() {
		metrics.RenderDuration.WithLabelValues("speed").Observe(time.Since(start).Seconds())
	}()
	if speed < 0 || math.IsNaN(speed) {
		speed = 0
	}

	d := Geometry(w, h)
	ring := func(stops canvas.Stops) gg.Gradient {
		return canvas.RadialGradient(stops, d.CX, d.CY, d.Inner, d.Outer)
	}

	s.SetLineWidth(2)
	canvas.Circle(s, d.CX, d.CY, d.Outer, ring(ringStops), canvas.Solid("#555"))
	canvas.Line(s, d.CX, 1, d.CX, h-1, 1, canvas.Solid("#222"))

	sa := SpeedArc(speed)
	canvas.Arc(s, sa.Start, sa.End, sa.CounterClockwise, d.CX, d.CY, d.Outer, ring(speedStops), nil)

	pa := PowerArc(power)
	powerStops := drawStops
	if power < 0 {
		powerStops = regenStops
	}
	canvas.Arc(s, pa.Start, pa.End, pa.CounterClockwise, d.CX, d.CY, d.Outer, ring(powerStops), nil)

	s.SetLineWidth(1)
	face := canvas.LinearGradient(faceStops, d.CX-d.Inner, d.CY-d.Inner, d.CX+d.Inner, d.CY+d.Inner)
	canvas.Circle(s, d.CX, d.CY, d.Inner, face, canvas.Solid("#222"))

	faces := canvas.NewFaces()
	label(s, faces, formatWhole(speed), d.Inner*0.8, "white", d.CX, d.CY-7)
	powerColor := "orange"
	if power < 0 {
		powerColor = "lightgreen"
	}
	label(s, faces, formatWhole(math.Abs(power)), d.Inner*0.5, powerColor, d.CX, d.CY+d.Inner*0.5)
}

func label(s canvas.Surface, faces *canvas.Faces, text string, px float64, color string, x, y float64) {
	if px <= 0 {
		return
	}
	s.SetFontFace(faces.Face(px))
	s.SetColor(canvas.MustParseColor(color))
	s.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

func formatWhole(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}
