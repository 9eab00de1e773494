// Package battery draws a horizontal battery gauge: a metallic base, a
// shaded interior partly filled with a red, yellow or green band, a
// metallic top and a small cathode nub, plus a plug icon while charging.
package battery

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/metrics"
	"github.com/rook-computer/vtdash/internal/render/canvas"
)

const (
	capRatio      = 0.08
	cathodeRatio  = 0.4
	plugScale     = 0.8
	bodyRadius    = 4
	cathodeRadius = 2
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Layout is the horizontal breakdown of a gauge of a given size.
type Layout struct {
	Width, Height float64
	Base          float64
	Interior      float64
	Top           float64
	Cathode       float64
	CathodeHeight float64
	CathodeY      float64
}

// Geometry splits w into base, interior, top and cathode. The three caps
// are each 8% of the interior width.
func Geometry(w, h float64) Layout {
	interior := w / (1 + capRatio*3)
	capW := interior * capRatio
	ch := cathodeRatio * h
	return Layout{
		Width:         w,
		Height:        h,
		Base:          capW,
		Interior:      interior,
		Top:           capW,
		Cathode:       capW,
		CathodeHeight: ch,
		CathodeY:      (h-ch)/2 - 1,
	}
}

// Band is the color class of the charge fill.
type Band int

const (
	Red Band = iota
	Yellow
	Green
)

func (b Band) String() string {
	switch b {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	}
	return "green"
}

func (b Band) Stops() canvas.Stops {
	switch b {
	case Red:
		return redStops
	case Yellow:
		return yellowStops
	}
	return greenStops
}

// BandFor picks the band; both thresholds are inclusive.
func BandFor(pct float64) Band {
	switch {
	case pct <= 33:
		return Red
	case pct <= 66:
		return Yellow
	}
	return Green
}

// ClampPercent limits pct to [0,100]; NaN counts as empty.
func ClampPercent(pct float64) float64 {
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// FillWidth is the width of the charge band inside the interior.
func FillWidth(pct, interior float64) float64 {
	return ClampPercent(pct) / 100 * interior
}

// PlugRect fits an image of imgW x imgH into 80% of the interior, keeping
// its aspect ratio, and centers it in the interior.
func PlugRect(l Layout, imgW, imgH int) (x, y, w, h float64) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0, 0, 0
	}
	w = plugScale * l.Interior
	h = w / float64(imgW) * float64(imgH)
	if h > plugScale*l.Height {
		h = plugScale * l.Height
		w = h / float64(imgH) * float64(imgW)
	}
	x = (l.Interior-w)/2 + l.Base
	y = (l.Height - h) / 2
	return x, y, w, h
}

// Gauge renders battery gauges. The plug icon is fetched once through
// Loader on the first charging render and shared by later renders; a
// failed fetch is retried on the next charging render.
type Gauge struct {
	Loader  assets.Loader
	PlugURL string
	Logger  Logger

	mu   sync.Mutex
	plug *assets.Future
}

func NewGauge(loader assets.Loader, plugURL string, logger Logger) *Gauge {
	return &Gauge{Loader: loader, PlugURL: plugURL, Logger: logger}
}

// Render draws a w x h gauge at the surface origin. While charging it waits,
// within ctx, for the plug icon and draws it over the interior; if the icon
// cannot be loaded the gauge is drawn without it.
func (g *Gauge) Render(ctx context.Context, s canvas.Surface, w, h, pct float64, charging bool) {
	start := time.Now()
	defer func() {
		metrics.RenderDuration.WithLabelValues("battery").Observe(time.Since(start).Seconds())
	}()

	var plug *assets.Future
	if charging {
		plug = g.plugFuture()
	}

	l := Geometry(w, h)
	pct = ClampPercent(pct)
	metal := canvas.LinearGradient(metalStops, 0, 0, 0, h)

	x := 0.0
	canvas.RoundedRect(s, x, 0, l.Base, h, canvas.Radii{UpperLeft: bodyRadius, LowerLeft: bodyRadius}, metal, nil)
	x += l.Base

	canvas.Rect(s, x, 0, l.Interior, h, canvas.LinearGradient(backgroundStops, 0, 0, 0, h), nil)
	canvas.Rect(s, x, 0, FillWidth(pct, l.Interior), h, canvas.LinearGradient(BandFor(pct).Stops(), 0, 0, 0, h), nil)
	x += l.Interior

	canvas.RoundedRect(s, x, 0, l.Top, h, canvas.Radii{UpperRight: bodyRadius, LowerRight: bodyRadius}, metal, nil)
	x += l.Top

	cathode := canvas.LinearGradient(metalStops, 0, l.CathodeY, 0, l.CathodeY+l.CathodeHeight)
	canvas.RoundedRect(s, x, l.CathodeY, l.Cathode, l.CathodeHeight, canvas.Radii{UpperRight: cathodeRadius, LowerRight: cathodeRadius}, cathode, nil)

	if plug != nil {
		g.drawPlug(ctx, s, l, plug)
	}
}

func (g *Gauge) plugFuture() *assets.Future {
	if g.Loader == nil || g.PlugURL == "" {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.plug == nil || g.plug.Failed() {
		// Shared across renders, so not tied to any one render's context.
		g.plug = assets.Go(context.Background(), g.Loader, g.PlugURL)
	}
	return g.plug
}

func (g *Gauge) drawPlug(ctx context.Context, s canvas.Surface, l Layout, plug *assets.Future) {
	img, err := plug.Wait(ctx)
	if err != nil {
		g.errorf("plug icon unavailable, drawing without it: %v", err)
		return
	}
	b := img.Bounds()
	x, y, w, h := PlugRect(l, b.Dx(), b.Dy())
	canvas.DrawImageScaled(s, img, x, y, w, h)
}

func (g *Gauge) errorf(format string, args ...interface{}) {
	if g.Logger != nil {
		g.Logger.Errorf("battery", format, args...)
	}
}
