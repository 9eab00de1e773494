package battery

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/render/canvas"
)

func TestStopTablesValid(t *testing.T) {
	for name, stops := range map[string]canvas.Stops{
		"red": redStops, "yellow": yellowStops, "green": greenStops,
		"background": backgroundStops, "metal": metalStops,
	} {
		assert.NoError(t, stops.Validate(), name)
	}
	assert.Len(t, redStops, 19)
	assert.Len(t, yellowStops, 19)
	assert.Len(t, greenStops, 19)
	assert.Len(t, backgroundStops, 17)
	assert.Len(t, metalStops, 24)
}

func TestGeometry(t *testing.T) {
	l := Geometry(124, 40)
	assert.InDelta(t, 100, l.Interior, 1e-9)
	assert.InDelta(t, 8, l.Base, 1e-9)
	assert.Equal(t, l.Base, l.Top)
	assert.Equal(t, l.Base, l.Cathode)
	assert.InDelta(t, 16, l.CathodeHeight, 1e-9)
	assert.InDelta(t, 11, l.CathodeY, 1e-9)
	assert.InDelta(t, 124, l.Base+l.Interior+l.Top+l.Cathode, 1e-9)
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, Red, BandFor(0))
	assert.Equal(t, Red, BandFor(33))
	assert.Equal(t, Yellow, BandFor(33.5))
	assert.Equal(t, Yellow, BandFor(66))
	assert.Equal(t, Green, BandFor(67))
	assert.Equal(t, Green, BandFor(100))
	assert.Equal(t, "yellow", Yellow.String())
}

func TestFillWidth(t *testing.T) {
	assert.InDelta(t, 50, FillWidth(50, 100), 1e-9)
	assert.InDelta(t, 33, FillWidth(33, 100), 1e-9)
	assert.Zero(t, FillWidth(-10, 100))
	assert.InDelta(t, 100, FillWidth(150, 100), 1e-9)
}

func TestPlugRect(t *testing.T) {
	l := Geometry(124, 40)

	// Height limited: a square icon in a wide gauge.
	x, y, w, h := PlugRect(l, 10, 10)
	assert.InDelta(t, 32, w, 1e-9)
	assert.InDelta(t, 32, h, 1e-9)
	assert.InDelta(t, 42, x, 1e-9)
	assert.InDelta(t, 4, y, 1e-9)

	// Width limited: a very wide icon.
	x, y, w, h = PlugRect(l, 100, 10)
	assert.InDelta(t, 80, w, 1e-9)
	assert.InDelta(t, 8, h, 1e-9)
	assert.InDelta(t, 18, x, 1e-9)
	assert.InDelta(t, 16, y, 1e-9)

	_, _, w, _ = PlugRect(l, 0, 10)
	assert.Zero(t, w)
}

func nrgba(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestRenderPixels(t *testing.T) {
	dc := gg.NewContext(124, 40)
	g := NewGauge(nil, "", nil)
	g.Render(context.Background(), dc, 124, 40, 50, false)
	img := dc.Image()

	band := nrgba(img, 33, 20)
	assert.Equal(t, uint8(255), band.R, "yellow band")
	assert.Greater(t, band.G, uint8(100))
	assert.Zero(t, band.B)

	bg := nrgba(img, 83, 20)
	assert.Equal(t, bg.R, bg.G)
	assert.Equal(t, bg.G, bg.B)
	assert.Greater(t, bg.R, uint8(200))

	// Above the cathode nub nothing is drawn.
	assert.Zero(t, nrgba(img, 120, 2).A)
	assert.NotZero(t, nrgba(img, 120, 20).A)
}

func TestRenderEmptyAndOverfull(t *testing.T) {
	empty := gg.NewContext(124, 40)
	NewGauge(nil, "", nil).Render(context.Background(), empty, 124, 40, -5, false)
	p := nrgba(empty.Image(), 12, 20)
	assert.Equal(t, p.R, p.B, "no band drawn at or below zero")

	full := gg.NewContext(124, 40)
	NewGauge(nil, "", nil).Render(context.Background(), full, 124, 40, 250, false)
	p = nrgba(full.Image(), 105, 20)
	assert.Zero(t, p.R, "green band fills the interior")
	assert.Greater(t, p.G, uint8(100))
}

func TestRenderDeterministic(t *testing.T) {
	a := gg.NewContext(124, 40)
	b := gg.NewContext(124, 40)
	g := NewGauge(nil, "", nil)
	g.Render(context.Background(), a, 124, 40, 20, false)
	g.Render(context.Background(), b, 124, 40, 20, false)
	assert.Equal(t, a.Image().(*image.RGBA).Pix, b.Image().(*image.RGBA).Pix)
}

func bluePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.NRGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type recordingLogger struct{ errors atomic.Int32 }

func (l *recordingLogger) Infof(string, string, ...interface{})  {}
func (l *recordingLogger) Errorf(string, string, ...interface{}) { l.errors.Add(1) }

func TestRenderChargingPlug(t *testing.T) {
	loader := &assets.FSLoader{FS: fstest.MapFS{"Plug.png": {Data: bluePNG(t)}}}
	g := NewGauge(loader, "/Plug.png", nil)

	dc := gg.NewContext(124, 40)
	g.Render(context.Background(), dc, 124, 40, 80, true)
	p := nrgba(dc.Image(), 58, 20)
	assert.Greater(t, p.B, uint8(200))
	assert.Less(t, p.G, uint8(60))

	first := g.plug
	g.Render(context.Background(), gg.NewContext(124, 40), 124, 40, 80, true)
	assert.Same(t, first, g.plug, "plug loaded once")
}

func TestRenderChargingPlugMissing(t *testing.T) {
	loader := &assets.FSLoader{FS: fstest.MapFS{}}
	logger := &recordingLogger{}
	g := NewGauge(loader, "/Plug.png", logger)

	dc := gg.NewContext(124, 40)
	g.Render(context.Background(), dc, 124, 40, 80, true)
	p := nrgba(dc.Image(), 58, 20)
	assert.Zero(t, p.R, "green band still drawn")
	assert.Greater(t, p.G, uint8(100))
	assert.Equal(t, int32(1), logger.errors.Load())

	// A failed load is retried on the next charging render.
	first := g.plug
	g.Render(context.Background(), gg.NewContext(124, 40), 124, 40, 80, true)
	assert.NotSame(t, first, g.plug)
}
