package screens

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/render"
	"github.com/rook-computer/vtdash/internal/render/battery"
	"github.com/rook-computer/vtdash/internal/render/carview"
	"github.com/rook-computer/vtdash/internal/render/layout"
	"github.com/rook-computer/vtdash/internal/render/speed"
	"github.com/rook-computer/vtdash/internal/state"
)

type recordingLogger struct{ errors []string }

func (l *recordingLogger) Infof(component, format string, args ...interface{}) {}
func (l *recordingLogger) Errorf(component, format string, args ...interface{}) {
	l.errors = append(l.errors, component+": "+format)
}

func redPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:], []byte{0xFF, 0, 0, 0xFF})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newScreen(t *testing.T, fsys fstest.MapFS, logger Logger) *DashboardScreen {
	loader := &assets.FSLoader{FS: fsys}
	return NewDashboardScreen(
		battery.NewGauge(loader, carview.DefaultRoot+"Plug.png", nil),
		speed.NewGauge(),
		carview.NewRenderer(loader, "", time.Second, nil),
		logger,
	)
}

func nonBackground(img *image.RGBA, rect image.Rectangle) int {
	n := 0
	bg := color.RGBAModel.Convert(render.Background).(color.RGBA)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if img.RGBAAt(x, y) != bg {
				n++
			}
		}
	}
	return n
}

func TestDashboardDrawsAllComponents(t *testing.T) {
	fsys := fstest.MapFS{}
	data := redPNG(t)
	for _, u := range carview.ImageURLs("", state.DefaultVehicleConfig()) {
		fsys[strings.TrimPrefix(u, "/")] = &fstest.MapFile{Data: data}
	}
	logger := &recordingLogger{}
	screen := newScreen(t, fsys, logger)

	st := state.NewStore().Snapshot()
	st.Gauges = state.Gauges{Speed: 40, Power: 20, BatteryPct: 70}
	st.Network = state.NetworkInfo{IP: "10.0.0.2", URL: "http://10.0.0.2:8080/"}

	d := render.NewCanvasDrawer(render.CanvasWidth, render.CanvasHeight)
	screen.Draw(context.Background(), d, st)

	rects := layout.Dashboard(image.Rect(0, 0, render.CanvasWidth, render.CanvasHeight), panelPadding)
	img := d.Image()
	assert.NotZero(t, nonBackground(img, rects.Carview), "carview")
	assert.NotZero(t, nonBackground(img, rects.Speed), "speed")
	assert.NotZero(t, nonBackground(img, rects.Battery), "battery")
	assert.NotZero(t, nonBackground(img, rects.QR), "qr")
	assert.NotZero(t, nonBackground(img, rects.Caption), "caption")
	assert.Empty(t, logger.errors)
}

func TestDashboardSurvivesMissingAssets(t *testing.T) {
	logger := &recordingLogger{}
	screen := newScreen(t, fstest.MapFS{}, logger)

	d := render.NewCanvasDrawer(render.CanvasWidth, render.CanvasHeight)
	screen.Draw(context.Background(), d, state.NewStore().Snapshot())

	rects := layout.Dashboard(image.Rect(0, 0, render.CanvasWidth, render.CanvasHeight), panelPadding)
	assert.NotEmpty(t, logger.errors)
	// Only the fallback message is drawn, no QR without a URL.
	assert.Less(t, nonBackground(d.Image(), rects.Carview), rects.Carview.Dx()*rects.Carview.Dy()/10)
	assert.Zero(t, nonBackground(d.Image(), rects.QR))
	assert.NotZero(t, nonBackground(d.Image(), rects.Speed))
}

func TestCaption(t *testing.T) {
	st := state.State{Gauges: state.Gauges{BatteryPct: 81.6, Charging: true}, Status: state.VehicleStatus{Locked: true}}
	assert.Equal(t, "82% charging · locked", caption(st))

	st = state.State{Gauges: state.Gauges{BatteryPct: 140}}
	assert.Equal(t, "100% · unlocked", caption(st))
}
