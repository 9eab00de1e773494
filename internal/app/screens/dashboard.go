package screens

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/rook-computer/vtdash/internal/render"
	"github.com/rook-computer/vtdash/internal/render/battery"
	"github.com/rook-computer/vtdash/internal/render/carview"
	"github.com/rook-computer/vtdash/internal/render/layout"
	"github.com/rook-computer/vtdash/internal/render/speed"
	"github.com/rook-computer/vtdash/internal/state"
)

const panelPadding = 8

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// DashboardScreen draws the vehicle view, the speed dial, the battery gauge
// and a QR code of the dashboard URL onto the panel.
type DashboardScreen struct {
	Battery *battery.Gauge
	Speed   *speed.Gauge
	Carview *carview.Renderer
	Logger  Logger

	qr render.QRCache
}

func NewDashboardScreen(b *battery.Gauge, s *speed.Gauge, c *carview.Renderer, logger Logger) *DashboardScreen {
	return &DashboardScreen{Battery: b, Speed: s, Carview: c, Logger: logger}
}

func (*DashboardScreen) Start(ctx context.Context) error { return nil }
func (*DashboardScreen) Stop() error                     { return nil }

func (screen *DashboardScreen) Draw(ctx context.Context, d render.Drawer, st state.State) {
	d.FillBackground()
	w, h := d.Size()
	rects := layout.Dashboard(image.Rect(0, 0, w, h), panelPadding)

	screen.drawCarview(ctx, d, rects.Carview, st)

	if side := rects.Speed.Dx(); side > 0 && screen.Speed != nil {
		dc := gg.NewContext(side, side)
		screen.Speed.Render(dc, float64(side), float64(side), st.Gauges.Speed, st.Gauges.Power)
		d.DrawImageInRect(dc.Image(), rects.Speed, render.ScaleModeStretch)
	}

	if b := rects.Battery; !b.Empty() && screen.Battery != nil {
		dc := gg.NewContext(b.Dx(), b.Dy())
		screen.Battery.Render(ctx, dc, float64(b.Dx()), float64(b.Dy()), st.Gauges.BatteryPct, st.Gauges.Charging)
		d.DrawImageInRect(dc.Image(), b, render.ScaleModeStretch)
	}

	d.DrawText(caption(st), rects.Caption.Min.X, rects.Caption.Min.Y+panelPadding, render.TextStyle{})
	if st.Network.URL != "" {
		d.DrawText(st.Network.URL, rects.Caption.Min.X, rects.Caption.Min.Y+panelPadding+render.DefaultTextSize+6,
			render.TextStyle{Color: render.Muted, Size: render.DefaultTextSize - 4})
	}
	screen.drawQR(d, rects.QR, st.Network.URL)
}

func (screen *DashboardScreen) drawCarview(ctx context.Context, d render.Drawer, rect image.Rectangle, st state.State) {
	if screen.Carview == nil || rect.Empty() {
		return
	}
	dc := gg.NewContext(carview.Width, carview.Height)
	if err := screen.Carview.Render(ctx, dc, st.Vehicle, st.Status); err != nil {
		screen.errorf("carview render failed: %v", err)
		center := rect.Min.Add(image.Pt(rect.Dx()/2, rect.Dy()/2))
		d.DrawText("vehicle images unavailable", center.X, center.Y, render.TextStyle{Color: render.Muted, Align: render.TextAlignCenter})
		return
	}
	d.DrawImageInRect(dc.Image(), rect, render.ScaleModeFit)
}

func (screen *DashboardScreen) drawQR(d render.Drawer, rect image.Rectangle, url string) {
	if url == "" || rect.Empty() {
		return
	}
	img, err := screen.qr.Get(url, rect.Dx())
	if err != nil {
		screen.errorf("qr code failed: %v", err)
		return
	}
	d.DrawImageInRect(img, rect, render.ScaleModeFit)
}

func caption(st state.State) string {
	pct := battery.ClampPercent(st.Gauges.BatteryPct)
	text := fmt.Sprintf("%d%%", int(math.Round(pct)))
	if st.Gauges.Charging {
		text += " charging"
	}
	if st.Status.Locked {
		text += " · locked"
	} else {
		text += " · unlocked"
	}
	return text
}

func (screen *DashboardScreen) errorf(format string, args ...interface{}) {
	if screen.Logger != nil {
		screen.Logger.Errorf("panel", format, args...)
	}
}
