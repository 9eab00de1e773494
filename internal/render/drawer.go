package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/vtdash/internal/render/canvas"
	"github.com/rook-computer/vtdash/internal/render/layout"
)

// CanvasDrawer implements Drawer over an offscreen gg context of the logical
// canvas size.
type CanvasDrawer struct {
	dc    *gg.Context
	faces *canvas.Faces
}

var _ Drawer = (*CanvasDrawer)(nil)

func NewCanvasDrawer(width, height int) *CanvasDrawer {
	return &CanvasDrawer{dc: gg.NewContext(width, height), faces: canvas.NewFaces()}
}

func (d *CanvasDrawer) Size() (int, int) {
	return d.dc.Width(), d.dc.Height()
}

// Image is the canvas backing store.
func (d *CanvasDrawer) Image() *image.RGBA {
	return d.dc.Image().(*image.RGBA)
}

func (d *CanvasDrawer) FillBackground() {
	d.dc.SetColor(Background)
	d.dc.Clear()
}

func (d *CanvasDrawer) MeasureText(text string, style TextStyle) TextMetrics {
	d.dc.SetFontFace(d.faces.Face(textSize(style)))
	w, h := d.dc.MeasureString(text)
	return TextMetrics{Width: int(w + 0.5), Height: int(h + 0.5)}
}

func (d *CanvasDrawer) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	metrics := d.MeasureText(text, style)
	var c color.Color = Foreground
	if style.Color != nil {
		c = style.Color
	}
	ax := 0.0
	switch style.Align {
	case TextAlignCenter:
		ax = 0.5
	case TextAlignRight:
		ax = 1
	}
	d.dc.SetColor(c)
	d.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 1)
	return metrics
}

func textSize(style TextStyle) float64 {
	if style.Size > 0 {
		return float64(style.Size)
	}
	return float64(DefaultTextSize)
}

// DrawImageInRect scales img into rect. Fit letterboxes, Fill crops the
// source to the rect's aspect ratio, Stretch ignores aspect ratio.
func (d *CanvasDrawer) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) {
	if img == nil || rect.Empty() || img.Bounds().Empty() {
		return
	}
	src := img.Bounds()
	dst := rect
	switch mode {
	case ScaleModeFit:
		dst = layout.FitRect(rect, src.Dx(), src.Dy())
	case ScaleModeFill:
		src = layout.CoverCrop(src, rect.Dx(), rect.Dy())
	}
	if dst.Empty() || src.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(d.Image(), dst, img, src, xdraw.Over, nil)
}
