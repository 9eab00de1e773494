package canvas

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
)

type recordingSurface struct {
	ops []string
}

func (r *recordingSurface) add(op string) { r.ops = append(r.ops, op) }

func (r *recordingSurface) MoveTo(x, y float64)                       { r.add("move") }
func (r *recordingSurface) LineTo(x, y float64)                       { r.add("line") }
func (r *recordingSurface) QuadraticTo(x1, y1, x2, y2 float64)        { r.add("quad") }
func (r *recordingSurface) ClosePath()                                { r.add("close") }
func (r *recordingSurface) ClearPath()                                { r.add("clear") }
func (r *recordingSurface) DrawArc(x, y, radius, a1, a2 float64)      { r.add("arc") }
func (r *recordingSurface) DrawRectangle(x, y, w, h float64)          { r.add("rect") }
func (r *recordingSurface) SetFillStyle(gg.Pattern)                   { r.add("fillStyle") }
func (r *recordingSurface) SetStrokeStyle(gg.Pattern)                 { r.add("strokeStyle") }
func (r *recordingSurface) SetLineWidth(float64)                      { r.add("lineWidth") }
func (r *recordingSurface) FillPreserve()                             { r.add("fill") }
func (r *recordingSurface) StrokePreserve()                           { r.add("stroke") }
func (r *recordingSurface) DrawImage(image.Image, int, int)           { r.add("image") }
func (r *recordingSurface) SetColor(color.Color)                      { r.add("color") }
func (r *recordingSurface) SetFontFace(font.Face)                     { r.add("face") }
func (r *recordingSurface) DrawStringAnchored(string, float64, float64, float64, float64) {
	r.add("text")
}

func count(ops []string, op string) int {
	n := 0
	for _, o := range ops {
		if o == op {
			n++
		}
	}
	return n
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		spec string
		want color.NRGBA
	}{
		{"#666", color.NRGBA{0x66, 0x66, 0x66, 0xFF}},
		{"#FFD699", color.NRGBA{0xFF, 0xD6, 0x99, 0xFF}},
		{"rgb(160,0,0)", color.NRGBA{160, 0, 0, 0xFF}},
		{"rgba( 0, 0, 0, 0.3 )", color.NRGBA{0, 0, 0, 77}},
		{"orange", color.NRGBA{0xFF, 0xA5, 0x00, 0xFF}},
		{"LightGreen", color.NRGBA{0x90, 0xEE, 0x90, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseColor(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, color.NRGBAModel.Convert(got))
		})
	}

	for _, bad := range []string{"", "#12", "rgb(1,2)", "rgb(1,2,300)", "rgba(1,2,3,2)", "nosuchcolor"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestRGBNormalizesToString(t *testing.T) {
	assert.Equal(t, "rgb(255,160,0)", RGB{255, 160, 0}.String())
	c, err := ParseColor(RGB{1, 2, 3}.String())
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{1, 2, 3, 0xFF}, c)
}

func TestStopsValidate(t *testing.T) {
	good := Stops{{0, CSS("#111")}, {0.5, RGB{1, 2, 3}}, {0.5, CSS("#222")}, {1, CSS("white")}}
	assert.NoError(t, good.Validate())

	assert.Error(t, Stops{{0, CSS("#111")}}.Validate())
	assert.Error(t, Stops{{0.1, CSS("#111")}, {1, CSS("#222")}}.Validate())
	assert.Error(t, Stops{{0, CSS("#111")}, {0.9, CSS("#222")}}.Validate())
	assert.Error(t, Stops{{0, CSS("#111")}, {0.6, CSS("#222")}, {0.4, CSS("#333")}, {1, CSS("#444")}}.Validate())
	assert.Error(t, Stops{{0, CSS("#111")}, {1, CSS("bogus")}}.Validate())
}

func TestLinearGradientEndpoints(t *testing.T) {
	grad := LinearGradient(Stops{{0, RGB{255, 0, 0}}, {1, CSS("#0000ff")}}, 0, 0, 0, 100)

	top := color.NRGBAModel.Convert(grad.ColorAt(0, 0)).(color.NRGBA)
	bottom := color.NRGBAModel.Convert(grad.ColorAt(0, 100)).(color.NRGBA)
	assert.Equal(t, uint8(255), top.R)
	assert.Equal(t, uint8(0), top.B)
	assert.Equal(t, uint8(0), bottom.R)
	assert.Equal(t, uint8(255), bottom.B)
}

func TestArcSweep(t *testing.T) {
	const eps = 1e-12
	tests := []struct {
		name       string
		start, end float64
		ccw        bool
		wantSweep  float64
	}{
		{"zero", 1, 1, false, 0},
		{"zero ccw", 1, 1, true, 0},
		{"quarter cw", 0, math.Pi / 2, false, math.Pi / 2},
		{"wraps cw", math.Pi / 2, 0, false, 1.5 * math.Pi},
		{"quarter ccw", 0, 1.5 * math.Pi, true, -math.Pi / 2},
		{"full cw", 0, 2 * math.Pi, false, 2 * math.Pi},
		{"beyond full cw", 0, 5 * math.Pi, false, 2 * math.Pi},
		{"full ccw", 2 * math.Pi, 0, true, -2 * math.Pi},
		{"ccw from zero to two pi", 0, 2 * math.Pi, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a1, a2 := ArcSweep(tt.start, tt.end, tt.ccw)
			assert.Equal(t, tt.start, a1)
			assert.InDelta(t, tt.wantSweep, a2-a1, eps)
		})
	}
}

func TestRoundedRectPathAndConditionalPaint(t *testing.T) {
	s := &recordingSurface{}
	RoundedRect(s, 0, 0, 10, 10, Radii{UpperLeft: 2}, nil, nil)
	assert.Equal(t, 4, count(s.ops, "line"))
	assert.Equal(t, 4, count(s.ops, "quad"))
	assert.Equal(t, 1, count(s.ops, "close"))
	assert.Zero(t, count(s.ops, "fill"))
	assert.Zero(t, count(s.ops, "stroke"))

	s = &recordingSurface{}
	RoundedRect(s, 0, 0, 10, 10, Radii{}, Solid("red"), nil)
	assert.Equal(t, 1, count(s.ops, "fill"))
	assert.Zero(t, count(s.ops, "stroke"))

	s = &recordingSurface{}
	Circle(s, 5, 5, 5, nil, Solid("#555"))
	assert.Zero(t, count(s.ops, "fill"))
	assert.Equal(t, 1, count(s.ops, "stroke"))
}

func TestRectSkipsEmpty(t *testing.T) {
	s := &recordingSurface{}
	Rect(s, 0, 0, -5, 10, Solid("red"), nil)
	Rect(s, 0, 0, 0, 10, Solid("red"), nil)
	assert.Empty(t, s.ops)
}

func TestArcFillsSlice(t *testing.T) {
	dc := gg.NewContext(100, 100)
	Arc(dc, 0, math.Pi/2, false, 50, 50, 40, Solid("red"), nil)

	img := dc.Image()
	// Inside the lower-right quadrant (y grows downwards).
	_, _, _, a := img.At(70, 70).RGBA()
	assert.NotZero(t, a)
	// Upper-left quadrant stays empty.
	_, _, _, a = img.At(30, 30).RGBA()
	assert.Zero(t, a)
}

func TestDrawImageScaled(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	dc := gg.NewContext(40, 40)
	DrawImageScaled(dc, src, 5, 5, 20, 20)

	img := dc.Image()
	_, _, b, _ := img.At(15, 15).RGBA()
	assert.InDelta(t, 0xFFFF, b, 0x200)
	_, _, _, a := img.At(30, 30).RGBA()
	assert.Zero(t, a)
}

func TestFacesCacheBySize(t *testing.T) {
	f := NewFaces()
	a := f.Face(12)
	b := f.Face(12.1)
	c := f.Face(20)
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestNewFaceIsNotShared(t *testing.T) {
	a := NewFace(12)
	b := NewFace(12)
	assert.NotSame(t, a, b)
	assert.Equal(t, a.Metrics(), b.Metrics())
}
