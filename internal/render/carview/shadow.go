package carview

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const (
	shadowOffset = 3
	shadowAlpha  = 0.3
	shadowSigma  = 1.5
)

// shadowPad covers the full blur kernel so the silhouette's edges fade out
// inside the returned image.
var shadowPad = int(math.Ceil(shadowSigma * 3))

// dropShadow returns a blurred translucent black silhouette of img and the
// padding added on each side to hold the blur.
func dropShadow(img image.Image) (*image.NRGBA, int) {
	pad := shadowPad
	b := img.Bounds()
	mask := image.NewNRGBA(image.Rect(0, 0, b.Dx()+2*pad, b.Dy()+2*pad))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			mask.Pix[mask.PixOffset(x+pad, y+pad)+3] = uint8(float64(a)/0xFFFF*shadowAlpha*255 + 0.5)
		}
	}
	return imaging.Blur(mask, shadowSigma), pad
}
