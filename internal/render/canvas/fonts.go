package canvas

import (
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularOnce sync.Once
	regular     *truetype.Font
	regularErr  error
)

func regularFont() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// NewFace returns a fresh face whose em size is px pixels. The parsed font
// is shared; the face is not, since a truetype face keeps per-glyph scratch
// state and must stay on one goroutine. It falls back to the fixed 7x13
// face if the embedded font cannot be parsed.
func NewFace(px float64) font.Face {
	tt, err := regularFont()
	if err != nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(tt, &truetype.Options{Size: faceSize(px), DPI: 72, Hinting: font.HintingFull})
}

func faceSize(px float64) float64 {
	key := math.Round(px*4) / 4
	if key <= 0 {
		key = 1
	}
	return key
}

// Faces caches font faces by pixel size, rounded to quarter pixels. Like
// the faces it hands out, a Faces belongs to one goroutine: renderers
// shared between requests build one per render.
type Faces struct {
	faces map[float64]font.Face
}

func NewFaces() *Faces {
	return &Faces{faces: map[float64]font.Face{}}
}

// Face returns the cached face for px, creating it on first use.
func (f *Faces) Face(px float64) font.Face {
	key := faceSize(px)
	if face, ok := f.faces[key]; ok {
		return face
	}
	face := NewFace(key)
	f.faces[key] = face
	return face
}
