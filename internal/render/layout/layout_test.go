package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplits(t *testing.T) {
	r := image.Rect(0, 0, 100, 50)
	left, right := SplitVertical(r, 30)
	assert.Equal(t, image.Rect(0, 0, 30, 50), left)
	assert.Equal(t, image.Rect(30, 0, 100, 50), right)

	top, bottom := SplitHorizontal(r, 80)
	assert.Equal(t, r, top)
	assert.True(t, bottom.Empty())

	assert.Equal(t, image.Rect(5, 5, 95, 45), Inset(r, 5))
	assert.Equal(t, image.Rect(0, 0, 50, 50), FitSquare(r))
}

func TestFitRect(t *testing.T) {
	// 540x330 image into a wide box: height bound, centered horizontally.
	got := FitRect(image.Rect(0, 0, 800, 330), 540, 330)
	assert.Equal(t, image.Rect(130, 0, 670, 330), got)

	// Into a tall box: width bound, centered vertically.
	got = FitRect(image.Rect(10, 10, 110, 310), 2, 1)
	assert.Equal(t, image.Rect(10, 135, 110, 185), got)

	assert.True(t, FitRect(image.Rect(0, 0, 10, 10), 0, 5).Empty())
}

func TestCoverCrop(t *testing.T) {
	got := CoverCrop(image.Rect(0, 0, 200, 100), 50, 50)
	assert.Equal(t, image.Rect(50, 0, 150, 100), got)

	got = CoverCrop(image.Rect(0, 0, 100, 100), 100, 50)
	assert.Equal(t, image.Rect(0, 25, 100, 75), got)
}

func TestDashboard(t *testing.T) {
	canvas := image.Rect(0, 0, 800, 480)
	rects := Dashboard(canvas, 8)

	all := []image.Rectangle{rects.Carview, rects.Speed, rects.Battery, rects.Caption, rects.QR}
	for i, r := range all {
		assert.False(t, r.Empty(), "rect %d empty", i)
		assert.True(t, r.In(canvas), "rect %d outside canvas", i)
		for j := i + 1; j < len(all); j++ {
			assert.False(t, r.Overlaps(all[j]), "rects %d and %d overlap", i, j)
		}
	}
	assert.Equal(t, rects.Speed.Dx(), rects.Speed.Dy())
	assert.Equal(t, rects.QR.Dx(), rects.QR.Dy())
	assert.InDelta(t, 3.1, float64(rects.Battery.Dx())/float64(rects.Battery.Dy()), 0.05)
}
