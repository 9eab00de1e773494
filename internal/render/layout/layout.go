package layout

import "image"

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitVertical splits rect into left and right parts.
// leftWidthPx is clamped to [0, rect.Dx()].
func SplitVertical(rect image.Rectangle, leftWidthPx int) (left image.Rectangle, right image.Rectangle) {
	rect = Normalize(rect)
	width := rect.Dx()
	if leftWidthPx < 0 {
		leftWidthPx = 0
	}
	if leftWidthPx > width {
		leftWidthPx = width
	}
	left = image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+leftWidthPx, rect.Max.Y)
	right = image.Rect(rect.Min.X+leftWidthPx, rect.Min.Y, rect.Max.X, rect.Max.Y)
	return left, right
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	height := rect.Dy()
	if topHeightPx < 0 {
		topHeightPx = 0
	}
	if topHeightPx > height {
		topHeightPx = height
	}
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

type Grid2x2Rects struct {
	TopLeft     image.Rectangle
	TopRight    image.Rectangle
	BottomLeft  image.Rectangle
	BottomRight image.Rectangle
}

// Grid2x2 splits rect into four equal quadrants.
func Grid2x2(rect image.Rectangle) Grid2x2Rects {
	rect = Normalize(rect)
	midX := rect.Min.X + rect.Dx()/2
	midY := rect.Min.Y + rect.Dy()/2
	return Grid2x2Rects{
		TopLeft:     image.Rect(rect.Min.X, rect.Min.Y, midX, midY),
		TopRight:    image.Rect(midX, rect.Min.Y, rect.Max.X, midY),
		BottomLeft:  image.Rect(rect.Min.X, midY, midX, rect.Max.Y),
		BottomRight: image.Rect(midX, midY, rect.Max.X, rect.Max.Y),
	}
}

// AnchorTopLeft returns a rectangle of size (widthPx,heightPx) placed in the top-left of rect.
func AnchorTopLeft(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	if widthPx < 0 {
		widthPx = 0
	}
	if heightPx < 0 {
		heightPx = 0
	}
	maxW := rect.Dx()
	maxH := rect.Dy()
	if widthPx > maxW {
		widthPx = maxW
	}
	if heightPx > maxH {
		heightPx = maxH
	}
	return image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+widthPx, rect.Min.Y+heightPx)
}

// FitSquare returns the largest square that fits into rect, anchored at the top-left.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := rect.Dx()
	if rect.Dy() < size {
		size = rect.Dy()
	}
	if size < 0 {
		size = 0
	}
	return AnchorTopLeft(rect, size, size)
}

// FitRect returns the largest rectangle with the aspect ratio of
// (widthPx,heightPx) that fits into rect, centered.
func FitRect(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	if widthPx <= 0 || heightPx <= 0 || rect.Empty() {
		return image.Rectangle{}
	}
	w, h := rect.Dx(), rect.Dx()*heightPx/widthPx
	if h > rect.Dy() {
		w, h = rect.Dy()*widthPx/heightPx, rect.Dy()
	}
	x := rect.Min.X + (rect.Dx()-w)/2
	y := rect.Min.Y + (rect.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// CoverCrop returns the centered part of src with the aspect ratio of
// (widthPx,heightPx), the source region that fills such a box.
func CoverCrop(src image.Rectangle, widthPx, heightPx int) image.Rectangle {
	src = Normalize(src)
	if widthPx <= 0 || heightPx <= 0 || src.Empty() {
		return image.Rectangle{}
	}
	w, h := src.Dx(), src.Dx()*heightPx/widthPx
	if h > src.Dy() {
		w, h = src.Dy()*widthPx/heightPx, src.Dy()
	}
	x := src.Min.X + (src.Dx()-w)/2
	y := src.Min.Y + (src.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// DashboardRects places the panel components.
type DashboardRects struct {
	Carview image.Rectangle
	Speed   image.Rectangle
	Battery image.Rectangle
	Caption image.Rectangle
	QR      image.Rectangle
}

// Dashboard splits rect into the vehicle view (top left), the speed dial
// (top right), the battery and caption (bottom left) and the QR code
// (bottom right). The speed and QR rects are square; the battery keeps the
// gauge's 31:10 aspect ratio.
func Dashboard(rect image.Rectangle, paddingPx int) DashboardRects {
	rect = Normalize(rect)
	top, bottom := SplitHorizontal(rect, rect.Dy()*7/10)
	carview, speed := SplitVertical(top, top.Dx()*27/40)
	info, qr := SplitVertical(bottom, bottom.Dx()-bottom.Dy())

	info = Inset(info, paddingPx)
	batteryArea, caption := SplitHorizontal(info, info.Dy()*2/3)

	return DashboardRects{
		Carview: Inset(carview, paddingPx),
		Speed:   FitSquare(Inset(speed, paddingPx)),
		Battery: FitRect(batteryArea, 31, 10),
		Caption: caption,
		QR:      FitSquare(Inset(qr, paddingPx)),
	}
}
