package render

import "image/color"

// Global render configuration for colors and logical canvas.
var (
	Foreground = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF} // #eeeeee
	Muted      = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF} // #888888
	Background = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xFF} // #111111

	// Logical canvas size; scaled to framebuffer.
	CanvasWidth  = 800
	CanvasHeight = 480

	DefaultTextSize = 18
)
