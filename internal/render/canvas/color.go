package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ColorSpec is a color as it appears in a stop table: either an RGB triple
// or a pre-formatted color string.
type ColorSpec interface {
	String() string
}

// RGB is an 8-bit color triple.
type RGB [3]uint8

// String normalizes the triple to rgb(r,g,b).
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c[0], c[1], c[2])
}

// CSS is a color string such as "#666", "#ffd699", "orange" or "rgb(1,2,3)".
type CSS string

func (c CSS) String() string { return string(c) }

// ParseColor parses #rgb, #rrggbb, rgb(), rgba() and CSS color names.
func ParseColor(spec string) (color.Color, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	switch {
	case s == "":
		return nil, fmt.Errorf("empty color")
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s[len("rgba("):len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s[len("rgb("):len(s)-1], false)
	}
	if named, ok := colornames.Map[s]; ok {
		return named, nil
	}
	return nil, fmt.Errorf("unknown color %q", spec)
}

// MustParseColor is ParseColor for literals known to be valid.
func MustParseColor(spec string) color.Color {
	c, err := ParseColor(spec)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(hex string) (color.Color, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid hex color #%s", hex)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color #%s: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, nil
}

func parseFunctional(args string, withAlpha bool) (color.Color, error) {
	parts := strings.Split(args, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d color components, got %d", want, len(parts))
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return nil, fmt.Errorf("color component %d: %w", i, err)
		}
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("color component %d out of range: %d", i, v)
		}
		rgb[i] = uint8(v)
	}
	alpha := uint8(0xFF)
	if withAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("alpha component: %w", err)
		}
		if a < 0 || a > 1 {
			return nil, fmt.Errorf("alpha out of range: %g", a)
		}
		alpha = uint8(a*255 + 0.5)
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}, nil
}
