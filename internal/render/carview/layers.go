package carview

import (
	"strconv"

	"github.com/rook-computer/vtdash/internal/state"
)

// Canvas size the layer offsets are laid out for.
const (
	Width  = 540
	Height = 330
)

// Body origin; every offset below is relative to it.
const (
	bodyX = 0
	bodyY = 45
)

// Layer is one draw step of the composite: an image at its natural size
// times Scale, or a text label when Text is set.
type Layer struct {
	Image  string
	Text   string
	X, Y   float64
	Scale  float64
	Shadow bool
}

func img(name string, dx, dy float64) Layer {
	return Layer{Image: name, X: bodyX + dx, Y: bodyY + dy, Scale: 1}
}

// Layers lists the draw steps for cfg and st, back to front.
func Layers(cfg state.VehicleConfig, st state.VehicleStatus) []Layer {
	var out []Layer

	// Right doors sit behind the body.
	if st.RF.IsOpen() {
		out = append(out, img(RFOpen, 180, -40))
	}
	if st.RR.IsOpen() {
		out = append(out, img(RROpen, 278, -25))
	}

	out = append(out, img(Body, 0, 0))

	switch cfg.Seats {
	case "gray", "white":
		out = append(out, img(SeatsGray, 0, -1))
	case "tan":
		out = append(out, img(SeatsTan, 0, -1))
	}

	if st.LF.IsOpen() {
		out = append(out, img(LFOpen, 128, 107))
	} else {
		out = append(out, img(LFClosed, 152, 59))
	}
	if st.LR.IsOpen() {
		out = append(out, img(LROpen, 245, 69))
	} else {
		out = append(out, img(LRClosed, 274, 58))
	}

	if cfg.HasPano {
		switch {
		case st.PanoPct > 0 && st.PanoPct < 75:
			out = append(out, img(PanoVented, 220, 0))
		case st.PanoPct >= 75:
			out = append(out, img(PanoOpen, 220, 0))
		default:
			out = append(out, img(PanoClosed, 220, 0))
		}
		out = append(out, Layer{Text: strconv.Itoa(st.PanoPct) + "%", X: bodyX + 272, Y: bodyY + 22})
	} else {
		out = append(out, img(SolidRoof, 220, 0))
	}

	if st.FT.IsOpen() {
		out = append(out, img(FTOpen, 8, -34))
	} else {
		out = append(out, img(FTClosed, 1, 36))
	}
	if st.RT.IsOpen() {
		out = append(out, img(RTOpen, 381, -44))
	} else {
		out = append(out, img(RTClosed, 380, 9))
	}
	if cfg.HasSpoiler {
		if st.RT.IsOpen() {
			out = append(out, img(SpoilerOpen, 472, -42))
		} else {
			out = append(out, img(SpoilerClosed, 470, 38))
		}
	}

	if st.ChargePort.IsOpen() {
		out = append(out, img(ChargePortOpen, 480, 113))
	} else {
		out = append(out, img(ChargePortClosed, 471, 112))
	}
	if st.Charging {
		out = append(out, img(ChargePortOn, 472, 113), img(ChargeCable, 440, 116))
	}

	// silver21 is painted into the body image.
	if front, rear, ok := wheels(cfg.Wheels); ok {
		out = append(out, img(front, 45, 135), img(rear, 369, 135))
	}

	emblem := img(emblemFor(cfg.Model), 375, 225)
	emblem.Scale = 0.75
	emblem.Shadow = true
	out = append(out, emblem)

	lock := img(Unlocked, 63, 220)
	if st.Locked {
		lock.Image = Locked
	}
	lock.Scale = 0.5
	out = append(out, lock)

	return out
}

func wheels(style string) (front, rear string, ok bool) {
	switch style {
	case "silver19":
		return Silver19Front, Silver19Rear, true
	case "gray21":
		return Gray21Front, Gray21Rear, true
	case "aero":
		return AeroFront, AeroRear, true
	case "cyclone":
		return CycloneFront, CycloneRear, true
	}
	return "", "", false
}

func emblemFor(model string) string {
	switch model {
	case "s60":
		return EmblemS60
	case "s85":
		return EmblemS85
	case "p85":
		return EmblemP85
	}
	return EmblemP85Plus
}
