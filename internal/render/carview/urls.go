package carview

import (
	"sort"
	"strings"

	"github.com/rook-computer/vtdash/internal/state"
)

// DefaultRoot is the asset prefix used when none is configured.
const DefaultRoot = "/TeslaResources/"

// Logical image names. Color dependent images live under COLOR_<color>/.
const (
	Body             = "body"
	SolidRoof        = "solidRoof"
	PanoClosed       = "panoClosed"
	PanoOpen         = "panoOpen"
	PanoVented       = "panoVented"
	LFOpen           = "lfOpen"
	LFClosed         = "lfClosed"
	RFOpen           = "rfOpen"
	LROpen           = "lrOpen"
	LRClosed         = "lrClosed"
	RROpen           = "rrOpen"
	FTOpen           = "ftOpen"
	FTClosed         = "ftClosed"
	RTOpen           = "rtOpen"
	RTClosed         = "rtClosed"
	SpoilerOpen      = "spoilerOpen"
	SpoilerClosed    = "spoilerClosed"
	ChargePortOpen   = "chargePortOpen"
	ChargePortClosed = "chargePortClosed"
	ChargePortOn     = "chargePortOn"
	ChargeCable      = "chargeCable"
	SeatsTan         = "seatsTan"
	SeatsGray        = "seatsGray"
	Silver19Front    = "silver19Front"
	Silver19Rear     = "silver19Rear"
	Gray21Front      = "gray21Front"
	Gray21Rear       = "gray21Rear"
	AeroFront        = "aeroFront"
	AeroRear         = "aeroRear"
	CycloneFront     = "cycloneFront"
	CycloneRear      = "cycloneRear"
	EmblemS60        = "s60"
	EmblemS85        = "s85"
	EmblemP85        = "p85"
	EmblemP85Plus    = "p85Plus"
	Locked           = "locked"
	Unlocked         = "unlocked"
)

var colorImages = map[string]string{
	Body:      "body@2x.png",
	SolidRoof: "roof@2x.png",
	LFOpen:    "left_front_open@2x.png",
	LFClosed:  "left_front_closed@2x.png",
	RFOpen:    "right_front_open@2x.png",
	LROpen:    "left_rear_open@2x.png",
	LRClosed:  "left_rear_closed@2x.png",
	RROpen:    "right_rear_open@2x.png",
	FTOpen:    "frunk_open@2x.png",
	FTClosed:  "frunk_closed@2x.png",
	RTOpen:    "trunk_open@2x.png",
	RTClosed:  "trunk_closed@2x.png",
}

var sharedImages = map[string]string{
	PanoClosed:       "sunroof_closed@2x.png",
	PanoOpen:         "sunroof_open@2x.png",
	PanoVented:       "sunroof_vent@2x.png",
	SpoilerOpen:      "spoiler_open@2x.png",
	SpoilerClosed:    "spoiler_closed@2x.png",
	ChargePortOpen:   "charge_port_open@2x.png",
	ChargePortClosed: "charge_port_closed@2x.png",
	ChargePortOn:     "charge_port_on@2x.png",
	ChargeCable:      "charge_cable_long@2x.png",
	SeatsTan:         "seats_tan.png",
	SeatsGray:        "seats_gray.png",
	Silver19Front:    "wheel_front_19@2x.png",
	Silver19Rear:     "wheel_rear_19@2x.png",
	Gray21Front:      "wheel_front_21_dark@2x.png",
	Gray21Rear:       "wheel_rear_21_dark@2x.png",
	AeroFront:        "wheel_front_aero@2x.png",
	AeroRear:         "wheel_rear_aero@2x.png",
	CycloneFront:     "wheel_front_turbine@2x.png",
	CycloneRear:      "wheel_rear_turbine@2x.png",
	EmblemS60:        "Emblems/60.png",
	EmblemS85:        "Emblems/85.png",
	EmblemP85:        "Emblems/P85.png",
	EmblemP85Plus:    "Emblems/P85+.png",
	Locked:           "06_controls_lock@2x.png",
	Unlocked:         "06_controls_unlock@2x.png",
}

// ImageURLs maps every logical image name to its URL for cfg. Every image
// is listed whether or not the current status shows it, so a status change
// never requires a load.
func ImageURLs(root string, cfg state.VehicleConfig) map[string]string {
	if root == "" {
		root = DefaultRoot
	}
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	withColor := root + "COLOR_" + cfg.Color + "/"

	urls := make(map[string]string, len(colorImages)+len(sharedImages))
	for name, file := range colorImages {
		urls[name] = withColor + file
	}
	for name, file := range sharedImages {
		urls[name] = root + file
	}
	return urls
}

// Names returns the logical names in urls, sorted.
func Names(urls map[string]string) []string {
	names := make([]string, 0, len(urls))
	for name := range urls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sameURLs(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
