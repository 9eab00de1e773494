package state

import "strings"

// Openness is the visual state of a door, trunk or charge port.
type Openness string

const (
	Open   Openness = "open"
	Closed Openness = "closed"
)

// IsOpen treats anything other than "open" as closed.
func (o Openness) IsOpen() bool { return o == Open }

// OpenIf maps a boolean sensor value to Openness.
func OpenIf(open bool) Openness {
	if open {
		return Open
	}
	return Closed
}

// VehicleConfig describes the static appearance of the vehicle. It is set
// once per session and only replaced wholesale.
type VehicleConfig struct {
	Color      string `json:"color" yaml:"color"`
	Seats      string `json:"seats" yaml:"seats"`
	Wheels     string `json:"wheels" yaml:"wheels"`
	HasSpoiler bool   `json:"hasSpoiler" yaml:"hasSpoiler"`
	HasPano    bool   `json:"hasPano" yaml:"hasPano"`
	Model      string `json:"model" yaml:"model"`
}

// VehicleStatus is the live snapshot of openings, roof and charging.
type VehicleStatus struct {
	RF         Openness `json:"rf"`
	RR         Openness `json:"rr"`
	LF         Openness `json:"lf"`
	LR         Openness `json:"lr"`
	FT         Openness `json:"ft"`
	RT         Openness `json:"rt"`
	PanoPct    int      `json:"panoPct"`
	ChargePort Openness `json:"chargePort"`
	Charging   bool     `json:"charging"`
	Locked     bool     `json:"locked"`
}

// Gauges holds the inputs of the two gauges.
type Gauges struct {
	Speed      float64 `json:"speed"`
	Power      float64 `json:"power"`
	BatteryPct float64 `json:"batteryPct"`
	Charging   bool    `json:"charging"`
}

func DefaultVehicleConfig() VehicleConfig {
	return VehicleConfig{
		Color:  "white",
		Seats:  "black",
		Wheels: "silver21",
		Model:  "s85",
	}
}

func DefaultVehicleStatus() VehicleStatus {
	return VehicleStatus{
		RF: Closed, RR: Closed, LF: Closed, LR: Closed,
		FT: Closed, RT: Closed, ChargePort: Closed,
		Locked: true,
	}
}

var paintColors = map[string]string{
	"PBCW": "white",
	"PBSB": "black",
	"PMAB": "brown",
	"PMMB": "blue",
	"PMSG": "green",
	"PMSS": "silver",
	"PMTG": "gray",
	"PPMR": "newred",
	"PPSR": "red",
	"PPSW": "pearl",
}

var wheelTypes = map[string]string{
	"WT1P": "silver19",
	"WTX1": "silver19",
	"WT19": "silver19",
	"WT21": "silver21",
	"WTSP": "gray21",
	"WTSG": "gray21",
	"WTAE": "aero",
	"WTTB": "cyclone",
	"WTTP": "cyclone",
}

// ColorForPaintCode maps a factory paint option code to the color name
// used in asset paths. Unknown codes map to white.
func ColorForPaintCode(code string) string {
	if c, ok := paintColors[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c
	}
	return "white"
}

// WheelsForCode maps a wheel option code to a wheel style. Unknown codes map
// to silver21, which draws no wheel overlay.
func WheelsForCode(code string) string {
	if w, ok := wheelTypes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return w
	}
	return "silver21"
}

// ModelTier derives the emblem tier from the performance options and the
// battery size in kWh.
func ModelTier(perfPlus, performance bool, batteryKWh int) string {
	switch {
	case perfPlus:
		return "p85+"
	case performance:
		return "p85"
	case batteryKWh >= 85:
		return "s85"
	}
	return "s60"
}
