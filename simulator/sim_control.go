package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/looplab/fsm"

	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/render/speed"
	"github.com/rook-computer/vtdash/internal/state"
)

// Drive cycle states.
const (
	StateParked   = "parked"
	StateCharging = "charging"
	StateDriving  = "driving"
	StateRegen    = "regen"
)

// Drive cycle events.
const (
	EventPlug       = "plug"
	EventUnplug     = "unplug"
	EventDrive      = "drive"
	EventBrake      = "brake"
	EventAccelerate = "accelerate"
	EventPark       = "park"
)

const (
	startBatteryPct = 80.0

	accelRate  = 4.0 // mph per second
	regenRate  = 6.0 // mph per second
	chargeRate = 2.0 // percent per second

	capacityKWh = 85.0
	// drainScale speeds up consumption so a short drive shows on the gauge.
	drainScale = 60.0

	parkDwell  = 3 * time.Second
	driveDwell = 10 * time.Second
	lowBattery = 30.0
	fullEnough = 90.0
)

// cruiseTargets are visited in turn by successive drives.
var cruiseTargets = []float64{35, 65, 95, 50}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// SimFaults are injected into the asset loader the renderers use.
type SimFaults struct {
	AssetFail    bool  `json:"assetFail"`
	AssetDelayMs int64 `json:"assetDelayMs"`
}

// SimSnapshot is the simulator state as reported by GET /sim/state.
type SimSnapshot struct {
	State  string       `json:"state"`
	Auto   bool         `json:"auto"`
	Target float64      `json:"target"`
	Gauges state.Gauges `json:"gauges"`
	Events []string     `json:"events"`
	Faults SimFaults    `json:"faults"`
}

// SimControl drives the store through a parked, charging, driving and
// regen cycle. Events come from the /sim endpoints or, in auto mode, from
// Tick itself.
type SimControl struct {
	Logger Logger

	store     *state.Store
	startAuto bool

	mu      sync.Mutex
	machine *fsm.FSM
	gauges  state.Gauges
	status  state.VehicleStatus
	target  float64
	drives  int
	dwell   time.Duration
	auto    bool
	changed bool

	faults struct {
		mu sync.RWMutex
		v  SimFaults
	}
}

func NewSimControl(store *state.Store, auto bool) *SimControl {
	c := &SimControl{store: store, startAuto: auto}
	c.machine = fsm.NewFSM(
		StateParked,
		fsm.Events{
			{Name: EventPlug, Src: []string{StateParked}, Dst: StateCharging},
			{Name: EventUnplug, Src: []string{StateCharging}, Dst: StateParked},
			{Name: EventDrive, Src: []string{StateParked}, Dst: StateDriving},
			{Name: EventBrake, Src: []string{StateDriving}, Dst: StateRegen},
			{Name: EventAccelerate, Src: []string{StateRegen}, Dst: StateDriving},
			{Name: EventPark, Src: []string{StateDriving, StateRegen}, Dst: StateParked},
		},
		fsm.Callbacks{
			"before_" + EventDrive: func(_ context.Context, e *fsm.Event) {
				if c.gauges.BatteryPct <= 0 {
					e.Cancel(errors.New("battery is empty"))
				}
			},
			"before_" + EventPark: func(_ context.Context, e *fsm.Event) {
				if c.gauges.Speed > 0 {
					e.Cancel(fmt.Errorf("still moving at %.0f", c.gauges.Speed))
				}
			},
			"enter_state": func(_ context.Context, e *fsm.Event) {
				c.enter(e.Dst)
			},
		},
	)
	c.resetLocked()
	return c
}

// enter runs with c.mu held: every transition starts from Event or Tick.
func (c *SimControl) enter(dst string) {
	c.dwell = 0
	c.changed = true
	st := state.DefaultVehicleStatus()
	switch dst {
	case StateParked:
		c.gauges.Speed = 0
		c.gauges.Power = 0
	case StateCharging:
		st.ChargePort = state.Open
		st.Charging = true
		c.gauges.Power = 0
	case StateDriving:
		if c.gauges.Speed == 0 {
			c.target = cruiseTargets[c.drives%len(cruiseTargets)]
			c.drives++
		}
	}
	c.gauges.Charging = st.Charging
	c.status = st
}

func (c *SimControl) resetLocked() {
	c.machine.SetState(StateParked)
	c.gauges = state.Gauges{BatteryPct: startBatteryPct}
	c.status = state.DefaultVehicleStatus()
	c.target = 0
	c.drives = 0
	c.dwell = 0
	c.auto = c.startAuto
	c.changed = true
}

// Reset returns to a parked vehicle at the starting charge and clears faults.
func (c *SimControl) Reset() {
	c.SetFaults(SimFaults{})
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	c.publish()
}

// Event fires one drive cycle event.
func (c *SimControl) Event(ctx context.Context, name string) error {
	c.mu.Lock()
	err := c.machine.Event(ctx, name)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.infof("event %s, now %s", name, c.State())
	c.publish()
	return nil
}

func (c *SimControl) State() string {
	return c.machine.Current()
}

func (c *SimControl) SetAuto(enabled bool) {
	c.mu.Lock()
	c.auto = enabled
	c.dwell = 0
	c.mu.Unlock()
}

func (c *SimControl) Snapshot() SimSnapshot {
	c.mu.Lock()
	events := c.machine.AvailableTransitions()
	snap := SimSnapshot{
		State:  c.machine.Current(),
		Auto:   c.auto,
		Target: c.target,
		Gauges: c.gauges,
	}
	c.mu.Unlock()
	sort.Strings(events)
	snap.Events = events
	snap.Faults = c.Faults()
	return snap
}

// Tick advances the simulation by dt and publishes the new gauges.
func (c *SimControl) Tick(ctx context.Context, dt time.Duration) {
	c.mu.Lock()
	c.step(dt.Seconds())
	c.dwell += dt
	if c.auto {
		if next := c.nextEvent(); next != "" {
			if err := c.machine.Event(ctx, next); err != nil {
				c.errorf("auto %s: %v", next, err)
			}
		}
	}
	c.mu.Unlock()
	c.publish()
}

func (c *SimControl) step(secs float64) {
	g := &c.gauges
	switch c.machine.Current() {
	case StateCharging:
		g.BatteryPct = math.Min(100, g.BatteryPct+chargeRate*secs)
	case StateDriving:
		accel := 0.0
		if g.Speed < c.target {
			accel = math.Min(accelRate, (c.target-g.Speed)/secs)
		}
		g.Speed = math.Min(c.target, g.Speed+accel*secs)
		g.Power = math.Min(speed.MaxDraw, 0.15*g.Speed+0.0009*g.Speed*g.Speed+0.45*g.Speed*accel)
		g.BatteryPct = math.Max(0, g.BatteryPct-g.Power*secs*drainScale*100/(capacityKWh*3600))
	case StateRegen:
		g.Speed = math.Max(0, g.Speed-regenRate*secs)
		g.Power = 0
		if g.Speed > 0 {
			g.Power = -math.Min(speed.MaxRegen, 0.9*g.Speed)
		}
		g.BatteryPct = math.Min(100, g.BatteryPct-g.Power*secs*drainScale*100/(capacityKWh*3600))
	}
}

func (c *SimControl) nextEvent() string {
	g := c.gauges
	switch c.machine.Current() {
	case StateParked:
		if c.dwell < parkDwell {
			return ""
		}
		if g.BatteryPct < lowBattery {
			return EventPlug
		}
		return EventDrive
	case StateCharging:
		if g.BatteryPct >= fullEnough {
			return EventUnplug
		}
	case StateDriving:
		if c.dwell >= driveDwell || g.BatteryPct <= 0 {
			return EventBrake
		}
	case StateRegen:
		if g.Speed == 0 {
			return EventPark
		}
	}
	return ""
}

func (c *SimControl) publish() {
	c.mu.Lock()
	gauges, status, changed := c.gauges, c.status, c.changed
	c.changed = false
	c.mu.Unlock()

	if changed {
		c.store.SetStatus(status)
	}
	c.store.SetGauges(gauges)
}

// Run ticks every interval until ctx is done.
func (c *SimControl) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick(ctx, interval)
		}
	}
}

func (c *SimControl) Faults() SimFaults {
	c.faults.mu.RLock()
	defer c.faults.mu.RUnlock()
	return c.faults.v
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.faults.mu.Lock()
	c.faults.v = v
	c.faults.mu.Unlock()
}

// WrapLoader applies the current faults to every load through next.
func (c *SimControl) WrapLoader(next assets.Loader) assets.Loader {
	return assets.LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
		faults := c.Faults()
		if faults.AssetDelayMs > 0 {
			timer := time.NewTimer(time.Duration(faults.AssetDelayMs) * time.Millisecond)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		if faults.AssetFail {
			return nil, fmt.Errorf("simulated asset failure: %s", url)
		}
		return next.Load(ctx, url)
	})
}

func (c *SimControl) infof(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Infof("sim", format, args...)
	}
}

func (c *SimControl) errorf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Errorf("sim", format, args...)
	}
}

// registerSimEndpoints mounts /sim/* on router. Call it before the UI
// catch-all is mounted.
func registerSimEndpoints(router *mux.Router, control *SimControl) {
	sim := router.PathPrefix("/sim").Subrouter()

	sim.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		control.Reset()
		writeSimJSON(w, http.StatusOK, control.Snapshot())
	}).Methods(http.MethodPost)

	sim.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		writeSimJSON(w, http.StatusOK, control.Snapshot())
	}).Methods(http.MethodGet)

	sim.HandleFunc("/event/{event}", func(w http.ResponseWriter, r *http.Request) {
		err := control.Event(r.Context(), mux.Vars(r)["event"])
		var unknown fsm.UnknownEventError
		var invalid fsm.InvalidEventError
		var canceled fsm.CanceledError
		switch {
		case err == nil:
			writeSimJSON(w, http.StatusOK, control.Snapshot())
		case errors.As(err, &unknown):
			writeSimError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &invalid), errors.As(err, &canceled):
			writeSimError(w, http.StatusConflict, err.Error())
		default:
			writeSimError(w, http.StatusInternalServerError, err.Error())
		}
	}).Methods(http.MethodPost)

	sim.HandleFunc("/auto", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body struct {
				Enabled *bool `json:"enabled"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Enabled == nil {
				writeSimError(w, http.StatusBadRequest, "expected {\"enabled\": bool}")
				return
			}
			control.SetAuto(*body.Enabled)
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"auto": control.Snapshot().Auto})
	}).Methods(http.MethodGet, http.MethodPost)

	sim.HandleFunc("/faults", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeSimJSON(w, http.StatusOK, control.Faults())
			return
		}
		var patch struct {
			AssetFail    *bool  `json:"assetFail"`
			AssetDelayMs *int64 `json:"assetDelayMs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		current := control.Faults()
		if patch.AssetFail != nil {
			current.AssetFail = *patch.AssetFail
		}
		if patch.AssetDelayMs != nil {
			if *patch.AssetDelayMs < 0 {
				writeSimError(w, http.StatusBadRequest, "assetDelayMs must not be negative")
				return
			}
			current.AssetDelayMs = *patch.AssetDelayMs
		}
		control.SetFaults(current)
		writeSimJSON(w, http.StatusOK, current)
	}).Methods(http.MethodGet, http.MethodPost)
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
