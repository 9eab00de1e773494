package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"github.com/gorilla/mux"

	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/metrics"
	"github.com/rook-computer/vtdash/internal/render/battery"
	"github.com/rook-computer/vtdash/internal/render/carview"
	"github.com/rook-computer/vtdash/internal/render/speed"
	"github.com/rook-computer/vtdash/internal/state"
)

const (
	defaultBatteryW = 124
	defaultBatteryH = 40
	defaultSpeedW   = 202
	defaultSpeedH   = 202
	maxImageSide    = 2048

	defaultRenderTimeout = 15 * time.Second
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK  bool   `json:"ok"`
	Seq uint64 `json:"seq"`
}

// API serves the rendered dashboard components and the state the host
// controller pushes in.
type API struct {
	Store   *state.Store
	Battery *battery.Gauge
	Speed   *speed.Gauge
	Carview *carview.Renderer
	Logger  Logger

	// RenderTimeout bounds a single vehicle image render including asset
	// loading.
	RenderTimeout time.Duration

	// AllowAnyOrigin accepts /live upgrades from any origin (dev mode).
	AllowAnyOrigin bool
}

// Register mounts the API routes on r, which is expected to be the
// /api/v1 subrouter.
func (a *API) Register(r *mux.Router) {
	r.HandleFunc("/gauges/battery.png", a.handleBatteryPNG).Methods(http.MethodGet)
	r.HandleFunc("/gauges/speed.png", a.handleSpeedPNG).Methods(http.MethodGet)
	r.HandleFunc("/carview.png", a.handleCarviewPNG).Methods(http.MethodGet)
	r.HandleFunc("/info", handleInfoForbidden).Methods(http.MethodGet)
	r.HandleFunc("/info/", handleInfoForbidden).Methods(http.MethodGet)
	r.HandleFunc("/info/{type}", a.handleInfo).Methods(http.MethodGet)
	r.HandleFunc("/state/{kind}", a.handleStatePut).Methods(http.MethodPut)
	r.HandleFunc("/live", a.handleLive).Methods(http.MethodGet)
}

func (a *API) handleBatteryPNG(w http.ResponseWriter, r *http.Request) {
	snap := a.Store.Snapshot()
	q := queryParams{r: r}
	width := q.side("w", defaultBatteryW)
	height := q.side("h", defaultBatteryH)
	pct := q.float("pct", snap.Gauges.BatteryPct)
	charging := q.bool("charging", snap.Gauges.Charging)
	if q.err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_parameter", q.err.Error())
		return
	}

	dc := gg.NewContext(width, height)
	a.Battery.Render(r.Context(), dc, float64(width), float64(height), pct, charging)
	a.writePNG(w, dc)
}

func (a *API) handleSpeedPNG(w http.ResponseWriter, r *http.Request) {
	snap := a.Store.Snapshot()
	q := queryParams{r: r}
	width := q.side("w", defaultSpeedW)
	height := q.side("h", defaultSpeedH)
	spd := q.float("speed", snap.Gauges.Speed)
	power := q.float("power", snap.Gauges.Power)
	if q.err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_parameter", q.err.Error())
		return
	}

	dc := gg.NewContext(width, height)
	a.Speed.Render(dc, float64(width), float64(height), spd, power)
	a.writePNG(w, dc)
}

func (a *API) handleCarviewPNG(w http.ResponseWriter, r *http.Request) {
	snap := a.Store.Snapshot()
	timeout := a.RenderTimeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	dc := gg.NewContext(carview.Width, carview.Height)
	if err := a.Carview.Render(ctx, dc, snap.Vehicle, snap.Status); err != nil {
		a.errorf("carview render failed: %v", err)
		status, code := http.StatusBadGateway, "assets_unavailable"
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			status, code = http.StatusGatewayTimeout, "assets_timeout"
		case errors.Is(err, assets.ErrNotFound):
			code = "asset_missing"
		}
		writeAPIError(w, status, code, err.Error())
		return
	}
	a.writePNG(w, dc)
}

func handleInfoForbidden(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, http.StatusForbidden, "forbidden", "an info type is required")
}

func (a *API) handleInfo(w http.ResponseWriter, r *http.Request) {
	snap := a.Store.Snapshot()
	switch infoType := mux.Vars(r)["type"]; infoType {
	case "car_state":
		writeJSON(w, http.StatusOK, snap.Status)
	case "car_details":
		writeJSON(w, http.StatusOK, snap.Vehicle)
	case "gauges":
		writeJSON(w, http.StatusOK, snap.Gauges)
	default:
		writeAPIError(w, http.StatusBadRequest, "unknown_info_type", fmt.Sprintf("unknown info type %q", infoType))
	}
}

func (a *API) handleStatePut(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()

	switch kind {
	case "status":
		status := state.DefaultVehicleStatus()
		if err := dec.Decode(&status); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		if err := validateStatus(status); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_status", err.Error())
			return
		}
		a.Store.SetStatus(status)
	case "config":
		cfg := state.DefaultVehicleConfig()
		if err := dec.Decode(&cfg); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		a.Store.SetVehicle(cfg)
	case "gauges":
		var gauges state.Gauges
		if err := dec.Decode(&gauges); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		a.Store.SetGauges(gauges)
	default:
		writeAPIError(w, http.StatusNotFound, "unknown_state_kind", fmt.Sprintf("unknown state kind %q", kind))
		return
	}
	metrics.StateUpdates.WithLabelValues(kind).Inc()
	writeJSON(w, http.StatusOK, okResponse{OK: true, Seq: a.Store.Snapshot().Seq})
}

func validateStatus(st state.VehicleStatus) error {
	fields := map[string]state.Openness{
		"rf": st.RF, "rr": st.RR, "lf": st.LF, "lr": st.LR,
		"ft": st.FT, "rt": st.RT, "chargePort": st.ChargePort,
	}
	for name, v := range fields {
		if v != state.Open && v != state.Closed {
			return fmt.Errorf("%s must be %q or %q, got %q", name, state.Open, state.Closed, v)
		}
	}
	if st.PanoPct < 0 || st.PanoPct > 100 {
		return fmt.Errorf("panoPct must be within 0..100, got %d", st.PanoPct)
	}
	return nil
}

func (a *API) writePNG(w http.ResponseWriter, dc *gg.Context) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := dc.EncodePNG(w); err != nil {
		a.errorf("png encode failed: %v", err)
	}
}

func (a *API) errorf(format string, args ...interface{}) {
	if a.Logger != nil {
		a.Logger.Errorf("web", format, args...)
	}
}

// queryParams parses optional query values, keeping the first error.
type queryParams struct {
	r   *http.Request
	err error
}

func (q *queryParams) raw(name string) (string, bool) {
	v := q.r.URL.Query().Get(name)
	return v, v != ""
}

func (q *queryParams) float(name string, def float64) float64 {
	raw, ok := q.raw(name)
	if !ok || q.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.err = fmt.Errorf("%s: %w", name, err)
		return def
	}
	return v
}

func (q *queryParams) side(name string, def int) int {
	raw, ok := q.raw(name)
	if !ok || q.err != nil {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > maxImageSide {
		q.err = fmt.Errorf("%s must be an integer within 1..%d", name, maxImageSide)
		return def
	}
	return v
}

func (q *queryParams) bool(name string, def bool) bool {
	raw, ok := q.raw(name)
	if !ok || q.err != nil {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.err = fmt.Errorf("%s: %w", name, err)
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
