// Package metrics holds the Prometheus collectors shared across the renderer,
// the asset loaders and the web server.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vtdash"

var (
	RenderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "render_duration_seconds",
		Help:      "Time spent rendering one dashboard component.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"component"})

	AssetLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asset_loads_total",
		Help:      "Image asset loads by source and result.",
	}, []string{"source", "result"})

	CarviewReloads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "carview_cache_reloads_total",
		Help:      "Times the vehicle image set was (re)loaded.",
	})

	LiveClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_clients",
		Help:      "Connected /live websocket clients.",
	})

	StateUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "state_updates_total",
		Help:      "Snapshots pushed into the store by kind.",
	}, []string{"kind"})
)

var registerOnce sync.Once

// Register adds every collector to reg. Safe to call more than once; only
// the first call registers.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(RenderDuration, AssetLoads, CarviewReloads, LiveClients, StateUpdates)
	})
}

// Result labels for AssetLoads.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)
