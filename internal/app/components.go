package app

import (
	"fmt"
	"time"

	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/config"
	"github.com/rook-computer/vtdash/internal/render/battery"
	"github.com/rook-computer/vtdash/internal/render/carview"
	"github.com/rook-computer/vtdash/internal/render/speed"
	"github.com/rook-computer/vtdash/internal/state"
	"github.com/rook-computer/vtdash/internal/web"
)

// Components are the dashboard renderers sharing one asset loader. They are
// safe for concurrent use by the HTTP handlers and the panel.
type Components struct {
	Loader  assets.Loader
	Battery *battery.Gauge
	Speed   *speed.Gauge
	Carview *carview.Renderer
}

func NewComponents(conf config.Config, logger Logger) (*Components, error) {
	loader, err := assets.New(conf.SourceConfig())
	if err != nil {
		return nil, fmt.Errorf("asset source: %w", err)
	}
	return NewComponentsWithLoader(loader, conf, logger), nil
}

func NewComponentsWithLoader(loader assets.Loader, conf config.Config, logger Logger) *Components {
	return &Components{
		Loader:  loader,
		Battery: battery.NewGauge(loader, conf.Plug.URL, logger),
		Speed:   speed.NewGauge(),
		Carview: carview.NewRenderer(loader, conf.Assets.Root, conf.Assets.Timeout, logger),
	}
}

// API exposes the components and store over HTTP.
func (c *Components) API(store *state.Store, logger Logger, conf config.Config) *web.API {
	return &web.API{
		Store:         store,
		Battery:       c.Battery,
		Speed:         c.Speed,
		Carview:       c.Carview,
		Logger:        logger,
		RenderTimeout: conf.Assets.Timeout + 5*time.Second,
	}
}
