// Package carview composites the vehicle illustration from per-part images
// chosen by the vehicle configuration and live status.
package carview

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/metrics"
	"github.com/rook-computer/vtdash/internal/render/canvas"
	"github.com/rook-computer/vtdash/internal/state"
)

const (
	DefaultTimeout = 10 * time.Second
	labelPx        = 14.4
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type imageSet struct {
	urls   map[string]string
	images map[string]image.Image
}

// Renderer owns the decoded image set for the current configuration. It is
// safe for concurrent use; renders that need a new image set wait for the
// load in progress.
type Renderer struct {
	Loader  assets.Loader
	Root    string
	Timeout time.Duration
	Logger  Logger

	mu      sync.Mutex
	loaded  *imageSet
	reloads int
}

func NewRenderer(loader assets.Loader, root string, timeout time.Duration, logger Logger) *Renderer {
	return &Renderer{Loader: loader, Root: root, Timeout: timeout, Logger: logger}
}

// Render draws the composite for cfg and st. All images for cfg are loaded
// before anything is drawn; if any of them fails or the load times out the
// surface is left untouched and the error is returned.
func (r *Renderer) Render(ctx context.Context, s canvas.Surface, cfg state.VehicleConfig, st state.VehicleStatus) error {
	start := time.Now()
	images, err := r.images(ctx, ImageURLs(r.Root, cfg))
	if err != nil {
		return err
	}
	faces := canvas.NewFaces()
	for _, l := range Layers(cfg, st) {
		r.drawLayer(s, faces, images, l)
	}
	metrics.RenderDuration.WithLabelValues("carview").Observe(time.Since(start).Seconds())
	return nil
}

// Reloads is the number of completed image set loads.
func (r *Renderer) Reloads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reloads
}

func (r *Renderer) images(ctx context.Context, urls map[string]string) (map[string]image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded != nil && sameURLs(r.loaded.urls, urls) {
		return r.loaded.images, nil
	}
	if r.Loader == nil {
		return nil, fmt.Errorf("carview: no asset loader configured")
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	images, err := assets.LoadAll(ctx, r.Loader, urls, timeout)
	if err != nil {
		r.errorf("image set load failed: %v", err)
		return nil, fmt.Errorf("load vehicle images: %w", err)
	}
	r.loaded = &imageSet{urls: urls, images: images}
	r.reloads++
	metrics.CarviewReloads.Inc()
	r.infof("loaded %d vehicle images", len(images))
	return images, nil
}

func (r *Renderer) drawLayer(s canvas.Surface, faces *canvas.Faces, images map[string]image.Image, l Layer) {
	if l.Text != "" {
		s.SetFontFace(faces.Face(labelPx))
		s.SetColor(canvas.MustParseColor("white"))
		s.DrawStringAnchored(l.Text, l.X, l.Y, 0, 0.5)
		return
	}
	img, ok := images[l.Image]
	if !ok || img == nil {
		return
	}
	scale := l.Scale
	if scale == 0 {
		scale = 1
	}
	b := img.Bounds()
	scaled := canvas.ScaleImage(img, float64(b.Dx())*scale, float64(b.Dy())*scale)
	if scaled == nil {
		return
	}
	x, y := int(math.Round(l.X)), int(math.Round(l.Y))
	if l.Shadow {
		shadow, pad := dropShadow(scaled)
		s.DrawImage(shadow, x+shadowOffset-pad, y+shadowOffset-pad)
	}
	s.DrawImage(scaled, x, y)
}

func (r *Renderer) infof(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Infof("carview", format, args...)
	}
}

func (r *Renderer) errorf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Errorf("carview", format, args...)
	}
}
