package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"

	"github.com/rook-computer/vtdash/internal/metrics"
	"github.com/rook-computer/vtdash/internal/state"
)

const (
	DefaultDevice    = "/dev/fb0"
	defaultHeartbeat = 5 * time.Second
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// FBRenderer renders to the Linux framebuffer using an offscreen logical canvas.
// Frames are drawn when the store changes and on a slow heartbeat that
// repairs anything the console wrote over the panel.
type FBRenderer struct {
	Device    string
	Heartbeat time.Duration
	Logger    Logger

	mu      sync.Mutex
	fbDev   *fb.Device
	drawer  *CanvasDrawer
	current Screen
	running atomic.Bool
}

func NewFBRenderer(device string) *FBRenderer {
	return &FBRenderer{Device: device}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	device := r.Device
	if device == "" {
		device = DefaultDevice
	}
	dev, err := fb.Open(device)
	if err != nil {
		return err
	}
	r.fbDev = dev
	if r.Logger != nil {
		bounds := dev.Bounds()
		r.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d", device, bounds.Dx(), bounds.Dy())
	}

	r.drawer = NewCanvasDrawer(CanvasWidth, CanvasHeight)
	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

// SetScreen sets the current logical screen to be drawn.
func (r *FBRenderer) SetScreen(screen Screen) {
	r.mu.Lock()
	r.current = screen
	r.mu.Unlock()
}

// RedrawWithState draws the current screen for snap and blits it.
func (r *FBRenderer) RedrawWithState(ctx context.Context, snap state.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running.Load() || r.current == nil || r.fbDev == nil {
		return
	}
	start := time.Now()
	r.current.Draw(ctx, r.drawer, snap)
	blit(r.fbDev, r.drawer.Image())
	metrics.RenderDuration.WithLabelValues("panel").Observe(time.Since(start).Seconds())
}

// RunLoop redraws after every store update and on the heartbeat until the
// context is done. Updates arriving during a frame coalesce into one redraw.
func (r *FBRenderer) RunLoop(ctx context.Context, store *state.Store) {
	changes, unsubscribe := store.Subscribe()
	defer unsubscribe()

	heartbeat := r.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
		case <-ticker.C:
		}
		snap := store.Snapshot()
		r.RedrawWithState(ctx, snap)
		if r.Logger != nil {
			r.Logger.Infof("fb", "frame drawn, seq=%d", snap.Seq)
		}
	}
}

// blit copies canvas to dst via nearest-neighbor scaling. Pixels are written
// opaque; the framebuffer has no meaningful alpha.
func blit(dst draw.Image, canvas *image.RGBA) {
	if dst == nil || canvas == nil {
		return
	}
	bounds := dst.Bounds()
	fbWidth, fbHeight := bounds.Dx(), bounds.Dy()
	cw, ch := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	if fbWidth == 0 || fbHeight == 0 || cw == 0 || ch == 0 {
		return
	}
	columns := make([]int, fbWidth)
	for x := range columns {
		columns[x] = (x * cw) / fbWidth
	}
	for y := 0; y < fbHeight; y++ {
		sy := (y * ch) / fbHeight
		for x, sx := range columns {
			pixel := canvas.RGBAAt(sx, sy)
			dst.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
