package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/vtdash/internal/render"
	"github.com/rook-computer/vtdash/internal/state"
	"github.com/rook-computer/vtdash/internal/system"
	"github.com/rook-computer/vtdash/internal/web"
)

type App struct {
	Store  *state.Store
	Web    web.Server
	Logger Logger

	// Render and Screen drive the framebuffer panel; both nil disables it.
	Render render.Renderer
	Screen render.Screen

	// VehicleFile, when set, is loaded into the store and watched.
	VehicleFile string
	// ExitKey stops the app when pressed on a local keyboard.
	ExitKey string
	// DashboardURL is shown on the panel as text and QR code.
	DashboardURL state.NetworkInfo

	exitOnce       atomic.Bool
	exitCh         chan error
	restoreConsole func()
}

func New(store *state.Store, webServer web.Server) *App {
	return &App{Store: store, Web: webServer, Logger: NoopLogger{}, ExitKey: system.ExitKeyNone, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running.
// Any component can call this to terminate the process via the generic codepath.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs the app until ctx ends or Exit is called.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	app.exitOnce.Store(false)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	defer wg.Wait()

	if app.DashboardURL.URL != "" {
		app.Store.UpdateNetwork(app.DashboardURL)
	}

	if app.VehicleFile != "" {
		if err := app.loadVehicleFile(); err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.watchVehicleFile(runCtx)
		}()
	}

	if app.Web != nil {
		if err := app.Web.Start(runCtx); err != nil {
			app.Logger.Errorf("app", "web server start error: %v", err)
			return err
		}
		defer func() {
			if err := app.Web.Stop(); err != nil {
				app.Logger.Errorf("app", "web server stop error: %v", err)
			}
		}()
	}

	if app.Render != nil && app.Screen != nil {
		if err := app.startPanel(runCtx, &wg); err != nil {
			return err
		}
		defer app.stopPanel()
	}

	// Wait for completion, then exit.
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	return err
}

func (app *App) startPanel(ctx context.Context, wg *sync.WaitGroup) error {
	fb, onDevice := app.Render.(*render.FBRenderer)
	if onDevice && fb.Logger == nil {
		fb.Logger = app.Logger
	}
	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return err
	}

	// Switch console to KD_GRAPHICS to suppress hardware cursor
	if onDevice {
		app.restoreConsole = system.EnterGraphicsMode(app.Logger)
	}

	if err := app.Screen.Start(ctx); err != nil {
		app.stopPanel()
		return err
	}
	app.Render.SetScreen(app.Screen)

	// Force immediate first redraw so the panel does not wait for a change.
	app.Render.RedrawWithState(ctx, app.Store.Snapshot())

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Render.RunLoop(ctx, app.Store)
	}()

	system.WatchExitKey(ctx, app.ExitKey, app.Logger, func() { app.Exit(nil) })
	return nil
}

func (app *App) stopPanel() {
	if err := app.Screen.Stop(); err != nil {
		app.Logger.Errorf("app", "screen stop error: %v", err)
	}
	if err := app.Render.Stop(); err != nil {
		app.Logger.Errorf("app", "renderer stop error: %v", err)
	}
	if app.restoreConsole != nil {
		app.restoreConsole()
		app.restoreConsole = nil
	}
}

func (app *App) loadVehicleFile() error {
	cfg, err := state.LoadVehicleFile(app.VehicleFile)
	if err != nil {
		app.Logger.Errorf("app", "vehicle file: %v", err)
		return err
	}
	app.Store.SetVehicle(cfg)
	app.Logger.Infof("app", "vehicle loaded from %s: color=%s model=%s", app.VehicleFile, cfg.Color, cfg.Model)
	return nil
}

func (app *App) watchVehicleFile(ctx context.Context) {
	err := state.WatchVehicleFile(ctx, app.VehicleFile,
		func(cfg state.VehicleConfig) {
			app.Store.SetVehicle(cfg)
			app.Logger.Infof("app", "vehicle file reloaded: color=%s model=%s", cfg.Color, cfg.Model)
		},
		func(err error) {
			app.Logger.Errorf("app", "vehicle file reload failed: %v", err)
		})
	if err != nil && ctx.Err() == nil {
		app.Logger.Errorf("app", "vehicle file watch stopped: %v", err)
	}
}
