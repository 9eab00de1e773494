package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rook-computer/vtdash/internal/app"
	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/config"
	"github.com/rook-computer/vtdash/internal/metrics"
	"github.com/rook-computer/vtdash/internal/state"
	"github.com/rook-computer/vtdash/internal/web"
)

func main() {
	if err := newSimCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newSimCmd() *cobra.Command {
	var (
		tick time.Duration
		auto bool
	)
	cmd := &cobra.Command{
		Use:           "vtdash-sim",
		Short:         "Serve the dashboard fed by a simulated drive cycle",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tick <= 0 {
				return fmt.Errorf("tick must be positive, got %s", tick)
			}
			return runSim(cmd, tick, auto)
		},
	}
	config.DefineFlags(cmd)
	config.DefineServeFlags(cmd)
	cmd.Flags().DurationVar(&tick, "tick", 250*time.Millisecond, "simulation step")
	cmd.Flags().BoolVar(&auto, "auto", true, "cycle through parking, charging and driving on its own")
	return cmd
}

func runSim(cmd *cobra.Command, tick time.Duration, auto bool) error {
	conf, err := config.LoadWithDefaults(cmd, map[string]any{"listen": ":8090"})
	if err != nil {
		return err
	}
	logger, err := app.NewZapLogger(app.LogOptions{Level: conf.Log.Level, Debug: conf.Debug})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	metrics.Register(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	if conf.Vehicle.File != "" {
		vehicle, err := state.LoadVehicleFile(conf.Vehicle.File)
		if err != nil {
			return err
		}
		store.SetVehicle(vehicle)
	}

	control := NewSimControl(store, auto)
	control.Logger = logger
	control.Reset()

	loader, err := assets.New(conf.SourceConfig())
	if err != nil {
		return fmt.Errorf("asset source: %w", err)
	}
	comps := app.NewComponentsWithLoader(control.WrapLoader(loader), conf, logger)

	handler, router := web.NewHandler(conf.ServerConfig(), comps.API(store, logger, conf), prometheus.DefaultGatherer)
	registerSimEndpoints(router, control)
	web.MountUI(router, conf.StaticDir)

	server := web.NewHTTPServer(conf.Listen, handler)
	server.Logger = logger
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server start: %w", err)
	}
	defer func() { _ = server.Stop() }()

	logger.Infof("sim", "listening on %s, auto=%t, tick=%s", server.Addr, auto, tick)
	logger.Infof("sim", "API: http://%s/api/v1/", displayAddr(server.Addr))

	control.Run(ctx, tick)
	return nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8090"
	}
	return addr
}
