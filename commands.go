package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fogleman/gg"
	"github.com/gosuri/uitable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/rook-computer/vtdash/internal/app"
	"github.com/rook-computer/vtdash/internal/app/screens"
	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/config"
	"github.com/rook-computer/vtdash/internal/metrics"
	"github.com/rook-computer/vtdash/internal/render"
	"github.com/rook-computer/vtdash/internal/render/carview"
	"github.com/rook-computer/vtdash/internal/state"
	"github.com/rook-computer/vtdash/internal/system"
	"github.com/rook-computer/vtdash/internal/web"
)

const stdioLogEnv = "VTDASH_STDIO_LOG"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vtdash",
		Short:         "Vehicle dashboard renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Best-effort: redirect all stdout/stderr output (including panic stack traces)
			// to a file so crashes are diagnosable even when the console is left in graphics mode.
			logPath, _ := cmd.Flags().GetString("stdio-log")
			if logPath == "" {
				logPath = os.Getenv(stdioLogEnv)
			}
			if logPath != "" {
				if err := redirectStdIO(logPath); err != nil {
					fmt.Fprintln(os.Stderr, "stdio log redirect error:", err)
				}
			}
			return nil
		},
	}
	config.DefineFlags(root)
	root.PersistentFlags().String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+stdioLogEnv)

	root.AddCommand(newServeCmd(), newRenderCmd(), newAssetsCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP and optionally on the framebuffer",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	config.DefineServeFlags(cmd)
	return cmd
}

func setup(cmd *cobra.Command) (config.Config, *app.ZapLogger, error) {
	conf, err := config.Load(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := app.NewZapLogger(app.LogOptions{Level: conf.Log.Level, Debug: conf.Debug})
	if err != nil {
		return config.Config{}, nil, err
	}
	return conf, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	conf, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Infof("main", format, args...)
	}))
	metrics.Register(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := app.NewComponents(conf, logger)
	if err != nil {
		return err
	}
	checkCtx, cancel := context.WithTimeout(ctx, conf.Assets.Timeout)
	if err := assets.Check(checkCtx, comps.Loader); err != nil {
		logger.Errorf("main", "asset source check failed: %v", err)
	}
	cancel()

	store := state.NewStore()
	handler, router := web.NewHandler(conf.ServerConfig(), comps.API(store, logger, conf), prometheus.DefaultGatherer)
	web.MountUI(router, conf.StaticDir)
	server := web.NewHTTPServer(conf.Listen, handler)
	server.Logger = logger

	a := app.New(store, server)
	a.Logger = logger
	a.VehicleFile = conf.Vehicle.File
	ip, url, err := system.DashboardURL(conf.Listen)
	if err != nil {
		logger.Errorf("main", "dashboard url: %v", err)
	} else if url != "" {
		a.DashboardURL = state.NetworkInfo{IP: ip, URL: url}
		logger.Infof("main", "dashboard at %s", url)
	}
	if conf.FB.Enable {
		fbr := render.NewFBRenderer(conf.FB.Device)
		fbr.Logger = logger
		a.Render = fbr
		a.Screen = screens.NewDashboardScreen(comps.Battery, comps.Speed, comps.Carview, logger)
		a.ExitKey = conf.FB.ExitKey
	}

	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Infof("main", "shutting down")
	return nil
}

type renderOptions struct {
	output   string
	width    int
	height   int
	pct      float64
	charging bool
	speed    float64
	power    float64
	open     []string
	pano     int
	unlocked bool
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:       "render <battery|speed|carview>",
		Short:     "Render one dashboard component to a PNG file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"battery", "speed", "carview"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output PNG path, - for stdout")
	f.IntVar(&opts.width, "width", 0, "image width (battery 124, speed 202 when unset)")
	f.IntVar(&opts.height, "height", 0, "image height (battery 40, speed 202 when unset)")
	f.Float64Var(&opts.pct, "pct", 50, "battery percentage")
	f.BoolVar(&opts.charging, "charging", false, "show the charging plug / charging state")
	f.Float64Var(&opts.speed, "speed", 0, "speed")
	f.Float64Var(&opts.power, "power", 0, "power in kW, negative for regen")
	f.StringSliceVar(&opts.open, "open", nil, "open closures: rf, rr, lf, lr, ft, rt, chargePort")
	f.IntVar(&opts.pano, "pano", 0, "panoramic roof opening percentage")
	f.BoolVar(&opts.unlocked, "unlocked", false, "draw the unlocked indicator")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runRender(cmd *cobra.Command, component string, opts *renderOptions) error {
	conf, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	comps, err := app.NewComponents(conf, logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), conf.Assets.Timeout+5*time.Second)
	defer cancel()

	var dc *gg.Context
	switch component {
	case "battery":
		w, h := sizeOr(opts.width, 124), sizeOr(opts.height, 40)
		dc = gg.NewContext(w, h)
		comps.Battery.Render(ctx, dc, float64(w), float64(h), opts.pct, opts.charging)
	case "speed":
		w, h := sizeOr(opts.width, 202), sizeOr(opts.height, 202)
		dc = gg.NewContext(w, h)
		comps.Speed.Render(dc, float64(w), float64(h), opts.speed, opts.power)
	case "carview":
		vehicle := state.DefaultVehicleConfig()
		if conf.Vehicle.File != "" {
			if vehicle, err = state.LoadVehicleFile(conf.Vehicle.File); err != nil {
				return err
			}
		}
		status, err := statusFromFlags(opts.open, opts.pano, opts.charging, !opts.unlocked)
		if err != nil {
			return err
		}
		dc = gg.NewContext(carview.Width, carview.Height)
		if err := comps.Carview.Render(ctx, dc, vehicle, status); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown component %q", component)
	}

	if opts.output == "-" {
		return dc.EncodePNG(cmd.OutOrStdout())
	}
	if err := dc.SavePNG(opts.output); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	logger.Infof("main", "wrote %s", opts.output)
	return nil
}

func sizeOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// statusFromFlags builds a status with the named closures open and every
// other closure shut.
func statusFromFlags(open []string, pano int, charging, locked bool) (state.VehicleStatus, error) {
	st := state.DefaultVehicleStatus()
	st.Charging = charging
	st.Locked = locked
	if pano < 0 || pano > 100 {
		return st, fmt.Errorf("pano must be within 0..100, got %d", pano)
	}
	st.PanoPct = pano
	closures := map[string]*state.Openness{
		"rf": &st.RF, "rr": &st.RR, "lf": &st.LF, "lr": &st.LR,
		"ft": &st.FT, "rt": &st.RT, "chargeport": &st.ChargePort,
	}
	for _, name := range open {
		field, ok := closures[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return st, fmt.Errorf("unknown closure %q", name)
		}
		*field = state.Open
	}
	return st, nil
}

func newAssetsCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List the vehicle images the configured vehicle resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			vehicle := state.DefaultVehicleConfig()
			if conf.Vehicle.File != "" {
				if vehicle, err = state.LoadVehicleFile(conf.Vehicle.File); err != nil {
					return err
				}
			}
			var loader assets.Loader
			if check {
				if loader, err = assets.New(conf.SourceConfig()); err != nil {
					return err
				}
			}
			return printAssets(cmd.Context(), cmd.OutOrStdout(), carview.ImageURLs(conf.Assets.Root, vehicle), loader, conf.Assets.Timeout)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "load every image and report its status")
	return cmd
}

// printAssets writes one row per logical image. With a loader each image
// is loaded and its status reported.
func printAssets(ctx context.Context, w io.Writer, urls map[string]string, loader assets.Loader, timeout time.Duration) error {
	table := uitable.New()
	table.MaxColWidth = 80
	if loader == nil {
		table.AddRow("NAME", "URL")
	} else {
		table.AddRow("NAME", "URL", "STATUS")
	}

	var failed int
	for _, name := range carview.Names(urls) {
		if loader == nil {
			table.AddRow(name, urls[name])
			continue
		}
		status := "ok"
		loadCtx, cancel := context.WithTimeout(ctx, timeout)
		img, err := loader.Load(loadCtx, urls[name])
		cancel()
		switch {
		case errors.Is(err, assets.ErrNotFound):
			status = "missing"
			failed++
		case err != nil:
			status = "error: " + err.Error()
			failed++
		default:
			b := img.Bounds()
			status = fmt.Sprintf("ok %dx%d", b.Dx(), b.Dy())
		}
		table.AddRow(name, urls[name], status)
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images unavailable", failed, len(urls))
	}
	return nil
}
