package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/okian/facepad/internal/adapters/http/api"
	eventqueue "github.com/okian/facepad/internal/adapters/mq/queue"
	"github.com/okian/facepad/internal/app"
	"github.com/okian/facepad/internal/assets"
	"github.com/okian/facepad/internal/config"
	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/internal/games"
	"github.com/okian/facepad/internal/games/registry"
	"github.com/okian/facepad/internal/render"
	"github.com/okian/facepad/pkg/logger"
	"github.com/okian/facepad/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// version is set at link time.
var version = "0.1.0-dev" //nolint:gochecknoglobals // overridden with -ldflags

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 5 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Our own system gauges replace the default Go collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Stderr.WriteString("facepad: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

// run is main without the process exit, so tests can drive it.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("facepad", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, version)
		return nil
	}

	if err := logger.Init(logger.WithOutput(stderr)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithOutput(stderr), logger.WithFormat(logger.Format(strings.ToLower(cfg.LogFormat)))); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	if opts.scale > 0 {
		cfg.Scale = opts.scale
	}

	reg, err := games.Discover(nil,
		registry.WithAssets(assets.NewLibrary(cfg.AssetsDir, assets.WithLogger(log.Named("assets")))),
		registry.WithLogger(log.Named("games")),
		registry.WithCameraIndices(opts.cameras),
	)
	if err != nil {
		return err
	}
	if opts.list {
		listGames(stdout, reg)
		return nil
	}

	initial, err := reg.Create(opts.game)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(reg.Names(), ", "))
	}
	if mp, ok := initial.(game.Multiplayer); ok && len(opts.cameras) > 0 {
		if err := mp.SetCameraIndices(opts.cameras); err != nil {
			return err
		}
	}

	providers, err := buildProviders(ctx, opts.providers, cfg, cameraPlan(initial, opts.cameras), log)
	if err != nil {
		return err
	}

	loop, err := app.New(initial,
		app.WithQueue(eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(cfg.QueueSize))),
		app.WithProviders(providers...),
		app.WithFPS(cfg.FPS),
		app.WithMaxFrames(opts.frames),
		app.WithStrict(cfg.Strict),
		app.WithKeyboardNote(cfg.KeyboardNote),
		app.WithLogger(log.Named("loop")),
	)
	if err != nil {
		return err
	}

	go startSystemMetricsUpdater(ctx)

	if cfg.StatusAddr != "" {
		srv := startStatusServer(ctx, cfg.StatusAddr, loop, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "status server shutdown failed", logger.Error(err))
			}
		}()
	}

	surface := render.NewHeadless(initial.Width(), initial.Height(), render.WithScale(cfg.Scale))
	keysCtx, stopKeys := context.WithCancel(ctx)
	defer stopKeys()
	go func() {
		if err := surface.ReadKeys(keysCtx, stdin); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn(ctx, "reading keys", logger.Error(err))
		}
	}()

	log.Info(ctx, "facepad starting",
		logger.String("version", version),
		logger.String("game", opts.game),
		logger.Int("providers", len(providers)),
		logger.Int("scale", cfg.Scale))
	if err := loop.Run(ctx, surface); err != nil {
		return err
	}
	st := loop.Stats()
	log.Info(ctx, "facepad stopped", logger.String("game", st.Game), logger.Int64("frames", st.Frames))
	return nil
}

func listGames(w io.Writer, reg *registry.Registry) {
	entries := reg.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No games found.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "- %s (%s)\n", e.Name, e.Source)
	}
}

func startStatusServer(ctx context.Context, addr string, loop *app.App, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	api.NewServer(loop).Register(ctx, mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "starting status server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "status server failed", logger.Error(fmt.Errorf("%w: %w", api.ErrServe, err)))
		}
	}()
	return srv
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
