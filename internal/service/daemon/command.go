package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dawnkit/wake-pipeline/internal/config"
	"github.com/dawnkit/wake-pipeline/internal/domain/wake"
	"github.com/dawnkit/wake-pipeline/internal/logger"
	"github.com/dawnkit/wake-pipeline/internal/metrics"
	"github.com/dawnkit/wake-pipeline/internal/pipeline"
	"github.com/dawnkit/wake-pipeline/internal/repository/history"
	"github.com/dawnkit/wake-pipeline/internal/scheduler"
	"github.com/dawnkit/wake-pipeline/internal/synth"
)

// Options controls daemon startup.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// MetricsAddress overrides the metrics listen address from the config.
	MetricsAddress string
	// Debug skips the single-instance check for local experimentation.
	Debug bool
}

// metricsShutdownTimeout bounds how long shutdown waits for the metrics
// listener to drain.
const metricsShutdownTimeout = 5 * time.Second

// Run starts the wake daemon and blocks until the context is cancelled.
// It arms one timer per alarm, re-arms on every fire and recovers lost
// timers with a minute-level cron sweep.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "wake-daemon")

	// A missing .env file is the normal case.
	if err := godotenv.Load(); err == nil {
		logger.Debug(ctx, "Loaded environment overrides from .env")
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if cfg.LogLevel != "" {
		level, ok := logger.ParseLogLevel(cfg.LogLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", cfg.LogLevel)
		}

		logger.SetLevel(level)
	}

	if !opts.Debug {
		if err = ensureSingleInstance(); err != nil {
			return err
		}
	}

	metricsAddress := cfg.MetricsAddress
	if opts.MetricsAddress != "" {
		metricsAddress = opts.MetricsAddress
	}

	stopMetrics := startMetricsServer(ctx, metricsAddress)
	defer stopMetrics()

	// A missing audio device degrades to haptic/visual cues, it does not
	// keep the daemon from arming alarms.
	var output synth.Output

	output, err = synth.NewOtoOutput(cfg.SampleRate)
	if err != nil {
		logger.WarnKV(ctx, "Audio device unavailable, running silent", "error", err)

		output = synth.DiscardOutput{}
	}

	engine := synth.NewEngine(output, cfg.SampleRate)
	timers := scheduler.NewTimers()

	// Attribution in shared history files; the daemon still runs without it.
	actor, err := wake.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Actor detection failed", "error", err)
	}

	pipe := pipeline.New(pipeline.Options{
		Sounder:     engine,
		Cues:        logCues{ctx: ctx},
		Events:      logEvents{ctx: ctx},
		History:     history.NewFileRepository(cfg.HistoryFile),
		Actor:       actor,
		SnoozeDelay: cfg.SnoozeDelay,
	})

	resolver := NewResolver(ctx, cfg.Alarms, timers, pipe)
	resolver.ArmAll(ctx)

	logger.InfoKV(ctx, "Wake daemon running",
		"alarms", len(cfg.Alarms), "armed", resolver.Armed(), "history_file", cfg.HistoryFile)

	cronRunner := scheduler.NewCron()
	if err = cronRunner.AddJob(scheduler.SweepSpec, func() {
		resolver.Sweep(ctx)
	}); err != nil {
		return fmt.Errorf("schedule recovery sweep: %w", err)
	}

	<-ctx.Done()

	logger.Info(ctx, "Context canceled, shutting down")

	cronRunner.Stop()
	timers.Stop(ctx)
	pipe.Close(ctx)

	return nil
}

// startMetricsServer exposes the Prometheus endpoint when an address is
// configured. The returned stop function is safe to call either way.
func startMetricsServer(ctx context.Context, address string) func() {
	if address == "" {
		return func() {}
	}

	metrics.Init(prometheus.DefaultRegisterer)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.InfoKV(ctx, "Metrics endpoint listening", "address", address)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Metrics endpoint failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WarnKV(ctx, "Metrics endpoint shutdown failed", "error", err)
		}
	}
}
