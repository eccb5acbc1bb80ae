package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/NethermindEth/kipt/bridge"
	"github.com/NethermindEth/kipt/journal"
	"github.com/NethermindEth/kipt/metrics"
	"github.com/NethermindEth/kipt/script"
	"github.com/NethermindEth/kipt/tracing"
	"github.com/NethermindEth/kipt/utils"
	"go.uber.org/automaxprocs/maxprocs"
)

const serviceName = "kipt"

// Run executes the script at path with the process-wide resources described
// by cfg. They are released when the script returns.
func Run(ctx context.Context, cfg *Config, path string, out io.Writer) error {
	log, err := utils.NewZapLogger(cfg.LogLevel, cfg.Colour)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if _, err = maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Warnw("Failed to set GOMAXPROCS", "err", err)
	}

	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warnw("Failed to flush traces", "err", err)
		}
	}()

	opts := []script.Option{script.WithStdout(out)}

	factory := metrics.VoidFactory()
	if cfg.Metrics {
		metrics.Enable()
		factory = metrics.PrometheusFactory(nil)
		stop := serveMetrics(net.JoinHostPort(cfg.MetricsHost, strconv.Itoa(int(cfg.MetricsPort))), log)
		defer stop()
	}
	opts = append(opts, script.WithMetrics(metrics.NewOperations(factory)))

	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal, nil, log)
		if err != nil {
			return err
		}
		defer j.Close()

		run := j.NewRun(path)
		log.Debugw("Journaling operations", "dir", cfg.Journal, "run", run.ID())
		opts = append(opts, script.WithJournal(run))
	}

	pool := bridge.NewPool(ctx, cfg.MaxGoroutines)
	defer pool.Close()

	host := script.New(pool, log, opts...)
	defer func() {
		if err := host.Close(); err != nil {
			log.Warnw("Failed to close operation log", "err", err)
		}
	}()
	host.Seed(&cfg.Config)

	return host.RunFile(path)
}

// serveMetrics exposes the Prometheus registry until the returned function is called.
func serveMetrics(addr string, log utils.SimpleLogger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.PrometheusHandler(nil))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("Metrics server failed", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warnw("Failed to stop metrics server", "err", err)
		}
	}
}
