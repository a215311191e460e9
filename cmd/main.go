package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/robertasolimandonofreo/soloq-ranking/internal"
)

const (
	metricsReportInterval = 5 * time.Minute
	memoryLogInterval     = 1 * time.Minute
)

func main() {
	fx.New(
		internal.Module,
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	srv *http.Server,
	loader *internal.Loader,
	metrics *internal.MetricsCollector,
	profiler *internal.Profiler,
	logger *internal.Logger,
) {
	// Outlives the OnStart ctx, which fx cancels once startup returns.
	bgCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			loader.Start(bgCtx)
			metrics.StartReporter(bgCtx, metricsReportInterval)
			profiler.StartPeriodicMemoryLogging(bgCtx, memoryLogInterval)

			go func() {
				logger.Info("server_starting").
					Component("server").
					Operation("start").
					Meta("addr", srv.Addr).
					Log()
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("server_failed").
						Component("server").
						Operation("start").
						Err(err).
						Log()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			logger.Info("server_stopping").
				Component("server").
				Operation("stop").
				Log()

			shutdownCtx, done := context.WithTimeout(context.Background(), internal.ShutdownTimeout)
			defer done()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server_shutdown_failed").
					Component("server").
					Operation("stop").
					Err(err).
					Log()
				return err
			}

			logger.Info("server_stopped").
				Component("server").
				Operation("stop").
				Log()
			return nil
		},
	})
}
