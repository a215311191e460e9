package internal

import (
	"context"
	"net/http"

	"go.uber.org/fx"
)

func provideCacheManager(lc fx.Lifecycle, cfg *Config) *CacheManager {
	cm := NewCacheManager(cfg)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cm.Close()
		},
	})
	return cm
}

func provideRateLimiter(lc fx.Lifecycle, cfg *Config, logger *Logger) RateLimiterInterface {
	rl := NewRateLimiter(cfg, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rl.Close()
		},
	})
	return rl
}

func provideNATSClient(lc fx.Lifecycle, cfg *Config) (*NATSClient, EventPublisher, error) {
	nc, err := NewNATSClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			nc.Close()
			return nil
		},
	})
	return nc, nc, nil
}

// providePlayerSource picks the upstream by DATA_SOURCE.
func providePlayerSource(lc fx.Lifecycle, cfg *Config, cache *CacheManager, logger *Logger, metrics *MetricsCollector) (PlayerSource, error) {
	if cfg.DataSource != DataSourcePostgres {
		return NewStatsClient(cfg, cache, logger, metrics), nil
	}

	ps, err := NewPostgresSource(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return ps.Close()
		},
	})
	return ps, nil
}

func provideIconResolver(cfg *Config, logger *Logger) *IconResolver {
	icons := NewIconResolver(cfg)
	logger.Warn("ddragon_version_pinned").
		Component("icons").
		Operation("init").
		Meta("version", icons.Version()).
		Meta("hint", "update DDRAGON_VERSION when a new patch ships").
		Log()
	return icons
}

type routerParams struct {
	fx.In

	Config      *Config
	Loader      *Loader
	Icons       *IconResolver
	RateLimiter RateLimiterInterface
	Cache       *CacheManager
	NATS        *NATSClient
	Metrics     *MetricsCollector
	Profiler    *Profiler
	Logger      *Logger
}

func provideRouter(p routerParams) http.Handler {
	return NewRouter(RouterDeps{
		Config:      p.Config,
		Loader:      p.Loader,
		Icons:       p.Icons,
		RateLimiter: p.RateLimiter,
		Cache:       p.Cache,
		NATS:        p.NATS,
		Metrics:     p.Metrics,
		Profiler:    p.Profiler,
		Logger:      p.Logger,
	})
}

var Module = fx.Options(
	fx.Provide(LoadConfig),
	fx.Provide(NewLogger),
	fx.Provide(NewMetricsCollector),
	fx.Provide(NewProfiler),
	// infra
	fx.Provide(provideCacheManager),
	fx.Provide(provideRateLimiter),
	fx.Provide(provideNATSClient),
	// data
	fx.Provide(providePlayerSource),
	fx.Provide(NewLoader),
	fx.Provide(provideIconResolver),
	// http
	fx.Provide(provideRouter),
	fx.Provide(NewHTTPServer),
)
