package internal

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

const ShutdownTimeout = 10 * time.Second

type RouterDeps struct {
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

func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()
	limited := withRateLimit(d.RateLimiter, d.Logger)

	mux.HandleFunc("/", limited(LeaderboardPageHandler(d.Loader, d.Icons, d.Config.PageSize, d.Logger)))
	mux.HandleFunc("/api/leaderboard", limited(LeaderboardAPIHandler(d.Loader, d.Icons, d.Config.PageSize, d.Logger)))
	mux.HandleFunc("/healthz", HealthHandler(d.Loader, d.Cache, d.NATS, d.Logger))
	mux.HandleFunc("/metrics", MetricsHandler(d.Metrics, d.Profiler, d.Logger))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(d.Config.StaticDir))))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return NewLoggingMiddleware(d.Logger, d.Metrics).Handler(c.Handler(mux))
}

func NewHTTPServer(cfg *Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}
