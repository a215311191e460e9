package internal

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	StartTimeKey contextKey = "start_time"

	requestIDHeader = "X-Request-ID"

	// otherRoute collects every path the router does not serve.
	otherRoute = "other"
)

var knownRoutes = map[string]bool{
	"/":                true,
	"/api/leaderboard": true,
	"/healthz":         true,
	"/metrics":         true,
}

// routeKey maps a request path to a bounded set of metric labels.
func routeKey(path string) string {
	if knownRoutes[path] {
		return path
	}
	if strings.HasPrefix(path, assetBase+"/") {
		return assetBase + "/"
	}
	return otherRoute
}

// LoggingMiddleware tags each request with an ID and start time, then logs
// and records it once the handler returns.
type LoggingMiddleware struct {
	logger  *Logger
	metrics *MetricsCollector
}

func NewLoggingMiddleware(logger *Logger, metrics *MetricsCollector) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger:  logger,
		metrics: metrics,
	}
}

func (lm *LoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = withRequestContext(w, r)
		requestID := GetRequestID(r.Context())

		lm.logger.Debug("request_started").
			Component("http").
			Operation("handle_request").
			HTTP(r.Method, r.URL.Path, 0).
			Request(r.UserAgent(), r.RemoteAddr, requestID).
			Log()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		elapsed := time.Since(GetStartTime(r.Context()))
		route := routeKey(r.URL.Path)

		lm.logger.Info("request_completed").
			Component("http").
			Operation("handle_request").
			HTTP(r.Method, r.URL.Path, sw.status).
			Request(r.UserAgent(), r.RemoteAddr, requestID).
			Duration(elapsed).
			Meta("route", route).
			Log()

		if lm.metrics != nil {
			lm.metrics.RecordRequest(route, elapsed, sw.status)
		}
	})
}

// withRequestContext reuses an upstream request ID when present and echoes
// it back on the response.
func withRequestContext(w http.ResponseWriter, r *http.Request) *http.Request {
	id := r.Header.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, id)

	ctx := context.WithValue(r.Context(), RequestIDKey, id)
	ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	return r.WithContext(ctx)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// GetStartTime returns the zero time outside the logging middleware.
func GetStartTime(ctx context.Context) time.Time {
	started, _ := ctx.Value(StartTimeKey).(time.Time)
	return started
}
