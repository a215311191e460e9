package internal

import (
	"context"
	"sort"
	"sync"
	"time"
)

// maxDurationSamples caps the latency samples kept per endpoint.
const maxDurationSamples = 256

// durationWindow is a fixed-size ring of the most recent latencies in ms.
type durationWindow struct {
	samples []int64
	next    int
}

func (w *durationWindow) add(ms int64) {
	if len(w.samples) < maxDurationSamples {
		w.samples = append(w.samples, ms)
		return
	}
	w.samples[w.next] = ms
	w.next = (w.next + 1) % maxDurationSamples
}

type MetricsCollector struct {
	logger *Logger

	requestCount    map[string]int64
	requestDuration map[string]*durationWindow
	cacheHits       int64
	cacheMisses     int64
	apiErrors       map[string]int64

	loadStatus     string
	loadRecords    int
	loadDurationMs int64

	mu sync.RWMutex
}

func NewMetricsCollector(logger *Logger) *MetricsCollector {
	return &MetricsCollector{
		logger:          logger,
		requestCount:    make(map[string]int64),
		requestDuration: make(map[string]*durationWindow),
		apiErrors:       make(map[string]int64),
		loadStatus:      StatusNotLoaded.String(),
	}
}

func (mc *MetricsCollector) RecordRequest(endpoint string, duration time.Duration, statusCode int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.requestCount[endpoint]++
	window, ok := mc.requestDuration[endpoint]
	if !ok {
		window = &durationWindow{}
		mc.requestDuration[endpoint] = window
	}
	window.add(duration.Milliseconds())

	if statusCode >= 400 {
		mc.apiErrors[endpoint]++
	}
}

func (mc *MetricsCollector) RecordCacheHit(key string) {
	mc.mu.Lock()
	mc.cacheHits++
	mc.mu.Unlock()

	mc.logger.Debug("cache_hit").
		Component("metrics").
		Operation("record_cache").
		Cache(true, key).
		Log()
}

func (mc *MetricsCollector) RecordCacheMiss(key string) {
	mc.mu.Lock()
	mc.cacheMisses++
	mc.mu.Unlock()

	mc.logger.Debug("cache_miss").
		Component("metrics").
		Operation("record_cache").
		Cache(false, key).
		Log()
}

func (mc *MetricsCollector) RecordLoad(status LoadStatus, records int, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.loadStatus = status.String()
	mc.loadRecords = records
	mc.loadDurationMs = duration.Milliseconds()
}

// StartReporter logs a summary every interval until ctx is done.
func (mc *MetricsCollector) StartReporter(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mc.reportMetrics()
			}
		}
	}()
}

func (mc *MetricsCollector) reportMetrics() {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	mc.logger.Info("metrics_report").
		Component("metrics").
		Operation("report").
		Meta("total_requests", sumMapValues(mc.requestCount)).
		Meta("total_errors", sumMapValues(mc.apiErrors)).
		Meta("cache_hits", mc.cacheHits).
		Meta("cache_misses", mc.cacheMisses).
		Meta("cache_hit_rate_percent", mc.calculateCacheHitRate()).
		Meta("load_status", mc.loadStatus).
		Meta("load_records", mc.loadRecords).
		Log()

	for endpoint, window := range mc.requestDuration {
		durations := window.samples
		if len(durations) == 0 {
			continue
		}

		mc.logger.Info("endpoint_performance").
			Component("metrics").
			Operation("performance_report").
			Meta("endpoint", endpoint).
			Meta("request_count", mc.requestCount[endpoint]).
			Meta("avg_duration_ms", calculateAverage(durations)).
			Meta("p95_duration_ms", calculatePercentile(durations, 0.95)).
			Meta("error_count", mc.apiErrors[endpoint]).
			Log()
	}
}

func sumMapValues(m map[string]int64) int64 {
	sum := int64(0)
	for _, count := range m {
		sum += count
	}
	return sum
}

func (mc *MetricsCollector) calculateCacheHitRate() float64 {
	total := mc.cacheHits + mc.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(mc.cacheHits) / float64(total) * 100
}

func calculateAverage(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := int64(0)
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func calculatePercentile(values []int64, percentile float64) int64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	index := int(percentile * float64(len(sorted)-1))
	return sorted[index]
}

func (mc *MetricsCollector) GetMetrics() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	requests := make(map[string]int64, len(mc.requestCount))
	for k, v := range mc.requestCount {
		requests[k] = v
	}
	errs := make(map[string]int64, len(mc.apiErrors))
	for k, v := range mc.apiErrors {
		errs[k] = v
	}

	return map[string]interface{}{
		"cache": map[string]interface{}{
			"hits":     mc.cacheHits,
			"misses":   mc.cacheMisses,
			"hit_rate": mc.calculateCacheHitRate(),
		},
		"load": map[string]interface{}{
			"status":      mc.loadStatus,
			"records":     mc.loadRecords,
			"duration_ms": mc.loadDurationMs,
		},
		"requests": requests,
		"errors":   errs,
	}
}
