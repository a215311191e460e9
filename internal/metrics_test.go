package internal

import (
	"context"
	"testing"
	"time"
)

func TestMetricsCollector_RecordRequest(t *testing.T) {
	mc := NewMetricsCollector(createTestLogger())

	mc.RecordRequest("/", 100*time.Millisecond, 200)
	mc.RecordRequest("/", 200*time.Millisecond, 200)
	mc.RecordRequest("/", 150*time.Millisecond, 503)

	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.requestCount["/"] != 3 {
		t.Errorf("expected 3 requests, got %d", mc.requestCount["/"])
	}

	expectedDurations := []int64{100, 200, 150}
	for i, expected := range expectedDurations {
		if mc.requestDuration["/"].samples[i] != expected {
			t.Errorf("expected duration %d, got %d", expected, mc.requestDuration["/"].samples[i])
		}
	}

	if mc.apiErrors["/"] != 1 {
		t.Errorf("expected 1 error, got %d", mc.apiErrors["/"])
	}
}

func TestMetricsCollector_DurationSamplesAreBounded(t *testing.T) {
	mc := NewMetricsCollector(createTestLogger())

	total := maxDurationSamples*4 + 3
	for i := 0; i < total; i++ {
		mc.RecordRequest("/", time.Duration(i)*time.Millisecond, 200)
	}

	mc.mu.RLock()
	defer mc.mu.RUnlock()

	window := mc.requestDuration["/"]
	if len(window.samples) != maxDurationSamples {
		t.Fatalf("expected %d samples, got %d", maxDurationSamples, len(window.samples))
	}
	if mc.requestCount["/"] != int64(total) {
		t.Errorf("expected count %d, got %d", total, mc.requestCount["/"])
	}

	oldest := int64(total - maxDurationSamples)
	for _, ms := range window.samples {
		if ms < oldest {
			t.Fatalf("sample %d should have been overwritten", ms)
		}
	}
}

func TestMetricsCollector_RecordCache(t *testing.T) {
	mc := NewMetricsCollector(createTestLogger())

	mc.RecordCacheHit("key1")
	mc.RecordCacheHit("key2")
	mc.RecordCacheMiss("key3")

	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.cacheHits != 2 {
		t.Errorf("expected 2 cache hits, got %d", mc.cacheHits)
	}
	if mc.cacheMisses != 1 {
		t.Errorf("expected 1 cache miss, got %d", mc.cacheMisses)
	}
}

func TestMetricsCollector_RecordLoad(t *testing.T) {
	mc := NewMetricsCollector(createTestLogger())

	load := mc.GetMetrics()["load"].(map[string]interface{})
	if load["status"] != "not_loaded" {
		t.Errorf("expected initial status not_loaded, got %v", load["status"])
	}

	mc.RecordLoad(StatusLoaded, 37, 250*time.Millisecond)

	load = mc.GetMetrics()["load"].(map[string]interface{})
	if load["status"] != "loaded" {
		t.Errorf("expected status loaded, got %v", load["status"])
	}
	if load["records"] != 37 {
		t.Errorf("expected 37 records, got %v", load["records"])
	}
	if load["duration_ms"] != int64(250) {
		t.Errorf("expected 250ms, got %v", load["duration_ms"])
	}
}

func TestCalculateAverage(t *testing.T) {
	tests := []struct {
		values   []int64
		expected float64
	}{
		{[]int64{}, 0},
		{[]int64{100}, 100},
		{[]int64{100, 200}, 150},
		{[]int64{1, 2, 3, 4, 5}, 3},
	}

	for _, tt := range tests {
		if result := calculateAverage(tt.values); result != tt.expected {
			t.Errorf("calculateAverage(%v): expected %f, got %f", tt.values, tt.expected, result)
		}
	}
}

func TestCalculatePercentile(t *testing.T) {
	tests := []struct {
		values     []int64
		percentile float64
		expected   int64
	}{
		{[]int64{}, 0.95, 0},
		{[]int64{100}, 0.95, 100},
		{[]int64{100, 200}, 0.95, 100},
		{[]int64{500, 100, 300, 200, 400}, 0.5, 300},
		{[]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9},
	}

	for _, tt := range tests {
		result := calculatePercentile(tt.values, tt.percentile)
		if result != tt.expected {
			t.Errorf("calculatePercentile(%v, %f): expected %d, got %d",
				tt.values, tt.percentile, tt.expected, result)
		}
	}
}

func TestMetricsCollector_GetMetrics(t *testing.T) {
	mc := NewMetricsCollector(createTestLogger())

	mc.RecordCacheHit("key1")
	mc.RecordCacheHit("key2")
	mc.RecordCacheMiss("key3")
	mc.RecordRequest("/api/leaderboard", 100*time.Millisecond, 200)
	mc.RecordRequest("/api/leaderboard", 150*time.Millisecond, 500)

	metrics := mc.GetMetrics()

	cache, ok := metrics["cache"].(map[string]interface{})
	if !ok {
		t.Fatal("expected cache metrics to be a map")
	}
	if cache["hits"] != int64(2) {
		t.Errorf("expected 2 cache hits, got %v", cache["hits"])
	}
	if cache["misses"] != int64(1) {
		t.Errorf("expected 1 cache miss, got %v", cache["misses"])
	}
	expectedHitRate := float64(2) / float64(3) * 100
	if cache["hit_rate"] != expectedHitRate {
		t.Errorf("expected hit rate %f, got %v", expectedHitRate, cache["hit_rate"])
	}

	requests, ok := metrics["requests"].(map[string]int64)
	if !ok {
		t.Fatal("expected requests metrics to be a map")
	}
	if requests["/api/leaderboard"] != 2 {
		t.Errorf("expected 2 requests, got %d", requests["/api/leaderboard"])
	}

	errs, ok := metrics["errors"].(map[string]int64)
	if !ok {
		t.Fatal("expected errors metrics to be a map")
	}
	if errs["/api/leaderboard"] != 1 {
		t.Errorf("expected 1 error, got %d", errs["/api/leaderboard"])
	}
}

func TestMetricsCollector_ReporterStopsWithContext(t *testing.T) {
	mc := NewMetricsCollector(createTestLogger())
	ctx, cancel := context.WithCancel(context.Background())

	mc.StartReporter(ctx, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()

	// Reporting takes the read lock; the collector must still accept writes.
	mc.RecordRequest("/", time.Millisecond, 200)
}
