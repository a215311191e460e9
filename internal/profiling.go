package internal

import (
	"context"
	"runtime"
	"time"
)

type Profiler struct {
	enabled bool
	logger  *Logger
}

func NewProfiler(cfg *Config, logger *Logger) *Profiler {
	return &Profiler{
		enabled: cfg.ProfilingEnabled,
		logger:  logger,
	}
}

func (p *Profiler) Enabled() bool {
	return p.enabled
}

// RuntimeStats is always available to /metrics, profiling or not.
func (p *Profiler) RuntimeStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"alloc_mb":       bToMb(m.Alloc),
		"total_alloc_mb": bToMb(m.TotalAlloc),
		"sys_mb":         bToMb(m.Sys),
		"gc_cycles":      m.NumGC,
		"goroutines":     runtime.NumGoroutine(),
	}
}

func (p *Profiler) LogMemoryStats() {
	if !p.enabled {
		return
	}

	stats := p.RuntimeStats()
	b := p.logger.Info("memory_stats").
		Component("profiler").
		Operation("log_stats")
	for _, k := range []string{"alloc_mb", "total_alloc_mb", "sys_mb", "gc_cycles", "goroutines"} {
		b = b.Meta(k, stats[k])
	}
	b.Log()
}

// StartPeriodicMemoryLogging logs memory stats every interval until ctx ends.
func (p *Profiler) StartPeriodicMemoryLogging(ctx context.Context, interval time.Duration) {
	if !p.enabled {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.LogMemoryStats()
			}
		}
	}()

	p.logger.Info("periodic_memory_logging_started").
		Component("profiler").
		Operation("start_periodic").
		Meta("interval", interval.String()).
		Log()
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
