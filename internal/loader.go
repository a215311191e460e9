package internal

import (
	"context"
	"sync"
	"time"
)

// FetchErrorMessage is the only failure text users ever see.
const FetchErrorMessage = "Error al obtener datos"

type LoadStatus int

const (
	StatusNotLoaded LoadStatus = iota
	StatusLoaded
	StatusFailed
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "not_loaded"
	}
}

type LoadResult struct {
	Status  LoadStatus
	Records []PlayerRecord
	Message string
	Err     error
}

// Loader runs the one fetch of the page and holds its outcome. The result
// moves from not loaded to loaded or failed exactly once and never changes
// afterwards.
type Loader struct {
	source    PlayerSource
	publisher EventPublisher
	logger    *Logger
	metrics   *MetricsCollector

	once sync.Once
	done chan struct{}

	mu     sync.RWMutex
	result LoadResult
}

func NewLoader(source PlayerSource, publisher EventPublisher, logger *Logger, metrics *MetricsCollector) *Loader {
	return &Loader{
		source:    source,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		done:      make(chan struct{}),
		result:    LoadResult{Status: StatusNotLoaded},
	}
}

// Start fires the fetch in the background. Calls after the first are no-ops.
// ctx should outlive the fetch; it is the only way to abandon it.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.run(ctx)
	})
}

func (l *Loader) run(ctx context.Context) {
	start := time.Now()

	l.logger.Info("load_started").
		Component("loader").
		Operation("fetch_players").
		Log()

	records, err := l.source.FetchPlayers(ctx)

	result := LoadResult{Status: StatusLoaded, Records: records}
	if err != nil {
		result = LoadResult{
			Status:  StatusFailed,
			Records: []PlayerRecord{},
			Message: FetchErrorMessage,
			Err:     err,
		}
	}
	l.settle(result, time.Since(start))
}

// settle records the outcome and closes done last, so waiters observe the
// metrics, logs and event of the load as well.
func (l *Loader) settle(result LoadResult, duration time.Duration) {
	l.mu.Lock()
	l.result = result
	l.mu.Unlock()
	defer close(l.done)

	l.metrics.RecordLoad(result.Status, len(result.Records), duration)

	if result.Err != nil {
		l.logger.Error("load_failed").
			Component("loader").
			Operation("fetch_players").
			Duration(duration).
			Err(result.Err).
			Log()
	} else {
		l.logger.Info("load_completed").
			Component("loader").
			Operation("fetch_players").
			Duration(duration).
			Meta("records", len(result.Records)).
			Log()
	}

	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishLoadEvent(newLoadEvent(result, duration)); err != nil {
		l.logger.Warn("load_event_publish_failed").
			Component("loader").
			Operation("publish_event").
			Err(err).
			Log()
	}
}

// Result returns the current state without waiting.
func (l *Loader) Result() LoadResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.result
}

func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the fetch settles or ctx ends. On ctx expiry it returns
// the still-unsettled result together with ctx.Err().
func (l *Loader) Wait(ctx context.Context) (LoadResult, error) {
	select {
	case <-l.done:
		return l.Result(), nil
	case <-ctx.Done():
		return l.Result(), ctx.Err()
	}
}
