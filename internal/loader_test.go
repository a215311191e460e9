package internal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSource struct {
	records []PlayerRecord
	err     error
	release chan struct{}
	calls   int32
}

func (f *fakeSource) FetchPlayers(ctx context.Context) ([]PlayerRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.records, f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []LoadEvent
	err    error
}

func (f *fakePublisher) PublishLoadEvent(event LoadEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Events() []LoadEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LoadEvent(nil), f.events...)
}

func newTestLoader(source PlayerSource, publisher EventPublisher) *Loader {
	logger := createTestLogger()
	return NewLoader(source, publisher, logger, NewMetricsCollector(logger))
}

func waitLoaded(t *testing.T, l *Loader) LoadResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := l.Wait(ctx)
	if err != nil {
		t.Fatalf("loader did not settle: %v", err)
	}
	return result
}

func TestLoader_InitialState(t *testing.T) {
	l := newTestLoader(&fakeSource{}, nil)

	if got := l.Result().Status; got != StatusNotLoaded {
		t.Errorf("expected not_loaded before start, got %s", got)
	}
}

func TestLoader_Success(t *testing.T) {
	records := []PlayerRecord{
		rankedRecord("a", TierGold, DivisionI, 10, 1, 1),
		{StreamerName: "b"},
	}
	publisher := &fakePublisher{}
	l := newTestLoader(&fakeSource{records: records}, publisher)

	l.Start(context.Background())
	result := waitLoaded(t, l)

	if result.Status != StatusLoaded {
		t.Fatalf("expected loaded, got %s", result.Status)
	}
	if len(result.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(result.Records))
	}
	if result.Message != "" || result.Err != nil {
		t.Errorf("expected no error on success, got %q %v", result.Message, result.Err)
	}

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected one load event, got %d", len(events))
	}
	if events[0].Status != "loaded" || events[0].Records != 2 {
		t.Errorf("unexpected event %+v", events[0])
	}
}

func TestLoader_Failure(t *testing.T) {
	publisher := &fakePublisher{}
	l := newTestLoader(&fakeSource{err: errors.New("stats source error: 500")}, publisher)

	l.Start(context.Background())
	result := waitLoaded(t, l)

	if result.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", result.Status)
	}
	if result.Records == nil || len(result.Records) != 0 {
		t.Errorf("expected empty non-nil records, got %v", result.Records)
	}
	if result.Message != FetchErrorMessage {
		t.Errorf("expected message %q, got %q", FetchErrorMessage, result.Message)
	}
	if result.Err == nil {
		t.Error("expected underlying error to be kept")
	}

	events := publisher.Events()
	if len(events) != 1 || events[0].Status != "failed" || events[0].Error == "" {
		t.Errorf("unexpected events %+v", events)
	}
}

func TestLoader_StartIsOnce(t *testing.T) {
	source := &fakeSource{release: make(chan struct{})}
	l := newTestLoader(source, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Start(context.Background())
		}()
	}
	wg.Wait()
	close(source.release)

	waitLoaded(t, l)
	l.Start(context.Background())

	if got := atomic.LoadInt32(&source.calls); got != 1 {
		t.Errorf("expected exactly one fetch, got %d", got)
	}
}

func TestLoader_WaitTimesOutWhileLoading(t *testing.T) {
	source := &fakeSource{release: make(chan struct{})}
	defer close(source.release)
	l := newTestLoader(source, nil)
	l.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := l.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if result.Status != StatusNotLoaded {
		t.Errorf("expected not_loaded while fetching, got %s", result.Status)
	}
}

func TestLoader_ResultDoesNotChangeAfterSettle(t *testing.T) {
	l := newTestLoader(&fakeSource{records: []PlayerRecord{{StreamerName: "a"}}}, nil)
	l.Start(context.Background())
	first := waitLoaded(t, l)

	select {
	case <-l.Done():
	default:
		t.Fatal("done channel should be closed after settle")
	}

	second := l.Result()
	if first.Status != second.Status || len(first.Records) != len(second.Records) {
		t.Errorf("result changed after settle: %+v vs %+v", first, second)
	}
}

func TestLoader_PublishErrorIsNotFatal(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("nats down")}
	l := newTestLoader(&fakeSource{records: []PlayerRecord{}}, publisher)

	l.Start(context.Background())
	result := waitLoaded(t, l)

	if result.Status != StatusLoaded {
		t.Errorf("publish failure should not affect the load, got %s", result.Status)
	}
}

func TestLoader_RecordsLoadMetrics(t *testing.T) {
	logger := createTestLogger()
	metrics := NewMetricsCollector(logger)
	l := NewLoader(&fakeSource{err: errors.New("boom")}, nil, logger, metrics)

	l.Start(context.Background())
	waitLoaded(t, l)

	load := metrics.GetMetrics()["load"].(map[string]interface{})
	if load["status"] != "failed" {
		t.Errorf("expected failed load status in metrics, got %v", load["status"])
	}
}
