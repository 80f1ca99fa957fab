package collector

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// fakeFetcher returns canned metrics and errors per instance ID.
type fakeFetcher struct {
	mu      sync.Mutex
	metrics map[string]domain.InstanceMetrics
	errs    map[string]error
	panics  map[string]string
	calls   []string
}

func (f *fakeFetcher) FetchInstanceMetrics(_ context.Context, instanceID string) (domain.InstanceMetrics, error) {
	f.mu.Lock()
	f.calls = append(f.calls, instanceID)
	f.mu.Unlock()

	if msg, ok := f.panics[instanceID]; ok {
		panic(msg)
	}
	if err, ok := f.errs[instanceID]; ok {
		return domain.InstanceMetrics{}, err
	}
	return f.metrics[instanceID], nil
}

func running(id string) domain.Instance {
	return domain.Instance{ID: id, Name: id, State: domain.StateRunning}
}

func TestCollect(t *testing.T) {
	fetcher := &fakeFetcher{
		metrics: map[string]domain.InstanceMetrics{
			"i-1": {InstanceID: "i-1", CPU: domain.Float(30)},
			"i-2": {InstanceID: "i-2", CPU: domain.Float(70)},
		},
	}
	c := New(fetcher, 4, zap.NewNop())

	results := c.Collect(context.Background(), map[string]domain.Instance{
		"i-1": running("i-1"),
		"i-2": running("i-2"),
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if got := results["i-1"]; got.CPU == nil || *got.CPU != 30 {
		t.Errorf("expected i-1 CPU 30, got %+v", got)
	}
}

func TestCollect_SkipsStopped(t *testing.T) {
	fetcher := &fakeFetcher{
		metrics: map[string]domain.InstanceMetrics{
			"i-run": {InstanceID: "i-run"},
		},
	}
	c := New(fetcher, 4, zap.NewNop())

	results := c.Collect(context.Background(), map[string]domain.Instance{
		"i-run":  running("i-run"),
		"i-stop": {ID: "i-stop", State: "stopped"},
		"i-term": {ID: "i-term", State: "terminated"},
	})

	if len(results) != 1 {
		t.Fatalf("expected only the running instance, got %d results", len(results))
	}
	if _, ok := results["i-stop"]; ok {
		t.Error("expected stopped instance to be skipped")
	}
	if len(fetcher.calls) != 1 {
		t.Errorf("expected 1 fetch, got %d", len(fetcher.calls))
	}
}

func TestCollect_FailureIsolation(t *testing.T) {
	fetcher := &fakeFetcher{
		metrics: map[string]domain.InstanceMetrics{
			"i-good": {InstanceID: "i-good", CPU: domain.Float(10)},
		},
		errs: map[string]error{
			"i-bad": errors.New("throttled"),
		},
	}
	c := New(fetcher, 4, zap.NewNop())

	results := c.Collect(context.Background(), map[string]domain.Instance{
		"i-good": running("i-good"),
		"i-bad":  running("i-bad"),
	})

	bad := results["i-bad"]
	if !bad.Failed() {
		t.Fatal("expected failure recorded for i-bad")
	}
	if bad.Err != "Failed to get metrics: throttled" {
		t.Errorf("unexpected error text %q", bad.Err)
	}

	// The failure never leaks into the healthy instance.
	good := results["i-good"]
	if good.Failed() {
		t.Errorf("expected i-good to succeed, got error %q", good.Err)
	}
}

func TestCollect_PanicRecovered(t *testing.T) {
	fetcher := &fakeFetcher{
		metrics: map[string]domain.InstanceMetrics{
			"i-ok": {InstanceID: "i-ok"},
		},
		panics: map[string]string{
			"i-boom": "nil dereference",
		},
	}
	c := New(fetcher, 4, zap.NewNop())

	results := c.Collect(context.Background(), map[string]domain.Instance{
		"i-ok":   running("i-ok"),
		"i-boom": running("i-boom"),
	})

	boom := results["i-boom"]
	if !boom.Failed() {
		t.Fatal("expected panic recorded as failure")
	}
	if !strings.Contains(boom.Err, "nil dereference") {
		t.Errorf("expected panic message in error, got %q", boom.Err)
	}
	if results["i-ok"].Failed() {
		t.Error("expected other instances unaffected by the panic")
	}
}

// concurrencyFetcher tracks the highest number of simultaneous fetches.
type concurrencyFetcher struct {
	active  atomic.Int64
	highest atomic.Int64
	release chan struct{}
}

func (f *concurrencyFetcher) FetchInstanceMetrics(_ context.Context, instanceID string) (domain.InstanceMetrics, error) {
	n := f.active.Add(1)
	for {
		high := f.highest.Load()
		if n <= high || f.highest.CompareAndSwap(high, n) {
			break
		}
	}
	<-f.release
	f.active.Add(-1)
	return domain.InstanceMetrics{InstanceID: instanceID}, nil
}

func TestCollect_BoundedConcurrency(t *testing.T) {
	const workers = 3
	fetcher := &concurrencyFetcher{release: make(chan struct{})}
	c := New(fetcher, workers, zap.NewNop())

	instances := make(map[string]domain.Instance)
	for _, id := range []string{"i-1", "i-2", "i-3", "i-4", "i-5", "i-6", "i-7", "i-8"} {
		instances[id] = running(id)
	}

	done := make(chan map[string]domain.InstanceMetrics)
	go func() { done <- c.Collect(context.Background(), instances) }()

	close(fetcher.release)
	results := <-done

	if len(results) != len(instances) {
		t.Fatalf("expected %d results, got %d", len(instances), len(results))
	}
	if high := fetcher.highest.Load(); high > workers {
		t.Errorf("observed %d concurrent fetches, worker limit is %d", high, workers)
	}
}

func TestNew_ClampsWorkers(t *testing.T) {
	c := New(&fakeFetcher{}, 0, nil)
	if c.workers != 1 {
		t.Errorf("expected workers clamped to 1, got %d", c.workers)
	}
}
