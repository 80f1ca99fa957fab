// Package collector fans out per-instance metric fetches across a bounded
// worker pool. One worker owns one instance's data, so results need no
// locking beyond the collection map itself.
package collector

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// MetricsFetcher fetches the current utilization readings for one instance.
type MetricsFetcher interface {
	FetchInstanceMetrics(ctx context.Context, instanceID string) (domain.InstanceMetrics, error)
}

// Collector runs metric collection over a fleet.
type Collector struct {
	fetcher MetricsFetcher
	workers int
	log     *zap.Logger
}

// New creates a Collector. workers bounds the concurrent fetches.
func New(fetcher MetricsFetcher, workers int, log *zap.Logger) *Collector {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{fetcher: fetcher, workers: workers, log: log}
}

// Collect fetches metrics for every running instance and returns the
// results keyed by instance ID. Non-running instances are skipped
// entirely. A failed or panicking fetch is recorded as that instance's
// error string; it never aborts the other instances or the run.
func (c *Collector) Collect(ctx context.Context, instances map[string]domain.Instance) map[string]domain.InstanceMetrics {
	results := make(map[string]domain.InstanceMetrics, len(instances))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for id, inst := range instances {
		if !inst.Running() {
			continue
		}
		g.Go(func() error {
			metrics := c.fetchOne(ctx, id)

			mu.Lock()
			results[id] = metrics
			mu.Unlock()

			if metrics.Failed() {
				c.log.Warn("metric collection failed",
					zap.String("instance_id", id), zap.String("error", metrics.Err))
			} else {
				c.log.Debug("metric collection finished", zap.String("instance_id", id))
			}
			return nil
		})
	}

	// Workers report failures through the result map, never as errors.
	_ = g.Wait()

	return results
}

// fetchOne wraps a single fetch, converting errors and panics into the
// per-instance error string.
func (c *Collector) fetchOne(ctx context.Context, instanceID string) (metrics domain.InstanceMetrics) {
	defer func() {
		if r := recover(); r != nil {
			metrics = domain.InstanceMetrics{
				InstanceID: instanceID,
				Err:        fmt.Sprintf("Failed: %v", r),
			}
		}
	}()

	metrics, err := c.fetcher.FetchInstanceMetrics(ctx, instanceID)
	if err != nil {
		metrics = domain.InstanceMetrics{
			InstanceID: instanceID,
			Err:        fmt.Sprintf("Failed to get metrics: %v", err),
		}
	}
	return metrics
}
