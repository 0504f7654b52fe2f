package chathub

import (
	"context"
	"time"

	"hospitalchat/backend/internal/metrics"
)

type job struct {
	name string
	run  func(ctx context.Context) error
}

// enqueue schedules store work for Run without blocking the caller.
func (m *ManagerService) enqueue(name string, run func(ctx context.Context) error) {
	select {
	case m.jobs <- job{name: name, run: run}:
	default:
		metrics.JobsDropped.WithLabelValues(name).Inc()
		m.log.Warn().Str("job", name).Msg("job queue full, job dropped")
	}
}

// Run drains background store jobs until ctx is cancelled, then flushes what is queued.
func (m *ManagerService) Run(ctx context.Context) {
	m.log.Info().Msg("chat hub worker started")
	for {
		select {
		case <-ctx.Done():
			m.flush()
			m.log.Info().Msg("chat hub worker stopped")
			return
		case j := <-m.jobs:
			m.runJob(j)
		}
	}
}

func (m *ManagerService) flush() {
	for {
		select {
		case j := <-m.jobs:
			m.runJob(j)
		default:
			return
		}
	}
}

// runJob is detached from Run's context so shutdown does not cancel in-flight writes.
func (m *ManagerService) runJob(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), m.storeTimeout)
	defer cancel()

	start := time.Now()
	err := j.run(ctx)
	metrics.StoreLatency.WithLabelValues(j.name).Observe(time.Since(start).Seconds())
	if err != nil {
		m.log.Error().Err(err).Str("job", j.name).Msg("background job failed")
	}
}
