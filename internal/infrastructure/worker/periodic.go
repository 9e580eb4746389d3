// Package worker runs background jobs on a fixed interval.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type Job func(ctx context.Context) error

// Periodic calls Job every Interval until the context passed to Run is done.
// A tick that arrives while the previous run is still going is skipped.
type Periodic struct {
	Name     string
	Interval time.Duration
	Job      Job
	Log      *zap.Logger

	running atomic.Bool
	wg      sync.WaitGroup
	skipped atomic.Int64
}

// Run blocks until ctx is cancelled and every started job has returned.
func (p *Periodic) Run(ctx context.Context) error {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("worker", p.Name))

	t := time.NewTicker(p.Interval)
	defer t.Stop()
	log.Info("worker started", zap.Duration("interval", p.Interval))

	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			log.Info("worker stopped")
			return nil
		case <-t.C:
			p.Trigger(ctx, log)
		}
	}
}

// Trigger starts one run in the background unless one is already in flight.
// It reports whether a run was started.
func (p *Periodic) Trigger(ctx context.Context, log *zap.Logger) bool {
	if !p.running.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		log.Warn("previous run still in progress, skipping tick")
		return false
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.running.Store(false)

		start := time.Now()
		if err := p.Job(ctx); err != nil {
			log.Error("run failed", zap.Error(err))
			return
		}
		log.Debug("run finished", zap.Duration("took", time.Since(start)))
	}()
	return true
}

// Skipped is the number of ticks dropped because a run was in flight.
func (p *Periodic) Skipped() int64 { return p.skipped.Load() }
