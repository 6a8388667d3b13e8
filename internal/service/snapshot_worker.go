package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SnapshotPruner deletes snapshots created before a cutoff.
type SnapshotPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SnapshotWorker is a periodic background job that deletes analysis
// snapshots older than the retention window.
type SnapshotWorker struct {
	pruner    SnapshotPruner
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewSnapshotWorker creates a worker that ticks every interval.
func NewSnapshotWorker(pruner SnapshotPruner, retention, interval time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start runs one prune immediately, then every interval, until ctx is
// cancelled or Stop is called.
func (w *SnapshotWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Dur("retention", w.retention).
		Msg("snapshot-worker: starting")

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Info().Msg("snapshot-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Info().Msg("snapshot-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *SnapshotWorker) Stop() {
	close(w.stopCh)
}

func (w *SnapshotWorker) tick(ctx context.Context) {
	start := time.Now()
	cutoff := w.now().Add(-w.retention)

	deleted, err := w.pruner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("snapshot-worker: prune failed")
		return
	}

	log.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Dur("elapsed", time.Since(start)).
		Msg("snapshot-worker: tick complete")
}
