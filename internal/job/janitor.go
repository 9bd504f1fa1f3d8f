package job

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pardinian/studypath-api/internal/platform/metrics"
)

// Janitor periodically evicts job records whose last update is older than
// the retention window, bounding the memory used by the in-memory store.
type Janitor struct {
	store     *Store
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewJanitor builds a janitor that runs on the given cron expression
// (standard five-field syntax, e.g. "*/30 * * * *"). The expression is
// validated eagerly so a misconfiguration fails at startup rather than
// silently never collecting.
func NewJanitor(store *Store, retention time.Duration, schedule string, logger *slog.Logger) (*Janitor, error) {
	j := &Janitor{
		store:     store,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.With("component", "job_janitor"),
	}

	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins the eviction schedule in its own goroutine.
func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info("job janitor started", "retention", j.retention)
}

// Stop halts the schedule, waiting for an in-flight sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("job janitor stopped")
}

func (j *Janitor) sweep() {
	evicted := j.store.EvictOlderThan(j.retention)
	if evicted > 0 {
		metrics.AddJobsEvicted(evicted)
	}
	j.logger.Debug("janitor sweep finished", "evicted", evicted)
}
