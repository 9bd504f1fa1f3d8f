package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/platform/metrics"
)

// WorkerFunc is a unit of background work associated with a job. It
// receives the job's id and the store so it can record progress as it goes,
// and returns an aggregate result envelope on success.
type WorkerFunc func(ctx context.Context, jobID uuid.UUID, store *Store) ([]byte, error)

// Runner executes job workers on background goroutines and owns the job
// lifecycle: it flips a submitted job to processing, guarantees exactly one
// terminal transition per job regardless of how the worker exits, and fires
// the terminal webhook notification.
type Runner struct {
	store    *Store
	notifier Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	active []uuid.UUID

	wg sync.WaitGroup
}

// NewRunner creates a Runner bound to the given store and notifier.
func NewRunner(store *Store, notifier Notifier, logger *slog.Logger) *Runner {
	return &Runner{
		store:    store,
		notifier: notifier,
		logger:   logger.With("component", "job_runner"),
	}
}

// Submit transitions the job to processing and schedules worker on a
// background goroutine, returning immediately. It returns false without
// side effects if the id is unknown to the store, and false if the job has
// already been submitted; callers must issue at most one Submit per
// created job.
//
// The caller's context is not carried into execution; a submitted job runs
// to completion or fault independently of the request that started it.
func (r *Runner) Submit(ctx context.Context, id uuid.UUID, worker WorkerFunc) bool {
	if _, ok := r.store.Get(id); !ok {
		return false
	}
	if !r.store.MarkProcessing(id) {
		r.logger.Warn("refusing duplicate submit", "job_id", id)
		return false
	}

	r.register(id)
	r.wg.Add(1)
	go r.execute(id, worker)

	return true
}

// ListActive returns the ids of jobs currently executing, in submission
// order. For observability only; do not synchronize on it.
func (r *Runner) ListActive() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uuid.UUID, len(r.active))
	copy(out, r.active)
	return out
}

// Wait blocks until every submitted job has reached a terminal state.
// Intended for graceful shutdown and tests.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// execute runs the worker and drives the job to exactly one terminal
// state. A panic inside the worker is recovered and treated as a job-level
// fault, so no background fault can crash the process or leave a job stuck
// in processing.
func (r *Runner) execute(id uuid.UUID, worker WorkerFunc) {
	defer r.wg.Done()
	defer r.deregister(id)

	logger := r.logger.With("job_id", id)
	started := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("worker panicked", "panic", rec)
			r.fail(id, fmt.Sprintf("worker panic: %v", rec))
			metrics.ObserveJobFinished(string(StatusFailed), time.Since(started))
		}
	}()

	logger.Info("job processing started")
	metrics.IncJobStarted()

	result, err := worker(context.Background(), id, r.store)
	if err != nil {
		logger.Error("job failed", "error", err, "duration", time.Since(started))
		r.fail(id, err.Error())
		metrics.ObserveJobFinished(string(StatusFailed), time.Since(started))
		return
	}

	if !r.store.MarkCompleted(id, result) {
		// Only reachable if the record was evicted mid-flight.
		logger.Warn("could not mark job completed, record gone")
		return
	}
	logger.Info("job completed", "duration", time.Since(started))
	metrics.ObserveJobFinished(string(StatusCompleted), time.Since(started))

	if j, ok := r.store.Get(id); ok {
		r.notifier.Notify(context.Background(), j.NotifyURL, Event{
			Type:     EventJobCompleted,
			JobID:    j.ID,
			JobType:  j.Type,
			Status:   j.Status,
			Progress: &j.Progress,
			Results:  j.Results,
			Data:     j.Data,
		})
	}
}

// fail marks the job failed and fires the failure notification.
func (r *Runner) fail(id uuid.UUID, errMsg string) {
	if !r.store.MarkFailed(id, errMsg) {
		return
	}

	if j, ok := r.store.Get(id); ok {
		r.notifier.Notify(context.Background(), j.NotifyURL, Event{
			Type:    EventJobFailed,
			JobID:   j.ID,
			JobType: j.Type,
			Status:  j.Status,
			Error:   errMsg,
			Data:    j.Data,
		})
	}
}

func (r *Runner) register(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = append(r.active, id)
}

func (r *Runner) deregister(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.active {
		if a == id {
			r.active = append(r.active[:i], r.active[i+1:]...)
			return
		}
	}
}
