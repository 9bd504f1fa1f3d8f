package job

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is an in-memory table of job records keyed by id. All access is
// serialized by an internal lock, which is what guarantees that two items
// of the same job completing near-simultaneously never lose an update.
//
// The Store is an owned component: construct one at startup and pass it to
// the Runner and the API layer.
type Store struct {
	mu     sync.RWMutex
	jobs   map[uuid.UUID]*Job
	logger *slog.Logger
}

// NewStore creates an empty job store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		jobs:   make(map[uuid.UUID]*Job),
		logger: logger.With("component", "job_store"),
	}
}

// CreateParams carries the caller-supplied fields for a new job.
type CreateParams struct {
	Type       string
	OwnerID    uuid.UUID
	Data       json.RawMessage
	TotalItems int
	NotifyURL  string
}

// Create allocates a fresh id and inserts a pending job with zeroed
// progress. It returns a snapshot of the new record.
func (s *Store) Create(params CreateParams) *Job {
	now := time.Now().UTC()
	j := &Job{
		ID:        uuid.New(),
		Type:      params.Type,
		OwnerID:   params.OwnerID,
		Status:    StatusPending,
		Data:      params.Data,
		NotifyURL: params.NotifyURL,
		Progress: Progress{
			TotalItems: params.TotalItems,
		},
		Results:   []ItemResult{},
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  map[string]string{},
	}

	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()

	s.logger.Debug("job created",
		"job_id", j.ID,
		"job_type", j.Type,
		"total_items", params.TotalItems)

	return j.clone()
}

// Get returns a snapshot of the job with the given id, or false if unknown.
func (s *Store) Get(id uuid.UUID) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	return j.clone(), true
}

// ListByOwner returns snapshots of all jobs tagged with the given owner,
// optionally filtered by job type, newest first.
func (s *Store) ListByOwner(ownerID uuid.UUID, jobType string) []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Job
	for _, j := range s.jobs {
		if j.OwnerID != ownerID {
			continue
		}
		if jobType != "" && j.Type != jobType {
			continue
		}
		out = append(out, j.clone())
	}

	sort.Slice(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Delete removes the record with the given id. It returns false if the id
// is unknown.
func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return false
	}
	delete(s.jobs, id)
	return true
}

// EvictOlderThan deletes every terminal job whose last update precedes now
// minus age, returning the number removed. Jobs still pending or processing
// are kept regardless of age, so a slow worker can always record its
// terminal state and fire its webhook. Safe to call concurrently with reads
// and updates; an update racing with eviction of the same id resolves as a
// silent no-op on whichever side loses.
func (s *Store) EvictOlderThan(age time.Duration) int {
	cutoff := time.Now().UTC().Add(-age)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, j := range s.jobs {
		if j.Status.IsTerminal() && j.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			evicted++
		}
	}

	if evicted > 0 {
		s.logger.Info("evicted stale jobs", "count", evicted, "max_age", age)
	}
	return evicted
}

// MarkProcessing transitions a pending job to processing. It returns false
// if the id is unknown or the job has already left the pending state.
func (s *Store) MarkProcessing(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.Status != StatusPending {
		return false
	}
	j.Status = StatusProcessing
	j.UpdatedAt = time.Now().UTC()
	return true
}

// MarkCompleted transitions a processing job to the completed terminal
// state and stores the worker's aggregate result envelope. Terminal states
// never regress; a second terminal transition is refused.
func (s *Store) MarkCompleted(id uuid.UUID, result json.RawMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.Status.IsTerminal() {
		return false
	}
	j.Status = StatusCompleted
	j.Result = result
	j.UpdatedAt = time.Now().UTC()
	return true
}

// MarkFailed transitions a processing job to the failed terminal state and
// records the fault message.
func (s *Store) MarkFailed(id uuid.UUID, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.Status.IsTerminal() {
		return false
	}
	j.Status = StatusFailed
	j.Error = errMsg
	j.UpdatedAt = time.Now().UTC()
	return true
}

// RecordProgress merges a fan-out worker's progress snapshot into the job:
// the count of finished items and the compacted, order-preserving result
// view as of this moment. The percentage is recomputed from the job's
// total. Calls with a completed count lower than what is already recorded
// are ignored, keeping observed progress monotonic. Returns false if the id
// is unknown; callers may race with eviction and must treat that as a soft
// no-op.
func (s *Store) RecordProgress(id uuid.UUID, completed int, results []ItemResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	if j.Status.IsTerminal() || completed < j.Progress.CompletedItems {
		return true
	}

	j.Progress.CompletedItems = completed
	j.Progress.Percentage = percentage(completed, j.Progress.TotalItems)
	j.Results = make([]ItemResult, len(results))
	copy(j.Results, results)
	j.UpdatedAt = time.Now().UTC()
	return true
}

// SetMetadata stores a free-form key on the job record. Unused by the core
// lifecycle, reserved for callers that need to tag jobs.
func (s *Store) SetMetadata(id uuid.UUID, key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	j.Metadata[key] = value
	j.UpdatedAt = time.Now().UTC()
	return true
}
