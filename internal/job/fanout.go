package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/platform/metrics"
)

// ItemProcessor is the external collaborator that handles one item of a
// fan-out batch. Calls may be slow and may fault; implementations should
// carry their own timeouts so a hung dependency cannot stall a job's join
// indefinitely.
type ItemProcessor interface {
	Process(ctx context.Context, item string) (json.RawMessage, error)
}

// ItemProcessorFunc adapts a function to the ItemProcessor interface.
type ItemProcessorFunc func(ctx context.Context, item string) (json.RawMessage, error)

// Process implements ItemProcessor.
func (f ItemProcessorFunc) Process(ctx context.Context, item string) (json.RawMessage, error) {
	return f(ctx, item)
}

// FanOutSummary is the aggregate a fan-out worker returns once every item
// has finished. Results preserve the original item order.
type FanOutSummary struct {
	TotalItems int          `json:"total_items"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Results    []ItemResult `json:"results"`
}

// FanOutWorker processes the N items of one job concurrently, one goroutine
// per item, aggregating outcomes into the job record as items finish. A
// single item's fault is isolated to its result slot; only bookkeeping
// faults fail the job as a whole.
type FanOutWorker struct {
	processor ItemProcessor
	notifier  Notifier
	logger    *slog.Logger
}

// NewFanOutWorker creates a fan-out worker that delegates per-item work to
// processor and reports per-item completion to notifier.
func NewFanOutWorker(processor ItemProcessor, notifier Notifier, logger *slog.Logger) *FanOutWorker {
	return &FanOutWorker{
		processor: processor,
		notifier:  notifier,
		logger:    logger.With("component", "fanout_worker"),
	}
}

// Worker returns a WorkerFunc that runs the given items through the
// fan-out, suitable for Runner.Submit.
func (w *FanOutWorker) Worker(items []string) WorkerFunc {
	return func(ctx context.Context, jobID uuid.UUID, store *Store) ([]byte, error) {
		summary, err := w.Run(ctx, jobID, store, items)
		if err != nil {
			return nil, err
		}
		return json.Marshal(summary)
	}
}

// Run launches one goroutine per item, joins them all, and returns the
// aggregate summary. Each completing item writes its outcome into its input
// slot, fires a progress notification, and merges the current compacted
// view into the job record in a single store call. The store lock is what
// serializes sibling completions against each other.
func (w *FanOutWorker) Run(ctx context.Context, jobID uuid.UUID, store *Store, items []string) (*FanOutSummary, error) {
	j, ok := store.Get(jobID)
	if !ok {
		return nil, fmt.Errorf("job %s not found in store", jobID)
	}

	logger := w.logger.With("job_id", jobID)
	logger.Info("fanning out batch", "item_count", len(items))

	slots := make([]*ItemResult, len(items))
	var slotMu sync.Mutex
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item string) {
			defer wg.Done()
			res := w.processItem(ctx, i, item, logger)

			// Slot write, compaction and the progress merge happen under
			// one critical section so that concurrent completions cannot
			// interleave between counting and recording.
			slotMu.Lock()
			slots[i] = &res
			completed, compacted := compact(slots)
			store.RecordProgress(jobID, completed, compacted)
			slotMu.Unlock()

			w.notifier.Notify(ctx, j.NotifyURL, Event{
				Type:     EventJobProgress,
				JobID:    jobID,
				JobType:  j.Type,
				Progress: &Progress{TotalItems: len(items), CompletedItems: completed, Percentage: percentage(completed, len(items))},
				Results:  []ItemResult{res},
			})
		}(i, item)
	}

	wg.Wait()

	summary := &FanOutSummary{
		TotalItems: len(items),
		Results:    make([]ItemResult, 0, len(items)),
	}
	for _, slot := range slots {
		summary.Results = append(summary.Results, *slot)
		if slot.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	logger.Info("batch finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	return summary, nil
}

// processItem invokes the external processor for one item, converting any
// error or panic into a failure outcome for that item's slot.
func (w *FanOutWorker) processItem(ctx context.Context, index int, item string, logger *slog.Logger) (res ItemResult) {
	res = ItemResult{Index: index, Item: item}
	started := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("item processor panicked", "item_index", index, "panic", rec)
			res.Success = false
			res.Payload = nil
			res.Error = fmt.Sprintf("processor panic: %v", rec)
			metrics.ObserveItemProcessed("panic", time.Since(started))
		}
	}()

	payload, err := w.processor.Process(ctx, item)
	if err != nil {
		logger.Warn("item processing failed",
			"item_index", index,
			"error", err,
			"duration", time.Since(started))
		res.Error = err.Error()
		metrics.ObserveItemProcessed("error", time.Since(started))
		return res
	}

	logger.Debug("item processed", "item_index", index, "duration", time.Since(started))
	res.Success = true
	res.Payload = payload
	metrics.ObserveItemProcessed("ok", time.Since(started))
	return res
}

// compact returns the count of finished slots and the finished outcomes in
// original index order, skipping slots still in flight.
func compact(slots []*ItemResult) (int, []ItemResult) {
	out := make([]ItemResult, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return len(out), out
}
