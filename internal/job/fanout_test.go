package job_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pardinian/studypath-api/internal/job"
)

func TestFanOutRun_AllItemsSucceed(t *testing.T) {
	t.Parallel()

	store := job.NewStore(newTestLogger())
	notifier := &fakeNotifier{}

	processor := job.ItemProcessorFunc(func(_ context.Context, item string) (json.RawMessage, error) {
		return json.RawMessage(fmt.Sprintf(`{"summary":"about %s"}`, item)), nil
	})
	worker := job.NewFanOutWorker(processor, notifier, newTestLogger())

	items := []string{"v1", "v2", "v3"}
	j := store.Create(job.CreateParams{Type: job.TypeVideoProcessing, TotalItems: len(items)})
	require.True(t, store.MarkProcessing(j.ID))

	summary, err := worker.Run(context.Background(), j.ID, store, items)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)

	// Results come back in input order regardless of completion order.
	require.Len(t, summary.Results, 3)
	for i, item := range items {
		assert.Equal(t, i, summary.Results[i].Index)
		assert.Equal(t, item, summary.Results[i].Item)
		assert.True(t, summary.Results[i].Success)
	}

	got, ok := store.Get(j.ID)
	require.True(t, ok)
	assert.Equal(t, 3, got.Progress.CompletedItems)
	assert.Equal(t, 100.0, got.Progress.Percentage)

	// One progress notification per item.
	assert.Len(t, notifier.eventsOfType(job.EventJobProgress), 3)
}

func TestFanOutRun_ItemFailureIsIsolated(t *testing.T) {
	t.Parallel()

	store := job.NewStore(newTestLogger())

	processor := job.ItemProcessorFunc(func(_ context.Context, item string) (json.RawMessage, error) {
		if item == "v2" {
			return nil, errors.New("video unavailable")
		}
		return json.RawMessage(`{"ok":true}`), nil
	})
	worker := job.NewFanOutWorker(processor, &fakeNotifier{}, newTestLogger())

	items := []string{"v1", "v2", "v3"}
	j := store.Create(job.CreateParams{Type: job.TypeVideoProcessing, TotalItems: len(items)})
	require.True(t, store.MarkProcessing(j.ID))

	summary, err := worker.Run(context.Background(), j.ID, store, items)
	require.NoError(t, err, "one bad item must not fail the batch")

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	require.Len(t, summary.Results, 3)
	assert.True(t, summary.Results[0].Success)
	assert.False(t, summary.Results[1].Success)
	assert.Equal(t, "video unavailable", summary.Results[1].Error)
	assert.True(t, summary.Results[2].Success)
}

func TestFanOutRun_ItemPanicIsIsolated(t *testing.T) {
	t.Parallel()

	store := job.NewStore(newTestLogger())

	processor := job.ItemProcessorFunc(func(_ context.Context, item string) (json.RawMessage, error) {
		if item == "bad" {
			panic("index out of range")
		}
		return json.RawMessage(`{}`), nil
	})
	worker := job.NewFanOutWorker(processor, &fakeNotifier{}, newTestLogger())

	items := []string{"good", "bad"}
	j := store.Create(job.CreateParams{Type: job.TypeVideoProcessing, TotalItems: len(items)})
	require.True(t, store.MarkProcessing(j.ID))

	summary, err := worker.Run(context.Background(), j.ID, store, items)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Results[1].Error, "processor panic")
}

func TestFanOutRun_UnknownJob(t *testing.T) {
	t.Parallel()

	store := job.NewStore(newTestLogger())
	worker := job.NewFanOutWorker(
		job.ItemProcessorFunc(func(_ context.Context, _ string) (json.RawMessage, error) {
			return nil, nil
		}),
		&fakeNotifier{}, newTestLogger())

	_, err := worker.Run(context.Background(), uuid.New(), store, []string{"v1"})
	assert.Error(t, err)
}

func TestFanOutWorker_EndToEndThroughRunner(t *testing.T) {
	t.Parallel()

	store := job.NewStore(newTestLogger())
	notifier := &fakeNotifier{}
	runner := job.NewRunner(store, notifier, newTestLogger())

	var calls atomic.Int32
	processor := job.ItemProcessorFunc(func(_ context.Context, item string) (json.RawMessage, error) {
		calls.Add(1)
		if item == "v2" {
			return nil, errors.New("transcription failed")
		}
		return json.RawMessage(`{"ok":true}`), nil
	})
	fanout := job.NewFanOutWorker(processor, notifier, newTestLogger())

	items := []string{"v1", "v2", "v3"}
	j := store.Create(job.CreateParams{
		Type:       job.TypeVideoProcessing,
		TotalItems: len(items),
		NotifyURL:  "https://hooks.example.com/cb",
	})

	require.True(t, runner.Submit(context.Background(), j.ID, fanout.Worker(items)))
	runner.Wait()

	assert.Equal(t, int32(3), calls.Load())

	// Partial failure still completes the job; the failure lives in the
	// item's result slot.
	got, ok := store.Get(j.ID)
	require.True(t, ok)
	assert.Equal(t, job.StatusCompleted, got.Status)
	assert.Equal(t, 3, got.Progress.CompletedItems)
	assert.Equal(t, 100.0, got.Progress.Percentage)

	var summary job.FanOutSummary
	require.NoError(t, json.Unmarshal(got.Result, &summary))
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	assert.Len(t, notifier.eventsOfType(job.EventJobProgress), 3)
	assert.Len(t, notifier.eventsOfType(job.EventJobCompleted), 1)
}

func TestFanOutRun_LargeBatchProgressIsMonotonic(t *testing.T) {
	t.Parallel()

	store := job.NewStore(newTestLogger())
	notifier := &fakeNotifier{}

	processor := job.ItemProcessorFunc(func(_ context.Context, _ string) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	})
	worker := job.NewFanOutWorker(processor, notifier, newTestLogger())

	items := make([]string, 32)
	for i := range items {
		items[i] = fmt.Sprintf("v%d", i)
	}
	j := store.Create(job.CreateParams{Type: job.TypeVideoProcessing, TotalItems: len(items)})
	require.True(t, store.MarkProcessing(j.ID))

	summary, err := worker.Run(context.Background(), j.ID, store, items)
	require.NoError(t, err)
	assert.Equal(t, 32, summary.Succeeded)

	got, ok := store.Get(j.ID)
	require.True(t, ok)
	assert.Equal(t, 32, got.Progress.CompletedItems)
	assert.Len(t, got.Results, 32)

	// Progress events carry strictly increasing completion counts in
	// aggregate; every count from 1 to 32 appears exactly once.
	seen := make(map[int]int)
	for _, e := range notifier.eventsOfType(job.EventJobProgress) {
		require.NotNil(t, e.Progress)
		seen[e.Progress.CompletedItems]++
	}
	for i := 1; i <= 32; i++ {
		assert.Equal(t, 1, seen[i], "completion count %d", i)
	}
}
