package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pardinian/studypath-api/internal/config"
	"github.com/pardinian/studypath-api/internal/job"
	"github.com/pardinian/studypath-api/internal/service"
)

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, job.Event) {}

func newVideoService(t *testing.T, cfg config.JobsConfig) (service.VideoService, *job.Store, *job.Runner) {
	t.Helper()

	logger := newTestLogger()
	store := job.NewStore(logger)
	runner := job.NewRunner(store, noopNotifier{}, logger)
	fanout := job.NewFanOutWorker(
		job.ItemProcessorFunc(func(_ context.Context, item string) (json.RawMessage, error) {
			return json.RawMessage(`{"summary":"ok"}`), nil
		}),
		noopNotifier{}, logger)

	svc, err := service.NewVideoService(store, runner, fanout, cfg, logger)
	require.NoError(t, err)
	return svc, store, runner
}

func testJobsConfig() config.JobsConfig {
	return config.JobsConfig{
		MaxBatchSize:             5,
		RetentionHours:           168,
		JanitorSchedule:          "0 * * * *",
		NotifyTimeoutSeconds:     30,
		EstimatedMinutesPerVideo: 2,
	}
}

func TestVideoServiceStartBatch(t *testing.T) {
	t.Parallel()

	svc, store, runner := newVideoService(t, testJobsConfig())
	owner := uuid.New()

	urls := []string{"https://youtu.be/a", "https://youtu.be/b"}
	j, estimate, err := svc.StartBatch(context.Background(), owner, urls, "")
	require.NoError(t, err)
	assert.Equal(t, 4, estimate, "two videos at two minutes each")
	assert.Equal(t, owner, j.OwnerID)
	assert.Equal(t, 2, j.Progress.TotalItems)

	runner.Wait()

	done, ok := store.Get(j.ID)
	require.True(t, ok)
	assert.Equal(t, job.StatusCompleted, done.Status)
	assert.Equal(t, 2, done.Progress.CompletedItems)
}

func TestVideoServiceStartBatch_EmptyBatch(t *testing.T) {
	t.Parallel()

	svc, store, _ := newVideoService(t, testJobsConfig())

	_, _, err := svc.StartBatch(context.Background(), uuid.New(), nil, "")
	assert.ErrorIs(t, err, service.ErrEmptyBatch)

	// Rejected requests leave no job record behind.
	assert.Equal(t, 0, store.Len())
}

func TestVideoServiceStartBatch_BatchTooLarge(t *testing.T) {
	t.Parallel()

	svc, store, _ := newVideoService(t, testJobsConfig())

	urls := make([]string, 6)
	for i := range urls {
		urls[i] = "https://youtu.be/x"
	}
	_, _, err := svc.StartBatch(context.Background(), uuid.New(), urls, "")
	assert.ErrorIs(t, err, service.ErrBatchTooLarge)
	assert.Equal(t, 0, store.Len())
}

// urlCapturingNotifier records the webhook addresses it is handed.
type urlCapturingNotifier struct {
	mu   sync.Mutex
	urls []string
}

func (n *urlCapturingNotifier) Notify(_ context.Context, url string, _ job.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urls = append(n.urls, url)
}

func TestVideoServiceStartBatch_DefaultWebhookFallback(t *testing.T) {
	t.Parallel()

	cfg := testJobsConfig()
	cfg.DefaultWebhookURL = "https://hooks.example.com/default"

	logger := newTestLogger()
	notifier := &urlCapturingNotifier{}
	store := job.NewStore(logger)
	runner := job.NewRunner(store, notifier, logger)
	fanout := job.NewFanOutWorker(
		job.ItemProcessorFunc(func(_ context.Context, _ string) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		}),
		notifier, logger)

	svc, err := service.NewVideoService(store, runner, fanout, cfg, logger)
	require.NoError(t, err)

	_, _, err = svc.StartBatch(context.Background(), uuid.New(), []string{"https://youtu.be/a"}, "")
	require.NoError(t, err)
	runner.Wait()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.NotEmpty(t, notifier.urls)
	for _, url := range notifier.urls {
		assert.Equal(t, "https://hooks.example.com/default", url)
	}
}

func TestVideoServiceGetJob_Ownership(t *testing.T) {
	t.Parallel()

	svc, _, runner := newVideoService(t, testJobsConfig())
	owner := uuid.New()

	j, _, err := svc.StartBatch(context.Background(), owner, []string{"https://youtu.be/a"}, "")
	require.NoError(t, err)
	runner.Wait()

	got, err := svc.GetJob(context.Background(), owner, j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, got.ID)

	_, err = svc.GetJob(context.Background(), uuid.New(), j.ID)
	assert.ErrorIs(t, err, service.ErrNotOwned)

	_, err = svc.GetJob(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, service.ErrJobNotFound)
}

func TestVideoServiceListJobs(t *testing.T) {
	t.Parallel()

	svc, _, runner := newVideoService(t, testJobsConfig())
	owner := uuid.New()

	for i := 0; i < 3; i++ {
		_, _, err := svc.StartBatch(context.Background(), owner, []string{"https://youtu.be/a"}, "")
		require.NoError(t, err)
	}
	_, _, err := svc.StartBatch(context.Background(), uuid.New(), []string{"https://youtu.be/b"}, "")
	require.NoError(t, err)
	runner.Wait()

	jobs, err := svc.ListJobs(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
}

func TestVideoServiceEstimateRemainingMinutes(t *testing.T) {
	t.Parallel()

	svc, _, _ := newVideoService(t, testJobsConfig())

	inFlight := &job.Job{
		Status: job.StatusProcessing,
		Progress: job.Progress{
			TotalItems:     5,
			CompletedItems: 2,
		},
	}
	assert.Equal(t, 6, svc.EstimateRemainingMinutes(inFlight), "three items left at two minutes each")

	done := &job.Job{Status: job.StatusCompleted, Progress: job.Progress{TotalItems: 5, CompletedItems: 5}}
	assert.Equal(t, 0, svc.EstimateRemainingMinutes(done))

	assert.Equal(t, 0, svc.EstimateRemainingMinutes(nil))
}
