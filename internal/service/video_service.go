package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/config"
	"github.com/pardinian/studypath-api/internal/job"
)

// VideoService accepts batches of video URLs for asynchronous
// summarization and exposes job status to the API layer. It validates
// input before a job is created, so rejected requests leave no trace in
// the job store.
type VideoService interface {
	// StartBatch creates and submits a video processing job. Returns the
	// pending job snapshot and the estimated duration in minutes.
	StartBatch(ctx context.Context, ownerID uuid.UUID, urls []string, webhookURL string) (*job.Job, int, error)

	// GetJob returns the current snapshot of one of the owner's jobs.
	GetJob(ctx context.Context, ownerID, jobID uuid.UUID) (*job.Job, error)

	// ListJobs returns the owner's video processing jobs, newest first.
	ListJobs(ctx context.Context, ownerID uuid.UUID) ([]*job.Job, error)

	// EstimateRemainingMinutes projects how long a job's unfinished items
	// will take. Terminal jobs estimate zero.
	EstimateRemainingMinutes(j *job.Job) int
}

// batchData is the opaque payload recorded on a video processing job.
type batchData struct {
	VideoURLs  []string `json:"video_urls"`
	TotalItems int      `json:"total_items"`
}

type videoService struct {
	store   *job.Store
	runner  *job.Runner
	fanout  *job.FanOutWorker
	cfg     config.JobsConfig
	logger  *slog.Logger
}

var _ VideoService = (*videoService)(nil)

// NewVideoService wires the job subsystem behind the video processing API.
func NewVideoService(
	store *job.Store,
	runner *job.Runner,
	fanout *job.FanOutWorker,
	cfg config.JobsConfig,
	logger *slog.Logger,
) (VideoService, error) {
	if store == nil || runner == nil || fanout == nil {
		return nil, errors.New("store, runner and fanout worker are all required")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &videoService{
		store:  store,
		runner: runner,
		fanout: fanout,
		cfg:    cfg,
		logger: logger.With("component", "video_service"),
	}, nil
}

func (s *videoService) StartBatch(ctx context.Context, ownerID uuid.UUID, urls []string, webhookURL string) (*job.Job, int, error) {
	if len(urls) == 0 {
		return nil, 0, ErrEmptyBatch
	}
	if len(urls) > s.cfg.MaxBatchSize {
		return nil, 0, fmt.Errorf("%w: got %d, maximum is %d",
			ErrBatchTooLarge, len(urls), s.cfg.MaxBatchSize)
	}

	if webhookURL == "" {
		webhookURL = s.cfg.DefaultWebhookURL
	}

	data, err := json.Marshal(batchData{VideoURLs: urls, TotalItems: len(urls)})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode job data: %w", err)
	}

	created := s.store.Create(job.CreateParams{
		Type:       job.TypeVideoProcessing,
		OwnerID:    ownerID,
		Data:       data,
		TotalItems: len(urls),
		NotifyURL:  webhookURL,
	})

	if !s.runner.Submit(ctx, created.ID, s.fanout.Worker(urls)) {
		// Unreachable unless the record vanished between Create and Submit.
		s.store.Delete(created.ID)
		return nil, 0, errors.New("failed to submit job for processing")
	}

	s.logger.Info("video batch accepted",
		"job_id", created.ID,
		"owner_id", ownerID,
		"video_count", len(urls))

	estimate := len(urls) * s.cfg.EstimatedMinutesPerVideo
	return created, estimate, nil
}

func (s *videoService) GetJob(ctx context.Context, ownerID, jobID uuid.UUID) (*job.Job, error) {
	j, ok := s.store.Get(jobID)
	if !ok {
		return nil, ErrJobNotFound
	}
	if j.OwnerID != ownerID {
		return nil, ErrNotOwned
	}
	return j, nil
}

func (s *videoService) ListJobs(ctx context.Context, ownerID uuid.UUID) ([]*job.Job, error) {
	return s.store.ListByOwner(ownerID, job.TypeVideoProcessing), nil
}

func (s *videoService) EstimateRemainingMinutes(j *job.Job) int {
	if j == nil || j.Status.IsTerminal() {
		return 0
	}
	remaining := j.Progress.TotalItems - j.Progress.CompletedItems
	if remaining <= 0 {
		return 0
	}
	return remaining * s.cfg.EstimatedMinutesPerVideo
}
