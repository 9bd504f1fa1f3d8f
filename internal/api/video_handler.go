package api

import (
	"net/http"

	"github.com/pardinian/studypath-api/internal/api/shared"
	"github.com/pardinian/studypath-api/internal/domain"
	"github.com/pardinian/studypath-api/internal/service"
)

// VideoHandler handles video batch submission and job status endpoints.
type VideoHandler struct {
	videoService service.VideoService
}

// NewVideoHandler creates a VideoHandler backed by the given service.
func NewVideoHandler(videoService service.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
	}
}

// ProcessVideos handles POST /videos/process. The batch is validated
// synchronously and accepted with 202; summarization runs in the
// background and results are polled via the job endpoints.
func (h *VideoHandler) ProcessVideos(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req ProcessVideosRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	j, estimatedMinutes, err := h.videoService.StartBatch(r.Context(), userID, req.VideoURLs, req.WebhookURL)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, ProcessVideosResponse{
		JobID:                    j.ID,
		Status:                   string(j.Status),
		TotalItems:               j.Progress.TotalItems,
		EstimatedDurationMinutes: estimatedMinutes,
	})
}

// GetJob handles GET /videos/jobs/{jobID}.
func (h *VideoHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := requireUserAndPathUUID(w, r, "jobID")
	if !ok {
		return
	}

	j, err := h.videoService.GetJob(r.Context(), userID, jobID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := NewJobResponse(j)
	resp.EstimatedRemainingMinutes = h.videoService.EstimateRemainingMinutes(j)
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ListJobs handles GET /videos/jobs.
func (h *VideoHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	jobs, err := h.videoService.ListJobs(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := JobListResponse{
		Jobs:  make([]JobResponse, 0, len(jobs)),
		Count: len(jobs),
	}
	for _, j := range jobs {
		jr := NewJobResponse(j)
		jr.EstimatedRemainingMinutes = h.videoService.EstimateRemainingMinutes(j)
		resp.Jobs = append(resp.Jobs, jr)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
