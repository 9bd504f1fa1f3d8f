package job

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a job
type Status string

// Possible job status values
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job type constants
const (
	// TypeVideoProcessing identifies batch video summarization jobs
	TypeVideoProcessing = "video_processing"
)

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Progress tracks how much of a job's batch has finished.
type Progress struct {
	TotalItems     int     `json:"total_items"`
	CompletedItems int     `json:"completed_items"`
	Percentage     float64 `json:"percentage"`
}

// ItemResult records the outcome of one item in a job's batch. Index is the
// item's position in the original input, which is preserved even though
// items complete in arbitrary order.
type ItemResult struct {
	Index   int             `json:"index"`
	Item    string          `json:"item"`
	Success bool            `json:"success"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Job is a trackable unit of asynchronous work. Instances returned by the
// Store are snapshots; all mutation goes through the Store's named
// operations so that concurrent workers never share a live record.
type Job struct {
	ID        uuid.UUID         `json:"id"`
	Type      string            `json:"type"`
	OwnerID   uuid.UUID         `json:"owner_id,omitempty"`
	Status    Status            `json:"status"`
	Data      json.RawMessage   `json:"data,omitempty"`
	NotifyURL string            `json:"-"`
	Progress  Progress          `json:"progress"`
	Results   []ItemResult      `json:"results"`
	Result    json.RawMessage   `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// clone returns a deep copy safe to hand to callers outside the store lock.
func (j *Job) clone() *Job {
	c := *j
	if j.Results != nil {
		c.Results = make([]ItemResult, len(j.Results))
		copy(c.Results, j.Results)
	}
	if j.Metadata != nil {
		c.Metadata = make(map[string]string, len(j.Metadata))
		for k, v := range j.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// percentage derives the completion ratio, returning 0 for empty batches.
func percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
