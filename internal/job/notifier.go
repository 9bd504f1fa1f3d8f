package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pardinian/studypath-api/internal/platform/metrics"
)

// Event type constants for webhook payloads
const (
	EventJobProgress  = "job_progress"
	EventJobCompleted = "job_completed"
	EventJobFailed    = "job_failed"
)

// Event is the structured payload delivered to a job's webhook address.
type Event struct {
	Type      string          `json:"type"`
	JobID     uuid.UUID       `json:"job_id"`
	JobType   string          `json:"job_type"`
	Status    Status          `json:"status,omitempty"`
	Progress  *Progress       `json:"progress,omitempty"`
	Results   []ItemResult    `json:"results,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Notifier sends lifecycle events to an external callback address.
// Delivery is best-effort: implementations must never surface a delivery
// failure to the caller, since notification failure must not fail the job
// it reports on.
type Notifier interface {
	Notify(ctx context.Context, url string, event Event)
}

// DefaultNotifyTimeout bounds a single webhook delivery attempt.
const DefaultNotifyTimeout = 30 * time.Second

// WebhookNotifier delivers events as JSON over HTTP POST. Failures and
// non-2xx responses are logged and counted, nothing more.
type WebhookNotifier struct {
	client *http.Client
	logger *slog.Logger
}

var _ Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier creates a notifier with the given delivery timeout.
// A zero timeout falls back to DefaultNotifyTimeout.
func NewWebhookNotifier(timeout time.Duration, logger *slog.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &WebhookNotifier{
		client: &http.Client{Timeout: timeout},
		logger: logger.With("component", "webhook_notifier"),
	}
}

// Notify posts the event to url. The empty url is a no-op so callers do not
// need to check whether a job was created with a webhook address.
func (n *WebhookNotifier) Notify(ctx context.Context, url string, event Event) {
	if url == "" {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("failed to encode webhook payload",
			"error", err,
			"job_id", event.JobID,
			"event_type", event.Type)
		metrics.IncWebhookDelivery(event.Type, "encode_error")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("failed to build webhook request",
			"error", err,
			"job_id", event.JobID,
			"event_type", event.Type)
		metrics.IncWebhookDelivery(event.Type, "request_error")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed",
			"error", err,
			"job_id", event.JobID,
			"event_type", event.Type)
		metrics.IncWebhookDelivery(event.Type, "network_error")
		return
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			n.logger.Debug("failed to close webhook response body", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.logger.Warn("webhook endpoint returned non-success status",
			"status", resp.StatusCode,
			"job_id", event.JobID,
			"event_type", event.Type)
		metrics.IncWebhookDelivery(event.Type, fmt.Sprintf("http_%d", resp.StatusCode))
		return
	}

	n.logger.Debug("webhook delivered",
		"status", resp.StatusCode,
		"job_id", event.JobID,
		"event_type", event.Type)
	metrics.IncWebhookDelivery(event.Type, "ok")
}
