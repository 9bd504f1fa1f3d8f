package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/pardinian/studypath-api/internal/config"
)

// defaultPrompt asks for a compact prose summary; the model sees the video
// itself, so no transcript is supplied.
const defaultPrompt = "Summarize this video concisely in a few short paragraphs. " +
	"Focus on the main ideas and any concrete takeaways a learner should remember."

const (
	defaultMaxRetries        = 2
	defaultRetryDelaySeconds = 2
)

// VideoSummary is the per-item payload recorded in a job's result slot.
type VideoSummary struct {
	URL         string    `json:"url"`
	Summary     string    `json:"summary"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GeminiProcessor summarizes one video URL per call using the Gemini API.
// It satisfies the fan-out worker's item processor contract.
type GeminiProcessor struct {
	logger     *slog.Logger
	client     *genai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
}

// NewGeminiProcessor creates a processor from the LLM configuration.
func NewGeminiProcessor(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiProcessor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return &GeminiProcessor{
		logger:     logger,
		client:     client,
		model:      cfg.ModelName,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelaySeconds * time.Second,
	}, nil
}

// Process summarizes the video at url and returns the encoded
// VideoSummary. Transient API failures are retried with exponential
// backoff and jitter; empty or blocked responses are permanent.
func (p *GeminiProcessor) Process(ctx context.Context, url string) (json.RawMessage, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}

	summary, err := p.summarizeWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(&VideoSummary{
		URL:         url,
		Summary:     summary,
		Model:       p.model,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	return payload, nil
}

func (p *GeminiProcessor) summarizeWithRetry(ctx context.Context, url string) (string, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		p.logger.Debug("calling Gemini",
			"url", url,
			"attempt", attempt+1,
			"max_attempts", p.maxRetries+1)

		summary, err := p.summarize(ctx, url)
		if err == nil {
			return summary, nil
		}
		lastErr = err

		// Bad responses do not get better on retry.
		if errors.Is(err, ErrInvalidResponse) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == p.maxRetries {
			break
		}

		// Exponential backoff with jitter between 0.5x and 1x.
		backoff := float64(p.retryDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5))
		p.logger.Warn("Gemini call failed, retrying",
			"url", url,
			"attempt", attempt+1,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", fmt.Errorf("%w: exceeded %d attempts: %v",
		ErrTransientFailure, p.maxRetries+1, lastErr)
}

func (p *GeminiProcessor) summarize(ctx context.Context, url string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(url, "video/*"),
			genai.NewPartFromText(defaultPrompt),
		}, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", ErrInvalidResponse)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty summary text", ErrInvalidResponse)
	}
	return text, nil
}
