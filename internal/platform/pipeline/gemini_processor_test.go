package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pardinian/studypath-api/internal/config"
	"github.com/pardinian/studypath-api/internal/platform/pipeline"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey: "test-api-key",
		ModelName:    "gemini-2.5-flash",
	}
}

func TestNewGeminiProcessor(t *testing.T) {
	t.Parallel()

	p, err := pipeline.NewGeminiProcessor(context.Background(), newTestLogger(), validLLMConfig())
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewGeminiProcessorValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		logger    *slog.Logger
		mutate    func(*config.LLMConfig)
		wantIsErr error
	}{
		{
			name:   "nil logger",
			logger: nil,
			mutate: func(*config.LLMConfig) {},
		},
		{
			name:      "empty API key",
			logger:    newTestLogger(),
			mutate:    func(c *config.LLMConfig) { c.GeminiAPIKey = "" },
			wantIsErr: pipeline.ErrInvalidConfig,
		},
		{
			name:      "empty model name",
			logger:    newTestLogger(),
			mutate:    func(c *config.LLMConfig) { c.ModelName = "" },
			wantIsErr: pipeline.ErrInvalidConfig,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validLLMConfig()
			tc.mutate(&cfg)

			p, err := pipeline.NewGeminiProcessor(context.Background(), tc.logger, cfg)
			require.Error(t, err)
			assert.Nil(t, p)
			if tc.wantIsErr != nil {
				assert.ErrorIs(t, err, tc.wantIsErr)
			}
		})
	}
}

func TestProcessRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	p, err := pipeline.NewGeminiProcessor(context.Background(), newTestLogger(), validLLMConfig())
	require.NoError(t, err)

	for _, url := range []string{"", "   ", "\t\n"} {
		payload, err := p.Process(context.Background(), url)
		assert.ErrorIs(t, err, pipeline.ErrEmptyURL)
		assert.Nil(t, payload)
	}
}
