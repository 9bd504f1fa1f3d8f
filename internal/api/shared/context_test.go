package shared_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pardinian/studypath-api/internal/api/shared"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()

	ctx := shared.SetTraceID(context.Background())
	traceID := shared.GetTraceID(ctx)

	require.NotEmpty(t, traceID)
	assert.Len(t, traceID, 32, "trace IDs are 16 random bytes hex encoded")
}

func TestGetTraceIDWithoutValue(t *testing.T) {
	t.Parallel()

	assert.Empty(t, shared.GetTraceID(context.Background()))
}

func TestTraceIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := shared.GetTraceID(shared.SetTraceID(context.Background()))
		require.False(t, seen[id], "trace ID collision: %s", id)
		seen[id] = true
	}
}
