package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pardinian/studypath-api/internal/store"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"base sentinel", store.ErrNotFound, true},
		{"user variant", store.ErrUserNotFound, true},
		{"goal variant", store.ErrGoalNotFound, true},
		{"task variant", store.ErrTaskNotFound, true},
		{"wrapped variant", fmt.Errorf("lookup failed: %w", store.ErrGoalNotFound), true},
		{"duplicate", store.ErrEmailExists, false},
		{"invalid entity", store.ErrInvalidEntity, false},
		{"unrelated", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, store.IsNotFound(tc.err))
		})
	}
}

func TestVariantsUnwrapToBaseSentinels(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, store.ErrEmailExists, store.ErrDuplicate)
	assert.ErrorIs(t, store.ErrUserNotFound, store.ErrNotFound)
}
