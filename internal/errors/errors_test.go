package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfreitas/studypilot/internal/errors"
)

func TestAppError_ErrorFormatting(t *testing.T) {
	err := errors.NewNotFoundError("question bank", "dfs-215")
	assert.Equal(t, "NOT_FOUND: question bank not found: dfs-215", err.Error())

	wrapped := errors.NewConnectivityError(fmt.Errorf("dial tcp: timeout"))
	assert.Contains(t, wrapped.Error(), "CONNECTIVITY_ERROR")
	assert.Contains(t, wrapped.Error(), "dial tcp: timeout")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := errors.NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"connectivity", errors.NewConnectivityError(fmt.Errorf("refused")), true},
		{"server 500", errors.NewServerError(500, ""), true},
		{"server 503", errors.NewServerError(503, ""), true},
		{"server 429", errors.NewServerError(429, "slow down"), true},
		{"server 400", errors.NewServerError(400, "bad payload"), false},
		{"server 422", errors.NewServerError(422, "invalid grade"), false},
		{"validation", errors.NewValidationError("grade", "out of range"), false},
		{"unclassified", stderrors.New("mystery"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, errors.IsRetryable(tt.err))
		})
	}
}

func TestIsConnectivity(t *testing.T) {
	assert.True(t, errors.IsConnectivity(errors.NewConnectivityError(fmt.Errorf("down"))))
	assert.False(t, errors.IsConnectivity(errors.NewServerError(500, "")))
	assert.False(t, errors.IsConnectivity(stderrors.New("plain")))

	// Classification survives wrapping.
	wrapped := fmt.Errorf("sync: %w", errors.NewConnectivityError(fmt.Errorf("down")))
	assert.True(t, errors.IsConnectivity(wrapped))
}
