package sender

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rejected", fmt.Errorf("%w: blockhash not found", ErrSubmissionRejected), true},
		{"timeout", fmt.Errorf("%w: 8 polls", ErrConfirmationTimeout), true},
		{"claimed", ErrTargetAlreadyClaimed, false},
		{"insufficient funds", ErrInsufficientFunds, false},
		{"simulation failed", ErrSimulationFailed, false},
		{"canceled", context.Canceled, false},
		{"retry exhausted", &RetryError{Counter: CounterAttempts, Limit: 4, Last: ErrConfirmationTimeout}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retriable(tt.err); got != tt.want {
				t.Errorf("Retriable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClass(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{fmt.Errorf("wrapped: %w", ErrTargetAlreadyClaimed), "target_already_claimed"},
		{ErrInsufficientFunds, "insufficient_funds"},
		{ErrSignerUnavailable, "signer_unavailable"},
		{ErrNoInstructions, "no_instructions"},
		{&RetryError{Counter: CounterSimulation, Limit: 4, Last: ErrSimulationFailed}, "simulation_failed"},
		{&RetryError{Counter: CounterSimulation, Limit: 4, Last: ErrSimulationInconclusive}, "simulation_inconclusive"},
		{&RetryError{Counter: CounterAttempts, Limit: 4, Last: ErrConfirmationTimeout}, "confirmation_timeout"},
		{&RetryError{Counter: CounterSubmission, Limit: 4, Last: ErrSubmissionRejected}, "submission_rejected"},
		{context.DeadlineExceeded, "canceled"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Class(tt.err), "Class(%v)", tt.err)
	}
}

func TestRetryError(t *testing.T) {
	err := &RetryError{Counter: CounterSubmission, Limit: 2, Last: fmt.Errorf("%w: code -32002", ErrSubmissionRejected)}

	require.ErrorIs(t, err, ErrMaxRetriesExceeded)
	require.ErrorIs(t, err, ErrSubmissionRejected)
	assert.Contains(t, err.Error(), "submission limit 2 reached")

	bare := &RetryError{Counter: CounterAttempts, Limit: 1}
	require.ErrorIs(t, bare, ErrMaxRetriesExceeded)
	assert.Equal(t, "max retries exceeded: attempts limit 1 reached", bare.Error())
}

func TestStaleness_Check(t *testing.T) {
	logger := discardLogger()
	ctx := context.Background()

	var nilStale *Staleness
	require.NoError(t, nilStale.Check(ctx, logger))
	require.NoError(t, (&Staleness{Expected: "x"}).Check(ctx, logger))

	tokens := &staticTokens{value: "abc"}
	stale := &Staleness{Expected: "abc", Source: tokens}
	require.NoError(t, stale.Check(ctx, logger))

	tokens.set("def")
	err := stale.Check(ctx, logger)
	require.ErrorIs(t, err, ErrTargetAlreadyClaimed)
	assert.Contains(t, err.Error(), `"def"`)

	failing := &Staleness{Expected: "abc", Source: &staticTokens{err: errors.New("io error")}}
	require.NoError(t, failing.Check(ctx, logger))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, failing.Check(cancelled, logger), context.Canceled)
}

func TestConfig_Normalized(t *testing.T) {
	cfg := Config{SubmitRetries: -3}.normalized()

	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 0, cfg.SubmitRetries)
	assert.Equal(t, 1, cfg.SimulationRetries)
	assert.Equal(t, 1, cfg.PollRetries)
	assert.NotNil(t, cfg.Logger)

	def := DefaultConfig()
	require.NotNil(t, def.NodeMaxRetries)
	assert.Equal(t, uint(1), *def.NodeMaxRetries)
	assert.Equal(t, uint32(1), def.ClaimedErrorCode)
}
