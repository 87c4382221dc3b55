// internal/sender/errors.go
package sender

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds surfaced by Send. Every terminal error matches exactly one of the
// kinds below through errors.Is, except RetryError which additionally matches
// ErrMaxRetriesExceeded.
var (
	ErrInsufficientFunds      = errors.New("insufficient balance")
	ErrSignerUnavailable      = errors.New("signer unavailable")
	ErrNoInstructions         = errors.New("no instructions to submit")
	ErrSimulationFailed       = errors.New("simulation failed")
	ErrSimulationInconclusive = errors.New("simulation reported no compute units")
	ErrSubmissionRejected     = errors.New("submission rejected")
	ErrTargetAlreadyClaimed   = errors.New("target already claimed")
	ErrConfirmationTimeout    = errors.New("confirmation timeout")
	ErrMaxRetriesExceeded     = errors.New("max retries exceeded")
)

// Counter names a bounded retry counter.
type Counter string

const (
	CounterSimulation Counter = "simulation"
	CounterSubmission Counter = "submission"
	CounterAttempts   Counter = "attempts"
)

// RetryError is returned once a bounded counter overflows. It matches both
// ErrMaxRetriesExceeded and the last observed cause.
type RetryError struct {
	Counter Counter
	Limit   int
	Last    error
}

func (e *RetryError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%s: %s limit %d reached", ErrMaxRetriesExceeded, e.Counter, e.Limit)
	}
	return fmt.Sprintf("%s: %s limit %d reached: %v", ErrMaxRetriesExceeded, e.Counter, e.Limit, e.Last)
}

func (e *RetryError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrMaxRetriesExceeded}
	}
	return []error{ErrMaxRetriesExceeded, e.Last}
}

// Retriable reports whether the orchestrator may start another submit cycle
// after err. Only generic rejections and confirmation timeouts qualify.
func Retriable(err error) bool {
	if err == nil {
		return false
	}
	var retryErr *RetryError
	if errors.As(err, &retryErr) {
		return false
	}
	if errors.Is(err, ErrTargetAlreadyClaimed) || errors.Is(err, ErrInsufficientFunds) {
		return false
	}
	return errors.Is(err, ErrSubmissionRejected) || errors.Is(err, ErrConfirmationTimeout)
}

// Class returns a short stable label for err, used in metrics and CLI output.
func Class(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrTargetAlreadyClaimed):
		return "target_already_claimed"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrSignerUnavailable):
		return "signer_unavailable"
	case errors.Is(err, ErrNoInstructions):
		return "no_instructions"
	case errors.Is(err, ErrSimulationFailed):
		return "simulation_failed"
	case errors.Is(err, ErrSimulationInconclusive):
		return "simulation_inconclusive"
	case errors.Is(err, ErrConfirmationTimeout):
		return "confirmation_timeout"
	case errors.Is(err, ErrSubmissionRejected):
		return "submission_rejected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
