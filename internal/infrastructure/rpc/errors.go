package rpc

import (
	"context"
	"errors"
	"fmt"
)

// ErrAccountNotFound is returned when the queried account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// RPCError is returned when a call fails before the endpoint produced an answer.
type RPCError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC %s on %s failed: %v", e.Operation, e.Endpoint, e.Err)
}

func (e *RPCError) Unwrap() error { return e.Err }

// ConnectionError is returned when an endpoint cannot be dialed.
type ConnectionError struct {
	Endpoint string
	Message  string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %s", e.Endpoint, e.Message)
}

// TimeoutError is returned when a call exceeds its deadline.
type TimeoutError struct {
	Operation string
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Operation, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTimeout returns true if the error is a TimeoutError.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

func transportError(op, endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Operation: op, Err: err}
	}
	return &RPCError{Operation: op, Endpoint: endpoint, Err: err}
}
