package sender

import (
	"context"
	"fmt"
	"log/slog"
)

// TokenSource reads the current fingerprint of the caller's target. The engine
// only reads; the caller owns writes. Implementations must tolerate concurrent
// reads.
type TokenSource interface {
	Current(ctx context.Context) (string, error)
}

// Staleness pairs the fingerprint the caller expects with the source of truth.
type Staleness struct {
	Expected string
	Source   TokenSource
}

// Check returns ErrTargetAlreadyClaimed when the current fingerprint differs
// from the expected one. A source read failure proves nothing and is only logged.
func (s *Staleness) Check(ctx context.Context, logger *slog.Logger) error {
	if s == nil || s.Source == nil {
		return nil
	}
	current, err := s.Source.Current(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("staleness token unreadable, skipping check", "error", err)
		return nil
	}
	if current != s.Expected {
		return fmt.Errorf("%w: token changed from %q to %q", ErrTargetAlreadyClaimed, s.Expected, current)
	}
	return nil
}
