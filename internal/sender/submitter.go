// internal/sender/submitter.go
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

// Submitter delivers a signed transaction through the primary endpoint and,
// when configured, the relay. Only the primary answer is authoritative.
type Submitter struct {
	node    ledger.Node
	relay   ledger.Relay
	cfg     Config
	metrics *Metrics

	inflight sync.WaitGroup // relay sends not yet finished
}

// NewSubmitter creates a Submitter. A nil relay disables the relay path.
func NewSubmitter(node ledger.Node, relay ledger.Relay, cfg Config) *Submitter {
	cfg = cfg.normalized()
	return &Submitter{node: node, relay: relay, cfg: cfg, metrics: cfg.Metrics}
}

// Submit sends tx. The returned error is non-nil only for terminal conditions:
// the claimed selector or cancellation of ctx.
func (s *Submitter) Submit(ctx context.Context, logger *slog.Logger, tx *solana.Transaction, anchor *ledger.Anchor) (Outcome, error) {
	if s.relay != nil {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			s.sendRelay(ctx, logger, tx)
		}()
	}

	opts := ledger.SendOptions{
		SkipPreflight: s.cfg.SkipPreflight,
		MaxRetries:    s.cfg.NodeMaxRetries,
	}
	if anchor != nil {
		opts.MinContextSlot = anchor.Slot
	}

	sendCtx := ctx
	if s.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.cfg.SendTimeout)
		defer cancel()
	}

	sig, err := s.node.Send(sendCtx, tx, opts)
	if err == nil {
		s.metrics.observeSubmission("primary", OutcomeAccepted.String())
		logger.Debug("primary accepted transaction", "signature", sig)
		return Outcome{Kind: OutcomeAccepted, Signature: sig}, nil
	}
	if ctx.Err() != nil {
		return Outcome{}, ctx.Err()
	}

	var rejection *ledger.Rejection
	if !errors.As(err, &rejection) {
		s.metrics.observeSubmission("primary", OutcomeUnknown.String())
		logger.Warn("primary send unanswered", "error", err)
		return Outcome{Kind: OutcomeUnknown, Reason: err}, nil
	}

	if code, ok := rejection.CustomCode(); ok && code == s.cfg.ClaimedErrorCode {
		s.metrics.observeSubmission("primary", "claimed")
		return Outcome{Kind: OutcomeRejected, Reason: err}, fmt.Errorf("%w: %v", ErrTargetAlreadyClaimed, rejection)
	}

	s.metrics.observeSubmission("primary", OutcomeRejected.String())
	logger.Warn("primary rejected transaction", "code", rejection.Code, "message", rejection.Message)
	return Outcome{Kind: OutcomeRejected, Reason: err}, nil
}

func (s *Submitter) sendRelay(ctx context.Context, logger *slog.Logger, tx *solana.Transaction) {
	if s.cfg.RelayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RelayTimeout)
		defer cancel()
	}

	sig, err := s.relay.Send(ctx, tx)
	if err != nil {
		s.metrics.observeSubmission("relay", "error")
		logger.Debug("relay send failed", "error", err)
		return
	}
	s.metrics.observeSubmission("relay", OutcomeAccepted.String())
	logger.Debug("relay accepted transaction", "signature", sig)
}
