// Package sender lands signed transactions on the ledger: it assembles the
// final instruction set, optionally estimates a compute budget, submits through
// the primary endpoint and an optional relay, and polls for confirmation with
// bounded retries.
//
// A Sender holds no per-call mutable state and is safe for concurrent use.
// Each Send call owns its transaction and counters.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

// Sender coordinates assembly, estimation, submission and confirmation.
type Sender struct {
	node      ledger.Node
	cfg       Config
	logger    *slog.Logger
	metrics   *Metrics
	assembler *Assembler
	estimator *Estimator
	submitter *Submitter
	poller    *Poller
}

// New creates a Sender. relay may be nil, which disables the relay path.
func New(node ledger.Node, relay ledger.Relay, cfg Config) *Sender {
	cfg = cfg.normalized()
	return &Sender{
		node:      node,
		cfg:       cfg,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		assembler: NewAssembler(node),
		estimator: NewEstimator(node, cfg),
		submitter: NewSubmitter(node, relay, cfg),
		poller:    NewPoller(node, cfg),
	}
}

// invocation is the per-call state of one Send.
type invocation struct {
	id     string
	req    *Request
	logger *slog.Logger
	phase  Phase
}

func (inv *invocation) transition(next Phase) {
	inv.logger.Debug("phase transition", "from", inv.phase, "to", next)
	inv.phase = next
}

// Send lands the transaction described by req and returns its signature, or
// exactly one terminal error. Cancelling ctx stops further local retries and
// polls; a transaction already handed to the network may still land.
func (s *Sender) Send(ctx context.Context, req Request) (solana.Signature, error) {
	inv := &invocation{
		id:  uuid.NewString(),
		req: &req,
	}
	inv.logger = s.logger.With("invocation", inv.id)

	start := time.Now()
	sig, err := s.run(ctx, inv)
	s.metrics.observeSend(Class(err), time.Since(start))

	if err != nil {
		inv.transition(PhaseFailed)
		inv.logger.Error("transaction failed", "class", Class(err), "error", err)
		return solana.Signature{}, err
	}

	inv.transition(PhaseSucceeded)
	inv.logger.Info("transaction landed", "signature", sig, "elapsed", time.Since(start))
	return sig, nil
}

func (s *Sender) run(ctx context.Context, inv *invocation) (solana.Signature, error) {
	req := inv.req
	if len(req.Instructions) == 0 {
		return solana.Signature{}, ErrNoInstructions
	}
	if !signerUsable(req.Signer) {
		return solana.Signature{}, ErrSignerUnavailable
	}

	payer := req.Signer.PublicKey()
	balance, err := s.node.Balance(ctx, payer)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to check balance: %w", err)
	}
	if balance == 0 {
		return solana.Signature{}, fmt.Errorf("%w: %s holds 0 lamports", ErrInsufficientFunds, payer)
	}

	inv.transition(PhaseAssembling)
	// A dynamic budget is derived from a dry run of the bare instructions.
	var budget *Budget
	if !req.DynamicBudget {
		budget = req.staticBudget()
	}
	tx, anchor, err := s.assembler.Assemble(ctx, req.Signer, req.Instructions, budget)
	if err != nil {
		return solana.Signature{}, err
	}

	if req.DynamicBudget {
		inv.transition(PhaseEstimating)
		budget, err = s.estimator.Estimate(ctx, inv.logger, tx, req.UnitPrice, req.Staleness)
		if err != nil {
			return solana.Signature{}, err
		}
		tx, err = s.assembler.Build(req.Signer, req.Instructions, budget, anchor)
		if err != nil {
			return solana.Signature{}, err
		}
	}

	rejections := 0
	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			inv.transition(PhaseRetrying)
			if err := sleep(ctx, s.cfg.AttemptDelay); err != nil {
				return solana.Signature{}, err
			}
			tx, anchor, err = s.assembler.Assemble(ctx, req.Signer, req.Instructions, budget)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, ErrSignerUnavailable) || errors.Is(err, ErrNoInstructions) {
					return solana.Signature{}, err
				}
				if attempt >= s.cfg.MaxAttempts {
					return solana.Signature{}, &RetryError{Counter: CounterAttempts, Limit: s.cfg.MaxAttempts, Last: err}
				}
				inv.logger.Warn("failed to refresh blockhash", "attempt", attempt, "error", err)
				continue
			}
		}

		inv.transition(PhaseSubmitting)
		if err := req.Staleness.Check(ctx, inv.logger); err != nil {
			return solana.Signature{}, err
		}
		inv.logger.Debug("submitting transaction",
			"attempt", attempt,
			"blockhash", anchor.Blockhash,
			"slot", anchor.Slot)

		outcome, err := s.submitter.Submit(ctx, inv.logger, tx, anchor)
		if err != nil {
			return solana.Signature{}, err
		}

		var cause error
		if outcome.Kind == OutcomeAccepted {
			if req.SkipConfirmation {
				return outcome.Signature, nil
			}

			inv.transition(PhasePolling)
			err := s.poller.Poll(ctx, inv.logger, outcome.Signature, req.Staleness)
			if err == nil {
				return outcome.Signature, nil
			}
			if !Retriable(err) {
				return solana.Signature{}, err
			}
			cause = err
			if errors.Is(err, ErrSubmissionRejected) {
				rejections++
			}
		} else {
			rejections++
			cause = fmt.Errorf("%w (%s): %v", ErrSubmissionRejected, outcome.Kind, outcome.Reason)
		}

		if rejections > s.cfg.SubmitRetries {
			return solana.Signature{}, &RetryError{Counter: CounterSubmission, Limit: s.cfg.SubmitRetries, Last: cause}
		}
		if attempt >= s.cfg.MaxAttempts {
			return solana.Signature{}, &RetryError{Counter: CounterAttempts, Limit: s.cfg.MaxAttempts, Last: cause}
		}
		inv.logger.Warn("attempt did not land, retrying",
			"attempt", attempt,
			"max", s.cfg.MaxAttempts,
			"error", cause)
	}
}

// Drain waits until relay sends started by earlier Send calls finish, or ctx
// is done. Send never waits for them itself.
func (s *Sender) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.submitter.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
