// internal/sender/poller.go
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

// Poller waits for a signature to reach a terminal commitment.
type Poller struct {
	node    ledger.Node
	cfg     Config
	metrics *Metrics
}

// NewPoller creates a Poller.
func NewPoller(node ledger.Node, cfg Config) *Poller {
	cfg = cfg.normalized()
	return &Poller{node: node, cfg: cfg, metrics: cfg.Metrics}
}

// Poll queries the status of sig up to PollRetries times, PollInterval apart.
// It returns nil on Confirmed or Finalized and ErrConfirmationTimeout when the
// budget runs out. The caller decides whether a timeout is retried.
func (p *Poller) Poll(ctx context.Context, logger *slog.Logger, sig solana.Signature, stale *Staleness) error {
	for attempt := 1; attempt <= p.cfg.PollRetries; attempt++ {
		if err := sleep(ctx, p.cfg.PollInterval); err != nil {
			return err
		}
		if err := stale.Check(ctx, logger); err != nil {
			return err
		}

		status, err := p.node.SignatureStatus(ctx, sig)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.metrics.observePoll("error")
			logger.Debug("status query failed", "attempt", attempt, "error", err)
			continue
		}
		if status == nil {
			p.metrics.observePoll("absent")
			logger.Debug("signature not seen yet", "attempt", attempt, "signature", sig)
			continue
		}

		if status.Err != nil {
			p.metrics.observePoll("failed")
			if code, ok := ledger.CustomErrorCode(status.Err); ok && code == p.cfg.ClaimedErrorCode {
				return fmt.Errorf("%w: transaction %s failed on chain: %v", ErrTargetAlreadyClaimed, sig, status.Err)
			}
			return fmt.Errorf("%w: transaction %s failed on chain: %v", ErrSubmissionRejected, sig, status.Err)
		}

		p.metrics.observePoll(status.Commitment.String())
		if status.Commitment.Terminal() {
			logger.Debug("signature confirmed",
				"signature", sig,
				"commitment", status.Commitment,
				"slot", status.Slot)
			return nil
		}
	}

	return fmt.Errorf("%w: %s not confirmed after %d polls", ErrConfirmationTimeout, sig, p.cfg.PollRetries)
}
