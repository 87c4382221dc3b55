// internal/sender/estimator.go
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

// Estimator derives a compute budget from a dry run on the primary endpoint.
// It is a cost estimate only and never looks at on-chain results.
type Estimator struct {
	node    ledger.Node
	cfg     Config
	metrics *Metrics
}

// NewEstimator creates an Estimator.
func NewEstimator(node ledger.Node, cfg Config) *Estimator {
	cfg = cfg.normalized()
	return &Estimator{node: node, cfg: cfg, metrics: cfg.Metrics}
}

// Estimate simulates tx up to SimulationRetries times and returns the budget
// (consumed units + margin, unitPrice).
func (e *Estimator) Estimate(ctx context.Context, logger *slog.Logger, tx *solana.Transaction, unitPrice uint64, stale *Staleness) (*Budget, error) {
	var last error
	for attempt := 1; attempt <= e.cfg.SimulationRetries; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, e.cfg.SimulationDelay); err != nil {
				return nil, err
			}
		}
		if err := stale.Check(ctx, logger); err != nil {
			return nil, err
		}

		sim, err := e.node.Simulate(ctx, tx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var rejection *ledger.Rejection
			if errors.As(err, &rejection) {
				if e.claimed(rejection) {
					e.metrics.observeSimulation("claimed")
					return nil, fmt.Errorf("%w: %v", ErrTargetAlreadyClaimed, rejection)
				}
				last = fmt.Errorf("%w: %v", ErrSimulationFailed, rejection)
				e.metrics.observeSimulation("failed")
			} else {
				last = fmt.Errorf("%w: %v", ErrSimulationInconclusive, err)
				e.metrics.observeSimulation("error")
			}
		case sim.Failed():
			if e.claimed(sim.Err) {
				e.metrics.observeSimulation("claimed")
				return nil, fmt.Errorf("%w: simulation error %v", ErrTargetAlreadyClaimed, sim.Err)
			}
			last = fmt.Errorf("%w: %v", ErrSimulationFailed, sim.Err)
			e.metrics.observeSimulation("failed")
		case sim.UnitsConsumed == nil || *sim.UnitsConsumed == 0:
			last = ErrSimulationInconclusive
			e.metrics.observeSimulation("inconclusive")
		default:
			e.metrics.observeSimulation("ok")
			budget := &Budget{
				UnitLimit: e.unitLimit(*sim.UnitsConsumed),
				UnitPrice: unitPrice,
			}
			logger.Debug("compute budget estimated",
				"units_consumed", *sim.UnitsConsumed,
				"unit_limit", budget.UnitLimit,
				"unit_price", budget.UnitPrice,
				"priority_fee_lamports", ledger.PriorityFee(budget.UnitLimit, budget.UnitPrice).String())
			return budget, nil
		}

		logger.Warn("simulation attempt failed",
			"attempt", attempt,
			"max", e.cfg.SimulationRetries,
			"error", last)
	}

	return nil, &RetryError{Counter: CounterSimulation, Limit: e.cfg.SimulationRetries, Last: last}
}

func (e *Estimator) unitLimit(consumed uint64) uint32 {
	limit := consumed + uint64(e.cfg.ComputeUnitMargin)
	if limit > MaxComputeUnits {
		limit = MaxComputeUnits
	}
	return uint32(limit)
}

func (e *Estimator) claimed(v any) bool {
	code, ok := ledger.CustomErrorCode(v)
	return ok && code == e.cfg.ClaimedErrorCode
}
