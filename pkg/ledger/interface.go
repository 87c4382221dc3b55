// pkg/ledger/interface.go
package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Node is the primary ledger endpoint. Implementations are stateless facades over
// remote JSON-RPC calls; every method honors ctx cancellation.
//
// A Node answers both queries and submissions. Only its answers are authoritative
// for the submission engine.
type Node interface {
	// Balance returns the lamport balance of owner at confirmed commitment.
	Balance(ctx context.Context, owner solana.PublicKey) (uint64, error)

	// LatestBlockhash returns the freshest blockhash anchor at confirmed commitment.
	LatestBlockhash(ctx context.Context) (*Anchor, error)

	// Simulate dry-runs tx without signature verification. The node is allowed
	// to substitute a recent blockhash.
	Simulate(ctx context.Context, tx *solana.Transaction) (*Simulation, error)

	// Send submits a signed transaction. An endpoint refusal is reported as a
	// *Rejection; any other error means the outcome is unknown.
	Send(ctx context.Context, tx *solana.Transaction, opts SendOptions) (solana.Signature, error)

	// SignatureStatus returns the status of sig, or nil when the node has not
	// seen it yet.
	SignatureStatus(ctx context.Context, sig solana.Signature) (*Status, error)
}

// Relay is an accelerated, best-effort submission path. Its answers are never
// authoritative.
type Relay interface {
	Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Anchor is a recent blockhash together with the slot it was observed at.
type Anchor struct {
	Blockhash            solana.Hash
	Slot                 uint64
	LastValidBlockHeight uint64
}

// Simulation is the result of a dry run.
type Simulation struct {
	// Err is the program-level failure reported by the node, nil on success.
	Err any

	// UnitsConsumed is nil when the node did not report a compute figure.
	UnitsConsumed *uint64

	Logs []string
}

// Failed reports whether the simulation hit a program-level failure.
func (s *Simulation) Failed() bool {
	return s != nil && s.Err != nil
}

// SendOptions tunes a single primary submission.
type SendOptions struct {
	SkipPreflight bool

	// MaxRetries is the node-side rebroadcast count. Nil leaves the node default.
	MaxRetries *uint

	// MinContextSlot rejects the send on nodes lagging behind the anchor slot.
	MinContextSlot uint64
}

// Status is the observed state of a submitted signature.
type Status struct {
	Slot       uint64
	Commitment Commitment

	// Err is set when the transaction landed but failed on chain.
	Err any
}
