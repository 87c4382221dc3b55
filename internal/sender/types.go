// internal/sender/types.go
package sender

import (
	"crypto/ed25519"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
)

// Signer produces the fee payer signature over a serialized message.
// solana.PrivateKey satisfies it.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(payload []byte) (solana.Signature, error)
}

// Budget is a compute unit limit and a price in micro-lamports per unit.
type Budget struct {
	UnitLimit uint32
	UnitPrice uint64
}

// MaxComputeUnits is the per-transaction compute ceiling enforced by the network.
const MaxComputeUnits = 1_400_000

// Request describes one logical transaction to land.
type Request struct {
	// Instructions are submitted in order after any budget instructions.
	Instructions []solana.Instruction

	// Signer pays fees and signs every rebuilt transaction.
	Signer Signer

	// UnitPrice is the priority fee in micro-lamports per compute unit.
	UnitPrice uint64

	// UnitLimit is a static compute limit used when DynamicBudget is false.
	// Zero leaves the network default.
	UnitLimit uint32

	// DynamicBudget derives the compute limit from a simulation.
	DynamicBudget bool

	// SkipConfirmation declares success as soon as the primary endpoint accepts.
	SkipConfirmation bool

	// Staleness aborts the call when the caller's target has been consumed.
	Staleness *Staleness
}

// staticBudget returns the budget requested without simulation, nil for the
// network default.
func (r *Request) staticBudget() *Budget {
	if r.UnitLimit == 0 && r.UnitPrice == 0 {
		return nil
	}
	return &Budget{UnitLimit: r.UnitLimit, UnitPrice: r.UnitPrice}
}

func signerUsable(s Signer) bool {
	if s == nil {
		return false
	}
	if key, ok := s.(solana.PrivateKey); ok {
		return len(key) == ed25519.PrivateKeySize
	}
	return true
}

// Phase is a state of the submission state machine.
type Phase string

const (
	PhaseAssembling Phase = "assembling"
	PhaseEstimating Phase = "estimating"
	PhaseSubmitting Phase = "submitting"
	PhasePolling    Phase = "polling"
	PhaseRetrying   Phase = "retrying"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// OutcomeKind tags a primary submission result.
type OutcomeKind int

const (
	OutcomeUnknown OutcomeKind = iota
	OutcomeAccepted
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome is the authoritative result of one primary submission.
type Outcome struct {
	Kind      OutcomeKind
	Signature solana.Signature
	Reason    error
}

// Config bounds and paces the engine. Attempt, simulation and poll counts
// below 1 are treated as 1.
type Config struct {
	// MaxAttempts bounds full submit-and-poll cycles.
	MaxAttempts int

	// SubmitRetries bounds resubmissions after rejected or unanswered sends.
	SubmitRetries int

	// SimulationRetries bounds simulation calls.
	SimulationRetries int

	// PollRetries bounds status queries per cycle.
	PollRetries int

	PollInterval    time.Duration
	AttemptDelay    time.Duration
	SimulationDelay time.Duration

	// SendTimeout caps a primary send; exceeding it yields OutcomeUnknown.
	// Zero disables the cap.
	SendTimeout time.Duration

	// RelayTimeout caps a relay send. Zero disables the cap.
	RelayTimeout time.Duration

	// ComputeUnitMargin is added to the simulated consumption.
	ComputeUnitMargin uint32

	// ClaimedErrorCode is the program error selector meaning the target state
	// was consumed by a competing submitter.
	ClaimedErrorCode uint32

	SkipPreflight bool

	// NodeMaxRetries is forwarded to the node as its rebroadcast count.
	NodeMaxRetries *uint

	Logger  *slog.Logger
	Metrics *Metrics
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	nodeRetries := uint(1)
	return Config{
		MaxAttempts:       4,
		SubmitRetries:     4,
		SimulationRetries: 4,
		PollRetries:       8,
		PollInterval:      2 * time.Second,
		AttemptDelay:      2 * time.Second,
		SimulationDelay:   1 * time.Second,
		SendTimeout:       10 * time.Second,
		RelayTimeout:      5 * time.Second,
		ComputeUnitMargin: 1000,
		ClaimedErrorCode:  1,
		NodeMaxRetries:    &nodeRetries,
	}
}

func (c Config) normalized() Config {
	c.MaxAttempts = max(c.MaxAttempts, 1)
	c.SubmitRetries = max(c.SubmitRetries, 0)
	c.SimulationRetries = max(c.SimulationRetries, 1)
	c.PollRetries = max(c.PollRetries, 1)
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
