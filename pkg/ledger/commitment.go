package ledger

import "strings"

// Commitment is the durability level at which a transaction has been observed.
// Levels are ordered: Processed < Confirmed < Finalized.
type Commitment int

const (
	CommitmentUnknown Commitment = iota
	CommitmentProcessed
	CommitmentConfirmed
	CommitmentFinalized
)

// ParseCommitment maps the node's confirmationStatus string to a Commitment.
func ParseCommitment(s string) Commitment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "processed":
		return CommitmentProcessed
	case "confirmed":
		return CommitmentConfirmed
	case "finalized":
		return CommitmentFinalized
	default:
		return CommitmentUnknown
	}
}

// Terminal reports whether c is durable enough to declare success.
func (c Commitment) Terminal() bool {
	return c >= CommitmentConfirmed
}

func (c Commitment) String() string {
	switch c {
	case CommitmentProcessed:
		return "processed"
	case CommitmentConfirmed:
		return "confirmed"
	case CommitmentFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}
