// internal/sender/assembler.go
package sender

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

// Assembler turns an instruction list and an optional budget into a signed
// transaction.
type Assembler struct {
	node ledger.Node
}

// NewAssembler creates an Assembler anchored on node.
func NewAssembler(node ledger.Node) *Assembler {
	return &Assembler{node: node}
}

// Assemble fetches the freshest blockhash from the primary endpoint and builds
// a signed transaction on top of it.
func (a *Assembler) Assemble(ctx context.Context, signer Signer, ixs []solana.Instruction, budget *Budget) (*solana.Transaction, *ledger.Anchor, error) {
	if len(ixs) == 0 {
		return nil, nil, ErrNoInstructions
	}
	if !signerUsable(signer) {
		return nil, nil, ErrSignerUnavailable
	}

	anchor, err := a.node.LatestBlockhash(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch blockhash: %w", err)
	}

	tx, err := a.Build(signer, ixs, budget, anchor)
	if err != nil {
		return nil, nil, err
	}
	return tx, anchor, nil
}

// Build assembles and signs a transaction on an existing anchor. Budget
// instructions, when present, precede ixs; ixs keep their order.
func (a *Assembler) Build(signer Signer, ixs []solana.Instruction, budget *Budget, anchor *ledger.Anchor) (*solana.Transaction, error) {
	if len(ixs) == 0 {
		return nil, ErrNoInstructions
	}
	if !signerUsable(signer) {
		return nil, ErrSignerUnavailable
	}
	if anchor == nil {
		return nil, fmt.Errorf("blockhash anchor is required")
	}

	all := make([]solana.Instruction, 0, len(ixs)+2)
	if budget != nil {
		all = append(all, ledger.BudgetInstructions(budget.UnitLimit, budget.UnitPrice)...)
	}
	all = append(all, ixs...)

	tx, err := solana.NewTransaction(all, anchor.Blockhash, solana.TransactionPayer(signer.PublicKey()))
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	if required := tx.Message.Header.NumRequiredSignatures; required != 1 {
		return nil, fmt.Errorf("%w: transaction requires %d signatures", ErrSignerUnavailable, required)
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignerUnavailable, err)
	}
	tx.Signatures = []solana.Signature{sig}

	return tx, nil
}
