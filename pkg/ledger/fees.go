package ledger

import (
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

const microLamportsPerLamport = 1_000_000

// ComputeBudgetProgramID is the native program that accepts budget instructions.
var ComputeBudgetProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

// BudgetInstructions returns the budget-setting instructions for a compute unit
// limit and a price in micro-lamports per unit. The limit instruction always
// precedes the price instruction; a zero limit is omitted.
func BudgetInstructions(unitLimit uint32, unitPrice uint64) []solana.Instruction {
	ixs := make([]solana.Instruction, 0, 2)
	if unitLimit > 0 {
		ixs = append(ixs, computebudget.NewSetComputeUnitLimitInstruction(unitLimit).Build())
	}
	ixs = append(ixs, computebudget.NewSetComputeUnitPriceInstruction(unitPrice).Build())
	return ixs
}

// PriorityFee is the lamport cost of a unit price over unitLimit units, rounded up.
func PriorityFee(unitLimit uint32, unitPrice uint64) sdkmath.Uint {
	return sdkmath.NewUint(uint64(unitLimit)).
		Mul(sdkmath.NewUint(unitPrice)).
		AddUint64(microLamportsPerLamport - 1).
		QuoUint64(microLamportsPerLamport)
}

// FormatSOL renders a lamport amount as SOL without trailing zeros.
func FormatSOL(lamports uint64) string {
	if lamports == 0 {
		return "0"
	}
	dec := sdkmath.LegacyNewDecFromBigIntWithPrec(new(big.Int).SetUint64(lamports), 9)
	s := strings.TrimRight(dec.String(), "0")
	return strings.TrimSuffix(s, ".")
}
