package ore

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ProofAccountSize is the on-chain size of a proof account, discriminator
// included.
const ProofAccountSize = 8 + 32 + 8 + 32 + 8 + 8

// Proof is a miner's proof account.
type Proof struct {
	Authority        solana.PublicKey
	ClaimableRewards uint64
	Hash             solana.Hash
	TotalHashes      uint64
	TotalRewards     uint64
}

// DecodeProof parses proof account data.
func DecodeProof(data []byte) (*Proof, error) {
	if len(data) < ProofAccountSize {
		return nil, fmt.Errorf("proof account too short: %d bytes, want %d", len(data), ProofAccountSize)
	}
	body := data[8:]

	p := &Proof{}
	copy(p.Authority[:], body[0:32])
	p.ClaimableRewards = binary.LittleEndian.Uint64(body[32:40])
	copy(p.Hash[:], body[40:72])
	p.TotalHashes = binary.LittleEndian.Uint64(body[72:80])
	p.TotalRewards = binary.LittleEndian.Uint64(body[80:88])
	return p, nil
}

// Fingerprint is the staleness token recorded for the proof: its current hash.
func (p *Proof) Fingerprint() string {
	return p.Hash.String()
}
