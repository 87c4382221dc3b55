// Package ore holds the mining program's well-known addresses and account
// layouts.
package ore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/gagliardetto/solana-go"
)

var (
	// ProgramID is the mining program.
	ProgramID = solana.MustPublicKeyFromBase58("mineRHF5r6S7HyD9SppBfVMXMavDkJsxwGesEvxZr2A")

	// MintAddress is the reward token mint.
	MintAddress = solana.MustPublicKeyFromBase58("oreoN2tQbHXVaZsr3pf66A48miqcBXCDJozganhEJgz")
)

// PDA seeds.
var (
	ProofSeed    = []byte("proof")
	TreasurySeed = []byte("treasury")
)

// Addresses derives program addresses and memoizes the results. Derivation
// walks bump seeds with a hash per step, so repeated lookups hit the cache.
// Safe for concurrent use.
type Addresses struct {
	cache *bigcache.BigCache
}

// NewAddresses creates an address deriver with a small in-memory cache.
func NewAddresses(ctx context.Context) (*Addresses, error) {
	cfg := bigcache.DefaultConfig(24 * time.Hour)
	cfg.Shards = 16
	cfg.MaxEntriesInWindow = 1024
	cfg.MaxEntrySize = solana.PublicKeyLength
	cfg.HardMaxCacheSize = 1 // MB
	cfg.Verbose = false

	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create address cache: %w", err)
	}
	return &Addresses{cache: cache}, nil
}

// Proof returns the proof account of authority.
func (a *Addresses) Proof(authority solana.PublicKey) (solana.PublicKey, error) {
	return a.memoize("proof:"+authority.String(), func() (solana.PublicKey, error) {
		addr, _, err := solana.FindProgramAddress([][]byte{ProofSeed, authority.Bytes()}, ProgramID)
		return addr, err
	})
}

// Treasury returns the program treasury account.
func (a *Addresses) Treasury() (solana.PublicKey, error) {
	return a.memoize("treasury", func() (solana.PublicKey, error) {
		addr, _, err := solana.FindProgramAddress([][]byte{TreasurySeed}, ProgramID)
		return addr, err
	})
}

// TreasuryTokens returns the treasury's associated token account for the mint.
func (a *Addresses) TreasuryTokens() (solana.PublicKey, error) {
	return a.memoize("treasury-tokens", func() (solana.PublicKey, error) {
		treasury, err := a.Treasury()
		if err != nil {
			return solana.PublicKey{}, err
		}
		addr, _, err := solana.FindAssociatedTokenAddress(treasury, MintAddress)
		return addr, err
	})
}

// Close releases the cache.
func (a *Addresses) Close() error {
	return a.cache.Close()
}

func (a *Addresses) memoize(key string, derive func() (solana.PublicKey, error)) (solana.PublicKey, error) {
	cached, err := a.cache.Get(key)
	if err == nil && len(cached) == solana.PublicKeyLength {
		return solana.PublicKeyFromBytes(cached), nil
	}
	if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return solana.PublicKey{}, fmt.Errorf("address cache lookup failed: %w", err)
	}

	addr, err := derive()
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive %s address: %w", key, err)
	}
	if err := a.cache.Set(key, addr.Bytes()); err != nil {
		return solana.PublicKey{}, fmt.Errorf("address cache store failed: %w", err)
	}
	return addr, nil
}
