package sender

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/require"

	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

// fakeNode implements ledger.Node for testing. Behavior hooks receive the
// 1-based call number of their method.
type fakeNode struct {
	mu sync.Mutex

	balance    uint64
	balanceErr error

	blockhashErr func(call int) error
	simulate     func(call int, tx *solana.Transaction) (*ledger.Simulation, error)
	send         func(call int, tx *solana.Transaction) (solana.Signature, error)
	status       func(call int, sig solana.Signature) (*ledger.Status, error)

	calls     map[string]int
	order     []string
	sent      []*solana.Transaction
	simulated []*solana.Transaction
	anchors   []solana.Hash
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		balance: 1_000_000_000,
		calls:   make(map[string]int),
	}
}

func (f *fakeNode) record(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	f.order = append(f.order, method)
	return f.calls[method]
}

func (f *fakeNode) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeNode) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

func (f *fakeNode) Balance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	f.record("balance")
	return f.balance, f.balanceErr
}

func (f *fakeNode) LatestBlockhash(ctx context.Context) (*ledger.Anchor, error) {
	call := f.record("blockhash")
	if f.blockhashErr != nil {
		if err := f.blockhashErr(call); err != nil {
			return nil, err
		}
	}
	var hash solana.Hash
	binary.LittleEndian.PutUint64(hash[:], uint64(call))
	hash[31] = 0xAB

	f.mu.Lock()
	f.anchors = append(f.anchors, hash)
	f.mu.Unlock()

	return &ledger.Anchor{Blockhash: hash, Slot: uint64(100 + call), LastValidBlockHeight: uint64(250 + call)}, nil
}

func (f *fakeNode) Simulate(ctx context.Context, tx *solana.Transaction) (*ledger.Simulation, error) {
	call := f.record("simulate")
	f.mu.Lock()
	f.simulated = append(f.simulated, tx)
	f.mu.Unlock()
	if f.simulate != nil {
		return f.simulate(call, tx)
	}
	units := uint64(5000)
	return &ledger.Simulation{UnitsConsumed: &units}, nil
}

func (f *fakeNode) Send(ctx context.Context, tx *solana.Transaction, opts ledger.SendOptions) (solana.Signature, error) {
	call := f.record("send")
	f.mu.Lock()
	f.sent = append(f.sent, tx)
	f.mu.Unlock()
	if f.send != nil {
		return f.send(call, tx)
	}
	return tx.Signatures[0], nil
}

func (f *fakeNode) SignatureStatus(ctx context.Context, sig solana.Signature) (*ledger.Status, error) {
	call := f.record("status")
	if f.status != nil {
		return f.status(call, sig)
	}
	return &ledger.Status{Slot: 120, Commitment: ledger.CommitmentConfirmed}, nil
}

func (f *fakeNode) sentTx(i int) *solana.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[i]
}

// fakeRelay implements ledger.Relay for testing.
type fakeRelay struct {
	mu    sync.Mutex
	calls int
	err   error
	block bool

	// release, when set, holds each send until closed.
	release chan struct{}
}

func (r *fakeRelay) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return solana.Signature{}, ctx.Err()
		}
	}
	if r.block {
		<-ctx.Done()
		return solana.Signature{}, ctx.Err()
	}
	if r.err != nil {
		return solana.Signature{}, r.err
	}
	return tx.Signatures[0], nil
}

func (r *fakeRelay) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// staticTokens is a TokenSource whose value can be swapped mid-call.
type staticTokens struct {
	mu    sync.Mutex
	value string
	err   error
}

func (s *staticTokens) Current(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.err
}

func (s *staticTokens) set(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		MaxAttempts:       3,
		SubmitRetries:     3,
		SimulationRetries: 3,
		PollRetries:       3,
		ComputeUnitMargin: 1000,
		ClaimedErrorCode:  1,
		Logger:            discardLogger(),
	}
}

func newSigner(t *testing.T) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

func transferRequest(t *testing.T) Request {
	t.Helper()
	signer := newSigner(t)
	recipient := newSigner(t).PublicKey()
	return Request{
		Instructions: []solana.Instruction{
			system.NewTransferInstruction(1000, signer.PublicKey(), recipient).Build(),
		},
		Signer: signer,
	}
}

func claimedRejection() *ledger.Rejection {
	return &ledger.Rejection{
		Endpoint: "primary",
		Code:     -32002,
		Message:  "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1",
		Data: map[string]any{
			"err": map[string]any{"InstructionError": []any{0.0, map[string]any{"Custom": 1.0}}},
		},
	}
}

func genericRejection() *ledger.Rejection {
	return &ledger.Rejection{
		Endpoint: "primary",
		Code:     -32002,
		Message:  "Transaction simulation failed: Blockhash not found",
		Data:     map[string]any{"err": "BlockhashNotFound"},
	}
}
