// Package rpc provides ledger endpoint clients: the primary node over the
// standard JSON-RPC API and the block-engine relay.
package rpc

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"golang.org/x/time/rate"

	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

const (
	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRequestsPerSecond paces calls to public endpoints.
	DefaultRequestsPerSecond = 10

	// DefaultBurst is the default limiter burst.
	DefaultBurst = 5
)

// NodeOptions configures a NodeClient.
type NodeOptions struct {
	Timeout time.Duration

	// RequestsPerSecond of zero or less disables client-side pacing.
	RequestsPerSecond float64
	Burst             int

	Logger *slog.Logger
}

// NodeClient implements ledger.Node against a standard JSON-RPC endpoint.
type NodeClient struct {
	endpoint string
	client   *solanarpc.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ ledger.Node = (*NodeClient)(nil)

// NewNodeClient creates a NodeClient for endpoint.
func NewNodeClient(endpoint string, opts NodeOptions) *NodeClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rpcClient := jsonrpc.NewClientWithOpts(endpoint, &jsonrpc.RPCClientOpts{
		HTTPClient: &http.Client{Timeout: opts.Timeout},
	})

	return &NodeClient{
		endpoint: endpoint,
		client:   solanarpc.NewWithCustomRPCClient(rpcClient),
		limiter:  rate.NewLimiter(limit, opts.Burst),
		logger:   logger.With("endpoint", endpoint),
	}
}

// Endpoint returns the URL the client talks to.
func (c *NodeClient) Endpoint() string {
	return c.endpoint
}

// Balance returns the lamport balance of owner.
func (c *NodeClient) Balance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	if err := c.wait(ctx, "getBalance"); err != nil {
		return 0, err
	}
	out, err := c.client.GetBalance(ctx, owner, solanarpc.CommitmentConfirmed)
	if err != nil {
		return 0, c.convert("getBalance", err)
	}
	return out.Value, nil
}

// LatestBlockhash returns the freshest blockhash at confirmed commitment.
func (c *NodeClient) LatestBlockhash(ctx context.Context) (*ledger.Anchor, error) {
	if err := c.wait(ctx, "getLatestBlockhash"); err != nil {
		return nil, err
	}
	out, err := c.client.GetLatestBlockhash(ctx, solanarpc.CommitmentConfirmed)
	if err != nil {
		return nil, c.convert("getLatestBlockhash", err)
	}
	if out == nil || out.Value == nil {
		return nil, &RPCError{Operation: "getLatestBlockhash", Endpoint: c.endpoint, Err: errors.New("empty result")}
	}
	return &ledger.Anchor{
		Blockhash:            out.Value.Blockhash,
		Slot:                 out.Context.Slot,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

// Simulate dry-runs tx without signature verification.
func (c *NodeClient) Simulate(ctx context.Context, tx *solana.Transaction) (*ledger.Simulation, error) {
	if err := c.wait(ctx, "simulateTransaction"); err != nil {
		return nil, err
	}
	out, err := c.client.SimulateTransactionWithOpts(ctx, tx, &solanarpc.SimulateTransactionOpts{
		SigVerify:              false,
		Commitment:             solanarpc.CommitmentConfirmed,
		ReplaceRecentBlockhash: true,
	})
	if err != nil {
		return nil, c.convert("simulateTransaction", err)
	}
	if out == nil || out.Value == nil {
		return &ledger.Simulation{}, nil
	}
	return &ledger.Simulation{
		Err:           out.Value.Err,
		UnitsConsumed: out.Value.UnitsConsumed,
		Logs:          out.Value.Logs,
	}, nil
}

// Send submits tx with base64 encoding and confirmed preflight commitment.
func (c *NodeClient) Send(ctx context.Context, tx *solana.Transaction, opts ledger.SendOptions) (solana.Signature, error) {
	if err := c.wait(ctx, "sendTransaction"); err != nil {
		return solana.Signature{}, err
	}

	txOpts := solanarpc.TransactionOpts{
		Encoding:            solana.EncodingBase64,
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: solanarpc.CommitmentConfirmed,
		MaxRetries:          opts.MaxRetries,
	}
	if opts.MinContextSlot > 0 {
		slot := opts.MinContextSlot
		txOpts.MinContextSlot = &slot
	}

	sig, err := c.client.SendTransactionWithOpts(ctx, tx, txOpts)
	if err != nil {
		return solana.Signature{}, c.convert("sendTransaction", err)
	}
	return sig, nil
}

// SignatureStatus returns the status of sig, searching transaction history.
func (c *NodeClient) SignatureStatus(ctx context.Context, sig solana.Signature) (*ledger.Status, error) {
	if err := c.wait(ctx, "getSignatureStatuses"); err != nil {
		return nil, err
	}
	out, err := c.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, c.convert("getSignatureStatuses", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return nil, nil
	}

	st := out.Value[0]
	commitment := ledger.ParseCommitment(string(st.ConfirmationStatus))
	if commitment == ledger.CommitmentUnknown && st.Confirmations == nil {
		// Nodes omit the confirmation count once a slot is rooted.
		commitment = ledger.CommitmentFinalized
	}
	return &ledger.Status{
		Slot:       st.Slot,
		Commitment: commitment,
		Err:        st.Err,
	}, nil
}

// AccountData returns the raw data of account, or ErrAccountNotFound.
func (c *NodeClient) AccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	if err := c.wait(ctx, "getAccountInfo"); err != nil {
		return nil, err
	}
	out, err := c.client.GetAccountInfoWithOpts(ctx, account, &solanarpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: solanarpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, c.convert("getAccountInfo", err)
	}
	if out == nil || out.Value == nil || out.Value.Data == nil {
		return nil, ErrAccountNotFound
	}
	return out.Value.Data.GetBinary(), nil
}

func (c *NodeClient) wait(ctx context.Context, op string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return transportError(op, c.endpoint, err)
	}
	return nil
}

// convert maps an endpoint answer to *ledger.Rejection and anything else to a
// transport error.
func (c *NodeClient) convert(op string, err error) error {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		c.logger.Debug("endpoint rejected call", "operation", op, "code", rpcErr.Code, "message", rpcErr.Message)
		return &ledger.Rejection{
			Endpoint: c.endpoint,
			Code:     rpcErr.Code,
			Message:  rpcErr.Message,
			Data:     rpcErr.Data,
		}
	}
	return transportError(op, c.endpoint, err)
}
