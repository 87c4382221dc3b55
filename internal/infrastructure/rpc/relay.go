package rpc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/gagliardetto/solana-go"

	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

// DefaultRelayURL is the public block-engine transactions endpoint.
const DefaultRelayURL = "https://mainnet.block-engine.jito.wtf/api/v1/transactions"

// TipAccounts are the block-engine accounts that accept tips.
var TipAccounts = []solana.PublicKey{
	solana.MustPublicKeyFromBase58("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"),
	solana.MustPublicKeyFromBase58("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe"),
	solana.MustPublicKeyFromBase58("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"),
	solana.MustPublicKeyFromBase58("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"),
	solana.MustPublicKeyFromBase58("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh"),
	solana.MustPublicKeyFromBase58("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt"),
	solana.MustPublicKeyFromBase58("DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL"),
	solana.MustPublicKeyFromBase58("3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT"),
}

// RandomTipAccount picks a tip account uniformly.
func RandomTipAccount() solana.PublicKey {
	return TipAccounts[rand.IntN(len(TipAccounts))]
}

// RelayClient implements ledger.Relay against a block-engine JSON-RPC endpoint.
type RelayClient struct {
	endpoint string
	client   *gethrpc.Client
	logger   *slog.Logger
}

var _ ledger.Relay = (*RelayClient)(nil)

// NewRelayClient dials endpoint. HTTP endpoints are dialed lazily, so this only
// fails on a malformed URL.
func NewRelayClient(ctx context.Context, endpoint string, timeout time.Duration, logger *slog.Logger) (*RelayClient, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, &ConnectionError{Endpoint: endpoint, Message: "empty relay URL"}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := gethrpc.DialOptions(ctx, endpoint, gethrpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, &ConnectionError{Endpoint: endpoint, Message: err.Error()}
	}

	return &RelayClient{
		endpoint: endpoint,
		client:   client,
		logger:   logger.With("endpoint", endpoint),
	}, nil
}

// Send forwards the signed transaction to the relay.
func (c *RelayClient) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to encode transaction: %w", err)
	}

	var result string
	err = c.client.CallContext(ctx, &result, "sendTransaction",
		base64.StdEncoding.EncodeToString(raw),
		map[string]any{"encoding": "base64"})
	if err != nil {
		return solana.Signature{}, c.convert(err)
	}

	sig, err := solana.SignatureFromBase58(result)
	if err != nil {
		return solana.Signature{}, &RPCError{Operation: "sendTransaction", Endpoint: c.endpoint, Err: fmt.Errorf("malformed signature %q: %w", result, err)}
	}
	return sig, nil
}

// Close releases the underlying client.
func (c *RelayClient) Close() {
	c.client.Close()
}

func (c *RelayClient) convert(err error) error {
	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) {
		rejection := &ledger.Rejection{
			Endpoint: c.endpoint,
			Code:     rpcErr.ErrorCode(),
			Message:  rpcErr.Error(),
		}
		var dataErr gethrpc.DataError
		if errors.As(err, &dataErr) {
			rejection.Data = dataErr.ErrorData()
		}
		return rejection
	}

	var httpErr gethrpc.HTTPError
	if errors.As(err, &httpErr) {
		return &ledger.Rejection{
			Endpoint: c.endpoint,
			Code:     httpErr.StatusCode,
			Message:  strings.TrimSpace(string(httpErr.Body)),
		}
	}
	return transportError("sendTransaction", c.endpoint, err)
}
