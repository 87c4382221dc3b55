// Package wallet resolves the fee payer keypair.
package wallet

import (
	"bufio"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

var (
	// ErrNoKeypair is returned when neither a keypair nor a wallets list is available.
	ErrNoKeypair = errors.New("no keypair provided")

	// ErrInvalidSecret is returned for a secret that does not decode to an ed25519 key.
	ErrInvalidSecret = errors.New("invalid secret key")
)

// Resolve returns the signer for keypair, falling back to the first entry of
// walletsFile when keypair is empty. keypair is either a keygen JSON file path
// or a base58 encoded secret key.
func Resolve(keypair, walletsFile string) (solana.PrivateKey, error) {
	keypair = strings.TrimSpace(keypair)
	if keypair == "" {
		first, err := FirstFromList(walletsFile)
		if err != nil {
			return nil, err
		}
		keypair = first
	}
	return Load(keypair)
}

// Load reads a keypair from a keygen file or parses it as a base58 secret.
func Load(keypair string) (solana.PrivateKey, error) {
	if _, err := os.Stat(keypair); err == nil {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(keypair)
		if err != nil {
			return nil, fmt.Errorf("failed to read keypair file %s: %w", keypair, err)
		}
		return key, nil
	}

	key, err := ParseSecret(keypair)
	if err != nil {
		return nil, fmt.Errorf("keypair %q is neither a readable file nor a secret key: %w", keypair, err)
	}
	return key, nil
}

// ParseSecret decodes a base58 encoded 64-byte secret key.
func ParseSecret(secret string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(strings.TrimSpace(secret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSecret, ed25519.PrivateKeySize, len(raw))
	}
	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !derived.Equal(ed25519.PrivateKey(raw)) {
		return nil, fmt.Errorf("%w: public half does not match", ErrInvalidSecret)
	}
	return solana.PrivateKey(raw), nil
}

// FirstFromList returns the first keypair path listed in path. Blank lines and
// lines starting with '#' are skipped.
func FirstFromList(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s not found", ErrNoKeypair, path)
		}
		return "", fmt.Errorf("failed to open wallets list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read wallets list: %w", err)
	}
	return "", fmt.Errorf("%w: %s lists no wallets", ErrNoKeypair, path)
}
