package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeygenFile(t *testing.T, dir string, key solana.PrivateKey) string {
	t.Helper()
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(dir, key.PublicKey().String()+".json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad_KeygenFile(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	path := writeKeygenFile(t, t.TempDir(), key)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), loaded.PublicKey())
}

func TestLoad_Base58Secret(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	loaded, err := Load(base58.Encode(key))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), loaded.PublicKey())
}

func TestParseSecret_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		secret string
	}{
		{"not base58", "0OIl"},
		{"too short", base58.Encode([]byte{1, 2, 3})},
		{"mismatched halves", base58.Encode(make([]byte, 64))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSecret(tc.secret)
			require.ErrorIs(t, err, ErrInvalidSecret)
		})
	}
}

func TestFirstFromList(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "wallets.txt")
	require.NoError(t, os.WriteFile(list, []byte("\n# miners\n  /keys/a.json  \n/keys/b.json\n"), 0o644))

	first, err := FirstFromList(list)
	require.NoError(t, err)
	assert.Equal(t, "/keys/a.json", first)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n\n"), 0o644))
	_, err = FirstFromList(empty)
	require.ErrorIs(t, err, ErrNoKeypair)

	_, err = FirstFromList(filepath.Join(dir, "missing.txt"))
	require.ErrorIs(t, err, ErrNoKeypair)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	listed, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	explicit, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	listedPath := writeKeygenFile(t, dir, listed)
	explicitPath := writeKeygenFile(t, dir, explicit)
	list := filepath.Join(dir, "wallets.txt")
	require.NoError(t, os.WriteFile(list, []byte(listedPath+"\n"), 0o644))

	key, err := Resolve(explicitPath, list)
	require.NoError(t, err)
	assert.Equal(t, explicit.PublicKey(), key.PublicKey(), "explicit keypair wins")

	key, err = Resolve("", list)
	require.NoError(t, err)
	assert.Equal(t, listed.PublicKey(), key.PublicKey())

	_, err = Resolve("", filepath.Join(dir, "none.txt"))
	require.ErrorIs(t, err, ErrNoKeypair)
}
