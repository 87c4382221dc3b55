package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCustomErrorCode(t *testing.T) {
	var instructionErr any
	require.NoError(t, json.Unmarshal([]byte(`{"InstructionError":[2,{"Custom":3}]}`), &instructionErr))

	var preflightData any
	require.NoError(t, json.Unmarshal([]byte(`{
		"err": {"InstructionError": [0, {"Custom": 1}]},
		"logs": ["Program log: Error: custom program error: 0x1"]
	}`), &preflightData))

	tests := []struct {
		name   string
		input  any
		want   uint32
		wantOK bool
	}{
		{name: "nil", input: nil},
		{name: "instruction error", input: instructionErr, want: 3, wantOK: true},
		{name: "preflight data", input: preflightData, want: 1, wantOK: true},
		{name: "message", input: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1f", want: 0x1f, wantOK: true},
		{name: "log lines", input: []string{"Program log: hi", "custom program error: 0x2"}, want: 2, wantOK: true},
		{name: "raw json", input: json.RawMessage(`{"InstructionError":[1,{"Custom":7}]}`), want: 7, wantOK: true},
		{name: "builtin error", input: map[string]any{"InstructionError": []any{0.0, "InvalidAccountData"}}},
		{name: "blockhash not found", input: "BlockhashNotFound"},
		{name: "negative custom", input: map[string]any{"Custom": -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CustomErrorCode(tt.input)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRejection_CustomCode(t *testing.T) {
	r := &Rejection{
		Code:    -32002,
		Message: "Transaction simulation failed: Error processing Instruction 1: custom program error: 0x3",
	}
	code, ok := r.CustomCode()
	require.True(t, ok)
	require.Equal(t, uint32(3), code)

	r.Data = map[string]any{"err": map[string]any{"InstructionError": []any{1.0, map[string]any{"Custom": 5.0}}}}
	code, ok = r.CustomCode()
	require.True(t, ok)
	require.Equal(t, uint32(5), code, "structured data takes precedence over the message")

	require.Contains(t, (&Rejection{Endpoint: "primary", Code: -32002, Message: "boom"}).Error(), "rejected by primary")
}

func TestParseCommitment(t *testing.T) {
	require.Equal(t, CommitmentProcessed, ParseCommitment("processed"))
	require.Equal(t, CommitmentConfirmed, ParseCommitment("Confirmed"))
	require.Equal(t, CommitmentFinalized, ParseCommitment(" finalized "))
	require.Equal(t, CommitmentUnknown, ParseCommitment(""))

	require.False(t, CommitmentProcessed.Terminal())
	require.True(t, CommitmentConfirmed.Terminal())
	require.True(t, CommitmentFinalized.Terminal())
	require.Less(t, CommitmentProcessed, CommitmentConfirmed)
}
