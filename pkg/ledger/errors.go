// pkg/ledger/errors.go
package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Rejection is returned when an endpoint answered but refused a request,
// e.g. a failed preflight on sendTransaction.
type Rejection struct {
	Endpoint string
	Code     int
	Message  string
	Data     any
}

func (e *Rejection) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("rejected (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("rejected by %s (%d): %s", e.Endpoint, e.Code, e.Message)
}

// CustomCode returns the program-specific error selector carried by the rejection.
func (e *Rejection) CustomCode() (uint32, bool) {
	if code, ok := CustomErrorCode(e.Data); ok {
		return code, true
	}
	return CustomErrorCode(e.Message)
}

var customErrorPattern = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)

// CustomErrorCode extracts a custom program error code from a transaction error
// value as the node encodes it, e.g. {"InstructionError":[2,{"Custom":3}]}, from
// a response data object wrapping one, or from a log or message string.
func CustomErrorCode(v any) (uint32, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case *Rejection:
		return val.CustomCode()
	case string:
		m := customErrorPattern.FindStringSubmatch(val)
		if m == nil {
			return 0, false
		}
		code, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return 0, false
		}
		return uint32(code), true
	case map[string]any:
		if raw, ok := val["Custom"]; ok {
			return toUint32(raw)
		}
		for _, key := range []string{"InstructionError", "err", "logs"} {
			if inner, ok := val[key]; ok {
				if code, ok := CustomErrorCode(inner); ok {
					return code, true
				}
			}
		}
		return 0, false
	case []any:
		for _, item := range val {
			if code, ok := CustomErrorCode(item); ok {
				return code, true
			}
		}
		return 0, false
	case []string:
		for _, item := range val {
			if code, ok := CustomErrorCode(item); ok {
				return code, true
			}
		}
		return 0, false
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(val, &decoded); err != nil {
			return 0, false
		}
		return CustomErrorCode(decoded)
	default:
		return 0, false
	}
}

func toUint32(v any) (uint32, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
			return 0, false
		}
		return uint32(n), true
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 32)
		if err != nil {
			return 0, false
		}
		return uint32(u), true
	case int:
		if n < 0 || n > math.MaxUint32 {
			return 0, false
		}
		return uint32(n), true
	case uint32:
		return n, true
	case uint64:
		if n > math.MaxUint32 {
			return 0, false
		}
		return uint32(n), true
	default:
		return 0, false
	}
}
