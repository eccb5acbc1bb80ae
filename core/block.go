package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
)

var (
	ErrInvalidBlockReference = errors.New("invalid block reference")
	ErrInvalidBlockNumber    = errors.New("invalid block number")
)

// BlockID references a block by tag, number or hash. Exactly one variant is set.
type BlockID struct {
	Pending bool
	Latest  bool
	Hash    *felt.Felt
	Number  uint64
}

func (b BlockID) IsNumber() bool {
	return !b.Pending && !b.Latest && b.Hash == nil
}

// ParseBlockID accepts "latest", "pending", a decimal block number or a 0x-prefixed block hash.
func ParseBlockID(s string) (BlockID, error) {
	switch s {
	case "latest":
		return BlockID{Latest: true}, nil
	case "pending":
		return BlockID{Pending: true}, nil
	}

	if isDecimal(s) {
		number, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return BlockID{}, fmt.Errorf("%w: %s", ErrInvalidBlockNumber, s)
		}
		return BlockID{Number: number}, nil
	}

	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return BlockID{}, fmt.Errorf("%w: %q", ErrInvalidBlockReference, s)
	}
	hash, err := DecodeFelt(s)
	if err != nil {
		return BlockID{}, fmt.Errorf("%w: %q", ErrInvalidBlockReference, s)
	}
	return BlockID{Hash: hash}, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (b BlockID) String() string {
	switch {
	case b.Pending:
		return "pending"
	case b.Latest:
		return "latest"
	case b.Hash != nil:
		return EncodeFelt(b.Hash)
	default:
		return strconv.FormatUint(b.Number, 10)
	}
}

// MarshalJSON produces the JSON-RPC block_id representation.
func (b BlockID) MarshalJSON() ([]byte, error) {
	switch {
	case b.Pending:
		return json.Marshal("pending")
	case b.Latest:
		return json.Marshal("latest")
	case b.Hash != nil:
		return json.Marshal(map[string]string{"block_hash": EncodeFelt(b.Hash)})
	default:
		return json.Marshal(map[string]uint64{"block_number": b.Number})
	}
}
