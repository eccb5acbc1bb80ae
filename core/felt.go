package core

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

var ErrInvalidFieldElement = errors.New("invalid field element")

// EncodedFeltLen is the length of a canonically encoded felt, including the 0x prefix.
const EncodedFeltLen = 2 + 2*felt.Bytes

// DecodeFelt parses a hex string, with or without the 0x prefix, into a felt.
// Values outside the field are rejected rather than reduced.
func DecodeFelt(s string) (*felt.Felt, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFieldElement, s)
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}

	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFieldElement, s, err)
	}

	v := new(big.Int).SetBytes(b)
	if v.Cmp(fp.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidFieldElement, s)
	}
	return new(felt.Felt).SetBytes(v.FillBytes(make([]byte, felt.Bytes))), nil
}

// DecodeFelts decodes every element of values, reporting the index of the first failure.
func DecodeFelts(values []string) ([]*felt.Felt, error) {
	felts := make([]*felt.Felt, 0, len(values))
	for i, value := range values {
		f, err := DecodeFelt(value)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		felts = append(felts, f)
	}
	return felts, nil
}

// EncodeFelt returns the canonical form: 0x followed by 64 lower-case hex digits.
func EncodeFelt(f *felt.Felt) string {
	b := f.Bytes()
	return "0x" + hex.EncodeToString(b[:])
}

func EncodeFelts(felts []*felt.Felt) []string {
	encoded := make([]string, len(felts))
	for i, f := range felts {
		encoded[i] = EncodeFelt(f)
	}
	return encoded
}

// ShortString encodes an ASCII string of at most 31 characters as a felt.
func ShortString(s string) (*felt.Felt, error) {
	if len(s) >= felt.Bytes {
		return nil, fmt.Errorf("short string %q is longer than %d characters", s, felt.Bytes-1)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("short string %q contains non-ascii characters", s)
		}
	}
	return new(felt.Felt).SetBytes([]byte(s)), nil
}

func feltToBig(f *felt.Felt) *big.Int {
	b := f.Bytes()
	return new(big.Int).SetBytes(b[:])
}

func bigToFelt(v *big.Int) *felt.Felt {
	return new(felt.Felt).SetBytes(v.FillBytes(make([]byte, felt.Bytes)))
}
