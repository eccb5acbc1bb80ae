package core

import (
	"github.com/NethermindEth/juno/core/felt"
)

// Call is a single contract invocation.
type Call struct {
	To       *felt.Felt
	Selector *felt.Felt
	Calldata []*felt.Felt
}

// FunctionCall is a read-only call made outside of a transaction.
type FunctionCall struct {
	ContractAddress    *felt.Felt   `json:"contract_address"`
	EntryPointSelector *felt.Felt   `json:"entry_point_selector"`
	Calldata           []*felt.Felt `json:"calldata"`
}

// CalldataEncoding selects the __execute__ argument layout expected by an account contract.
type CalldataEncoding uint8

const (
	// Cairo1Encoding is [calls_len, (to, selector, calldata_len, calldata...)...].
	Cairo1Encoding CalldataEncoding = iota
	// LegacyEncoding is the Cairo 0 layout:
	// [call_array_len, (to, selector, data_offset, data_len)..., calldata_len, calldata...].
	LegacyEncoding
)

func (e CalldataEncoding) String() string {
	if e == LegacyEncoding {
		return "legacy"
	}
	return "cairo1"
}

// ExecuteCalldata encodes calls as the calldata of an account's __execute__ entry point.
// Calls keep their order.
func ExecuteCalldata(calls []Call, encoding CalldataEncoding) []*felt.Felt {
	if encoding == LegacyEncoding {
		return legacyExecuteCalldata(calls)
	}

	calldata := []*felt.Felt{new(felt.Felt).SetUint64(uint64(len(calls)))}
	for _, call := range calls {
		calldata = append(calldata,
			call.To,
			call.Selector,
			new(felt.Felt).SetUint64(uint64(len(call.Calldata))),
		)
		calldata = append(calldata, call.Calldata...)
	}
	return calldata
}

func legacyExecuteCalldata(calls []Call) []*felt.Felt {
	var (
		callArray []*felt.Felt
		flat      []*felt.Felt
	)
	for _, call := range calls {
		callArray = append(callArray,
			call.To,
			call.Selector,
			new(felt.Felt).SetUint64(uint64(len(flat))),
			new(felt.Felt).SetUint64(uint64(len(call.Calldata))),
		)
		flat = append(flat, call.Calldata...)
	}

	calldata := make([]*felt.Felt, 0, 2+len(callArray)+len(flat))
	calldata = append(calldata, new(felt.Felt).SetUint64(uint64(len(calls))))
	calldata = append(calldata, callArray...)
	calldata = append(calldata, new(felt.Felt).SetUint64(uint64(len(flat))))
	return append(calldata, flat...)
}
