package core

import (
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
)

var (
	invokeFelt  = new(felt.Felt).SetBytes([]byte("invoke"))
	declareFelt = new(felt.Felt).SetBytes([]byte("declare"))

	// queryBit is added to the version of transactions that are only simulated.
	queryBit = new(big.Int).Lsh(big.NewInt(1), 128)
)

var (
	InvokeVersion  = new(felt.Felt).SetUint64(1)
	DeclareVersion = new(felt.Felt).SetUint64(2)
)

// QueryVersion returns the version used to estimate the fee of a transaction
// without making it executable on chain.
func QueryVersion(version *felt.Felt) *felt.Felt {
	return bigToFelt(new(big.Int).Add(queryBit, feltToBig(version)))
}

func baseVersion(version *felt.Felt) *felt.Felt {
	v := feltToBig(version)
	if v.Cmp(queryBit) >= 0 {
		v.Sub(v, queryBit)
	}
	return bigToFelt(v)
}

type InvokeTransaction struct {
	// The arguments passed to __execute__.
	Calldata []*felt.Felt
	// Additional information given by the sender, used to validate the transaction.
	Signature []*felt.Felt
	// The maximum fee that the sender is willing to pay for the transaction
	MaxFee        *felt.Felt
	Version       *felt.Felt
	Nonce         *felt.Felt
	SenderAddress *felt.Felt
}

// Hash computes the hash of an invoke v1 transaction.
func (i *InvokeTransaction) Hash(chainID *felt.Felt) (*felt.Felt, error) {
	if !baseVersion(i.Version).IsOne() {
		return nil, errInvalidTransactionVersion("invoke", i.Version)
	}
	return crypto.PedersenArray(
		invokeFelt,
		i.Version,
		i.SenderAddress,
		&felt.Zero,
		crypto.PedersenArray(i.Calldata...),
		i.MaxFee,
		chainID,
		i.Nonce,
	), nil
}

type DeclareTransaction struct {
	ClassHash         *felt.Felt
	CompiledClassHash *felt.Felt
	SenderAddress     *felt.Felt
	MaxFee            *felt.Felt
	Signature         []*felt.Felt
	Nonce             *felt.Felt
	Version           *felt.Felt
	Class             *SierraClass
}

// Hash computes the hash of a declare v2 transaction.
func (d *DeclareTransaction) Hash(chainID *felt.Felt) (*felt.Felt, error) {
	if !baseVersion(d.Version).Equal(DeclareVersion) {
		return nil, errInvalidTransactionVersion("declare", d.Version)
	}
	return crypto.PedersenArray(
		declareFelt,
		d.Version,
		d.SenderAddress,
		&felt.Zero,
		crypto.PedersenArray(d.ClassHash),
		d.MaxFee,
		chainID,
		d.Nonce,
		d.CompiledClassHash,
	), nil
}

func errInvalidTransactionVersion(kind string, version *felt.Felt) error {
	return fmt.Errorf("invalid %s transaction version: %v", kind, version.Text(10))
}

// ExecutionStatus is the outcome of a transaction once it is observable on chain.
type ExecutionStatus uint8

const (
	Succeeded ExecutionStatus = iota + 1
	Reverted
	Rejected
)

func (es ExecutionStatus) String() string {
	switch es {
	case Succeeded:
		return "SUCCEEDED"
	case Reverted:
		return "REVERTED"
	case Rejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

func (es *ExecutionStatus) UnmarshalText(data []byte) error {
	switch str := string(data); str {
	case "SUCCEEDED":
		*es = Succeeded
	case "REVERTED":
		*es = Reverted
	case "REJECTED":
		*es = Rejected
	default:
		return fmt.Errorf("unknown ExecutionStatus %q", str)
	}
	return nil
}

type TransactionReceipt struct {
	TransactionHash *felt.Felt
	ExecutionStatus ExecutionStatus
	RevertReason    string
}

// Transaction is a transaction the account can sign and an endpoint can simulate.
type Transaction interface {
	Hash(chainID *felt.Felt) (*felt.Felt, error)
}

var (
	_ Transaction = (*InvokeTransaction)(nil)
	_ Transaction = (*DeclareTransaction)(nil)
)
