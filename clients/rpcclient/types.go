package rpcclient

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
)

const (
	TxnInvoke  = "INVOKE"
	TxnDeclare = "DECLARE"
)

type BroadcastedInvokeTxn struct {
	Type          string       `json:"type"`
	SenderAddress *felt.Felt   `json:"sender_address"`
	Calldata      []*felt.Felt `json:"calldata"`
	MaxFee        *felt.Felt   `json:"max_fee"`
	Version       *felt.Felt   `json:"version"`
	Signature     []*felt.Felt `json:"signature"`
	Nonce         *felt.Felt   `json:"nonce"`
}

type BroadcastedDeclareTxn struct {
	Type              string            `json:"type"`
	SenderAddress     *felt.Felt        `json:"sender_address"`
	CompiledClassHash *felt.Felt        `json:"compiled_class_hash"`
	MaxFee            *felt.Felt        `json:"max_fee"`
	Version           *felt.Felt        `json:"version"`
	Signature         []*felt.Felt      `json:"signature"`
	Nonce             *felt.Felt        `json:"nonce"`
	ContractClass     *core.SierraClass `json:"contract_class"`
}

func AdaptInvokeTransaction(tx *core.InvokeTransaction) *BroadcastedInvokeTxn {
	return &BroadcastedInvokeTxn{
		Type:          TxnInvoke,
		SenderAddress: tx.SenderAddress,
		Calldata:      tx.Calldata,
		MaxFee:        tx.MaxFee,
		Version:       tx.Version,
		Signature:     emptyIfNil(tx.Signature),
		Nonce:         tx.Nonce,
	}
}

func AdaptDeclareTransaction(tx *core.DeclareTransaction) *BroadcastedDeclareTxn {
	return &BroadcastedDeclareTxn{
		Type:              TxnDeclare,
		SenderAddress:     tx.SenderAddress,
		CompiledClassHash: tx.CompiledClassHash,
		MaxFee:            tx.MaxFee,
		Version:           tx.Version,
		Signature:         emptyIfNil(tx.Signature),
		Nonce:             tx.Nonce,
		ContractClass:     tx.Class,
	}
}

func emptyIfNil(felts []*felt.Felt) []*felt.Felt {
	if felts == nil {
		return []*felt.Felt{}
	}
	return felts
}

type FeeEstimate struct {
	GasConsumed *felt.Felt `json:"gas_consumed"`
	GasPrice    *felt.Felt `json:"gas_price"`
	OverallFee  *felt.Felt `json:"overall_fee"`
	Unit        string     `json:"unit"`
}

type AddInvokeTransactionResponse struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
}

type AddDeclareTransactionResponse struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ClassHash       *felt.Felt `json:"class_hash"`
}

type TransactionReceipt struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	FinalityStatus  string     `json:"finality_status"`
	ExecutionStatus string     `json:"execution_status"`
	RevertReason    string     `json:"revert_reason"`
}
