package gateway

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/utils"
)

const (
	TxnInvoke  = "INVOKE_FUNCTION"
	TxnDeclare = "DECLARE"
)

// BroadcastedTxnCmn contains common properties for different types of broadcasted transactions
type BroadcastedTxnCmn struct {
	MaxFee    *felt.Felt   `json:"max_fee"`
	Version   *felt.Felt   `json:"version"`
	Signature []*felt.Felt `json:"signature"`
	Nonce     *felt.Felt   `json:"nonce"`
}

type BroadcastedInvokeTxn struct {
	BroadcastedTxnCmn
	Type          string       `json:"type"`
	SenderAddress *felt.Felt   `json:"sender_address"`
	Calldata      []*felt.Felt `json:"calldata"`
}

// ContractClass is the gateway form of a Sierra class: the program is gzipped and base64 encoded.
type ContractClass struct {
	SierraProgram string                 `json:"sierra_program"`
	Version       string                 `json:"contract_class_version"`
	EntryPoints   core.SierraEntryPoints `json:"entry_points_by_type"`
	Abi           string                 `json:"abi"`
}

type BroadcastedDeclareTxn struct {
	BroadcastedTxnCmn
	Type              string         `json:"type"`
	SenderAddress     *felt.Felt     `json:"sender_address"`
	CompiledClassHash *felt.Felt     `json:"compiled_class_hash"`
	ContractClass     *ContractClass `json:"contract_class"`
}

func AdaptInvokeTransaction(tx *core.InvokeTransaction) *BroadcastedInvokeTxn {
	return &BroadcastedInvokeTxn{
		BroadcastedTxnCmn: BroadcastedTxnCmn{
			MaxFee:    tx.MaxFee,
			Version:   tx.Version,
			Signature: tx.Signature,
			Nonce:     tx.Nonce,
		},
		Type:          TxnInvoke,
		SenderAddress: tx.SenderAddress,
		Calldata:      tx.Calldata,
	}
}

func AdaptDeclareTransaction(tx *core.DeclareTransaction) (*BroadcastedDeclareTxn, error) {
	program, err := utils.Gzip64EncodeJSON(tx.Class.Program)
	if err != nil {
		return nil, err
	}

	return &BroadcastedDeclareTxn{
		BroadcastedTxnCmn: BroadcastedTxnCmn{
			MaxFee:    tx.MaxFee,
			Version:   tx.Version,
			Signature: tx.Signature,
			Nonce:     tx.Nonce,
		},
		Type:              TxnDeclare,
		SenderAddress:     tx.SenderAddress,
		CompiledClassHash: tx.CompiledClassHash,
		ContractClass: &ContractClass{
			SierraProgram: program,
			Version:       tx.Class.Version,
			EntryPoints:   tx.Class.EntryPoints,
			Abi:           tx.Class.Abi,
		},
	}, nil
}
