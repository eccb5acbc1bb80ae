package gateway

import "github.com/NethermindEth/juno/core/felt"

type AddTransactionResponse struct {
	Code            string     `json:"code"`
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ClassHash       *felt.Felt `json:"class_hash,omitempty"`
	Address         *felt.Felt `json:"address,omitempty"`
}
