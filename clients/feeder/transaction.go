package feeder

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
)

type TransactionStatus string

const (
	NotReceived  TransactionStatus = "NOT_RECEIVED"
	Received     TransactionStatus = "RECEIVED"
	Pending      TransactionStatus = "PENDING"
	Rejected     TransactionStatus = "REJECTED"
	AcceptedOnL2 TransactionStatus = "ACCEPTED_ON_L2"
	AcceptedOnL1 TransactionStatus = "ACCEPTED_ON_L1"
	Reverted     TransactionStatus = "REVERTED"
)

type TransactionReceipt struct {
	TransactionHash *felt.Felt        `json:"transaction_hash"`
	Status          TransactionStatus `json:"status"`
	FinalityStatus  string            `json:"finality_status"`
	ExecutionStatus string            `json:"execution_status"`
	RevertError     string            `json:"revert_error"`
	FailureReason   *FailureReason    `json:"transaction_failure_reason"`
}

type FailureReason struct {
	Code         string `json:"code"`
	ErrorMessage string `json:"error_message"`
}

type FeeEstimate struct {
	OverallFee *big.Int `json:"overall_fee"`
	GasPrice   *big.Int `json:"gas_price"`
	GasUsage   *big.Int `json:"gas_usage"`
	Unit       string   `json:"unit"`
}

type callContractRequest struct {
	*core.FunctionCall
	Signature []*felt.Felt `json:"signature"`
}

type CallContractResponse struct {
	Result []*felt.Felt `json:"result"`
}
