package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/clients/rpcclient"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/utils"
)

var _ Endpoint = (*RPC)(nil)

// RPC is an endpoint backed by a Starknet JSON-RPC node.
type RPC struct {
	url    string
	client *rpcclient.Client
}

func NewRPC(url string, log utils.SimpleLogger) (*RPC, error) {
	client, err := rpcclient.Dial(url, log)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &RPC{url: url, client: client}, nil
}

func (r *RPC) URL() string {
	return r.url
}

func (r *RPC) ChainID(ctx context.Context) (*felt.Felt, error) {
	chainID, err := r.client.ChainID(ctx)
	return chainID, adaptError(err)
}

func (r *RPC) Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	nonce, err := r.client.Nonce(ctx, core.BlockID{Pending: true}, address)
	return nonce, adaptError(err)
}

func (r *RPC) Class(ctx context.Context, blockID core.BlockID, classHash *felt.Felt) (json.RawMessage, error) {
	class, err := r.client.Class(ctx, blockID, classHash)
	if rpcclient.IsErrorCode(err, rpcclient.ClassHashNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrClassHashNotFound, core.EncodeFelt(classHash))
	}
	return class, adaptError(err)
}

func (r *RPC) Call(ctx context.Context, call *core.FunctionCall, blockID core.BlockID) ([]*felt.Felt, error) {
	if call.Calldata == nil {
		adapted := *call
		adapted.Calldata = []*felt.Felt{}
		call = &adapted
	}
	result, err := r.client.Call(ctx, call, blockID)
	return result, adaptError(err)
}

func (r *RPC) EstimateFee(ctx context.Context, txn core.Transaction) (*felt.Felt, error) {
	var broadcasted any
	switch t := txn.(type) {
	case *core.InvokeTransaction:
		broadcasted = rpcclient.AdaptInvokeTransaction(t)
	case *core.DeclareTransaction:
		broadcasted = rpcclient.AdaptDeclareTransaction(t)
	default:
		return nil, fmt.Errorf("unsupported transaction type %T", txn)
	}

	estimates, err := r.client.EstimateFee(ctx, []any{broadcasted}, core.BlockID{Pending: true})
	if err != nil {
		return nil, adaptError(err)
	}
	return estimates[0].OverallFee, nil
}

func (r *RPC) AddInvokeTransaction(ctx context.Context, txn *core.InvokeTransaction) (*felt.Felt, error) {
	resp, err := r.client.AddInvokeTransaction(ctx, rpcclient.AdaptInvokeTransaction(txn))
	if err != nil {
		return nil, adaptError(err)
	}
	return resp.TransactionHash, nil
}

func (r *RPC) AddDeclareTransaction(ctx context.Context, txn *core.DeclareTransaction) (*felt.Felt, error) {
	resp, err := r.client.AddDeclareTransaction(ctx, rpcclient.AdaptDeclareTransaction(txn))
	if err != nil {
		return nil, adaptError(err)
	}
	return resp.TransactionHash, nil
}

func (r *RPC) TransactionReceipt(ctx context.Context, transactionHash *felt.Felt) (*core.TransactionReceipt, error) {
	receipt, err := r.client.TransactionReceipt(ctx, transactionHash)
	if err != nil {
		return nil, adaptError(err)
	}

	adapted := &core.TransactionReceipt{
		TransactionHash: receipt.TransactionHash,
		RevertReason:    receipt.RevertReason,
	}
	if err = adapted.ExecutionStatus.UnmarshalText([]byte(receipt.ExecutionStatus)); err != nil {
		return nil, err
	}
	return adapted, nil
}

// adaptError converts JSON-RPC error objects into *Error, keeping the error
// data, and passes every other error through unchanged.
func adaptError(err error) error {
	var rpcErr *rpcclient.Error
	if errors.As(err, &rpcErr) {
		return &Error{Code: rpcErr.Code, Message: rpcErr.Message, Data: rpcErr.Data}
	}
	return err
}
