package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/utils"
	"github.com/ethereum/go-ethereum/rpc"
)

// Starknet JSON-RPC error codes.
const (
	ContractNotFound   = 20
	BlockNotFound      = 24
	InvalidTxnHash     = 25
	ClassHashNotFound  = 28
	TxnHashNotFound    = 29
	ContractError      = 40
	InsufficientMaxFee = 53
	ValidationFailure  = 55
	NonceTooOld        = 52
)

const userAgent = "kipt"

// Client defines typed wrappers for the Starknet RPC API.
type Client struct {
	c   *rpc.Client
	log utils.SimpleLogger
}

// Dial creates a client for the given http(s) URL. No request is made until
// the first call.
func Dial(rawURL string, log utils.SimpleLogger) (*Client, error) {
	c, err := rpc.DialHTTP(rawURL)
	if err != nil {
		return nil, err
	}
	c.SetHeader("User-Agent", userAgent)
	return NewClient(c, log), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client, log utils.SimpleLogger) *Client {
	return &Client{c: c, log: log}
}

func (c *Client) Close() {
	c.c.Close()
}

func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	c.log.Debugw("Calling RPC method", "method", method)
	if err := c.c.CallContext(ctx, result, method, args...); err != nil {
		return wrapError(err)
	}
	return nil
}

func (c *Client) ChainID(ctx context.Context) (*felt.Felt, error) {
	var chainID string
	if err := c.call(ctx, &chainID, "starknet_chainId"); err != nil {
		return nil, err
	}
	return core.DecodeFelt(chainID)
}

func (c *Client) Nonce(ctx context.Context, blockID core.BlockID, address *felt.Felt) (*felt.Felt, error) {
	var nonce string
	if err := c.call(ctx, &nonce, "starknet_getNonce", blockID, address); err != nil {
		return nil, err
	}
	return core.DecodeFelt(nonce)
}

// Class returns the raw definition of the class declared under classHash.
func (c *Client) Class(ctx context.Context, blockID core.BlockID, classHash *felt.Felt) (json.RawMessage, error) {
	var class json.RawMessage
	if err := c.call(ctx, &class, "starknet_getClass", blockID, classHash); err != nil {
		return nil, err
	}
	return class, nil
}

func (c *Client) Call(ctx context.Context, call *core.FunctionCall, blockID core.BlockID) ([]*felt.Felt, error) {
	var result []*felt.Felt
	if err := c.call(ctx, &result, "starknet_call", call, blockID); err != nil {
		return nil, err
	}
	return result, nil
}

// EstimateFee simulates txns, which must carry query versions, without
// skipping validation.
func (c *Client) EstimateFee(ctx context.Context, txns []any, blockID core.BlockID) ([]FeeEstimate, error) {
	var estimates []FeeEstimate
	if err := c.call(ctx, &estimates, "starknet_estimateFee", txns, []string{}, blockID); err != nil {
		return nil, err
	}
	if len(estimates) != len(txns) {
		return nil, fmt.Errorf("expected %d fee estimates, got %d", len(txns), len(estimates))
	}
	return estimates, nil
}

func (c *Client) AddInvokeTransaction(ctx context.Context, txn *BroadcastedInvokeTxn) (*AddInvokeTransactionResponse, error) {
	resp := new(AddInvokeTransactionResponse)
	if err := c.call(ctx, resp, "starknet_addInvokeTransaction", txn); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) AddDeclareTransaction(ctx context.Context, txn *BroadcastedDeclareTxn) (*AddDeclareTransactionResponse, error) {
	resp := new(AddDeclareTransactionResponse)
	if err := c.call(ctx, resp, "starknet_addDeclareTransaction", txn); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) TransactionReceipt(ctx context.Context, transactionHash *felt.Felt) (*TransactionReceipt, error) {
	receipt := new(TransactionReceipt)
	if err := c.call(ctx, receipt, "starknet_getTransactionReceipt", transactionHash); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Error is a JSON-RPC error object returned by the node.
type Error struct {
	Code    int
	Message string
	Data    any
}

func (e *Error) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("%d: %s (%v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func wrapError(err error) error {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return err
	}

	wrapped := &Error{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		wrapped.Data = dataErr.ErrorData()
	}
	return wrapped
}

// IsErrorCode reports whether err is an RPC error with one of the given codes.
func IsErrorCode(err error, codes ...int) bool {
	var rpcErr *Error
	if !errors.As(err, &rpcErr) {
		return false
	}
	for _, code := range codes {
		if rpcErr.Code == code {
			return true
		}
	}
	return false
}
