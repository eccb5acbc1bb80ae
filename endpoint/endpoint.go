package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/clients/gateway"
	"github.com/NethermindEth/kipt/clients/rpcclient"
	"github.com/NethermindEth/kipt/core"
)

//go:generate mockgen -destination=../mocks/mock_endpoint.go -package=mocks github.com/NethermindEth/kipt/endpoint Endpoint
type Endpoint interface {
	ChainID(ctx context.Context) (*felt.Felt, error)
	// Nonce returns the nonce of address at the pending block.
	Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error)
	// Class returns the raw class definition, or ErrClassHashNotFound when
	// classHash is not declared at blockID.
	Class(ctx context.Context, blockID core.BlockID, classHash *felt.Felt) (json.RawMessage, error)
	Call(ctx context.Context, call *core.FunctionCall, blockID core.BlockID) ([]*felt.Felt, error)
	// EstimateFee returns the overall fee of txn, which must carry a query version.
	EstimateFee(ctx context.Context, txn core.Transaction) (*felt.Felt, error)
	AddInvokeTransaction(ctx context.Context, txn *core.InvokeTransaction) (*felt.Felt, error)
	AddDeclareTransaction(ctx context.Context, txn *core.DeclareTransaction) (*felt.Felt, error)
	// TransactionReceipt returns ErrTransactionNotFound while the transaction
	// is not observable yet.
	TransactionReceipt(ctx context.Context, transactionHash *felt.Felt) (*core.TransactionReceipt, error)
}

var (
	ErrInvalidNetwork      = errors.New("invalid network")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrClassHashNotFound   = errors.New("class hash not found")
)

// Error is an error object returned by a JSON-RPC node.
type Error struct {
	Code    int
	Message string
	Data    any
}

func (e *Error) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("rpc error %d: %s: %v", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// IsTransactionNotFound reports whether err means the transaction is not
// observable yet. Nodes report it with either of two error codes depending
// on their version.
func IsTransactionNotFound(err error) bool {
	if errors.Is(err, ErrTransactionNotFound) {
		return true
	}
	var rpcErr *Error
	return errors.As(err, &rpcErr) &&
		(rpcErr.Code == rpcclient.TxnHashNotFound || rpcErr.Code == rpcclient.InvalidTxnHash)
}

func IsClassNotFound(err error) bool {
	if errors.Is(err, ErrClassHashNotFound) {
		return true
	}
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Code == rpcclient.ClassHashNotFound
	}
	return gateway.IsErrorCode(err, gateway.UndeclaredClass)
}
