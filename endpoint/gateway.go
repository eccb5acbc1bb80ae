package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/clients/feeder"
	"github.com/NethermindEth/kipt/clients/gateway"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/utils"
)

const pendingBlock = "pending"

var _ Endpoint = (*Gateway)(nil)

// Gateway is an endpoint backed by the sequencer feeder gateway for reads and
// the gateway for writes.
type Gateway struct {
	network utils.Network
	feeder  *feeder.Client
	gateway *gateway.Client
}

func NewGateway(network utils.Network, log utils.SimpleLogger) *Gateway {
	return NewGatewayWithClients(
		network,
		feeder.NewClient(network.FeederURL()).WithLogger(log),
		gateway.NewClient(network.GatewayURL(), log),
	)
}

func NewGatewayWithClients(network utils.Network, feederClient *feeder.Client, gatewayClient *gateway.Client) *Gateway {
	return &Gateway{
		network: network,
		feeder:  feederClient,
		gateway: gatewayClient,
	}
}

func (g *Gateway) Network() utils.Network {
	return g.network
}

// ChainID is derived from the network and does not reach the sequencer.
func (g *Gateway) ChainID(ctx context.Context) (*felt.Felt, error) {
	return g.network.ChainID(), nil
}

func (g *Gateway) Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	return g.feeder.Nonce(ctx, address, pendingBlock)
}

func (g *Gateway) Class(ctx context.Context, blockID core.BlockID, classHash *felt.Felt) (json.RawMessage, error) {
	class, err := g.feeder.ClassDefinition(ctx, classHash, blockID.String())
	if gateway.IsErrorCode(err, gateway.UndeclaredClass) {
		return nil, fmt.Errorf("%w: %s", ErrClassHashNotFound, core.EncodeFelt(classHash))
	}
	return class, err
}

func (g *Gateway) Call(ctx context.Context, call *core.FunctionCall, blockID core.BlockID) ([]*felt.Felt, error) {
	return g.feeder.CallContract(ctx, call, blockID.String())
}

func (g *Gateway) EstimateFee(ctx context.Context, txn core.Transaction) (*felt.Felt, error) {
	var broadcasted any
	switch t := txn.(type) {
	case *core.InvokeTransaction:
		broadcasted = gateway.AdaptInvokeTransaction(t)
	case *core.DeclareTransaction:
		var err error
		if broadcasted, err = gateway.AdaptDeclareTransaction(t); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported transaction type %T", txn)
	}

	estimate, err := g.feeder.EstimateFee(ctx, broadcasted, pendingBlock)
	if err != nil {
		return nil, err
	}
	if estimate.OverallFee == nil || estimate.OverallFee.Sign() < 0 {
		return nil, fmt.Errorf("invalid fee estimate %v", estimate.OverallFee)
	}
	return feltFromBig(estimate.OverallFee), nil
}

func (g *Gateway) AddInvokeTransaction(ctx context.Context, txn *core.InvokeTransaction) (*felt.Felt, error) {
	resp, err := g.gateway.AddInvokeTransaction(ctx, gateway.AdaptInvokeTransaction(txn))
	if err != nil {
		return nil, err
	}
	return resp.TransactionHash, nil
}

func (g *Gateway) AddDeclareTransaction(ctx context.Context, txn *core.DeclareTransaction) (*felt.Felt, error) {
	broadcasted, err := gateway.AdaptDeclareTransaction(txn)
	if err != nil {
		return nil, err
	}

	resp, err := g.gateway.AddDeclareTransaction(ctx, broadcasted)
	if err != nil {
		return nil, err
	}
	return resp.TransactionHash, nil
}

func (g *Gateway) TransactionReceipt(ctx context.Context, transactionHash *felt.Felt) (*core.TransactionReceipt, error) {
	receipt, err := g.feeder.TransactionReceipt(ctx, transactionHash)
	if err != nil {
		if gateway.IsErrorCode(err, gateway.InvalidTransactionHash) {
			return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, err)
		}
		return nil, err
	}

	adapted := &core.TransactionReceipt{TransactionHash: transactionHash}
	switch {
	case receipt.Status == feeder.Rejected:
		adapted.ExecutionStatus = core.Rejected
		if receipt.FailureReason != nil {
			adapted.RevertReason = receipt.FailureReason.ErrorMessage
		}
	case receipt.ExecutionStatus != "":
		if err = adapted.ExecutionStatus.UnmarshalText([]byte(receipt.ExecutionStatus)); err != nil {
			return nil, err
		}
		adapted.RevertReason = receipt.RevertError
	case receipt.Status == feeder.AcceptedOnL2 || receipt.Status == feeder.AcceptedOnL1:
		adapted.ExecutionStatus = core.Succeeded
	default:
		// NOT_RECEIVED, RECEIVED and PENDING without an execution result.
		return nil, fmt.Errorf("%w: status %s", ErrTransactionNotFound, receipt.Status)
	}
	return adapted, nil
}

func feltFromBig(v *big.Int) *felt.Felt {
	return new(felt.Felt).SetBytes(v.Bytes())
}
