package operation

import (
	"context"
	"errors"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/account"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/endpoint"
	"github.com/NethermindEth/kipt/poller"
	"github.com/NethermindEth/kipt/utils"
)

var ErrNoCalls = errors.New("invoke requires at least one call")

// Invoke sends Calls, in order, as one multicall transaction.
type Invoke struct {
	Calls  []core.Call
	MaxFee *felt.Felt
}

func (i *Invoke) Execute(ctx context.Context, acc *account.Account, p *poller.Poller,
	log utils.SimpleLogger,
) (*Outcome, error) {
	if len(i.Calls) == 0 {
		return nil, ErrNoCalls
	}

	txHash, err := acc.Execute(ctx, i.Calls, account.ExecuteOptions{MaxFee: i.MaxFee})
	if err != nil {
		return nil, err
	}
	log.Infow("Invoked", "calls", len(i.Calls), "txHash", txHash)

	return watch(ctx, p, &Outcome{TransactionHash: txHash})
}

// Call is a read-only query. It needs no account.
type Call struct {
	ContractAddress *felt.Felt
	Selector        *felt.Felt
	Calldata        []*felt.Felt
	BlockID         core.BlockID
}

func (c *Call) Execute(ctx context.Context, ep endpoint.Endpoint) (*Outcome, error) {
	result, err := ep.Call(ctx, &core.FunctionCall{
		ContractAddress:    c.ContractAddress,
		EntryPointSelector: c.Selector,
		Calldata:           c.Calldata,
	}, c.BlockID)
	if err != nil {
		return nil, err
	}
	return &Outcome{Result: result}, nil
}
