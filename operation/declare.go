package operation

import (
	"context"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/account"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/endpoint"
	"github.com/NethermindEth/kipt/poller"
	"github.com/NethermindEth/kipt/utils"
)

type Declare struct {
	// Contract names the class in logs.
	Contract       string
	Sierra         []byte
	Casm           []byte
	SkipIfDeclared bool
	MaxFee         *felt.Felt
}

func (d *Declare) Execute(ctx context.Context, acc *account.Account, p *poller.Poller,
	log utils.SimpleLogger,
) (*Outcome, error) {
	class, err := core.ParseSierraClass(d.Sierra)
	if err != nil {
		return nil, err
	}
	casm, err := core.ParseCasmClass(d.Casm)
	if err != nil {
		return nil, err
	}

	classHash := class.Hash()
	compiledClassHash, err := casm.Hash()
	if err != nil {
		return nil, fmt.Errorf("compiled class hash: %w", err)
	}

	if d.SkipIfDeclared && d.declared(ctx, acc.Endpoint(), classHash, log) {
		return &Outcome{ClassHash: classHash}, nil
	}

	txHash, err := acc.Declare(ctx, class, classHash, compiledClassHash, account.ExecuteOptions{MaxFee: d.MaxFee})
	if err != nil {
		return nil, err
	}
	log.Infow("Declared class", "contract", d.Contract, "classHash", classHash, "txHash", txHash)

	return watch(ctx, p, &Outcome{TransactionHash: txHash, ClassHash: classHash})
}

// declared checks the pending block only. Only a "class not found" answer
// lets the declaration proceed.
func (d *Declare) declared(ctx context.Context, ep endpoint.Endpoint, classHash *felt.Felt,
	log utils.SimpleLogger,
) bool {
	_, err := ep.Class(ctx, core.BlockID{Pending: true}, classHash)
	switch {
	case err == nil:
		log.Infow("Class already declared, skipping", "contract", d.Contract, "classHash", classHash)
		return true
	case endpoint.IsClassNotFound(err):
		return false
	default:
		log.Warnw("Class lookup failed, skipping declaration", "contract", d.Contract, "classHash", classHash, "err", err)
		return true
	}
}
