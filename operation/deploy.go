package operation

import (
	"context"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/account"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/poller"
	"github.com/NethermindEth/kipt/utils"
)

type Deploy struct {
	ClassHash           *felt.Felt
	ConstructorCalldata []*felt.Felt
	// Salt is drawn from crypto/rand when nil.
	Salt   *felt.Felt
	Unique bool
	MaxFee *felt.Felt
}

func (d *Deploy) Execute(ctx context.Context, acc *account.Account, p *poller.Poller,
	log utils.SimpleLogger,
) (*Outcome, error) {
	salt := d.Salt
	if salt == nil {
		var err error
		if salt, err = new(felt.Felt).SetRandom(); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
	}

	deployment := &core.UDCDeployment{
		ClassHash:           d.ClassHash,
		Salt:                salt,
		Unique:              d.Unique,
		ConstructorCalldata: d.ConstructorCalldata,
	}
	address := deployment.Address(acc.Address())

	txHash, err := acc.Execute(ctx, []core.Call{deployment.Call()}, account.ExecuteOptions{MaxFee: d.MaxFee})
	if err != nil {
		return nil, err
	}
	log.Infow("Deployed contract", "classHash", d.ClassHash, "address", address, "txHash", txHash)

	return watch(ctx, p, &Outcome{TransactionHash: txHash, DeployedAddress: address})
}
