// Package operation implements the four script operations. Each operation is
// a value built once from script input and executed exactly once.
package operation

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/poller"
)

// Kind names an operation in logs, metrics and the journal.
type Kind string

const (
	KindDeclare Kind = "declare"
	KindDeploy  Kind = "deploy"
	KindInvoke  Kind = "invoke"
	KindCall    Kind = "call"
	KindWatch   Kind = "watch_tx"
)

// Outcome is the result of an operation. TransactionHash is nil when nothing
// was submitted: a skipped declare or a call.
type Outcome struct {
	TransactionHash *felt.Felt
	ClassHash       *felt.Felt
	DeployedAddress *felt.Felt
	Result          []*felt.Felt
}

// watch waits for the outcome's transaction when a poller was given.
func watch(ctx context.Context, p *poller.Poller, outcome *Outcome) (*Outcome, error) {
	if p == nil || outcome.TransactionHash == nil {
		return outcome, nil
	}
	if err := p.Watch(ctx, outcome.TransactionHash); err != nil {
		return nil, err
	}
	return outcome, nil
}
