package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/endpoint"
	"github.com/NethermindEth/kipt/utils"
)

// ErrTransactionRejected is returned when the sequencer refused the transaction.
var ErrTransactionRejected = errors.New("transaction rejected")

type State uint8

const (
	Pending State = iota
	Confirmed
	Reverted
	Fatal
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Reverted:
		return "reverted"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

type RevertedError struct {
	Reason string
}

func (e *RevertedError) Error() string {
	return "transaction reverted: " + e.Reason
}

type Receipts interface {
	TransactionReceipt(ctx context.Context, transactionHash *felt.Felt) (*core.TransactionReceipt, error)
}

// Observer is notified of the state reached after every query.
type Observer interface {
	Observe(state State)
}

type nopObserver struct{}

func (nopObserver) Observe(State) {}

type Poller struct {
	receipts Receipts
	interval time.Duration
	observer Observer
	log      utils.SimpleLogger
}

func New(receipts Receipts, interval time.Duration, log utils.SimpleLogger) *Poller {
	return &Poller{
		receipts: receipts,
		interval: interval,
		observer: nopObserver{},
		log:      log,
	}
}

func (p *Poller) WithObserver(o Observer) *Poller {
	p.observer = o
	return p
}

// Watch queries the receipt of txHash every interval until the transaction
// succeeds, reverts or the query fails with an error other than "not found".
// There is no retry bound; only ctx ends the wait early.
func (p *Poller) Watch(ctx context.Context, txHash *felt.Felt) error {
	for {
		state, err := p.tick(ctx, txHash)
		p.observer.Observe(state)
		if state != Pending {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval):
		}
	}
}

func (p *Poller) tick(ctx context.Context, txHash *felt.Felt) (State, error) {
	receipt, err := p.receipts.TransactionReceipt(ctx, txHash)
	if err != nil {
		if endpoint.IsTransactionNotFound(err) {
			p.log.Debugw("Transaction not found yet", "hash", txHash, "retryAfter", p.interval.String())
			return Pending, nil
		}
		return Fatal, err
	}

	switch receipt.ExecutionStatus {
	case core.Succeeded:
		p.log.Infow("Transaction confirmed", "hash", txHash)
		return Confirmed, nil
	case core.Reverted:
		return Reverted, &RevertedError{Reason: receipt.RevertReason}
	case core.Rejected:
		return Fatal, fmt.Errorf("%w: %s", ErrTransactionRejected, receipt.RevertReason)
	default:
		return Fatal, fmt.Errorf("unexpected execution status %s", receipt.ExecutionStatus)
	}
}

// Watch is a shorthand for New(receipts, interval, log).Watch(ctx, txHash).
func Watch(ctx context.Context, receipts Receipts, txHash *felt.Felt, interval time.Duration, log utils.SimpleLogger) error {
	return New(receipts, interval, log).Watch(ctx, txHash)
}
