package account

import (
	"context"
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/endpoint"
	"github.com/NethermindEth/kipt/utils"
	"github.com/davecgh/go-spew/spew"
)

// The fee estimate is scaled by feeMultiplierNum/feeMultiplierDen to leave
// room for state changes between estimation and inclusion.
const (
	feeMultiplierNum = 11
	feeMultiplierDen = 10
)

// Account signs and submits transactions on behalf of a deployed account contract.
type Account struct {
	endpoint endpoint.Endpoint
	address  *felt.Felt
	chainID  *felt.Felt
	signer   Signer
	encoding core.CalldataEncoding
	log      utils.SimpleLogger
}

// Build decodes the account address and private key and fetches the chain id
// from ep. An error from the chain id request is returned as is.
func Build(ctx context.Context, ep endpoint.Endpoint, addressHex, privateKeyHex string,
	encoding core.CalldataEncoding, log utils.SimpleLogger,
) (*Account, error) {
	address, err := core.DecodeFelt(addressHex)
	if err != nil {
		return nil, fmt.Errorf("account address: %w", err)
	}
	privateKey, err := core.DecodeFelt(privateKeyHex)
	if err != nil {
		// The key itself is never part of the message.
		return nil, fmt.Errorf("account private key: %w", core.ErrInvalidFieldElement)
	}

	chainID, err := ep.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	signer := NewKeystoreSigner(address, privateKey)
	privateKey.SetUint64(0)
	return New(ep, address, chainID, signer, encoding, log), nil
}

func New(ep endpoint.Endpoint, address, chainID *felt.Felt, signer Signer,
	encoding core.CalldataEncoding, log utils.SimpleLogger,
) *Account {
	return &Account{
		endpoint: ep,
		address:  address,
		chainID:  chainID,
		signer:   signer,
		encoding: encoding,
		log:      log,
	}
}

func (a *Account) Address() *felt.Felt {
	return a.address
}

func (a *Account) ChainID() *felt.Felt {
	return a.chainID
}

func (a *Account) Endpoint() endpoint.Endpoint {
	return a.endpoint
}

type ExecuteOptions struct {
	// MaxFee skips fee estimation when set.
	MaxFee *felt.Felt
}

// Execute submits calls as a single invoke transaction and returns its hash.
func (a *Account) Execute(ctx context.Context, calls []core.Call, opts ExecuteOptions) (*felt.Felt, error) {
	nonce, err := a.endpoint.Nonce(ctx, a.address)
	if err != nil {
		return nil, fmt.Errorf("fetch nonce: %w", err)
	}

	txn := &core.InvokeTransaction{
		Calldata:      core.ExecuteCalldata(calls, a.encoding),
		Version:       core.InvokeVersion,
		Nonce:         nonce,
		SenderAddress: a.address,
	}

	txn.MaxFee = opts.MaxFee
	if txn.MaxFee == nil {
		query := *txn
		query.Version = core.QueryVersion(core.InvokeVersion)
		query.MaxFee = &felt.Zero
		if txn.MaxFee, err = a.estimateFee(ctx, &query, &query.Signature); err != nil {
			return nil, err
		}
	}

	if err = a.sign(ctx, txn, &txn.Signature); err != nil {
		return nil, err
	}
	a.log.Debugw("Submitting invoke transaction", "calls", len(calls), "maxFee", txn.MaxFee, "txn", dump{txn})

	hash, err := a.endpoint.AddInvokeTransaction(ctx, txn)
	if err != nil {
		return nil, fmt.Errorf("submit invoke transaction: %w", err)
	}
	return hash, nil
}

// Declare submits a declare v2 transaction for class and returns its hash.
func (a *Account) Declare(ctx context.Context, class *core.SierraClass, classHash, compiledClassHash *felt.Felt,
	opts ExecuteOptions,
) (*felt.Felt, error) {
	nonce, err := a.endpoint.Nonce(ctx, a.address)
	if err != nil {
		return nil, fmt.Errorf("fetch nonce: %w", err)
	}

	txn := &core.DeclareTransaction{
		ClassHash:         classHash,
		CompiledClassHash: compiledClassHash,
		SenderAddress:     a.address,
		Nonce:             nonce,
		Version:           core.DeclareVersion,
		Class:             class,
	}

	txn.MaxFee = opts.MaxFee
	if txn.MaxFee == nil {
		query := *txn
		query.Version = core.QueryVersion(core.DeclareVersion)
		query.MaxFee = &felt.Zero
		if txn.MaxFee, err = a.estimateFee(ctx, &query, &query.Signature); err != nil {
			return nil, err
		}
	}

	if err = a.sign(ctx, txn, &txn.Signature); err != nil {
		return nil, err
	}
	a.log.Debugw("Submitting declare transaction", "classHash", classHash, "maxFee", txn.MaxFee)

	hash, err := a.endpoint.AddDeclareTransaction(ctx, txn)
	if err != nil {
		return nil, fmt.Errorf("submit declare transaction: %w", err)
	}
	return hash, nil
}

// estimateFee signs the query transaction and returns the scaled estimate.
func (a *Account) estimateFee(ctx context.Context, query core.Transaction, signature *[]*felt.Felt) (*felt.Felt, error) {
	if err := a.sign(ctx, query, signature); err != nil {
		return nil, err
	}

	fee, err := a.endpoint.EstimateFee(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("estimate fee: %w", err)
	}

	feeBytes := fee.Bytes()
	scaled := new(big.Int).SetBytes(feeBytes[:])
	scaled.Mul(scaled, big.NewInt(feeMultiplierNum))
	scaled.Quo(scaled, big.NewInt(feeMultiplierDen))
	return new(felt.Felt).SetBytes(scaled.Bytes()), nil
}

func (a *Account) sign(ctx context.Context, txn core.Transaction, signature *[]*felt.Felt) error {
	hash, err := txn.Hash(a.chainID)
	if err != nil {
		return err
	}

	sig, err := a.signer.Sign(ctx, hash)
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	*signature = sig
	return nil
}

// dump defers spew formatting until a log entry is actually written.
type dump struct {
	v any
}

func (d dump) String() string {
	return spew.Sdump(d.v)
}
