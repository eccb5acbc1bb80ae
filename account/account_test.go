package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/account"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/mocks"
	"github.com/NethermindEth/kipt/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	address = "0x0000000000000000000000000000000000000000000000000000000000001234"
	privKey = "0x00000000000000000000000000000000000000000000000000000000000abcde"
	chainID = new(felt.Felt).SetBytes([]byte("SN_GOERLI"))
)

type fakeSigner struct {
	signed []*felt.Felt
}

func (s *fakeSigner) Sign(_ context.Context, msgHash *felt.Felt) ([]*felt.Felt, error) {
	s.signed = append(s.signed, msgHash)
	return []*felt.Felt{msgHash, new(felt.Felt).SetUint64(1)}, nil
}

func TestBuild(t *testing.T) {
	log := utils.NewNopZapLogger()

	t.Run("invalid address does not reach the endpoint", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)

		_, err := account.Build(context.Background(), ep, "0xnothex", privKey, core.Cairo1Encoding, log)
		require.ErrorIs(t, err, core.ErrInvalidFieldElement)
	})

	t.Run("invalid private key is not echoed", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)

		_, err := account.Build(context.Background(), ep, address, "0xsecretzz", core.Cairo1Encoding, log)
		require.ErrorIs(t, err, core.ErrInvalidFieldElement)
		assert.NotContains(t, err.Error(), "secret")
	})

	t.Run("transport error is returned unwrapped", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		transportErr := errors.New("dial tcp: connection refused")
		ep.EXPECT().ChainID(gomock.Any()).Return(nil, transportErr)

		_, err := account.Build(context.Background(), ep, address, privKey, core.Cairo1Encoding, log)
		assert.Equal(t, transportErr, err)
	})

	t.Run("chain id is fetched once", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		ep.EXPECT().ChainID(gomock.Any()).Return(chainID, nil).Times(1)

		acc, err := account.Build(context.Background(), ep, address, privKey, core.LegacyEncoding, log)
		require.NoError(t, err)
		assert.Equal(t, chainID, acc.ChainID())
		assert.Equal(t, new(felt.Felt).SetUint64(0x1234), acc.Address())
	})
}

func TestExecute(t *testing.T) {
	calls := []core.Call{{
		To:       new(felt.Felt).SetUint64(1),
		Selector: core.Selector("transfer"),
		Calldata: []*felt.Felt{new(felt.Felt).SetUint64(2), new(felt.Felt).SetUint64(3)},
	}}
	sender := new(felt.Felt).SetUint64(0x1234)
	nonce := new(felt.Felt).SetUint64(7)

	t.Run("estimated fee", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		signer := new(fakeSigner)
		acc := account.New(ep, sender, chainID, signer, core.Cairo1Encoding, utils.NewNopZapLogger())

		ep.EXPECT().Nonce(gomock.Any(), sender).Return(nonce, nil)
		ep.EXPECT().EstimateFee(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, txn core.Transaction) (*felt.Felt, error) {
				invoke, ok := txn.(*core.InvokeTransaction)
				require.True(t, ok)
				assert.Equal(t, core.QueryVersion(core.InvokeVersion), invoke.Version)
				assert.Len(t, invoke.Signature, 2)
				return new(felt.Felt).SetUint64(1000), nil
			})
		txHash := new(felt.Felt).SetUint64(0xfeed)
		ep.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, txn *core.InvokeTransaction) (*felt.Felt, error) {
				assert.Equal(t, core.InvokeVersion, txn.Version)
				assert.Equal(t, new(felt.Felt).SetUint64(1100), txn.MaxFee)
				assert.Equal(t, nonce, txn.Nonce)
				assert.Equal(t, core.ExecuteCalldata(calls, core.Cairo1Encoding), txn.Calldata)

				hash, err := txn.Hash(chainID)
				require.NoError(t, err)
				assert.Equal(t, []*felt.Felt{hash, new(felt.Felt).SetUint64(1)}, txn.Signature)
				return txHash, nil
			})

		got, err := acc.Execute(context.Background(), calls, account.ExecuteOptions{})
		require.NoError(t, err)
		assert.Equal(t, txHash, got)
		assert.Len(t, signer.signed, 2)
	})

	t.Run("max fee skips estimation", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		acc := account.New(ep, sender, chainID, new(fakeSigner), core.LegacyEncoding, utils.NewNopZapLogger())

		maxFee := new(felt.Felt).SetUint64(5)
		ep.EXPECT().Nonce(gomock.Any(), sender).Return(nonce, nil)
		ep.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, txn *core.InvokeTransaction) (*felt.Felt, error) {
				assert.Equal(t, maxFee, txn.MaxFee)
				assert.Equal(t, core.ExecuteCalldata(calls, core.LegacyEncoding), txn.Calldata)
				return new(felt.Felt).SetUint64(1), nil
			})

		_, err := acc.Execute(context.Background(), calls, account.ExecuteOptions{MaxFee: maxFee})
		require.NoError(t, err)
	})

	t.Run("nonce failure", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		acc := account.New(ep, sender, chainID, new(fakeSigner), core.Cairo1Encoding, utils.NewNopZapLogger())

		nonceErr := errors.New("nonce unavailable")
		ep.EXPECT().Nonce(gomock.Any(), sender).Return(nil, nonceErr)

		_, err := acc.Execute(context.Background(), calls, account.ExecuteOptions{})
		require.ErrorIs(t, err, nonceErr)
	})
}

func TestDeclare(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ep := mocks.NewMockEndpoint(mockCtrl)
	sender := new(felt.Felt).SetUint64(0x1234)
	acc := account.New(ep, sender, chainID, new(fakeSigner), core.Cairo1Encoding, utils.NewNopZapLogger())

	class := &core.SierraClass{Program: []*felt.Felt{new(felt.Felt).SetUint64(1)}, Version: "0.1.0"}
	classHash := new(felt.Felt).SetUint64(0xc1)
	compiledClassHash := new(felt.Felt).SetUint64(0xc2)

	ep.EXPECT().Nonce(gomock.Any(), sender).Return(&felt.Zero, nil)
	ep.EXPECT().EstimateFee(gomock.Any(), gomock.Any()).Return(new(felt.Felt).SetUint64(10), nil)
	ep.EXPECT().AddDeclareTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, txn *core.DeclareTransaction) (*felt.Felt, error) {
			assert.Equal(t, core.DeclareVersion, txn.Version)
			assert.Equal(t, new(felt.Felt).SetUint64(11), txn.MaxFee)
			assert.Equal(t, classHash, txn.ClassHash)
			assert.Equal(t, compiledClassHash, txn.CompiledClassHash)
			assert.Same(t, class, txn.Class)
			return new(felt.Felt).SetUint64(0xd1), nil
		})

	hash, err := acc.Declare(context.Background(), class, classHash, compiledClassHash, account.ExecuteOptions{})
	require.NoError(t, err)
	assert.Equal(t, new(felt.Felt).SetUint64(0xd1), hash)
}

func TestKeystoreSigner(t *testing.T) {
	signer := account.NewKeystoreSigner(new(felt.Felt).SetUint64(0x1234), new(felt.Felt).SetUint64(0xabcde))

	sig, err := signer.Sign(context.Background(), new(felt.Felt).SetUint64(42))
	require.NoError(t, err)
	require.Len(t, sig, 2)
	assert.False(t, sig[0].IsZero())
	assert.False(t, sig[1].IsZero())
}
