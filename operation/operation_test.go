package operation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/account"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/endpoint"
	"github.com/NethermindEth/kipt/mocks"
	"github.com/NethermindEth/kipt/operation"
	"github.com/NethermindEth/kipt/poller"
	"github.com/NethermindEth/kipt/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const sierra = `{
	"sierra_program": ["0x1", "0x2", "0x3"],
	"contract_class_version": "0.1.0",
	"entry_points_by_type": {"EXTERNAL": [], "L1_HANDLER": [], "CONSTRUCTOR": []},
	"abi": []
}`

const casm = `{
	"prime": "0x800000000000011000000000000000000000000000000000000000000000001",
	"compiler_version": "2.4.0",
	"bytecode": ["0xa", "0xb"],
	"entry_points_by_type": {"EXTERNAL": [], "L1_HANDLER": [], "CONSTRUCTOR": []}
}`

var (
	accountAddress = new(felt.Felt).SetUint64(0xacc)
	chainID        = new(felt.Felt).SetBytes([]byte("SN_GOERLI"))
)

type nopSigner struct{}

func (nopSigner) Sign(context.Context, *felt.Felt) ([]*felt.Felt, error) {
	return []*felt.Felt{&felt.Zero, &felt.Zero}, nil
}

func newAccount(ep endpoint.Endpoint) *account.Account {
	return account.New(ep, accountAddress, chainID, nopSigner{}, core.Cairo1Encoding, utils.NewNopZapLogger())
}

func expectedClassHash(t *testing.T) *felt.Felt {
	t.Helper()
	class, err := core.ParseSierraClass([]byte(sierra))
	require.NoError(t, err)
	return class.Hash()
}

func TestDeclare(t *testing.T) {
	log := utils.NewNopZapLogger()
	maxFee := new(felt.Felt).SetUint64(100)

	t.Run("skip when already declared", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		ep.EXPECT().Class(gomock.Any(), core.BlockID{Pending: true}, expectedClassHash(t)).Return([]byte(sierra), nil)

		op := &operation.Declare{Contract: "counter", Sierra: []byte(sierra), Casm: []byte(casm), SkipIfDeclared: true}
		outcome, err := op.Execute(context.Background(), newAccount(ep), nil, log)
		require.NoError(t, err)
		assert.Nil(t, outcome.TransactionHash)
		assert.Equal(t, expectedClassHash(t), outcome.ClassHash)
	})

	t.Run("skip on unexpected lookup error", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		ep.EXPECT().Class(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("gateway timeout"))

		op := &operation.Declare{Sierra: []byte(sierra), Casm: []byte(casm), SkipIfDeclared: true}
		outcome, err := op.Execute(context.Background(), newAccount(ep), nil, log)
		require.NoError(t, err)
		assert.Nil(t, outcome.TransactionHash)
	})

	t.Run("declare when class not found", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		txHash := new(felt.Felt).SetUint64(0xd)
		ep.EXPECT().Class(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, endpoint.ErrClassHashNotFound)
		ep.EXPECT().Nonce(gomock.Any(), accountAddress).Return(&felt.Zero, nil)
		ep.EXPECT().AddDeclareTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, txn *core.DeclareTransaction) (*felt.Felt, error) {
				assert.Equal(t, expectedClassHash(t), txn.ClassHash)
				assert.Equal(t, maxFee, txn.MaxFee)
				return txHash, nil
			})

		op := &operation.Declare{Sierra: []byte(sierra), Casm: []byte(casm), SkipIfDeclared: true, MaxFee: maxFee}
		outcome, err := op.Execute(context.Background(), newAccount(ep), nil, log)
		require.NoError(t, err)
		assert.Equal(t, txHash, outcome.TransactionHash)
		assert.Equal(t, expectedClassHash(t), outcome.ClassHash)
	})

	t.Run("no lookup without skip", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		ep.EXPECT().Nonce(gomock.Any(), accountAddress).Return(&felt.Zero, nil)
		ep.EXPECT().AddDeclareTransaction(gomock.Any(), gomock.Any()).Return(new(felt.Felt).SetUint64(1), nil)

		op := &operation.Declare{Sierra: []byte(sierra), Casm: []byte(casm), MaxFee: maxFee}
		_, err := op.Execute(context.Background(), newAccount(ep), nil, log)
		require.NoError(t, err)
	})

	t.Run("invalid artifact", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)

		op := &operation.Declare{Sierra: []byte(`{`), Casm: []byte(casm)}
		_, err := op.Execute(context.Background(), newAccount(ep), nil, log)
		require.ErrorContains(t, err, "parse sierra class")
	})
}

func TestDeploy(t *testing.T) {
	log := utils.NewNopZapLogger()
	classHash := new(felt.Felt).SetUint64(0xc1a55)
	ctor := []*felt.Felt{new(felt.Felt).SetUint64(5)}

	t.Run("given salt", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		salt := new(felt.Felt).SetUint64(0x5a17)
		deployment := &core.UDCDeployment{ClassHash: classHash, Salt: salt, ConstructorCalldata: ctor}

		ep.EXPECT().Nonce(gomock.Any(), accountAddress).Return(&felt.Zero, nil)
		ep.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, txn *core.InvokeTransaction) (*felt.Felt, error) {
				assert.Equal(t, core.ExecuteCalldata([]core.Call{deployment.Call()}, core.Cairo1Encoding), txn.Calldata)
				return new(felt.Felt).SetUint64(0xde), nil
			})

		op := &operation.Deploy{ClassHash: classHash, ConstructorCalldata: ctor, Salt: salt, MaxFee: &felt.Zero}
		outcome, err := op.Execute(context.Background(), newAccount(ep), nil, log)
		require.NoError(t, err)
		assert.Equal(t, new(felt.Felt).SetUint64(0xde), outcome.TransactionHash)
		assert.Equal(t, deployment.Address(accountAddress), outcome.DeployedAddress)
	})

	t.Run("random salt", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		var salts []*felt.Felt
		ep.EXPECT().Nonce(gomock.Any(), accountAddress).Return(&felt.Zero, nil).Times(2)
		ep.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, txn *core.InvokeTransaction) (*felt.Felt, error) {
				// [calls_len, to, selector, calldata_len, class_hash, salt, ...]
				salts = append(salts, txn.Calldata[5])
				return new(felt.Felt).SetUint64(1), nil
			}).Times(2)

		op := &operation.Deploy{ClassHash: classHash, MaxFee: &felt.Zero}
		for range 2 {
			_, err := op.Execute(context.Background(), newAccount(ep), nil, log)
			require.NoError(t, err)
		}
		require.Len(t, salts, 2)
		assert.False(t, salts[0].Equal(salts[1]))
		assert.Nil(t, op.Salt)
	})
}

func TestInvoke(t *testing.T) {
	log := utils.NewNopZapLogger()

	t.Run("watched", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		txHash := new(felt.Felt).SetUint64(0x1)

		ep.EXPECT().Nonce(gomock.Any(), accountAddress).Return(&felt.Zero, nil)
		ep.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).Return(txHash, nil)
		gomock.InOrder(
			ep.EXPECT().TransactionReceipt(gomock.Any(), txHash).Return(nil, endpoint.ErrTransactionNotFound),
			ep.EXPECT().TransactionReceipt(gomock.Any(), txHash).Return(&core.TransactionReceipt{ExecutionStatus: core.Succeeded}, nil),
		)

		op := &operation.Invoke{
			Calls:  []core.Call{{To: new(felt.Felt).SetUint64(1), Selector: core.Selector("transfer")}},
			MaxFee: &felt.Zero,
		}
		outcome, err := op.Execute(context.Background(), newAccount(ep), poller.New(ep, time.Millisecond, log), log)
		require.NoError(t, err)
		assert.Equal(t, txHash, outcome.TransactionHash)
	})

	t.Run("reverted", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)
		ep.EXPECT().Nonce(gomock.Any(), accountAddress).Return(&felt.Zero, nil)
		ep.EXPECT().AddInvokeTransaction(gomock.Any(), gomock.Any()).Return(new(felt.Felt).SetUint64(1), nil)
		ep.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(&core.TransactionReceipt{
			ExecutionStatus: core.Reverted,
			RevertReason:    "u256_sub Overflow",
		}, nil)

		op := &operation.Invoke{
			Calls:  []core.Call{{To: new(felt.Felt).SetUint64(1), Selector: core.Selector("transfer")}},
			MaxFee: &felt.Zero,
		}
		_, err := op.Execute(context.Background(), newAccount(ep), poller.New(ep, time.Millisecond, log), log)
		require.EqualError(t, err, "transaction reverted: u256_sub Overflow")
	})

	t.Run("no calls", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		ep := mocks.NewMockEndpoint(mockCtrl)

		_, err := new(operation.Invoke).Execute(context.Background(), newAccount(ep), nil, log)
		require.ErrorIs(t, err, operation.ErrNoCalls)
	})
}

func TestCall(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ep := mocks.NewMockEndpoint(mockCtrl)

	op := &operation.Call{
		ContractAddress: new(felt.Felt).SetUint64(0xc0),
		Selector:        core.Selector("get_balance"),
		Calldata:        []*felt.Felt{new(felt.Felt).SetUint64(1)},
		BlockID:         core.BlockID{Latest: true},
	}
	result := []*felt.Felt{new(felt.Felt).SetUint64(3), new(felt.Felt).SetUint64(2)}
	ep.EXPECT().Call(gomock.Any(), &core.FunctionCall{
		ContractAddress:    op.ContractAddress,
		EntryPointSelector: op.Selector,
		Calldata:           op.Calldata,
	}, core.BlockID{Latest: true}).Return(result, nil)

	outcome, err := op.Execute(context.Background(), ep)
	require.NoError(t, err)
	assert.Equal(t, result, outcome.Result)
	assert.Nil(t, outcome.TransactionHash)
}
