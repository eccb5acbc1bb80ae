package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NethermindEth/kipt/account"
	"github.com/NethermindEth/kipt/artifacts"
	"github.com/NethermindEth/kipt/bridge"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/endpoint"
	"github.com/NethermindEth/kipt/journal"
	"github.com/NethermindEth/kipt/metrics"
	"github.com/NethermindEth/kipt/operation"
	"github.com/NethermindEth/kipt/oplog"
	"github.com/NethermindEth/kipt/poller"
	"github.com/NethermindEth/kipt/tracing"
	lua "github.com/yuin/gopher-lua"
	"go.opentelemetry.io/otel/attribute"
)

const defaultWatchInterval = time.Second

// declare(contract_name, options) -> ({tx_hash, class_hash}, err)
func (h *Host) declare(state *lua.LState) int {
	name := lua.LVAsString(state.Get(1))
	cfg, opts, err := h.prepare(state, 2, true)
	if err != nil {
		return fail(state, err)
	}
	if name == "" && (opts.SierraPath == "" || opts.CasmPath == "") {
		return fail(state, errors.New("declare: contract name or sierra_path and casm_path required"))
	}
	maxFee, err := opts.maxFee()
	if err != nil {
		return fail(state, err)
	}

	outcome, err := h.execute(operation.KindDeclare, name, func(ctx context.Context) (*operation.Outcome, error) {
		paths, err := h.artifactPaths(name, opts)
		if err != nil {
			return nil, err
		}
		sierra, casm, err := artifacts.Read(h.fs, paths)
		if err != nil {
			return nil, err
		}

		acc, err := h.account(ctx, cfg)
		if err != nil {
			return nil, err
		}
		op := &operation.Declare{
			Contract:       name,
			Sierra:         sierra,
			Casm:           casm,
			SkipIfDeclared: opts.SkipIfDeclared,
			MaxFee:         maxFee,
		}
		return op.Execute(ctx, acc, h.poller(acc.Endpoint(), opts.watchInterval()), h.log)
	})
	if err != nil {
		return fail(state, err)
	}

	h.writeLog(operation.KindDeclare, name, []oplog.Row{
		{Key: "tx_hash", Value: hexOrEmpty(outcome.TransactionHash)},
		{Key: "class_hash", Value: hexOrEmpty(outcome.ClassHash)},
	})
	result := state.NewTable()
	setHex(result, "tx_hash", outcome.TransactionHash)
	setHex(result, "class_hash", outcome.ClassHash)
	return succeed(state, result)
}

// deploy(class_hash, ctor_args, options) -> ({tx_hash, deployed_address}, err)
func (h *Host) deploy(state *lua.LState) int {
	classHash, err := feltValue(state.Get(1))
	if err != nil {
		return fail(state, fmt.Errorf("class hash: %w", err))
	}
	ctor, err := feltList(state.Get(2))
	if err != nil {
		return fail(state, fmt.Errorf("constructor arguments: %w", err))
	}
	cfg, opts, err := h.prepare(state, 3, true)
	if err != nil {
		return fail(state, err)
	}
	salt, err := opts.salt()
	if err != nil {
		return fail(state, err)
	}
	maxFee, err := opts.maxFee()
	if err != nil {
		return fail(state, err)
	}

	op := &operation.Deploy{
		ClassHash:           classHash,
		ConstructorCalldata: ctor,
		Salt:                salt,
		Unique:              opts.Unique,
		MaxFee:              maxFee,
	}
	name := core.EncodeFelt(classHash)
	outcome, err := h.execute(operation.KindDeploy, name, func(ctx context.Context) (*operation.Outcome, error) {
		acc, err := h.account(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return op.Execute(ctx, acc, h.poller(acc.Endpoint(), opts.watchInterval()), h.log)
	})
	if err != nil {
		return fail(state, err)
	}

	h.writeLog(operation.KindDeploy, name, []oplog.Row{
		{Key: "tx_hash", Value: hexOrEmpty(outcome.TransactionHash)},
		{Key: "deployed_address", Value: hexOrEmpty(outcome.DeployedAddress)},
	})
	result := state.NewTable()
	setHex(result, "tx_hash", outcome.TransactionHash)
	setHex(result, "deployed_address", outcome.DeployedAddress)
	return succeed(state, result)
}

// invoke(calls, options) -> ({tx_hash}, err)
func (h *Host) invoke(state *lua.LState) int {
	calls, err := decodeCalls(state.Get(1))
	if err != nil {
		return fail(state, err)
	}
	if len(calls) == 0 {
		return fail(state, operation.ErrNoCalls)
	}
	cfg, opts, err := h.prepare(state, 2, true)
	if err != nil {
		return fail(state, err)
	}
	maxFee, err := opts.maxFee()
	if err != nil {
		return fail(state, err)
	}

	op := &operation.Invoke{Calls: calls, MaxFee: maxFee}
	name := fmt.Sprintf("(%d)", len(calls))
	outcome, err := h.execute(operation.KindInvoke, name, func(ctx context.Context) (*operation.Outcome, error) {
		acc, err := h.account(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return op.Execute(ctx, acc, h.poller(acc.Endpoint(), opts.watchInterval()), h.log)
	})
	if err != nil {
		return fail(state, err)
	}

	table := state.Get(1).(*lua.LTable)
	rows := make([]oplog.Row, 0, len(calls)+1)
	for i := range calls {
		entry := table.RawGetInt(i + 1).(*lua.LTable)
		rows = append(rows, oplog.Row{
			Key:   fmt.Sprintf("call #%d", i),
			Value: fmt.Sprintf("%s %s", core.EncodeFelt(calls[i].To), entry.RawGetString("func").String()),
		})
	}
	rows = append(rows, oplog.Row{Key: "tx_hash", Value: hexOrEmpty(outcome.TransactionHash)})
	h.writeLog(operation.KindInvoke, name, rows)

	result := state.NewTable()
	setHex(result, "tx_hash", outcome.TransactionHash)
	return succeed(state, result)
}

// call(contract_address, function_name, calldata, options) -> (array_of_hex, err)
func (h *Host) call(state *lua.LState) int {
	address, err := feltValue(state.Get(1))
	if err != nil {
		return fail(state, fmt.Errorf("contract address: %w", err))
	}
	function := lua.LVAsString(state.Get(2))
	if function == "" {
		return fail(state, errors.New("call: function name required"))
	}
	calldata, err := feltList(state.Get(3))
	if err != nil {
		return fail(state, fmt.Errorf("calldata: %w", err))
	}
	cfg, opts, err := h.prepare(state, 4, false)
	if err != nil {
		return fail(state, err)
	}
	blockID, err := opts.blockID()
	if err != nil {
		return fail(state, err)
	}

	op := &operation.Call{
		ContractAddress: address,
		Selector:        core.Selector(function),
		Calldata:        calldata,
		BlockID:         blockID,
	}
	outcome, err := h.execute(operation.KindCall, function, func(ctx context.Context) (*operation.Outcome, error) {
		ep, err := h.resolve(cfg.RPC, h.log)
		if err != nil {
			return nil, err
		}
		return op.Execute(ctx, ep)
	})
	if err != nil {
		return fail(state, err)
	}
	return succeed(state, hexArray(state, outcome.Result))
}

// watch_tx(tx_hash, interval_ms) -> ({tx_hash}, err)
func (h *Host) watchTx(state *lua.LState) int {
	txHash, err := feltValue(state.Get(1))
	if err != nil {
		return fail(state, fmt.Errorf("transaction hash: %w", err))
	}
	interval := time.Duration(float64(lua.LVAsNumber(state.Get(2))) * float64(time.Millisecond))
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	cfg := readConfig(state)
	if err = cfg.validateProvider(); err != nil {
		return fail(state, err)
	}

	name := core.EncodeFelt(txHash)
	outcome, err := h.execute(operation.KindWatch, name, func(ctx context.Context) (*operation.Outcome, error) {
		ep, err := h.resolve(cfg.RPC, h.log)
		if err != nil {
			return nil, err
		}
		p := poller.New(ep, interval, h.log).WithObserver(h.metrics)
		if err = p.Watch(ctx, txHash); err != nil {
			return nil, err
		}
		return &operation.Outcome{TransactionHash: txHash}, nil
	})
	if err != nil {
		return fail(state, err)
	}

	result := state.NewTable()
	setHex(result, "tx_hash", outcome.TransactionHash)
	return succeed(state, result)
}

// prepare reads and validates the configuration globals, then decodes the
// options table at index. Nothing here performs I/O.
func (h *Host) prepare(state *lua.LState, index int, signing bool) (*Config, *Options, error) {
	cfg := readConfig(state)
	validate := cfg.validateProvider
	if signing {
		validate = cfg.validateSigning
	}
	if err := validate(); err != nil {
		return nil, nil, err
	}

	opts, err := decodeOptions(state.Get(index))
	if err != nil {
		return nil, nil, err
	}
	return cfg, opts, nil
}

// artifactPaths prefers explicit sierra_path and casm_path over the locator.
func (h *Host) artifactPaths(name string, opts *Options) (*artifacts.Paths, error) {
	if opts.SierraPath != "" && opts.CasmPath != "" {
		return &artifacts.Paths{Sierra: opts.SierraPath, Casm: opts.CasmPath}, nil
	}
	return artifacts.Locate(h.fs, opts.ArtifactsPath, name, opts.ArtifactsRecursively)
}

func (h *Host) account(ctx context.Context, cfg *Config) (*account.Account, error) {
	ep, err := h.resolve(cfg.RPC, h.log)
	if err != nil {
		return nil, err
	}
	return account.Build(ctx, ep, cfg.AccountAddress, cfg.AccountPrivKey, cfg.Encoding(), h.log)
}

// poller is nil, meaning fire and forget, when interval is zero.
func (h *Host) poller(ep endpoint.Endpoint, interval time.Duration) *poller.Poller {
	if interval == 0 {
		return nil
	}
	return poller.New(ep, interval, h.log).WithObserver(h.metrics)
}

// execute runs task on the pool and blocks until it is done.
func (h *Host) execute(kind operation.Kind, name string,
	task func(ctx context.Context) (*operation.Outcome, error),
) (*operation.Outcome, error) {
	start := time.Now()
	h.metrics.Started()

	envelope := bridge.Run(h.pool, func(ctx context.Context) (*operation.Outcome, error) {
		ctx, span := tracing.StartOperation(ctx, string(kind), attribute.String("name", name))
		outcome, err := task(ctx)
		tracing.End(span, err)
		return outcome, err
	})
	err := envelope.Err()

	h.metrics.Done(string(kind), metrics.Since(start), err)
	h.record(kind, name, envelope.Data, err)
	return envelope.Data, err
}

func (h *Host) record(kind operation.Kind, name string, outcome *operation.Outcome, err error) {
	if h.run == nil {
		return
	}
	rec := journal.Record{Kind: string(kind), Name: name, Time: h.now()}
	if err != nil {
		rec.Error = err.Error()
	} else {
		rec.TransactionHash = hexOrEmpty(outcome.TransactionHash)
		rec.ClassHash = hexOrEmpty(outcome.ClassHash)
		rec.DeployedAddress = hexOrEmpty(outcome.DeployedAddress)
	}
	if jErr := h.run.Record(rec); jErr != nil {
		h.log.Warnw("Failed to journal operation", "kind", kind, "err", jErr)
	}
}
