// Package script hosts the Lua scripts that drive kipt. Each script function
// decodes its arguments, runs the operation on the shared bridge pool and
// returns either (table, nil) or (nil, message).
package script

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/NethermindEth/kipt/bridge"
	"github.com/NethermindEth/kipt/endpoint"
	"github.com/NethermindEth/kipt/journal"
	"github.com/NethermindEth/kipt/metrics"
	"github.com/NethermindEth/kipt/oplog"
	"github.com/NethermindEth/kipt/utils"
	"github.com/spf13/afero"
	lua "github.com/yuin/gopher-lua"
)

// Resolver builds the endpoint of one operation from the RPC global.
type Resolver func(urlOrName string, log utils.SimpleLogger) (endpoint.Endpoint, error)

type Host struct {
	state   *lua.LState
	pool    *bridge.Pool
	log     utils.SimpleLogger
	fs      afero.Fs
	resolve Resolver
	metrics *metrics.Operations
	run     *journal.Run
	oplog   *oplog.Log
	stdout  io.Writer
	now     func() time.Time
}

type Option func(*Host)

// WithFs sets the filesystem artifacts, scripts and the operation log are read from and written to.
func WithFs(fs afero.Fs) Option {
	return func(h *Host) { h.fs = fs }
}

func WithResolver(resolve Resolver) Option {
	return func(h *Host) { h.resolve = resolve }
}

func WithMetrics(m *metrics.Operations) Option {
	return func(h *Host) { h.metrics = m }
}

// WithJournal records every operation outcome in run.
func WithJournal(run *journal.Run) Option {
	return func(h *Host) { h.run = run }
}

func WithStdout(w io.Writer) Option {
	return func(h *Host) { h.stdout = w }
}

// New creates a host with its own Lua state. The pool is shared and outlives the host.
func New(pool *bridge.Pool, log utils.SimpleLogger, opts ...Option) *Host {
	h := &Host{
		state:   lua.NewState(),
		pool:    pool,
		log:     log,
		fs:      afero.NewOsFs(),
		resolve: endpoint.Resolve,
		metrics: metrics.NewOperations(metrics.VoidFactory()),
		stdout:  os.Stdout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.register()
	return h
}

func (h *Host) register() {
	functions := map[string]lua.LGFunction{
		"declare":         h.declare,
		"deploy":          h.deploy,
		"invoke":          h.invoke,
		"call":            h.call,
		"watch_tx":        h.watchTx,
		"logger_init":     h.loggerInit,
		"get_logger":      h.getLogger,
		"print_str_array": h.printStrArray,
	}
	for name, fn := range functions {
		h.state.SetGlobal(name, h.state.NewFunction(fn))
	}
	h.state.SetGlobal("print", h.state.NewFunction(h.print))
}

// Seed pre-sets the configuration globals. Assignments made by the script win.
func (h *Host) Seed(cfg *Config) {
	cfg.seed(h.state)
}

// RunFile loads and runs the script at path.
func (h *Host) RunFile(path string) error {
	source, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return err
	}
	return h.exec(path, source)
}

func (h *Host) RunString(source string) error {
	return h.exec("<string>", []byte(source))
}

func (h *Host) exec(name string, source []byte) error {
	fn, err := h.state.Load(bytes.NewReader(source), name)
	if err != nil {
		return err
	}
	h.state.Push(fn)
	return h.state.PCall(0, lua.MultRet, nil)
}

// Close closes the operation log, if the script opened one, and the Lua state.
func (h *Host) Close() error {
	var err error
	if h.oplog != nil {
		err = h.oplog.Close()
		h.oplog = nil
	}
	h.state.Close()
	return err
}

func (h *Host) print(state *lua.LState) int {
	top := state.GetTop()
	for i := 1; i <= top; i++ {
		if i > 1 {
			fmt.Fprint(h.stdout, "\t")
		}
		fmt.Fprint(h.stdout, state.ToStringMeta(state.Get(i)).String())
	}
	fmt.Fprintln(h.stdout)
	return 0
}

// fail pushes the (nil, message) pair every script function returns on error.
func fail(state *lua.LState, err error) int {
	state.Push(lua.LNil)
	state.Push(lua.LString(err.Error()))
	return 2
}

func succeed(state *lua.LState, value lua.LValue) int {
	state.Push(value)
	state.Push(lua.LNil)
	return 2
}
