package main_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	kipt "github.com/NethermindEth/kipt/cmd/kipt"
	"github.com/NethermindEth/kipt/journal"
	"github.com/NethermindEth/kipt/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyRun struct {
	calls int
	cfg   *kipt.Config
	path  string
}

func (s *spyRun) run(_ context.Context, cfg *kipt.Config, path string, _ io.Writer) error {
	s.calls++
	s.cfg = cfg
	s.path = path
	return nil
}

func execute(t *testing.T, args ...string) (*spyRun, string, error) {
	t.Helper()
	spy := new(spyRun)
	out := new(bytes.Buffer)

	cmd := kipt.NewCmd(spy.run)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return spy, out.String(), err
}

func TestVersion(t *testing.T) {
	for _, flag := range []string{"-V", "--version"} {
		t.Run(flag, func(t *testing.T) {
			spy, out, err := execute(t, flag, "script.lua")
			require.NoError(t, err)
			assert.Equal(t, "kipt "+kipt.Version+"\n", out)
			assert.Zero(t, spy.calls)
		})
	}
}

func TestUsageWithoutScript(t *testing.T) {
	spy, out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "kipt [flags] <script.lua>")
	assert.Zero(t, spy.calls)
}

func TestTooManyArguments(t *testing.T) {
	spy, _, err := execute(t, "a.lua", "b.lua")
	require.Error(t, err)
	assert.Zero(t, spy.calls)
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		spy, _, err := execute(t, "deploy.lua")
		require.NoError(t, err)
		require.Equal(t, 1, spy.calls)
		assert.Equal(t, "deploy.lua", spy.path)
		assert.Equal(t, &kipt.Config{
			LogLevel:      utils.INFO,
			Colour:        true,
			MetricsHost:   "localhost",
			MetricsPort:   9090,
			MaxGoroutines: 16,
		}, spy.cfg)
	})

	t.Run("flags and environment", func(t *testing.T) {
		t.Setenv("KIPT_ACCOUNT_PRIVKEY", "0x1")
		t.Setenv("KIPT_ACCOUNT_ADDRESS", "0xacc")

		spy, _, err := execute(t,
			"--rpc", "MAINNET",
			"--account-address", "0xbeef",
			"--account-legacy",
			"--log-level", "debug",
			"--journal", "/tmp/journal",
			"--max-goroutines", "2",
			"run.lua",
		)
		require.NoError(t, err)
		cfg := spy.cfg
		assert.Equal(t, "MAINNET", cfg.RPC)
		assert.Equal(t, "0xbeef", cfg.AccountAddress)
		assert.Equal(t, "0x1", cfg.AccountPrivKey)
		assert.True(t, cfg.AccountIsLegacy)
		assert.Equal(t, utils.DEBUG, cfg.LogLevel)
		assert.Equal(t, "/tmp/journal", cfg.Journal)
		assert.Equal(t, 2, cfg.MaxGoroutines)
	})

	t.Run("config file", func(t *testing.T) {
		cfgFile := filepath.Join(t.TempDir(), "kipt.yaml")
		require.NoError(t, os.WriteFile(cfgFile, []byte(`
rpc: http://localhost:5050
log-level: warn
metrics: true
metrics-port: 9191
otel-endpoint: localhost:4318
`), 0o600))

		spy, _, err := execute(t, "--config", cfgFile, "--metrics-port", "9292", "run.lua")
		require.NoError(t, err)
		cfg := spy.cfg
		assert.Equal(t, "http://localhost:5050", cfg.RPC)
		assert.Equal(t, utils.WARN, cfg.LogLevel)
		assert.True(t, cfg.Metrics)
		assert.Equal(t, uint16(9292), cfg.MetricsPort)
		assert.Equal(t, "localhost:4318", cfg.OtelEndpoint)
	})

	t.Run("missing config file", func(t *testing.T) {
		spy, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "run.lua")
		require.Error(t, err)
		assert.Zero(t, spy.calls)
	})
}

func TestJournalCmd(t *testing.T) {
	dir := t.TempDir()
	j, err := journal.Open(dir, nil, nil)
	require.NoError(t, err)
	run := j.NewRun("deploy.lua")
	require.NoError(t, run.Record(journal.Record{Kind: "declare", Name: "counter", ClassHash: "0xc1"}))
	require.NoError(t, run.Record(journal.Record{Kind: "deploy", Error: "transaction reverted: nope"}))
	require.NoError(t, j.Close())

	t.Run("table", func(t *testing.T) {
		_, out, err := execute(t, "journal", "--journal", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "CLASS HASH")
		assert.Contains(t, out, run.ID()[:8])
		assert.Contains(t, out, "counter")
		assert.Contains(t, out, "transaction reverted: nope")
		assert.Contains(t, out, "TOTAL")
	})

	t.Run("yaml", func(t *testing.T) {
		_, out, err := execute(t, "journal", "--journal", dir, "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "run_id: "+run.ID())
		assert.Contains(t, out, "kind: declare")
		assert.Contains(t, out, "0xc1")
		assert.Contains(t, out, "script: deploy.lua")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := execute(t, "journal", "--journal", dir, "--format", "json")
		require.ErrorContains(t, err, "unknown format")
	})

	t.Run("journal required", func(t *testing.T) {
		_, _, err := execute(t, "journal")
		require.ErrorContains(t, err, "--journal is required")
	})
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.lua")
	require.NoError(t, os.WriteFile(path, []byte(`print_str_array({"a", "b", RPC})`), 0o600))

	out := new(bytes.Buffer)
	cfg := &kipt.Config{
		LogLevel:      utils.ERROR,
		Journal:       filepath.Join(dir, "journal"),
		MaxGoroutines: 2,
	}
	cfg.RPC = "MAINNET"
	require.NoError(t, kipt.Run(context.Background(), cfg, path, out))
	assert.Equal(t, "[a, b, MAINNET]\n", out.String())

	require.Error(t, kipt.Run(context.Background(), cfg, filepath.Join(dir, "missing.lua"), out))
}
