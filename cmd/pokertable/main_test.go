package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/display"
)

func parse(t *testing.T, args ...string) (*kong.Context, *CLI) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("pokertable"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx, &cli
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	ctx, _ := parse(t, args...)
	return ctx.Run(log.New(io.Discard), display.New(display.DefaultStyles()))
}

func TestEvalCommand(t *testing.T) {
	require.NoError(t, run(t, "eval", "Th", "9h", "Kh", "Qh", "Jh", "7c", "3d"))
	require.NoError(t, run(t, "eval", "AsKsQsJsTs"))
	assert.Error(t, run(t, "eval", "As", "Ks"))
	assert.Error(t, run(t, "eval", "Xx", "Ks", "Qs", "Js", "Ts"))
}

func TestNutsCommand(t *testing.T) {
	require.NoError(t, run(t, "nuts", "Kh", "Qh", "Jh", "7c", "3d", "--top", "3"))
	assert.Error(t, run(t, "nuts", "Kh", "Qh"))
}

func TestConfigCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.hcl")
	require.NoError(t, os.WriteFile(good, []byte(`
table "main" {
  small_blind = 1
  big_blind   = 2
  seat "alice" {
    index = 0
  }
}
`), 0o600))
	require.NoError(t, run(t, "config", "check", good))

	bad := filepath.Join(dir, "bad.hcl")
	require.NoError(t, os.WriteFile(bad, []byte(`table "main" { small_blind = 0 }`+"\n"+`table "main" {}`), 0o600))
	assert.ErrorContains(t, run(t, "config", "check", bad), "defined more than once")
}

func TestPlayAndSimulateCommands(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.hcl")
	require.NoError(t, run(t, "play", "-c", missing, "--hands", "3", "--seed", "7", "--policy", "random"))
	assert.ErrorContains(t, run(t, "play", "-c", missing, "--table", "nope"), "not found")
	require.NoError(t, run(t, "simulate", "-c", missing, "--hands", "20", "--tables", "2", "--seed", "1"))
	assert.Error(t, run(t, "simulate", "-c", missing, "--policy", "psychic"))
}

func TestLogLevel(t *testing.T) {
	_, cli := parse(t, "--log-level", "debug", "eval", "AsKsQsJsTs")
	assert.Equal(t, log.DebugLevel, newLogger(cli.LogLevel).GetLevel())
}

func TestPlayWritesHistory(t *testing.T) {
	dir := t.TempDir()
	history := filepath.Join(dir, "hands.phhs")
	require.NoError(t, run(t, "play", "-c", filepath.Join(dir, "none.hcl"), "--hands", "3", "--seed", "2", "--history", history))

	data, err := os.ReadFile(history)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[3]\n")
	assert.Contains(t, string(data), `"carol"`)
	assert.Contains(t, string(data), `variant = "NT"`)
}

func TestColorFlag(t *testing.T) {
	_, cli := parse(t, "--color", "never", "eval", "AsKsQsJsTs")
	assert.Equal(t, "never", cli.Color)
}

func TestLedgerCommands(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "none.hcl")
	db := filepath.Join(dir, "ledger.db")

	require.NoError(t, run(t, "play", "-c", missing, "--hands", "2", "--seed", "4", "--ledger", db))
	require.NoError(t, run(t, "simulate", "-c", missing, "--hands", "5", "--tables", "2", "--seed", "4", "--ledger", db))
	require.NoError(t, run(t, "ledger", "standings", db))
	require.NoError(t, run(t, "ledger", "standings", db, "--table", "sim-1"))
	require.NoError(t, run(t, "ledger", "hands", db, "--limit", "3"))
}
