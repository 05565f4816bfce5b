package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/internal/display"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	Color    string           `default:"auto" enum:"auto,always,never" help:"Colour output (auto, always, never)"`

	Eval     EvalCmd     `cmd:"" help:"Evaluate a 5 to 7 card hand"`
	Nuts     NutsCmd     `cmd:"" help:"Show the nuts and the strongest hands on a board"`
	Play     PlayCmd     `cmd:"" help:"Play hands at a configured table with built-in policies"`
	Simulate SimulateCmd `cmd:"" help:"Run a multi-table self-play simulation"`
	Config   ConfigCmd   `cmd:"" help:"Work with table configuration files"`
	Ledger   LedgerCmd   `cmd:"" help:"Query a hand ledger written by play or simulate"`
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "pokertable",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertable"),
		kong.Description("No-limit Texas Hold'em table engine tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	ctx.FatalIfErrorf(display.SetColorMode(cli.Color))
	logger := newLogger(cli.LogLevel)
	renderer := display.New(display.DefaultStyles())
	err := ctx.Run(logger, renderer)
	if err != nil {
		logger.Error("command failed", "command", ctx.Command(), "error", err)
	}
	ctx.FatalIfErrorf(err)
}
