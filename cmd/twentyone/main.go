package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the Twenty-One web server"`
	Play    PlayCmd          `cmd:"" help:"Play a game of Twenty-One in the terminal"`
	AddUser AddUserCmd       `cmd:"add-user" help:"Register a player account in the ledger"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("twentyone"),
		kong.Description("Twenty-One (blackjack) over the web or in your terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
