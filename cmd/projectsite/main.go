package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/projectsite/cmd/projectsite/commands"
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("projectsite"),
		kong.Description("Generate a static website for a software project from its README, releases and docs."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default()}
	err := ctx.Run(global, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
