package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/plugindocs/cmd/plugindocs/commands"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("plugindocs"),
		kong.Description("Generate versioned plugin reference documentation from a plugin catalog report."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := ctx.Run(&commands.Global{}, &cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}
