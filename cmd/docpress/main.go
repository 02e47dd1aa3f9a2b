package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpress/cmd/docpress/commands"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docpress"),
		kong.Description("Build a static documentation site from a directory of markdown articles."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := parser.Run(&commands.Global{Out: os.Stdout}, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
