package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/cmd/sitebuilder/commands"
	"git.home.luguber.info/inful/sitebuilder/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("sitebuilder"),
		kong.Description("Static site builder driven by declarative folder pipelines"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	// AfterApply has installed the default logger by the time commands run.
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{Logger: slog.Default()}))
}
