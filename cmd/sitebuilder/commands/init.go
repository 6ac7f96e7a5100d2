package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitebuilder/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir     string `arg:"" optional:"" default:"." help:"Directory to create the project in"`
	Force   bool   `help:"Overwrite an existing configuration file"`
	Starter string `help:"Git URL of a starter project to clone instead of generating"`
	Branch  string `help:"Branch of the starter project (default branch when empty)"`
	Yes     bool   `short:"y" help:"Skip prompts and accept defaults"`
}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	opts := scaffold.Options{
		Dir:     i.Dir,
		Force:   i.Force,
		Starter: i.Starter,
		Branch:  i.Branch,
	}

	// Site metadata prompts only make sense for a generated project; a
	// starter ships its own configuration.
	if i.Starter == "" {
		var prompter scaffold.Prompter
		if !i.Yes && scaffold.Interactive() {
			prompter = scaffold.SurveyPrompter{}
		}
		site, err := scaffold.AskSite(prompter, opts.Site)
		if err != nil {
			return err
		}
		opts.Site = site
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println("Initializing sitebuilder project")
	if err := scaffold.Run(ctx, opts); err != nil {
		return err
	}
	fmt.Printf("Project created in %s\n", i.Dir)
	return nil
}
