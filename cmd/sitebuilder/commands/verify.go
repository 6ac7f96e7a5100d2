package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitebuilder/internal/linkcheck"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct{}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	project, err := loadProject(root.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := linkcheck.Run(ctx, project.OutputRoot())
	if err != nil {
		return err
	}
	if !res.OK() {
		for _, b := range res.Broken {
			fmt.Println(b.String())
		}
		return fmt.Errorf("%d broken internal links", len(res.Broken))
	}

	fmt.Printf("Verified %d links across %d pages\n", res.Links, res.Pages)
	return nil
}
