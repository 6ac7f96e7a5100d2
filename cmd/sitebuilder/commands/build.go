package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/progress"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override the configured output directory"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	project, err := loadProject(root.Config)
	if err != nil {
		return err
	}
	if b.Output != "" {
		project.Output.Dir = b.Output
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println("Starting site build")

	store, pub := openReportSinks(project, false)
	defer closeReportSinks(store, pub)

	rep, err := RunBuild(ctx, project,
		build.WithIndicator(progress.New(os.Stderr, root.NoProgress)))
	deliverReport(ctx, store, pub, rep)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Println("Build completed:", rep.Summary())
	return nil
}
