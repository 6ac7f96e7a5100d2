package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/history"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/notify"
	"git.home.luguber.info/inful/sitebuilder/internal/stages"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config     string           `short:"c" help:"Project configuration file path" default:"sitebuilder.yaml"`
	Verbose    bool             `short:"v" help:"Enable verbose logging"`
	Quiet      bool             `short:"q" help:"Only log warnings and errors"`
	NoProgress bool             `name:"no-progress" help:"Disable the terminal progress indicator"`
	Version    kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site from the configured folders"`
	Init     InitCmd     `cmd:"" help:"Create a new site project"`
	Discover DiscoverCmd `cmd:"" help:"List the files each folder would build, without building"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild on source changes and serve the output"`
	Verify   VerifyCmd   `cmd:"" help:"Check internal links in the built output"`
	History  HistoryCmd  `cmd:"" help:"Show recent builds recorded for this project"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Quiet {
		level = slog.LevelWarn
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadProject loads the project configuration, pointing the user at
// `sitebuilder init` when no configuration file exists yet.
func loadProject(path string) (*config.Project, error) {
	project, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "No configuration found at %s. Run `sitebuilder init` to create a project.\n", path)
		}
		return nil, fmt.Errorf("load config: %w", err)
	}
	return project, nil
}

// RunBuild executes one full build of project: every configured folder in
// declared order, then the optional root group once all folders succeeded.
// The returned report is always non-nil, also for failed builds.
func RunBuild(ctx context.Context, project *config.Project, opts ...build.Option) (*build.Report, error) {
	orch := build.New(project, stages.DefaultRegistry(), opts...)
	err := orch.Run(ctx)
	if err == nil {
		err = orch.RunRoot(ctx)
	}
	return orch.Finish(), err
}

// openReportSinks opens the destinations a finished report is delivered to:
// the history store when recording is enabled (watch mode records by
// default, one-shot builds only when configured) and the NATS publisher
// when notify is configured. Either sink may come back nil; deliverReport
// handles that.
func openReportSinks(project *config.Project, watchMode bool) (*history.Store, *notify.Publisher) {
	var store *history.Store
	if project.History.Record(watchMode) {
		s, err := history.Open(project.HistoryPath())
		if err != nil {
			slog.Warn("Build history unavailable", logfields.Error(err))
		} else {
			store = s
		}
	}
	pub, err := notify.Connect(project.Notify)
	if err != nil {
		slog.Warn("Build notifications unavailable", logfields.Error(err))
	}
	return store, pub
}

// closeReportSinks releases whatever openReportSinks handed out.
func closeReportSinks(store *history.Store, pub *notify.Publisher) {
	if store != nil {
		if err := store.Close(); err != nil {
			slog.Debug("Closing history store failed", logfields.Error(err))
		}
	}
	pub.Close()
}

// deliverReport records and publishes a finished build report. Both sinks
// are best effort: a failure logs a warning and never fails the build.
// Delivery survives context cancellation so interrupted builds still get
// their history row.
func deliverReport(ctx context.Context, store *history.Store, pub *notify.Publisher, rep *build.Report) {
	ctx = context.WithoutCancel(ctx)
	if store != nil {
		if err := store.RecordBuild(ctx, rep); err != nil {
			slog.Warn("Failed to record build history", logfields.Error(err))
		}
	}
	if err := pub.PublishReport(rep); err != nil {
		slog.Warn("Failed to publish build report", logfields.Error(err))
	}
}
