package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/preview"
	"git.home.luguber.info/inful/sitebuilder/internal/progress"
	"git.home.luguber.info/inful/sitebuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Port        int    `short:"p" default:"8080" help:"Preview server port"`
	NoServe     bool   `name:"no-serve" help:"Disable the preview server"`
	FullRebuild string `name:"full-rebuild" help:"Periodic full rebuild interval (e.g. 30m), overrides config"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	project, err := loadProject(root.Config)
	if err != nil {
		return err
	}
	if w.FullRebuild != "" {
		// Validate here; the config accessor silently ignores bad values.
		if _, err := time.ParseDuration(w.FullRebuild); err != nil {
			return fmt.Errorf("invalid --full-rebuild interval: %w", err)
		}
		project.Watch.FullRebuild = w.FullRebuild
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return RunWatch(ctx, project, watchOptions{
		Port:       w.Port,
		Serve:      !w.NoServe,
		NoProgress: root.NoProgress,
	})
}

type watchOptions struct {
	Port       int
	Serve      bool
	NoProgress bool
}

// RunWatch builds once, then keeps rebuilding on source changes until ctx
// is canceled. Unless disabled, the output tree is served alongside with
// /healthz and Prometheus /metrics endpoints.
func RunWatch(ctx context.Context, project *config.Project, opts watchOptions) error {
	recorder := metrics.NewPrometheusRecorder(nil)

	store, pub := openReportSinks(project, true)
	defer closeReportSinks(store, pub)

	var srv *preview.Server
	if opts.Serve {
		srv = preview.New(project.OutputRoot(), opts.Port, recorder.Handler())
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start preview server: %w", err)
		}
		defer func() {
			if err := srv.Stop(context.Background()); err != nil {
				slog.Warn("Preview server shutdown failed", logfields.Error(err))
			}
		}()
	}

	indicator := progress.New(os.Stderr, opts.NoProgress)
	runBuild := func(ctx context.Context, trigger string) error {
		rep, err := RunBuild(ctx, project,
			build.WithIndicator(indicator),
			build.WithRecorder(recorder),
			build.WithObserver(build.RecorderObserver{Rec: recorder}))
		deliverReport(ctx, store, pub, rep)
		if srv != nil {
			srv.SetBuildResult(string(rep.Outcome), err)
		}
		return err
	}

	fmt.Println("Watching for changes (Ctrl-C to stop)")
	return watch.New(project, runBuild, watch.WithRecorder(recorder)).Run(ctx)
}
