// Package build runs one build invocation of a loaded project: it validates
// the configured source directories, materializes the output layout, and
// drives every folder group's files through their compiled pipelines, in
// declared order. A report accumulates timings, counts, and issues.
package build

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
	"git.home.luguber.info/inful/sitebuilder/internal/progress"
)

// Orchestrator owns one build invocation. Construct a fresh one per build;
// watch mode does so for every rebuild.
type Orchestrator struct {
	project   *config.Project
	plans     []pipeline.Plan
	rootPlan  *pipeline.Plan
	indicator progress.Indicator
	observer  Observer
	recorder  metrics.Recorder
	report    *Report
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithIndicator attaches a progress indicator. The orchestrator pauses it
// around every log line it emits and stops it when the build finishes.
func WithIndicator(ind progress.Indicator) Option {
	return func(o *Orchestrator) {
		if ind != nil {
			o.indicator = ind
		}
	}
}

// WithObserver attaches a build observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(o *Orchestrator) {
		if rec != nil {
			o.recorder = rec
		}
	}
}

// New compiles the project's folder groups against reg and returns an
// orchestrator ready to Run. Compilation happens here, once; invalid
// pipeline entries are carried as such and reported during the build.
func New(project *config.Project, reg *pipeline.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		project:   project,
		indicator: progress.Noop{},
		observer:  NoopObserver{},
		recorder:  metrics.NoopRecorder{},
		report:    newReport(),
	}
	if project != nil {
		o.plans = pipeline.Compile(project, reg)
		if plan, ok := pipeline.CompileRoot(project, reg); ok {
			o.rootPlan = &plan
		}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Report returns the build report. Its outcome fields are final only after
// Finish.
func (o *Orchestrator) Report() *Report { return o.report }

// Run executes the build: source validation, output preparation, then every
// folder group in declared order. It returns nil when the build completed
// (possibly with warnings recorded in the report) and a sentinel-wrapped
// error for guarded failures. All folder side effects are observable when
// Run returns; the optional root group runs afterwards via RunRoot.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.project == nil {
		err := fmt.Errorf("%w: no project configuration loaded", ErrInvalidProject)
		o.report.AddIssue(Issue{
			Code:     IssueInvalidProject,
			Stage:    StageValidateSources,
			Severity: SeverityError,
			Message:  err.Error(),
		})
		o.log(ctx, slog.LevelError, "build aborted", logfields.Error(err))
		return err
	}

	o.indicator.Start("building")
	o.log(ctx, slog.LevelInfo, "starting build",
		logfields.BuildID(o.report.BuildID),
		logfields.Count(len(o.plans)))

	o.report.Folders = len(o.plans)

	return o.runStages(ctx, []StageDef{
		{Name: StageValidateSources, Fn: o.stageValidateSources},
		{Name: StagePrepareOutput, Fn: o.stagePrepareOutput},
		{Name: StageBuildFolders, Fn: o.stageBuildFolders},
	})
}

// RunRoot applies the optional root group. Callers invoke it only after Run
// has returned success, so every folder side effect precedes the root step.
func (o *Orchestrator) RunRoot(ctx context.Context) error {
	if o.rootPlan == nil {
		return nil
	}
	return o.runStages(ctx, []StageDef{
		{Name: StageRootGroup, Fn: o.stageRootGroup},
	})
}

// Finish closes the report, derives the final outcome, notifies the
// observer, and stops the progress indicator. Repeated calls return the
// same finished report.
func (o *Orchestrator) Finish() *Report {
	if o.report.End.IsZero() {
		o.report.finish()
		o.report.deriveOutcome()
		o.observer.OnBuildComplete(o.report)
		o.log(context.Background(), slog.LevelInfo, "build finished",
			logfields.BuildID(o.report.BuildID),
			logfields.Outcome(string(o.report.Outcome)),
			logfields.Count(o.report.Files),
			logfields.DurationMS(float64(o.report.Duration().Milliseconds())))
		o.indicator.Stop()
	}
	return o.report
}

// log emits a record with the progress indicator paused, so spinner frames
// and log lines never interleave on the terminal.
func (o *Orchestrator) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	o.indicator.Pause()
	slog.LogAttrs(ctx, level, msg, attrs...)
	o.indicator.Resume()
}
