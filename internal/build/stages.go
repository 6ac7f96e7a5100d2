package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/discover"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
	"git.home.luguber.info/inful/sitebuilder/internal/workspace"
)

// stageValidateSources checks that every configured source directory exists.
// All entries are checked so one error names every missing directory, and
// the stage runs before any output directory is created: a failed
// validation leaves the output tree untouched.
func (o *Orchestrator) stageValidateSources(ctx context.Context) error {
	var missing []string
	for _, key := range sortedKeys(o.project.Build.SourceDirs) {
		path, _ := o.project.SourcePath(key)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			missing = append(missing, fmt.Sprintf("%s (%s)", key, path))
		}
	}
	if len(missing) > 0 {
		return newFatalStageError(StageValidateSources, IssueMissingSourceDir,
			fmt.Errorf("%w: %s", ErrMissingSourceDir, strings.Join(missing, ", ")))
	}
	return nil
}

// stagePrepareOutput materializes the output layout: the primary output
// root first, optionally cleaned, then every named out_dirs entry with its
// parents. Existing directories are successes, so setup is idempotent.
func (o *Orchestrator) stagePrepareOutput(ctx context.Context) error {
	root := o.project.OutputRoot()
	if err := workspace.Ensure(root, true); err != nil {
		return newFatalStageError(StagePrepareOutput, IssueOutputDirFailure, err)
	}
	if o.project.Output.Clean {
		if err := workspace.Clean(root); err != nil {
			return newFatalStageError(StagePrepareOutput, IssueOutputDirFailure, err)
		}
	}

	for _, key := range sortedKeys(o.project.Build.OutDirs) {
		path, _ := o.project.OutPath(key)
		if err := workspace.Ensure(path, true); err != nil {
			return newFatalStageError(StagePrepareOutput, IssueOutputDirFailure,
				fmt.Errorf("out_dirs.%s: %w", key, err))
		}
	}
	return nil
}

// stageBuildFolders processes every folder group strictly in declared
// order; a group is fully processed before the next begins.
func (o *Orchestrator) stageBuildFolders(ctx context.Context) error {
	for _, plan := range o.plans {
		if err := o.runFolder(ctx, StageBuildFolders, plan); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) stageRootGroup(ctx context.Context) error {
	return o.runFolder(ctx, StageRootGroup, *o.rootPlan)
}

// runFolder discovers the group's files and runs each through the compiled
// pipeline, in discovery order. Files are independent: a failing file is
// recorded and the next one still runs. Only context cancellation aborts.
func (o *Orchestrator) runFolder(ctx context.Context, stage StageName, plan pipeline.Plan) error {
	o.indicator.Start("building " + plan.Folder)

	for _, entry := range plan.Invalid() {
		o.log(ctx, slog.LevelWarn, "skipping invalid pipeline stage",
			logfields.Folder(plan.Folder),
			logfields.Stage(entry.Name),
			slog.String("reason", entry.Reason))
		o.report.AddIssue(Issue{
			Code:     IssueInvalidPipelineStage,
			Stage:    stage,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("stage %q: %s", entry.Name, entry.Reason),
			Folder:   plan.Folder,
		})
	}

	sourceDir, ok := o.project.SourcePath(plan.Spec.Source)
	if !ok {
		return newFatalStageError(stage, IssueMissingSourceDir,
			fmt.Errorf("%w: %s", ErrMissingSourceDir, plan.Spec.Source))
	}

	files, err := discover.List(sourceDir, plan.Spec.Recursive())
	if err != nil {
		return newFatalStageError(stage, IssueDiscoveryFailure, err)
	}

	o.log(ctx, slog.LevelInfo, "building folder",
		logfields.Folder(plan.Folder),
		logfields.Path(sourceDir),
		logfields.Count(len(files)))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(stage, err)
		}

		file, err := pipeline.NewFile(plan.Folder, sourceDir, path)
		if err != nil {
			o.fileFailed(ctx, stage, plan.Folder, path, err)
			continue
		}

		if _, err := pipeline.RunFile(ctx, o.project, plan, file); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return newCanceledStageError(stage, err)
			}
			o.fileFailed(ctx, stage, plan.Folder, file.Rel, err)
			continue
		}

		o.report.Files++
		o.recorder.IncFileResult(plan.Folder, true)
	}
	return nil
}

// fileFailed records a per-file pipeline failure. The file is isolated: the
// build continues with the next file and the outcome degrades to warning.
func (o *Orchestrator) fileFailed(ctx context.Context, stage StageName, folder, file string, err error) {
	o.report.Files++
	o.report.FilesFailed++
	o.recorder.IncFileResult(folder, false)
	o.log(ctx, slog.LevelWarn, "file pipeline failed",
		logfields.Folder(folder),
		logfields.File(file),
		logfields.Error(err))
	o.report.AddIssue(Issue{
		Code:     IssueFilePipelineFailure,
		Stage:    stage,
		Severity: SeverityWarning,
		Message:  err.Error(),
		Folder:   folder,
		File:     file,
	})
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
