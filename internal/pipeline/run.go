package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// RunFile threads one file through the plan's stages, strictly in order.
// The accumulator starts absent (nil) and is replaced by each stage's
// return value. Invalid entries are skipped, leaving the accumulator
// untouched. The final value is returned to the caller, which may ignore
// it; stages own any persistence.
//
// A stage error stops the file's remaining stages and is returned wrapped
// with the stage and file. Context cancellation surfaces as ctx.Err() so
// callers can tell an aborted build from a failed file.
func RunFile(ctx context.Context, project *config.Project, plan Plan, file *File) (any, error) {
	var acc any
	for _, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return acc, err
		}

		if !entry.Valid() {
			slog.Debug("skipping invalid pipeline stage",
				logfields.Folder(plan.Folder),
				logfields.Stage(entry.Name),
				slog.String("reason", entry.Reason))
			continue
		}

		next, err := entry.Fn(ctx, project, file, acc)
		if err != nil {
			return acc, fmt.Errorf("stage %s on %s: %w", entry.Name, file.Rel, err)
		}
		acc = next
	}
	return acc, nil
}
