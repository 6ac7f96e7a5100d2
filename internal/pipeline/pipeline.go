// Package pipeline compiles and executes the per-file stage pipelines of a
// build. A folder group's stage list is resolved against a Registry once at
// configuration load time; execution then threads an untyped accumulator
// through the resolved stages, one file at a time.
package pipeline

import (
	"context"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// Func is a pipeline stage. It receives the project, the file under build,
// and the accumulator returned by the previous stage (nil for the first),
// and returns the replacement accumulator. Whatever the final stage returns
// is the file's pipeline value; persisting output is a stage concern, never
// the caller's.
type Func func(ctx context.Context, project *config.Project, file *File, acc any) (any, error)
