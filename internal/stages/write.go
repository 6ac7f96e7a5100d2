package stages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
	"git.home.luguber.info/inful/sitebuilder/internal/workspace"
)

// Write persists the page body under the named output directory, mirroring
// the file's relative directory and using the page's (possibly slugged)
// name. Stages own persistence; the orchestrator never writes pipeline
// output itself.
//
// Options: to (required, an out_dirs key) and ext (replacement extension,
// defaults to the source extension).
func Write(opts map[string]any) (pipeline.Func, error) {
	to, err := stringOption(opts, "to", "")
	if err != nil {
		return nil, err
	}
	if to == "" {
		return nil, errors.New("to option is required")
	}
	ext, err := stringOption(opts, "ext", "")
	if err != nil {
		return nil, err
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return func(_ context.Context, project *config.Project, f *pipeline.File, acc any) (any, error) {
		page, err := pageFor(acc, f)
		if err != nil {
			return nil, err
		}

		base, ok := project.OutPath(to)
		if !ok {
			return nil, fmt.Errorf("out dir %q is not declared", to)
		}
		outExt := ext
		if outExt == "" {
			outExt = f.Ext
		}

		target := filepath.Join(base, f.Dir, page.Name+outExt)
		if err := workspace.Ensure(filepath.Dir(target), true); err != nil {
			return nil, err
		}
		if err := os.WriteFile(target, page.Body, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", target, err)
		}
		page.OutPath = target
		return page, nil
	}, nil
}
