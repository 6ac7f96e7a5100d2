package stages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
	"git.home.luguber.info/inful/sitebuilder/internal/workspace"
)

// Copy byte-copies the source file into the named output directory,
// preserving its relative path. The accumulator passes through untouched,
// so asset folders can run copy as their only stage.
func Copy(opts map[string]any) (pipeline.Func, error) {
	to, err := stringOption(opts, "to", "")
	if err != nil {
		return nil, err
	}
	if to == "" {
		return nil, errors.New("to option is required")
	}

	return func(_ context.Context, project *config.Project, f *pipeline.File, acc any) (any, error) {
		base, ok := project.OutPath(to)
		if !ok {
			return nil, fmt.Errorf("out dir %q is not declared", to)
		}
		target := filepath.Join(base, f.Rel)
		if err := workspace.Ensure(filepath.Dir(target), true); err != nil {
			return nil, err
		}
		if err := copyFile(f.Abs, target); err != nil {
			return nil, fmt.Errorf("copy %s: %w", f.Rel, err)
		}
		return acc, nil
	}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
