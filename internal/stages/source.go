package stages

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// Source reads the file's bytes into a fresh page. It is the conventional
// head of a pipeline; since later builtins read the file themselves on a
// nil accumulator, it stays optional.
func Source(map[string]any) (pipeline.Func, error) {
	return func(_ context.Context, _ *config.Project, f *pipeline.File, _ any) (any, error) {
		data, err := os.ReadFile(f.Abs)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Rel, err)
		}
		return &Page{Body: data, Meta: map[string]any{}, Name: f.Base}, nil
	}, nil
}
