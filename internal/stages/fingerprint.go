package stages

import (
	"context"
	"log/slog"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// Fingerprint stamps a stable content fingerprint into markdown front
// matter. It operates on the full document, so it belongs before the
// frontmatter stage. Non-markdown files pass through, and a fingerprinting
// failure is logged without failing the file.
func Fingerprint(map[string]any) (pipeline.Func, error) {
	return func(_ context.Context, _ *config.Project, f *pipeline.File, acc any) (any, error) {
		page, err := pageFor(acc, f)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(f.Ext, ".md") {
			return page, nil
		}

		updated, err := mdfp.ProcessContent(string(page.Body))
		if err != nil {
			slog.Warn("content fingerprinting failed",
				logfields.File(f.Rel),
				logfields.Error(err))
			return page, nil
		}
		page.Body = []byte(updated)
		return page, nil
	}, nil
}
