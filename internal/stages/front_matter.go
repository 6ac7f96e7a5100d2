package stages

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// FrontMatter splits YAML front matter from the page body and merges the
// parsed fields into Page.Meta. A file without front matter passes through
// untouched; an unclosed or unparsable block fails the file.
func FrontMatter(map[string]any) (pipeline.Func, error) {
	return func(_ context.Context, _ *config.Project, f *pipeline.File, acc any) (any, error) {
		page, err := pageFor(acc, f)
		if err != nil {
			return nil, err
		}

		meta, body, found, err := frontmatter.Split(page.Body)
		if err != nil {
			return nil, fmt.Errorf("front matter in %s: %w", f.Rel, err)
		}
		if !found {
			return page, nil
		}

		fields, err := frontmatter.Parse(meta)
		if err != nil {
			return nil, fmt.Errorf("front matter in %s: %w", f.Rel, err)
		}
		for k, v := range fields {
			page.Meta[k] = v
		}
		page.Body = body
		return page, nil
	}, nil
}
