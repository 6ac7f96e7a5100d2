package stages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// Layout wraps the page body in an HTML template. The template option
// names the layout file, resolved against the project directory and parsed
// once on first use. The body is exposed to the template as pre-rendered
// HTML under .Content, alongside .Site, .Title, .Meta, .Name, and .File.
func Layout(opts map[string]any) (pipeline.Func, error) {
	name, err := stringOption(opts, "template", "")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("template option is required")
	}

	var (
		once   sync.Once
		tpl    *template.Template
		tplErr error
	)
	return func(_ context.Context, project *config.Project, f *pipeline.File, acc any) (any, error) {
		page, err := pageFor(acc, f)
		if err != nil {
			return nil, err
		}

		once.Do(func() {
			path := name
			if !filepath.IsAbs(path) && project != nil {
				path = filepath.Join(project.Root, path)
			}
			tpl, tplErr = template.New(filepath.Base(path)).ParseFiles(path)
		})
		if tplErr != nil {
			return nil, fmt.Errorf("layout %s: %w", name, tplErr)
		}

		title, _ := page.Meta["title"].(string)
		if title == "" {
			title = page.Name
		}
		var site config.SiteConfig
		if project != nil {
			site = project.Site
		}

		var buf bytes.Buffer
		data := map[string]any{
			"Site":    site,
			"Title":   title,
			"Meta":    page.Meta,
			"Content": template.HTML(page.Body),
			"Name":    page.Name,
			"File":    f.Rel,
		}
		if err := tpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("layout %s for %s: %w", name, f.Rel, err)
		}
		page.Body = buf.Bytes()
		return page, nil
	}, nil
}
