// Package scaffold creates new sitebuilder projects: the example
// configuration, the directory skeleton with sample content, or a clone
// of a starter repository.
package scaffold

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// ConfigFileName is the default project configuration file.
const ConfigFileName = "sitebuilder.yaml"

// Options configures one init run.
type Options struct {
	Dir     string // target project directory
	Force   bool   // overwrite an existing configuration
	Site    config.SiteConfig
	Starter string // git URL; when set, clone instead of generating
	Branch  string // starter branch, default branch when empty
}

// Run creates a project in opts.Dir. With a starter URL it clones;
// otherwise it writes the example configuration and a content skeleton.
func Run(ctx context.Context, opts Options) error {
	if opts.Starter != "" {
		return cloneStarter(ctx, opts)
	}
	return generate(opts)
}

func generate(opts Options) error {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}

	cfgPath := filepath.Join(opts.Dir, ConfigFileName)
	if err := config.InitSite(cfgPath, opts.Site, opts.Force); err != nil {
		return err
	}

	for _, dir := range []string{
		filepath.Join("content", "posts"),
		filepath.Join("content", "pages"),
		"static",
		"layouts",
	} {
		if err := os.MkdirAll(filepath.Join(opts.Dir, dir), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	files, err := sampleFiles(opts.Site)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := writeIfAbsent(filepath.Join(opts.Dir, f.path), f.data, opts.Force); err != nil {
			return err
		}
	}

	slog.Info("project created",
		logfields.Path(opts.Dir),
		slog.String("config", ConfigFileName))
	return nil
}

type sampleFile struct {
	path string
	data []byte
}

// sampleFiles returns the seed content referenced by the example
// configuration: one post, one root page, a layout, a stylesheet, and a
// .gitignore covering build products.
func sampleFiles(site config.SiteConfig) ([]sampleFile, error) {
	title := site.Title
	if title == "" {
		title = "My Site"
	}

	post, err := frontmatter.Compose(map[string]any{
		"title": "Hello World",
		"date":  time.Now().Format("2006-01-02"),
	}, []byte("# Hello World\n\nThis post was created by `sitebuilder init`.\nEdit it, add more Markdown files next to it, and run `sitebuilder build`.\n"))
	if err != nil {
		return nil, fmt.Errorf("compose sample post: %w", err)
	}

	index, err := frontmatter.Compose(map[string]any{
		"title": title,
	}, []byte(fmt.Sprintf("# %s\n\nWelcome. Start the preview with `sitebuilder watch` and edit away.\n", title)))
	if err != nil {
		return nil, fmt.Errorf("compose index page: %w", err)
	}

	return []sampleFile{
		{filepath.Join("content", "posts", "hello-world.md"), post},
		{filepath.Join("content", "pages", "index.md"), index},
		{filepath.Join("layouts", "page.html"), []byte(sampleLayout)},
		{filepath.Join("static", "style.css"), []byte(sampleStylesheet)},
		{".gitignore", []byte(sampleGitignore)},
	}, nil
}

const sampleLayout = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} | {{.Site.Title}}</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body>
  <header><a href="/html/index.html">{{.Site.Title}}</a></header>
  <main>{{.Content}}</main>
</body>
</html>
`

const sampleStylesheet = `body {
  max-width: 42rem;
  margin: 2rem auto;
  padding: 0 1rem;
  font-family: system-ui, sans-serif;
  line-height: 1.6;
}
`

const sampleGitignore = `dist/
.sitebuilder/
.env.local
`

// writeIfAbsent seeds a file, leaving existing content alone unless force
// is set. The configuration file is the overwrite guard; skeleton files
// just fill gaps.
func writeIfAbsent(path string, data []byte, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		slog.Debug("keeping existing file", logfields.Path(path))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
