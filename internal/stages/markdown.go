package stages

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// Markdown renders the page body from CommonMark (plus GFM tables,
// strikethrough, and autolinks) to HTML. The unsafe option keeps raw HTML
// blocks, which goldmark drops by default.
func Markdown(opts map[string]any) (pipeline.Func, error) {
	unsafe, err := boolOption(opts, "unsafe", false)
	if err != nil {
		return nil, err
	}

	var rendererOpts []renderer.Option
	if unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)

	return func(_ context.Context, _ *config.Project, f *pipeline.File, acc any) (any, error) {
		page, err := pageFor(acc, f)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := md.Convert(page.Body, &buf); err != nil {
			return nil, fmt.Errorf("render markdown for %s: %w", f.Rel, err)
		}
		page.Body = buf.Bytes()
		return page, nil
	}, nil
}
