package stages

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// Page is the accumulator the builtins thread through a pipeline.
type Page struct {
	Body    []byte         // current content, transformed stage by stage
	Meta    map[string]any // parsed front matter plus stage-added fields
	Name    string         // output name without extension, defaults to the source name
	OutPath string         // path of the last written output, "" until write runs
}

// pageFor coerces whatever accumulator a stage received into a Page.
func pageFor(acc any, f *pipeline.File) (*Page, error) {
	switch v := acc.(type) {
	case *Page:
		return v, nil
	case []byte:
		return &Page{Body: v, Meta: map[string]any{}, Name: f.Base}, nil
	case string:
		return &Page{Body: []byte(v), Meta: map[string]any{}, Name: f.Base}, nil
	case nil:
		data, err := os.ReadFile(f.Abs)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Rel, err)
		}
		return &Page{Body: data, Meta: map[string]any{}, Name: f.Base}, nil
	default:
		return nil, fmt.Errorf("expected page content, got %T", acc)
	}
}
