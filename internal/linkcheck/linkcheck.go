// Package linkcheck verifies that internal links in a built output tree
// resolve to files on disk.
package linkcheck

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Broken is one link whose target does not exist in the output tree.
type Broken struct {
	Page   string // page containing the link, relative to the output root
	URL    string // raw link as written
	Target string // resolved path that was checked, relative to the output root
	Tag    string
}

func (b Broken) String() string {
	return fmt.Sprintf("%s: <%s> %s -> %s", b.Page, b.Tag, b.URL, b.Target)
}

// Result summarizes one verification run.
type Result struct {
	Pages  int // .html files scanned
	Links  int // internal links checked
	Broken []Broken
}

// OK reports whether every checked link resolved.
func (r *Result) OK() bool { return len(r.Broken) == 0 }

// Run walks the output tree under root and checks every internal link in
// every .html page against the filesystem. External links, anchors, and
// special protocols are left alone.
func Run(ctx context.Context, root string) (*Result, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("output root: %w", err)
	}

	result := &Result{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		return checkPage(root, p, result)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("link check finished",
		slog.Int("pages", result.Pages),
		slog.Int("links", result.Links),
		slog.Int("broken", len(result.Broken)))
	return result, nil
}

func checkPage(root, page string, result *Result) error {
	rel, err := filepath.Rel(root, page)
	if err != nil {
		return err
	}

	f, err := os.Open(page)
	if err != nil {
		return fmt.Errorf("open %s: %w", rel, err)
	}
	links, err := ExtractLinks(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", rel, err)
	}

	result.Pages++
	for _, link := range links {
		urlPath, ok := checkable(link.URL)
		if !ok {
			continue
		}
		result.Links++

		target := resolve(root, filepath.Dir(page), urlPath)
		if targetExists(target) {
			continue
		}

		relTarget, relErr := filepath.Rel(root, target)
		if relErr != nil {
			relTarget = target
		}
		broken := Broken{Page: filepath.ToSlash(rel), URL: link.URL, Target: filepath.ToSlash(relTarget), Tag: link.Tag}
		result.Broken = append(result.Broken, broken)
		slog.Warn("broken link",
			logfields.File(broken.Page),
			logfields.URL(link.URL),
			slog.String("target", broken.Target))
	}
	return nil
}

// resolve maps a link path to a filesystem path: site-absolute paths
// resolve against the output root, relative ones against the page's
// directory.
func resolve(root, pageDir, urlPath string) string {
	cleaned := path.Clean(urlPath)
	if path.IsAbs(cleaned) {
		return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/")))
	}
	return filepath.Join(pageDir, filepath.FromSlash(cleaned))
}

// targetExists accepts a plain file, or a directory served via its
// index.html.
func targetExists(target string) bool {
	info, err := os.Stat(target)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = os.Stat(filepath.Join(target, "index.html"))
	return err == nil
}
