package stages

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// testFile writes content under dir and returns its pipeline descriptor.
func testFile(t *testing.T, dir, rel, content string) *pipeline.File {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := pipeline.NewFile("posts", dir, path)
	require.NoError(t, err)
	return f
}

// testProject returns a project rooted at root with html and assets out
// dirs under dist.
func testProject(root string) *config.Project {
	return &config.Project{
		Root:   root,
		Output: config.OutputConfig{Dir: "dist"},
		Build: config.BuildConfig{
			SourceDirs: map[string]string{"posts": "content"},
			OutDirs:    map[string]string{"html": "dist/html", "assets": "dist/assets"},
		},
	}
}

func TestSource_ReadsFileIntoPage(t *testing.T) {
	f := testFile(t, t.TempDir(), "a.md", "# hello\n")
	fn, err := Source(nil)
	require.NoError(t, err)

	out, err := fn(context.Background(), nil, f, nil)
	require.NoError(t, err)
	page := out.(*Page)
	require.Equal(t, "# hello\n", string(page.Body))
	require.Equal(t, "a", page.Name)
	require.NotNil(t, page.Meta)
}

func TestFrontMatter_MergesMetaAndTrimsBody(t *testing.T) {
	f := testFile(t, t.TempDir(), "a.md", "---\ntitle: First\ndraft: false\n---\n# Hello\n")
	fn, err := FrontMatter(nil)
	require.NoError(t, err)

	// nil accumulator: the stage reads the source file itself.
	out, err := fn(context.Background(), nil, f, nil)
	require.NoError(t, err)
	page := out.(*Page)
	require.Equal(t, "First", page.Meta["title"])
	require.Equal(t, false, page.Meta["draft"])
	require.Equal(t, "# Hello\n", string(page.Body))
	require.Equal(t, "a", page.Name)
}

func TestFrontMatter_PassesThroughPlainFiles(t *testing.T) {
	f := testFile(t, t.TempDir(), "plain.md", "")
	fn, err := FrontMatter(nil)
	require.NoError(t, err)

	out, err := fn(context.Background(), nil, f, "no fences here\n")
	require.NoError(t, err)
	page := out.(*Page)
	require.Equal(t, "no fences here\n", string(page.Body))
	require.Empty(t, page.Meta)
}

func TestFrontMatter_UnclosedBlockFailsFile(t *testing.T) {
	f := testFile(t, t.TempDir(), "bad.md", "")
	fn, err := FrontMatter(nil)
	require.NoError(t, err)

	_, err = fn(context.Background(), nil, f, "---\ntitle: nope\nbody\n")
	require.ErrorIs(t, err, frontmatter.ErrUnclosed)
}

func TestStagesRejectForeignAccumulator(t *testing.T) {
	f := testFile(t, t.TempDir(), "a.md", "")
	fn, err := Markdown(nil)
	require.NoError(t, err)

	_, err = fn(context.Background(), nil, f, 42)
	require.ErrorContains(t, err, "int")
}

func TestOptionTypeMismatchFailsConstruction(t *testing.T) {
	_, err := Markdown(map[string]any{"unsafe": "yes"})
	require.ErrorContains(t, err, "unsafe")

	_, err = Write(map[string]any{"to": 7})
	require.ErrorContains(t, err, "to")
}
