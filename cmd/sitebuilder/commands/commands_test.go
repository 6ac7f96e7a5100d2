package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/history"
	"git.home.luguber.info/inful/sitebuilder/internal/scaffold"
)

const simpleConfig = `
build:
  source_dirs:
    posts: content/posts
  out_dirs:
    html: dist/html
  folders:
    - source: posts
      pipeline:
        - frontmatter
        - markdown
        - name: write
          options: {to: html, ext: .html}
output:
  dir: dist
`

const samplePost = `---
title: Hello
---

# Hello

First post.
`

// writeProject lays out a project directory with a configuration file and
// the given content files, and returns the directory and config path.
func writeProject(t *testing.T, cfg string, files map[string]string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sitebuilder.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir, cfgPath
}

func parseCLI(t *testing.T, args ...string) (*CLI, string) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatalf("build parser: %v", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return &cli, ctx.Command()
}

func TestCLIGrammar(t *testing.T) {
	cli, cmd := parseCLI(t, "build")
	if cmd != "build" {
		t.Fatalf("command = %q, want build", cmd)
	}
	if cli.Config != "sitebuilder.yaml" {
		t.Fatalf("default config = %q", cli.Config)
	}

	cli, _ = parseCLI(t, "build", "-o", "public", "-v")
	if cli.Build.Output != "public" || !cli.Verbose {
		t.Fatalf("build flags not applied: %+v", cli)
	}

	cli, cmd = parseCLI(t, "watch", "--port", "9000", "--no-serve")
	if cmd != "watch" {
		t.Fatalf("command = %q, want watch", cmd)
	}
	if cli.Watch.Port != 9000 || !cli.Watch.NoServe {
		t.Fatalf("watch flags not applied: %+v", cli.Watch)
	}

	cli, _ = parseCLI(t, "history", "-n", "3")
	if cli.History.Limit != 3 {
		t.Fatalf("history limit = %d, want 3", cli.History.Limit)
	}

	cli, _ = parseCLI(t, "init", "mysite", "--starter", "https://example.com/starter.git", "--branch", "dev")
	if cli.Init.Dir != "mysite" || cli.Init.Starter == "" || cli.Init.Branch != "dev" {
		t.Fatalf("init flags not applied: %+v", cli.Init)
	}
}

func TestAfterApplyLogLevels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	ctx := context.Background()

	if err := (&CLI{}).AfterApply(); err != nil {
		t.Fatalf("AfterApply: %v", err)
	}
	if !slog.Default().Enabled(ctx, slog.LevelInfo) || slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Fatal("default level should be info")
	}

	if err := (&CLI{Verbose: true}).AfterApply(); err != nil {
		t.Fatalf("AfterApply: %v", err)
	}
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Fatal("verbose should enable debug")
	}

	if err := (&CLI{Quiet: true}).AfterApply(); err != nil {
		t.Fatalf("AfterApply: %v", err)
	}
	if slog.Default().Enabled(ctx, slog.LevelInfo) || !slog.Default().Enabled(ctx, slog.LevelWarn) {
		t.Fatal("quiet should only keep warnings and errors")
	}

	// Verbose wins over quiet.
	if err := (&CLI{Quiet: true, Verbose: true}).AfterApply(); err != nil {
		t.Fatalf("AfterApply: %v", err)
	}
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Fatal("verbose should win over quiet")
	}
}

func TestBuildCmdBuildsProject(t *testing.T) {
	dir, cfgPath := writeProject(t, simpleConfig, map[string]string{
		"content/posts/hello.md": samplePost,
	})

	cmd := &BuildCmd{}
	if err := cmd.Run(&Global{}, &CLI{Config: cfgPath, NoProgress: true}); err != nil {
		t.Fatalf("build: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "dist", "html", "hello.html"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(out), "First post") {
		t.Fatalf("output missing rendered body: %q", out)
	}

	// One-shot builds do not record history unless configured.
	if _, err := os.Stat(filepath.Join(dir, ".sitebuilder", "history.db")); !os.IsNotExist(err) {
		t.Fatalf("history database should not exist, stat err = %v", err)
	}
}

func TestBuildCmdRecordsHistoryWhenEnabled(t *testing.T) {
	cfg := simpleConfig + "history:\n  enabled: true\n"
	dir, cfgPath := writeProject(t, cfg, map[string]string{
		"content/posts/hello.md": samplePost,
	})

	cmd := &BuildCmd{}
	if err := cmd.Run(&Global{}, &CLI{Config: cfgPath, NoProgress: true}); err != nil {
		t.Fatalf("build: %v", err)
	}

	store, err := history.Open(filepath.Join(dir, ".sitebuilder", "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer func() { _ = store.Close() }()

	recs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d history rows, want 1", len(recs))
	}
	if recs[0].Outcome != "success" || recs[0].Files != 1 {
		t.Fatalf("unexpected record: %+v", recs[0])
	}
}

func TestBuildCmdFailsOnMissingSourceDir(t *testing.T) {
	dir, cfgPath := writeProject(t, simpleConfig, nil) // no content directory

	cmd := &BuildCmd{}
	err := cmd.Run(&Global{}, &CLI{Config: cfgPath, NoProgress: true})
	if !errors.Is(err, build.ErrMissingSourceDir) {
		t.Fatalf("err = %v, want ErrMissingSourceDir", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist")); !os.IsNotExist(err) {
		t.Fatal("failed validation must not create output directories")
	}
}

func TestLoadProjectMissingConfig(t *testing.T) {
	_, err := loadProject(filepath.Join(t.TempDir(), "sitebuilder.yaml"))
	if !errors.Is(err, config.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

const groupedConfig = `
build:
  source_dirs:
    posts: content/posts
    assets: static
    pages: content/pages
  out_dirs:
    html: dist/html
    assets: dist/static
  folders:
    - source: posts
      traversal: recursive
      pipeline: [frontmatter]
    - source: assets
      pipeline:
        - name: copy
          options: {to: assets}
  root:
    source: pages
    pipeline: [frontmatter]
output:
  dir: dist
`

func TestDiscoverFoldersListsGroupsInOrder(t *testing.T) {
	_, cfgPath := writeProject(t, groupedConfig, map[string]string{
		"content/posts/a.md":     "a",
		"content/posts/sub/b.md": "b",
		"static/style.css":       "body {}",
		"content/pages/index.md": "home",
	})
	project, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	listings, err := discoverFolders(project, "")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("got %d listings, want 3", len(listings))
	}

	posts := listings[0]
	if posts.Source != "posts" || posts.Traversal != config.TraversalRecursive || posts.Root {
		t.Fatalf("unexpected first listing: %+v", posts)
	}
	wantPosts := []string{
		filepath.Join("content", "posts", "a.md"),
		filepath.Join("content", "posts", "sub", "b.md"),
	}
	if len(posts.Files) != 2 || posts.Files[0] != wantPosts[0] || posts.Files[1] != wantPosts[1] {
		t.Fatalf("posts files = %v, want %v", posts.Files, wantPosts)
	}

	assets := listings[1]
	if assets.Source != "assets" || assets.Traversal != config.TraversalFlat {
		t.Fatalf("unexpected second listing: %+v", assets)
	}

	pages := listings[2]
	if pages.Source != "pages" || !pages.Root {
		t.Fatalf("root group not flagged: %+v", pages)
	}
}

func TestDiscoverFoldersFilter(t *testing.T) {
	_, cfgPath := writeProject(t, groupedConfig, map[string]string{
		"content/posts/a.md":     "a",
		"static/style.css":       "body {}",
		"content/pages/index.md": "home",
	})
	project, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	listings, err := discoverFolders(project, "assets")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(listings) != 1 || listings[0].Source != "assets" {
		t.Fatalf("filter returned %+v", listings)
	}

	if _, err := discoverFolders(project, "nope"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unknown folder err = %v", err)
	}
}

func TestVerifyCmdReportsBrokenLinks(t *testing.T) {
	dir, cfgPath := writeProject(t, simpleConfig, map[string]string{
		"dist/index.html": `<html><body><a href="/about.html">about</a></body></html>`,
	})

	cmd := &VerifyCmd{}
	err := cmd.Run(&Global{}, &CLI{Config: cfgPath})
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("err = %v, want broken links", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "dist", "about.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	if err := cmd.Run(&Global{}, &CLI{Config: cfgPath}); err != nil {
		t.Fatalf("verify after fix: %v", err)
	}
}

func TestPrintHistoryTable(t *testing.T) {
	recs := []history.Record{{
		BuildID:  "0b7f6c1e-aaaa-bbbb-cccc-121212121212",
		Started:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Finished: time.Date(2026, 3, 1, 10, 0, 2, 0, time.UTC),
		Outcome:  "warning",
		Folders:  2,
		Files:    10,
		Warnings: 1,
	}}

	var buf bytes.Buffer
	printHistory(&buf, recs)
	out := buf.String()

	if !strings.Contains(out, "STARTED") || !strings.Contains(out, "OUTCOME") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "warning") || !strings.Contains(out, "2s") {
		t.Fatalf("missing row values: %q", out)
	}
	if !strings.Contains(out, "0b7f6c1e") || strings.Contains(out, "0b7f6c1e-aaaa") {
		t.Fatalf("build id not truncated: %q", out)
	}
}

func TestRunWatchInitialBuildRecordsHistory(t *testing.T) {
	dir, cfgPath := writeProject(t, simpleConfig, map[string]string{
		"content/posts/hello.md": samplePost,
	})
	project, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 1500*time.Millisecond)
	defer cancel()

	if err := RunWatch(ctx, project, watchOptions{Serve: true, Port: 0, NoProgress: true}); err != nil {
		t.Fatalf("watch: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "dist", "html", "hello.html")); err != nil {
		t.Fatalf("initial build output missing: %v", err)
	}

	// Watch mode records history by default.
	store, err := history.Open(filepath.Join(dir, ".sitebuilder", "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer func() { _ = store.Close() }()
	recs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("watch build should be recorded")
	}
}

func TestInitCmdGeneratesProject(t *testing.T) {
	dir := t.TempDir()

	cmd := &InitCmd{Dir: dir, Yes: true}
	if err := cmd.Run(&Global{}, &CLI{}); err != nil {
		t.Fatalf("init: %v", err)
	}

	project, err := config.Load(filepath.Join(dir, scaffold.ConfigFileName))
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if len(project.Build.Folders) == 0 {
		t.Fatal("generated config has no folders")
	}
}
