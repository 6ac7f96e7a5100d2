package config

import (
	"fmt"
	"os"
)

// exampleConfigFmt is rendered by Example. The output must stay loadable;
// a test feeds it back through Load.
const exampleConfigFmt = `# sitebuilder project configuration.

site:
  title: %s
  description: %s
  base_url: %s

build:
  # Named source directories, relative to this file.
  source_dirs:
    posts: content/posts
    pages: content/pages
    assets: static

  # Named output directories. Stages refer to these by key.
  out_dirs:
    html: dist/html
    assets: dist/static

  # Folder groups are processed strictly in order. Each discovered file runs
  # through the group's pipeline; a stage entry is a bare name or a
  # {name, options} mapping.
  folders:
    - source: posts
      traversal: recursive # flat (default) or recursive
      pipeline:
        - frontmatter
        - markdown
        - name: layout
          options: {template: layouts/page.html}
        - name: write
          options: {to: html, ext: .html}
    - source: assets
      pipeline:
        - name: copy
          options: {to: assets}

  # Optional group applied after all folders, for top-level pages.
  root:
    source: pages
    pipeline:
      - frontmatter
      - markdown
      - name: write
        options: {to: html, ext: .html}

output:
  dir: dist
  clean: false # empty the output root before each build

#watch:
#  debounce: 300ms
#  full_rebuild: 30m

#history:
#  enabled: true

#notify:
#  url: nats://localhost:4222
#  subject: sitebuilder.builds
`

// Example renders the example configuration. Zero-value site fields fall
// back to documented placeholders; provided values are quoted so titles
// with YAML-significant characters survive.
func Example(site SiteConfig) string {
	return fmt.Sprintf(exampleConfigFmt,
		scalarOrDefault(site.Title, "My Site"),
		scalarOrDefault(site.Description, "Built with sitebuilder"),
		scalarOrDefault(site.BaseURL, "https://example.com"))
}

func scalarOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return fmt.Sprintf("%q", v)
}

// Init writes an example configuration file. An existing file is preserved
// unless force is set.
func Init(path string, force bool) error {
	return InitSite(path, SiteConfig{}, force)
}

// InitSite writes an example configuration carrying the given site
// metadata.
func InitSite(path string, site SiteConfig, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(Example(site)), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
