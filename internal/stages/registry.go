package stages

import "git.home.luguber.info/inful/sitebuilder/internal/pipeline"

// DefaultRegistry returns a fresh registry with every builtin bound under
// its conventional name. Callers may Register over a builtin to replace
// it.
func DefaultRegistry() *pipeline.Registry {
	reg := pipeline.NewRegistry()
	reg.Register("source", Source)
	reg.Register("frontmatter", FrontMatter)
	reg.Register("fingerprint", Fingerprint)
	reg.Register("markdown", Markdown)
	reg.Register("sanitize", Sanitize)
	reg.Register("layout", Layout)
	reg.Register("slug", Slug)
	reg.Register("write", Write)
	reg.Register("copy", Copy)
	return reg
}
