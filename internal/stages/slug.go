package stages

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// deaccenter strips diacritics: decompose, drop combining marks, recompose.
var deaccenter = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug rewrites the page name into a URL-safe form so later write stages
// produce portable output paths. A name that slugs down to nothing keeps
// its previous value.
func Slug(map[string]any) (pipeline.Func, error) {
	return func(_ context.Context, _ *config.Project, f *pipeline.File, acc any) (any, error) {
		page, err := pageFor(acc, f)
		if err != nil {
			return nil, err
		}
		if s := Slugify(page.Name); s != "" {
			page.Name = s
		}
		return page, nil
	}, nil
}

// Slugify lowercases s, strips diacritics, and collapses every other run
// of non-alphanumeric characters into a single hyphen.
func Slugify(s string) string {
	if out, _, err := transform.String(deaccenter, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)

	var b strings.Builder
	hyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
