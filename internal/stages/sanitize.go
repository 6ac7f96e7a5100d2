package stages

import (
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// Sanitize filters the page body through a bluemonday HTML policy. The
// policy option selects "ugc" (default, keeps common user formatting) or
// "strict" (text only).
func Sanitize(opts map[string]any) (pipeline.Func, error) {
	name, err := stringOption(opts, "policy", "ugc")
	if err != nil {
		return nil, err
	}

	var policy *bluemonday.Policy
	switch name {
	case "ugc":
		policy = bluemonday.UGCPolicy()
	case "strict":
		policy = bluemonday.StrictPolicy()
	default:
		return nil, fmt.Errorf("policy %q: want ugc or strict", name)
	}

	return func(_ context.Context, _ *config.Project, f *pipeline.File, acc any) (any, error) {
		page, err := pageFor(acc, f)
		if err != nil {
			return nil, err
		}
		page.Body = policy.SanitizeBytes(page.Body)
		return page, nil
	}, nil
}
