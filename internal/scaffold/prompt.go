package scaffold

import (
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// ErrAborted is returned when the user interrupts an interactive prompt.
var ErrAborted = errors.New("sitebuilder: init aborted")

// Prompter asks for project metadata during interactive init. A nil
// Prompter keeps the defaults.
type Prompter interface {
	Input(message, def string) (string, error)
}

// SurveyPrompter asks on the attached terminal.
type SurveyPrompter struct{}

func (SurveyPrompter) Input(message, def string) (string, error) {
	var out string
	prompt := &survey.Input{Message: message, Default: def}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		return "", err
	}
	return out, nil
}

// Interactive reports whether stdin is a terminal, so init knows when
// prompting is possible at all.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// AskSite fills site metadata from the prompter, seeding each question
// with the current value or its documented default.
func AskSite(p Prompter, site config.SiteConfig) (config.SiteConfig, error) {
	if p == nil {
		return site, nil
	}

	title, err := p.Input("Site title", valueOr(site.Title, "My Site"))
	if err != nil {
		return site, err
	}
	site.Title = title

	description, err := p.Input("Site description", valueOr(site.Description, "Built with sitebuilder"))
	if err != nil {
		return site, err
	}
	site.Description = description

	return site, nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
