package pipeline

import "git.home.luguber.info/inful/sitebuilder/internal/config"

// Entry is one compiled pipeline position: either a runnable stage or a
// recorded configuration problem. Invalid entries are skipped at run time
// and the accumulator passes over them unchanged.
type Entry struct {
	Name   string
	Fn     Func   // nil when the entry is invalid
	Reason string // why resolution failed, "" for valid entries
}

// Valid reports whether the entry resolved to a runnable stage.
func (e Entry) Valid() bool { return e.Fn != nil }

// Plan is one folder group compiled against a registry.
type Plan struct {
	Folder  string // group label, the folder's source key
	Spec    config.FolderSpec
	Entries []Entry
}

// Invalid returns the entries that failed to resolve, for reporting.
func (p Plan) Invalid() []Entry {
	var bad []Entry
	for _, e := range p.Entries {
		if !e.Valid() {
			bad = append(bad, e)
		}
	}
	return bad
}

// Compile resolves every folder group of the project against reg, in
// declared order. Resolution happens exactly once, here; unknown names,
// malformed entries, and failing constructors become invalid entries rather
// than errors, so one bad stage never blocks the rest of the build.
func Compile(project *config.Project, reg *Registry) []Plan {
	plans := make([]Plan, 0, len(project.Build.Folders))
	for _, folder := range project.Build.Folders {
		plans = append(plans, compileFolder(folder, reg))
	}
	return plans
}

// CompileRoot compiles the optional root group. The second return is false
// when the project declares none.
func CompileRoot(project *config.Project, reg *Registry) (Plan, bool) {
	if project.Build.Root == nil {
		return Plan{}, false
	}
	return compileFolder(*project.Build.Root, reg), true
}

func compileFolder(folder config.FolderSpec, reg *Registry) Plan {
	plan := Plan{
		Folder:  folder.Source,
		Spec:    folder,
		Entries: make([]Entry, 0, len(folder.Pipeline)),
	}
	for _, stage := range folder.Pipeline {
		plan.Entries = append(plan.Entries, compileEntry(stage, reg))
	}
	return plan
}

func compileEntry(stage config.StageSpec, reg *Registry) Entry {
	if reason := stage.Malformed(); reason != "" {
		return Entry{Name: stage.Name, Reason: reason}
	}
	if stage.Name == "" {
		return Entry{Reason: "missing stage name"}
	}

	fn, err := reg.Resolve(stage.Name, stage.Options)
	if err != nil {
		return Entry{Name: stage.Name, Reason: err.Error()}
	}
	return Entry{Name: stage.Name, Fn: fn}
}
