package config

import "path/filepath"

// applyDefaults fills unset fields after unmarshalling and before
// validation, so every consumer sees a fully populated project.
func (p *Project) applyDefaults() {
	if p.Site.Title == "" {
		p.Site.Title = "Untitled Site"
	}
	if p.Output.Dir == "" {
		p.Output.Dir = "dist"
	}
	if p.Watch.Debounce == "" {
		p.Watch.Debounce = "300ms"
	}
	if p.History.Path == "" {
		p.History.Path = filepath.Join(".sitebuilder", "history.db")
	}
	if p.Notify.URL != "" && p.Notify.Subject == "" {
		p.Notify.Subject = "sitebuilder.builds"
	}

	for i := range p.Build.Folders {
		p.Build.Folders[i].applyDefaults()
	}
	if p.Build.Root != nil {
		p.Build.Root.applyDefaults()
	}
}

func (f *FolderSpec) applyDefaults() {
	if f.Traversal == "" {
		f.Traversal = TraversalFlat
	}
}
