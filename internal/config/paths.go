package config

import "path/filepath"

// resolve anchors a configured path at the project root unless it is
// already absolute.
func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.Root, path)
}

// SourcePath returns the absolute directory behind a source_dirs key.
func (p *Project) SourcePath(key string) (string, bool) {
	dir, ok := p.Build.SourceDirs[key]
	if !ok {
		return "", false
	}
	return p.resolve(dir), true
}

// OutPath returns the absolute directory behind an out_dirs key.
func (p *Project) OutPath(key string) (string, bool) {
	dir, ok := p.Build.OutDirs[key]
	if !ok {
		return "", false
	}
	return p.resolve(dir), true
}

// OutputRoot returns the absolute primary output directory.
func (p *Project) OutputRoot() string {
	return p.resolve(p.Output.Dir)
}

// HistoryPath returns the absolute location of the build history database.
func (p *Project) HistoryPath() string {
	return p.resolve(p.History.Path)
}
