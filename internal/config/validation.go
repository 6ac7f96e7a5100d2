package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks a loaded project for structural problems that would start
// a build on bad premises. Source directory existence is deliberately not
// checked here: the build validates it per invocation so watch-mode rebuilds
// always see the live filesystem.
func Validate(p *Project) error {
	v := newProjectValidator(p)
	return v.validate()
}

// projectValidator coordinates validation across the configuration domains.
type projectValidator struct {
	project *Project
}

func newProjectValidator(p *Project) *projectValidator {
	return &projectValidator{project: p}
}

func (pv *projectValidator) validate() error {
	if err := pv.validateBuild(); err != nil {
		return err
	}
	if err := pv.validateFolders(); err != nil {
		return err
	}
	if err := pv.validateWatch(); err != nil {
		return err
	}
	return nil
}

func (pv *projectValidator) validateBuild() error {
	if len(pv.project.Build.SourceDirs) == 0 {
		return errors.New("build.source_dirs must name at least one directory")
	}
	return nil
}

// validateFolders ensures every folder group points at a declared source
// directory and uses a known traversal mode. Pipeline entries are not
// resolved here; the pipeline compiler tags unknown or malformed stages
// per entry without failing the load.
func (pv *projectValidator) validateFolders() error {
	for i, folder := range pv.project.Build.Folders {
		if err := pv.validateFolder(fmt.Sprintf("build.folders[%d]", i), folder); err != nil {
			return err
		}
	}
	if pv.project.Build.Root != nil {
		if err := pv.validateFolder("build.root", *pv.project.Build.Root); err != nil {
			return err
		}
	}
	return nil
}

func (pv *projectValidator) validateFolder(at string, folder FolderSpec) error {
	if folder.Source == "" {
		return fmt.Errorf("%s: source is required", at)
	}
	if _, ok := pv.project.Build.SourceDirs[folder.Source]; !ok {
		return fmt.Errorf("%s: unknown source %q (not in build.source_dirs)", at, folder.Source)
	}
	switch folder.Traversal {
	case TraversalFlat, TraversalRecursive:
		// Valid traversal modes
	default:
		return fmt.Errorf("%s: invalid traversal %q (allowed: flat|recursive)", at, folder.Traversal)
	}
	return nil
}

func (pv *projectValidator) validateWatch() error {
	if pv.project.Watch.Debounce != "" {
		if _, err := time.ParseDuration(pv.project.Watch.Debounce); err != nil {
			return fmt.Errorf("invalid watch.debounce: %s: %w", pv.project.Watch.Debounce, err)
		}
	}
	if pv.project.Watch.FullRebuild != "" {
		if _, err := time.ParseDuration(pv.project.Watch.FullRebuild); err != nil {
			return fmt.Errorf("invalid watch.full_rebuild: %s: %w", pv.project.Watch.FullRebuild, err)
		}
	}
	return nil
}
