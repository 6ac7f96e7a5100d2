package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Traversal selects how a folder's source directory is walked during
// discovery.
type Traversal string

const (
	// TraversalFlat lists only the immediate regular files of the source
	// directory. Default.
	TraversalFlat Traversal = "flat"
	// TraversalRecursive descends into every subdirectory.
	TraversalRecursive Traversal = "recursive"
)

// BuildConfig declares what a build processes: named source directories,
// named output directories, and the ordered folder groups connecting them.
type BuildConfig struct {
	SourceDirs map[string]string `yaml:"source_dirs"`
	OutDirs    map[string]string `yaml:"out_dirs,omitempty"`
	Folders    []FolderSpec      `yaml:"folders,omitempty"`

	// Root is an optional extra group applied after all folders have been
	// processed, typically for top-level pages.
	Root *FolderSpec `yaml:"root,omitempty"`
}

// FolderSpec is one build group: a source directory reference, a traversal
// mode, and the stage pipeline every discovered file runs through.
type FolderSpec struct {
	Source    string      `yaml:"source"`
	Traversal Traversal   `yaml:"traversal,omitempty"`
	Pipeline  []StageSpec `yaml:"pipeline,omitempty"`
}

// Recursive reports whether discovery descends into subdirectories.
func (f FolderSpec) Recursive() bool { return f.Traversal == TraversalRecursive }

// StageSpec is one entry of a folder pipeline. In YAML it is either a bare
// stage name or a mapping:
//
//	pipeline:
//	  - markdown
//	  - name: write
//	    options: {to: html, ext: .html}
type StageSpec struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`

	// malformed records why the entry could not be decoded. Such entries
	// survive loading so the pipeline compiler can report them as invalid
	// without aborting the build.
	malformed string
}

// Malformed returns the decode problem for an entry that is not a stage
// name or a {name, options} mapping, or "" when the entry is well-formed.
func (s StageSpec) Malformed() string { return s.malformed }

// UnmarshalYAML accepts the two supported entry forms. A structurally wrong
// entry is kept with its problem recorded rather than failing the load.
func (s *StageSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		s.Name = value.Value
	case yaml.MappingNode:
		var m struct {
			Name    string         `yaml:"name"`
			Options map[string]any `yaml:"options"`
		}
		if err := value.Decode(&m); err != nil {
			s.malformed = fmt.Sprintf("line %d: %v", value.Line, err)
			return nil
		}
		s.Name = m.Name
		s.Options = m.Options
	default:
		s.malformed = fmt.Sprintf("line %d: entry must be a stage name or a {name, options} mapping", value.Line)
	}
	return nil
}

// MarshalYAML emits the compact form for option-less stages.
func (s StageSpec) MarshalYAML() (any, error) {
	if len(s.Options) == 0 {
		return s.Name, nil
	}
	return struct {
		Name    string         `yaml:"name"`
		Options map[string]any `yaml:"options"`
	}{Name: s.Name, Options: s.Options}, nil
}
