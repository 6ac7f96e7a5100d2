package build

import "context"

// StageName is a strongly-typed identifier for a build stage. All canonical
// stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names.
const (
	StageValidateSources StageName = "validate_sources"
	StagePrepareOutput   StageName = "prepare_output"
	StageBuildFolders    StageName = "build_folders"
	StageRootGroup       StageName = "root_group"
)

// Stage is a discrete unit of work in the build.
type Stage func(ctx context.Context) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}
