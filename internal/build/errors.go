package build

import "errors"

// Sentinel domain errors classifying the guarded build failures. They are
// always wrapped with contextual information at the call site.
var (
	// ErrInvalidProject indicates the build was started without a loaded
	// project configuration.
	ErrInvalidProject = errors.New("sitebuilder: invalid project configuration")

	// ErrMissingSourceDir indicates one or more configured source
	// directories do not exist; the message lists every missing entry.
	ErrMissingSourceDir = errors.New("sitebuilder: missing source directory")
)
