package pipeline

import "errors"

// ErrUnknownStage indicates a pipeline entry naming a stage the registry
// does not provide. Compile turns it into an invalid entry instead of
// failing the load.
var ErrUnknownStage = errors.New("sitebuilder: unknown pipeline stage")
