package pipeline

import (
	"fmt"
	"sort"
)

// Constructor builds a stage function from its configured options. Options
// come straight from the configuration entry; constructors validate them
// once so the returned Func does no per-file option parsing.
type Constructor func(opts map[string]any) (Func, error)

// Registry is the capability object handed to Compile: it alone decides
// which stage names a project may use. Callers compose one explicitly and
// pass it down; there is no package-level registry.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register binds a name to a constructor. A later registration replaces an
// earlier one, which lets callers override builtins.
func (r *Registry) Register(name string, c Constructor) {
	r.constructors[name] = c
}

// Resolve constructs the stage behind name. Unknown names return
// ErrUnknownStage.
func (r *Registry) Resolve(name string, opts map[string]any) (Func, error) {
	c, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStage, name)
	}

	fn, err := c(opts)
	if err != nil {
		return nil, fmt.Errorf("configure stage %s: %w", name, err)
	}
	if fn == nil {
		return nil, fmt.Errorf("configure stage %s: constructor returned no function", name)
	}
	return fn, nil
}

// Names returns the registered stage names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
