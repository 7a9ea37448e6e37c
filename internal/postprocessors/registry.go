package postprocessors

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

// BuilderFunc constructs a stage from its [pipeline.<name>] table in the
// config file. cfg is nil when the table is absent.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Registry resolves the stage names listed in pipeline.processors.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty registry. See RegisterDefaults.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

// Register binds name to builder, replacing any earlier binding.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build constructs the stage registered under name.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: pipeline stage %q (known: %v)", domain.ErrUnsupportedType, name, r.Names())
	}
	return builder(cfg)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered stage names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
