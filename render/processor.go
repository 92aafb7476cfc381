package render

import (
	"context"
	"strings"

	"github.com/comalice/markupx"
)

// Processor is one unit of per-element behavior. Process runs after the
// element's raw attributes are recorded and before its output is emitted.
type Processor interface {
	Process(ctx context.Context, ec *markupx.ExecutionContext) error
}

// ProcessorFactory creates a fresh processor instance for one element visit.
// Factories keep processors stateless across elements while letting shared
// machinery (like a compiled-expression cache) live in the factory's closure.
type ProcessorFactory func() Processor

// Registry maps element tag names, case-insensitively, to the processor
// factories bound to them. Registration order per tag is preserved and
// becomes the processors' bind order on each matching element.
type Registry struct {
	factories map[string][]ProcessorFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string][]ProcessorFactory)}
}

// Register binds a factory to a tag name and returns the registry for
// chaining.
func (r *Registry) Register(tag string, f ProcessorFactory) *Registry {
	folded := strings.ToLower(tag)
	r.factories[folded] = append(r.factories[folded], f)
	return r
}

// For returns the factories bound to a tag, in registration order.
func (r *Registry) For(tag string) []ProcessorFactory {
	return r.factories[strings.ToLower(tag)]
}
