package markupx

import (
	"context"

	"github.com/comalice/markupx/internal/primitives"
)

// ChildExecutor performs the nested traversal that produces an element's
// child output. Its side effects are writes to the ambient output sink; the
// capture delegates are what observe them.
type ChildExecutor func(ctx context.Context) error

// CaptureStart redirects the ambient output sink to a fresh buffer.
type CaptureStart func()

// CaptureEnd returns the buffer's accumulated text and restores the prior
// sink.
type CaptureEnd func() string

// Attribute is a single attribute bound to an execution context. Name keeps
// the spelling used when the attribute was recorded; Value is the raw string
// for raw attributes or an arbitrary typed value for bound ones.
type Attribute struct {
	Name  string
	Value any
}

// ExecutionContext is the per-element runtime record for one markup element:
// its identity, the attributes recorded against it, copy-on-write state
// inherited from its ancestors, the processors bound to it, its output slot,
// and the machinery to run and memoize child content rendering.
//
// Contexts are created by ScopeManager.Begin, live for one element's visit,
// and are not reused across renders. All methods assume the single sequential
// call chain of one render; none are safe for concurrent use.
type ExecutionContext struct {
	tagName  string
	uniqueID string

	exec         ChildExecutor
	startCapture CaptureStart
	endCapture   CaptureEnd

	rawAttrs *primitives.FoldedMap // raw string attributes
	allAttrs *primitives.FoldedMap // superset: raw plus processor-bound values
	items    *ScopeValues

	processors []any

	output    string
	hasOutput bool

	childContent  string
	childResolved bool
}

// NewExecutionContext constructs a context for one element. If parent is
// non-nil, inherited state aliases the parent's items copy-on-write; the
// parent is never mutated through the child. Attribute maps always start
// empty regardless of parent.
func NewExecutionContext(tagName, uniqueID string, exec ChildExecutor, startCapture CaptureStart, endCapture CaptureEnd, parent *ExecutionContext) *ExecutionContext {
	ec := &ExecutionContext{
		tagName:      tagName,
		uniqueID:     uniqueID,
		exec:         exec,
		startCapture: startCapture,
		endCapture:   endCapture,
		rawAttrs:     primitives.NewFoldedMap(),
		allAttrs:     primitives.NewFoldedMap(),
	}
	if parent != nil {
		ec.items = InheritScopeValues(parent.items)
	} else {
		ec.items = NewScopeValues()
	}
	return ec
}

// TagName returns the element tag this context governs.
func (ec *ExecutionContext) TagName() string {
	return ec.tagName
}

// UniqueID returns the per-render discriminator for this element instance.
func (ec *ExecutionContext) UniqueID() string {
	return ec.uniqueID
}

// Items returns the inherited-state container. Writes are visible to this
// context and its descendants, never to ancestors.
func (ec *ExecutionContext) Items() *ScopeValues {
	return ec.items
}

// AddProcessor appends a processor to this context's chain. Processors are
// opaque to this layer and run in bind order; no deduplication is performed.
func (ec *ExecutionContext) AddProcessor(p any) {
	ec.processors = append(ec.processors, p)
}

// Processors returns a copy of the bound processor chain in bind order.
func (ec *ExecutionContext) Processors() []any {
	out := make([]any, len(ec.processors))
	copy(out, ec.processors)
	return out
}

// SetRawAttribute records a raw string attribute into both the raw and full
// attribute maps. Returns a *DuplicateAttributeError if the name is already
// present (case-insensitive) in either map, which signals a markup authoring
// error upstream.
func (ec *ExecutionContext) SetRawAttribute(name, value string) error {
	if ec.rawAttrs.Has(name) || ec.allAttrs.Has(name) {
		return &DuplicateAttributeError{Name: name, Tag: ec.tagName}
	}
	ec.rawAttrs.Set(name, value)
	ec.allAttrs.Set(name, value)
	return nil
}

// SetBoundAttribute records a processor-bound, possibly typed attribute value
// into the full attribute map only. Duplicate detection is case-insensitive
// against the full map.
func (ec *ExecutionContext) SetBoundAttribute(name string, value any) error {
	if ec.allAttrs.Has(name) {
		return &DuplicateAttributeError{Name: name, Tag: ec.tagName}
	}
	ec.allAttrs.Set(name, value)
	return nil
}

// RawAttribute retrieves a raw attribute value by case-insensitive name.
func (ec *ExecutionContext) RawAttribute(name string) (string, bool) {
	v, ok := ec.rawAttrs.Get(name)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Attribute retrieves a value from the full attribute map by case-insensitive
// name.
func (ec *ExecutionContext) Attribute(name string) (any, bool) {
	return ec.allAttrs.Get(name)
}

// RawAttributes returns all raw attributes in recording order.
func (ec *ExecutionContext) RawAttributes() []Attribute {
	return attributesOf(ec.rawAttrs)
}

// Attributes returns the full attribute set (raw plus bound) in recording
// order.
func (ec *ExecutionContext) Attributes() []Attribute {
	return attributesOf(ec.allAttrs)
}

func attributesOf(m *primitives.FoldedMap) []Attribute {
	out := make([]Attribute, 0, m.Len())
	m.Range(func(e primitives.FoldedEntry) bool {
		out = append(out, Attribute{Name: e.Name, Value: e.Value})
		return true
	})
	return out
}

// SetOutput stores the rendered result for this element, replacing any prior
// value.
func (ec *ExecutionContext) SetOutput(s string) {
	ec.output = s
	ec.hasOutput = true
}

// Output returns the rendered result slot.
func (ec *ExecutionContext) Output() string {
	return ec.output
}

// HasOutput reports whether SetOutput has been called.
func (ec *ExecutionContext) HasOutput() bool {
	return ec.hasOutput
}

// RunChildContent executes the child-content delegate without caching. Every
// call re-executes the full child subtree; use it when only the side effects
// of rendering are wanted.
func (ec *ExecutionContext) RunChildContent(ctx context.Context) error {
	return ec.exec(ctx)
}

// ResolveChildContent renders child content at most once, capturing its
// output. The first call opens the capture scope, runs the executor, closes
// the capture scope and memoizes the captured text; later calls return the
// cached text without re-execution. The capture scope is closed on every exit
// path; an executor failure propagates unwrapped and leaves the cache unset.
func (ec *ExecutionContext) ResolveChildContent(ctx context.Context) (string, error) {
	if ec.childResolved {
		return ec.childContent, nil
	}

	ec.startCapture()
	err := ec.exec(ctx)
	text := ec.endCapture()
	if err != nil {
		return "", err
	}

	ec.childContent = text
	ec.childResolved = true
	return text, nil
}

// HasResolvedChildContent reports whether ResolveChildContent has completed.
// A cached empty string still counts as resolved.
func (ec *ExecutionContext) HasResolvedChildContent() bool {
	return ec.childResolved
}
