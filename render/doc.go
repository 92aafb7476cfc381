// Package render provides the reference rendering pipeline for the markupx
// scoping runtime.
//
// The renderer tokenizes a markup fragment with golang.org/x/net/html, walks
// the resulting element tree depth-first, and drives a markupx.ScopeManager
// with one Begin/End pair per element. Processors registered for an element's
// tag run against its execution context in registration order; they can read
// and bind attributes, write inherited state for descendants, resolve child
// content, and replace the element's output.
//
// # Example Usage
//
//	reg := render.NewRegistry().
//		Register("em", render.TransformContent(strings.ToUpper))
//	r := render.New(render.Config{Registry: reg})
//	out, err := r.Render(ctx, strings.NewReader(`<p>so <em>loud</em></p>`))
//
// A Renderer may be reused for sequential renders but not shared across
// concurrent ones: each render owns a single scope stack and sink stack.
package render
