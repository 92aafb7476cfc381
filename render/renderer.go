package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/comalice/markupx"
)

// ErrTooDeep is returned when element nesting exceeds Config.MaxDepth.
var ErrTooDeep = errors.New("markup nesting too deep")

// ScopeEvent describes one scope transition during a render, published to an
// optional EventPublisher for observability.
type ScopeEvent struct {
	Op       string // "begin" or "end"
	TagName  string
	UniqueID string
	Depth    int
}

// EventPublisher receives scope events as elements open and close. Publish
// failures are logged, not fatal to the render.
type EventPublisher interface {
	Publish(ctx context.Context, ev ScopeEvent) error
}

// Config configures a Renderer.
type Config struct {
	Registry  *Registry       // processor bindings; nil means no processors
	Logger    *zerolog.Logger // nil means log to stderr at warn level
	MaxDepth  int             // element nesting limit (default: 256)
	Publisher EventPublisher  // optional scope-event sink
	Trace     bool            // record a RenderSnapshot per render
}

// Renderer drives the scoping runtime over parsed markup. Reusable for
// sequential renders; not safe for concurrent use.
type Renderer struct {
	registry  *Registry
	log       zerolog.Logger
	maxDepth  int
	publisher EventPublisher
	trace     bool
	last      *RenderSnapshot
}

// New creates a Renderer, applying defaults for unset config fields.
func New(cfg Config) *Renderer {
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry()
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 256
	}
	var log zerolog.Logger
	if cfg.Logger != nil {
		log = *cfg.Logger
	} else {
		log = zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	}
	return &Renderer{
		registry:  cfg.Registry,
		log:       log,
		maxDepth:  cfg.MaxDepth,
		publisher: cfg.Publisher,
		trace:     cfg.Trace,
	}
}

// Render parses src and renders it through the scoping runtime, returning the
// produced markup.
func (r *Renderer) Render(ctx context.Context, src io.Reader) (string, error) {
	nodes, err := Parse(src)
	if err != nil {
		return "", err
	}

	root := &bytes.Buffer{}
	p := &renderPass{
		r:     r,
		mgr:   markupx.NewScopeManager(),
		sinks: []*bytes.Buffer{root},
	}

	if err := p.renderNodes(ctx, nodes, 0); err != nil {
		return "", err
	}

	if r.trace {
		snap := &RenderSnapshot{
			RenderID: ComputeRenderID(p.records),
			Elements: p.records,
		}
		r.last = snap
	}
	return root.String(), nil
}

// Snapshot returns the trace of the most recent Render, or nil when tracing
// is disabled or nothing has rendered yet.
func (r *Renderer) Snapshot() *RenderSnapshot {
	return r.last
}

// renderPass is the per-render state: one scope stack, one sink stack, one
// unique-ID counter.
type renderPass struct {
	r       *Renderer
	mgr     *markupx.ScopeManager
	sinks   []*bytes.Buffer
	nextID  int
	records []ElementRecord
}

func (p *renderPass) sink() *bytes.Buffer {
	return p.sinks[len(p.sinks)-1]
}

// pushSink redirects the ambient sink to a fresh buffer. The matching popSink
// returns the buffered text and restores the prior sink.
func (p *renderPass) pushSink() {
	p.sinks = append(p.sinks, &bytes.Buffer{})
}

func (p *renderPass) popSink() string {
	n := len(p.sinks)
	if n == 1 {
		return "" // the root sink is never popped
	}
	buf := p.sinks[n-1]
	p.sinks = p.sinks[:n-1]
	return buf.String()
}

func (p *renderPass) renderNodes(ctx context.Context, nodes []*Node, depth int) error {
	for _, n := range nodes {
		var err error
		switch n.Type {
		case TextNode:
			_, err = p.sink().WriteString(html.EscapeString(n.Text))
		case ElementNode:
			err = p.renderElement(ctx, n, depth)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *renderPass) renderElement(ctx context.Context, n *Node, depth int) error {
	if depth >= p.r.maxDepth {
		return fmt.Errorf("%w: depth %d at <%s>", ErrTooDeep, depth, n.Tag)
	}

	p.nextID++
	uid := fmt.Sprintf("%s-%d", n.Tag, p.nextID)
	exec := func(c context.Context) error {
		return p.renderNodes(c, n.Children, depth+1)
	}

	ec := p.mgr.Begin(n.Tag, uid, exec, p.pushSink, p.popSink)
	p.publish(ctx, "begin", ec)
	p.r.log.Debug().Str("tag", n.Tag).Str("id", uid).Int("depth", p.mgr.Depth()).Msg("scope_begin")

	runErr := p.runElement(ctx, n, ec)

	if _, err := p.mgr.End(); err != nil {
		return err
	}
	p.publish(ctx, "end", ec)

	if runErr != nil {
		return runErr
	}

	if p.r.trace {
		p.records = append(p.records, elementRecord(ec, depth))
	}
	return nil
}

// runElement records attributes, runs the processor chain, and emits the
// element into the current sink.
func (p *renderPass) runElement(ctx context.Context, n *Node, ec *markupx.ExecutionContext) error {
	for _, a := range n.Attr {
		if err := ec.SetRawAttribute(a.Key, a.Val); err != nil {
			p.r.log.Error().Str("tag", n.Tag).Str("attr", a.Key).Msg("duplicate_attribute")
			return err
		}
	}

	factories := p.r.registry.For(n.Tag)
	procs := make([]Processor, 0, len(factories))
	for _, f := range factories {
		proc := f()
		ec.AddProcessor(proc)
		procs = append(procs, proc)
	}
	for _, proc := range procs {
		if err := proc.Process(ctx, ec); err != nil {
			p.r.log.Error().Str("tag", n.Tag).Str("id", ec.UniqueID()).Err(err).Msg("processor_failed")
			return fmt.Errorf("process <%s>: %w", n.Tag, err)
		}
	}

	if ec.HasOutput() {
		p.sink().WriteString(ec.Output())
		return nil
	}

	// Default passthrough emission.
	writeOpenTag(p.sink(), ec, n.SelfClose)
	if n.SelfClose || voidElements[n.Tag] {
		return nil
	}
	if ec.HasResolvedChildContent() {
		text, err := ec.ResolveChildContent(ctx) // cache hit, no re-execution
		if err != nil {
			return err
		}
		p.sink().WriteString(text)
	} else if err := ec.RunChildContent(ctx); err != nil {
		return err
	}
	fmt.Fprintf(p.sink(), "</%s>", ec.TagName())
	return nil
}

func (p *renderPass) publish(ctx context.Context, op string, ec *markupx.ExecutionContext) {
	if p.r.publisher == nil {
		return
	}
	ev := ScopeEvent{Op: op, TagName: ec.TagName(), UniqueID: ec.UniqueID(), Depth: p.mgr.Depth()}
	if err := p.r.publisher.Publish(ctx, ev); err != nil {
		p.r.log.Warn().Str("op", op).Str("tag", ec.TagName()).Err(err).Msg("publish_failed")
	}
}

// writeOpenTag emits the element's start tag from its raw attributes, keeping
// recording order and original spelling.
func writeOpenTag(w *bytes.Buffer, ec *markupx.ExecutionContext, selfClose bool) {
	w.WriteByte('<')
	w.WriteString(ec.TagName())
	for _, a := range ec.RawAttributes() {
		fmt.Fprintf(w, ` %s="%s"`, a.Name, html.EscapeString(a.Value.(string)))
	}
	if selfClose {
		w.WriteString("/>")
		return
	}
	w.WriteByte('>')
}

func elementRecord(ec *markupx.ExecutionContext, depth int) ElementRecord {
	rec := ElementRecord{
		Tag:      ec.TagName(),
		UniqueID: ec.UniqueID(),
		Depth:    depth,
		Attrs:    make(map[string]string),
	}
	for _, a := range ec.RawAttributes() {
		rec.Attrs[a.Name] = a.Value.(string)
	}
	if ec.HasOutput() {
		rec.Output = ec.Output()
	}
	return rec
}
