package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/comalice/markupx"
)

// procFunc adapts a function to the Processor interface for tests.
type procFunc func(ctx context.Context, ec *markupx.ExecutionContext) error

func (f procFunc) Process(ctx context.Context, ec *markupx.ExecutionContext) error {
	return f(ctx, ec)
}

func factoryOf(f procFunc) ProcessorFactory {
	return func() Processor { return f }
}

func TestRenderPassthrough(t *testing.T) {
	r := New(Config{})

	src := `<div class="wrap">hi <em>there</em></div>`
	out, err := r.Render(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if out != src {
		t.Errorf("passthrough should reproduce the source\nwant %q\ngot  %q", src, out)
	}
}

func TestRenderVoidAndSelfClosing(t *testing.T) {
	r := New(Config{})

	out, err := r.Render(context.Background(), strings.NewReader(`<p>a<br>b</p><widget x="1"/>`))
	if err != nil {
		t.Fatal(err)
	}
	want := `<p>a<br>b</p><widget x="1"/>`
	if out != want {
		t.Errorf("want %q, got %q", want, out)
	}
}

func TestRenderTransformContent(t *testing.T) {
	reg := NewRegistry().Register("em", TransformContent(strings.ToUpper))
	r := New(Config{Registry: reg})

	out, err := r.Render(context.Background(), strings.NewReader(`<p>so <em>loud</em></p>`))
	if err != nil {
		t.Fatal(err)
	}
	want := `<p>so <em>LOUD</em></p>`
	if out != want {
		t.Errorf("want %q, got %q", want, out)
	}
}

func TestRenderChildContentMemoizedAcrossProcessors(t *testing.T) {
	childRenders := 0
	reg := NewRegistry().
		Register("span", factoryOf(func(ctx context.Context, ec *markupx.ExecutionContext) error {
			childRenders++
			return nil
		})).
		// Two resolving processors on the same element: the subtree still
		// renders once.
		Register("div", TransformContent(strings.ToUpper)).
		Register("div", TransformContent(strings.TrimSpace))
	r := New(Config{Registry: reg})

	out, err := r.Render(context.Background(), strings.NewReader(`<div> <span>x</span> </div>`))
	if err != nil {
		t.Fatal(err)
	}
	if childRenders != 1 {
		t.Errorf("child subtree must render exactly once, rendered %d times", childRenders)
	}
	// Both transforms read the same cached child text; the second one's
	// output wins the slot.
	want := `<div><span>x</span></div>`
	if out != want {
		t.Errorf("want %q, got %q", want, out)
	}
}

func TestRenderInheritedStateFlowsDown(t *testing.T) {
	var got any
	reg := NewRegistry().
		Register("section", SetItems(map[string]any{"user": "ada"})).
		Register("widget", ExprAttributes()).
		Register("widget", factoryOf(func(ctx context.Context, ec *markupx.ExecutionContext) error {
			got, _ = ec.Attribute("label")
			return nil
		}))
	r := New(Config{Registry: reg})

	_, err := r.Render(context.Background(), strings.NewReader(`<section><widget :label="user"/></section>`))
	if err != nil {
		t.Fatal(err)
	}
	if got != "ada" {
		t.Errorf("expected bound attribute from inherited state, got %v", got)
	}
}

func TestRenderInheritedStateIsolatedBetweenSiblings(t *testing.T) {
	var second any
	reg := NewRegistry().
		Register("a", factoryOf(func(ctx context.Context, ec *markupx.ExecutionContext) error {
			ec.Items().Set("k", "from-a")
			return nil
		})).
		Register("b", factoryOf(func(ctx context.Context, ec *markupx.ExecutionContext) error {
			second, _ = ec.Items().Get("k")
			return nil
		}))
	r := New(Config{Registry: reg})

	_, err := r.Render(context.Background(), strings.NewReader(`<div><a>1</a><b>2</b></div>`))
	if err != nil {
		t.Fatal(err)
	}
	if second != nil {
		t.Errorf("sibling must not see the other sibling's items, got %v", second)
	}
}

func TestRenderDuplicateAttributeAborts(t *testing.T) {
	r := New(Config{})

	_, err := r.Render(context.Background(), strings.NewReader(`<p class="a" class="b">x</p>`))
	var dup *markupx.DuplicateAttributeError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateAttributeError, got %v", err)
	}
	if dup.Tag != "p" {
		t.Errorf("unexpected tag in error: %+v", dup)
	}
}

func TestRenderProcessorFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry().Register("p", factoryOf(func(ctx context.Context, ec *markupx.ExecutionContext) error {
		return boom
	}))
	r := New(Config{Registry: reg})

	_, err := r.Render(context.Background(), strings.NewReader(`<div><p>x</p></div>`))
	if !errors.Is(err, boom) {
		t.Errorf("processor failure should propagate, got %v", err)
	}
}

func TestRenderTooDeep(t *testing.T) {
	r := New(Config{MaxDepth: 2})

	_, err := r.Render(context.Background(), strings.NewReader(`<a><b><c>x</c></b></a>`))
	if !errors.Is(err, ErrTooDeep) {
		t.Errorf("expected ErrTooDeep, got %v", err)
	}
}

type recordingPublisher struct {
	events []ScopeEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, ev ScopeEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func TestRenderPublishesBalancedScopeEvents(t *testing.T) {
	pub := &recordingPublisher{}
	r := New(Config{Publisher: pub})

	_, err := r.Render(context.Background(), strings.NewReader(`<div><p>x</p></div>`))
	if err != nil {
		t.Fatal(err)
	}

	if len(pub.events) != 4 {
		t.Fatalf("expected 4 events (2 begin, 2 end), got %d: %+v", len(pub.events), pub.events)
	}
	// Document order: div begins, p begins, p ends, div ends.
	want := []string{"begin/div", "begin/p", "end/p", "end/div"}
	for i, ev := range pub.events {
		got := ev.Op + "/" + ev.TagName
		if got != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got)
		}
	}
}

func TestRenderTraceSnapshot(t *testing.T) {
	r := New(Config{Trace: true})

	_, err := r.Render(context.Background(), strings.NewReader(`<div><p id="x">hi</p></div>`))
	if err != nil {
		t.Fatal(err)
	}

	snap := r.Snapshot()
	if snap == nil {
		t.Fatal("expected a snapshot with tracing enabled")
	}
	if err := snap.Validate(); err != nil {
		t.Errorf("snapshot should validate: %v", err)
	}
	if len(snap.Elements) != 2 {
		t.Fatalf("expected 2 element records, got %d", len(snap.Elements))
	}
	// Completion order: p closes before div.
	if snap.Elements[0].Tag != "p" || snap.Elements[1].Tag != "div" {
		t.Errorf("unexpected element order: %+v", snap.Elements)
	}
	if snap.Elements[0].Attrs["id"] != "x" {
		t.Errorf("attributes missing from record: %+v", snap.Elements[0])
	}
}

func TestRenderTextEscaped(t *testing.T) {
	r := New(Config{})

	out, err := r.Render(context.Background(), strings.NewReader(`<p>a &amp; b</p>`))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "a &amp; b") {
		t.Errorf("entity should survive the round trip, got %q", out)
	}
}

func TestRendererSequentialReuse(t *testing.T) {
	r := New(Config{})

	for i := 0; i < 3; i++ {
		out, err := r.Render(context.Background(), strings.NewReader(`<p>x</p>`))
		if err != nil {
			t.Fatalf("render %d failed: %v", i, err)
		}
		if out != `<p>x</p>` {
			t.Errorf("render %d: unexpected output %q", i, out)
		}
	}
}
