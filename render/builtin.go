package render

import (
	"bytes"
	"context"
	"strings"

	"github.com/comalice/markupx"
	"github.com/comalice/markupx/internal/extensibility"
)

// ExprAttributes returns a factory for processors that evaluate ":"-prefixed
// raw attributes as expressions against the element's inherited state and
// record the typed results as bound attributes under the bare name. All
// processors from one factory share a compiled-program cache.
func ExprAttributes() ProcessorFactory {
	binder := extensibility.NewExprBinder()
	return func() Processor {
		return &exprProcessor{binder: binder}
	}
}

type exprProcessor struct {
	binder *extensibility.ExprBinder
}

func (p *exprProcessor) Process(ctx context.Context, ec *markupx.ExecutionContext) error {
	env := ec.Items().Snapshot()
	for _, a := range ec.RawAttributes() {
		if !strings.HasPrefix(a.Name, ":") {
			continue
		}
		val, err := p.binder.Eval(a.Value.(string), env)
		if err != nil {
			return err
		}
		if err := ec.SetBoundAttribute(strings.TrimPrefix(a.Name, ":"), val); err != nil {
			return err
		}
	}
	return nil
}

// SetItems returns a factory for processors that write fixed entries into the
// element's inherited state, making them visible to every descendant element
// but not to ancestors or siblings.
func SetItems(entries map[string]any) ProcessorFactory {
	return func() Processor {
		return &setItemsProcessor{entries: entries}
	}
}

type setItemsProcessor struct {
	entries map[string]any
}

func (p *setItemsProcessor) Process(ctx context.Context, ec *markupx.ExecutionContext) error {
	for k, v := range p.entries {
		ec.Items().Set(k, v)
	}
	return nil
}

// TransformContent returns a factory for processors that resolve the
// element's child content once and re-emit the element with fn applied to the
// captured text. Child content is memoized, so stacking transforms on one
// element never re-renders the subtree.
func TransformContent(fn func(string) string) ProcessorFactory {
	return func() Processor {
		return &transformProcessor{fn: fn}
	}
}

type transformProcessor struct {
	fn func(string) string
}

func (p *transformProcessor) Process(ctx context.Context, ec *markupx.ExecutionContext) error {
	text, err := ec.ResolveChildContent(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writeOpenTag(&buf, ec, false)
	buf.WriteString(p.fn(text))
	buf.WriteString("</" + ec.TagName() + ">")
	ec.SetOutput(buf.String())
	return nil
}
