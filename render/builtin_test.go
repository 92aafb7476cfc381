package render

import (
	"context"
	"strings"
	"testing"

	"github.com/comalice/markupx"
)

func TestExprAttributesBindsTypedValues(t *testing.T) {
	proc := ExprAttributes()()

	ec := markupx.NewExecutionContext("widget", "w-1", nil, nil, nil, nil)
	ec.Items().Set("count", 2)
	if err := ec.SetRawAttribute(":total", "count * 10"); err != nil {
		t.Fatal(err)
	}
	if err := ec.SetRawAttribute("class", "plain"); err != nil {
		t.Fatal(err)
	}

	if err := proc.Process(context.Background(), ec); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	v, ok := ec.Attribute("total")
	if !ok || v != 20 {
		t.Errorf("expected bound total=20, got %v (ok=%v)", v, ok)
	}
	// Non-prefixed attributes are left alone.
	if _, ok := ec.Attribute("plain"); ok {
		t.Error("plain attribute value must not be rebound")
	}
}

func TestExprAttributesBadExpression(t *testing.T) {
	proc := ExprAttributes()()

	ec := markupx.NewExecutionContext("widget", "w-1", nil, nil, nil, nil)
	if err := ec.SetRawAttribute(":x", "1 +"); err != nil {
		t.Fatal(err)
	}
	if err := proc.Process(context.Background(), ec); err == nil {
		t.Error("expected error for malformed expression")
	}
}

func TestExprAttributesSharedProgramCache(t *testing.T) {
	factory := ExprAttributes()
	a, b := factory(), factory()

	for _, proc := range []Processor{a, b} {
		ec := markupx.NewExecutionContext("widget", "", nil, nil, nil, nil)
		ec.Items().Set("n", 1)
		if err := ec.SetRawAttribute(":m", "n + 1"); err != nil {
			t.Fatal(err)
		}
		if err := proc.Process(context.Background(), ec); err != nil {
			t.Fatalf("process failed: %v", err)
		}
		if v, _ := ec.Attribute("m"); v != 2 {
			t.Errorf("expected 2, got %v", v)
		}
	}
}

func TestSetItemsVisibleToDescendants(t *testing.T) {
	proc := SetItems(map[string]any{"theme": "dark"})()

	parent := markupx.NewExecutionContext("section", "", nil, nil, nil, nil)
	if err := proc.Process(context.Background(), parent); err != nil {
		t.Fatal(err)
	}

	child := markupx.NewExecutionContext("p", "", nil, nil, nil, parent)
	if v, ok := child.Items().Get("theme"); !ok || v != "dark" {
		t.Errorf("descendant should see the entry, got %v (ok=%v)", v, ok)
	}
}

func TestTransformContentWrapsTag(t *testing.T) {
	proc := TransformContent(strings.ToUpper)()

	executed := 0
	ec := markupx.NewExecutionContext("em", "em-1",
		func(ctx context.Context) error { executed++; return nil },
		func() {},
		func() string { return "quiet" },
		nil)
	if err := ec.SetRawAttribute("class", "x"); err != nil {
		t.Fatal(err)
	}

	if err := proc.Process(context.Background(), ec); err != nil {
		t.Fatal(err)
	}

	if !ec.HasOutput() {
		t.Fatal("transform should set the output slot")
	}
	want := `<em class="x">QUIET</em>`
	if ec.Output() != want {
		t.Errorf("want %q, got %q", want, ec.Output())
	}
	if executed != 1 {
		t.Errorf("executor should run once, ran %d times", executed)
	}
}
