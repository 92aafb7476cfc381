package markupx

import (
	"errors"
	"fmt"
)

// ErrUnbalancedScope is returned by ScopeManager.End when the stack is empty,
// i.e. End was called without a matching Begin. This indicates the caller's
// traversal is broken and the render must abort.
var ErrUnbalancedScope = errors.New("unbalanced scope: End called without matching Begin")

// DuplicateAttributeError reports an attribute recorded twice on the same
// element, compared case-insensitively. Callers match it with errors.As and
// typically surface it as a markup diagnostic.
type DuplicateAttributeError struct {
	Name string // attribute name as recorded the second time
	Tag  string // element tag name
}

func (e *DuplicateAttributeError) Error() string {
	return fmt.Sprintf("duplicate attribute %q on element <%s>", e.Name, e.Tag)
}
