package markupx

// ScopeManager owns the stack of active execution contexts for one render.
// The surrounding pipeline calls Begin on element entry and End on element
// exit during a depth-first traversal, so the call pattern is balanced
// parentheses and nesting is purely a function of call order.
//
// One manager serves one render; sharing an instance across concurrent
// renders is unsupported. The manager is reusable for further Begin/End
// cycles once the stack empties.
type ScopeManager struct {
	stack []*ExecutionContext
}

// NewScopeManager creates a manager with an empty stack.
func NewScopeManager() *ScopeManager {
	return &ScopeManager{}
}

// Begin opens an execution context for an element, parenting it to whatever
// context is currently on top of the stack. The caller never supplies a
// parent reference; call order alone determines nesting. Always succeeds.
func (m *ScopeManager) Begin(tagName, uniqueID string, exec ChildExecutor, startCapture CaptureStart, endCapture CaptureEnd) *ExecutionContext {
	var parent *ExecutionContext
	if n := len(m.stack); n > 0 {
		parent = m.stack[n-1]
	}

	ec := NewExecutionContext(tagName, uniqueID, exec, startCapture, endCapture, parent)
	m.stack = append(m.stack, ec)
	return ec
}

// End closes the most recently begun context and returns the new top, i.e.
// the popped context's parent, or nil once the stack is empty. Ownership of
// the popped context transfers to the caller. Calling End on an empty stack
// returns ErrUnbalancedScope: the traversal invariant is broken and the
// render must abort.
func (m *ScopeManager) End() (*ExecutionContext, error) {
	n := len(m.stack)
	if n == 0 {
		return nil, ErrUnbalancedScope
	}

	m.stack[n-1] = nil // release the popped context
	m.stack = m.stack[:n-1]
	if n == 1 {
		return nil, nil
	}
	return m.stack[n-2], nil
}

// Current returns the context on top of the stack, or nil when no scope is
// active.
func (m *ScopeManager) Current() *ExecutionContext {
	if n := len(m.stack); n > 0 {
		return m.stack[n-1]
	}
	return nil
}

// Depth returns the number of active contexts.
func (m *ScopeManager) Depth() int {
	return len(m.stack)
}
