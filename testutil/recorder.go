// Package testutil provides recorder doubles for the child-content executor
// and capture-scope delegates, shared by the core and pipeline test suites.
package testutil

import "context"

// ExecRecorder is a ChildExecutor double that counts invocations. If Err is
// set it is returned from every call; if SideEffect is set it runs on every
// call before the error check.
type ExecRecorder struct {
	Calls      int
	Err        error
	SideEffect func()
}

// Exec satisfies the markupx.ChildExecutor signature.
func (r *ExecRecorder) Exec(ctx context.Context) error {
	r.Calls++
	if r.SideEffect != nil {
		r.SideEffect()
	}
	return r.Err
}

// CaptureRecorder is a capture-scope double that records the start/end call
// ordering and returns canned text from End.
type CaptureRecorder struct {
	Starts int
	Ends   int
	Text   string // returned by End
	Order  []string
}

// NewCaptureRecorder creates a recorder whose End returns text.
func NewCaptureRecorder(text string) *CaptureRecorder {
	return &CaptureRecorder{Text: text}
}

// Start satisfies the markupx.CaptureStart signature.
func (r *CaptureRecorder) Start() {
	r.Starts++
	r.Order = append(r.Order, "start")
}

// End satisfies the markupx.CaptureEnd signature.
func (r *CaptureRecorder) End() string {
	r.Ends++
	r.Order = append(r.Order, "end")
	return r.Text
}
