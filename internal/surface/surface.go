// Package surface abstracts the embedded browser the check-in
// orchestrator drives, and provides the Rod-backed implementation used in
// production plus a recording fake for tests.
package surface

// EventKind identifies a page lifecycle signal.
type EventKind int

const (
	// PageStarted fires when the page begins loading a document.
	PageStarted EventKind = iota
	// PageFinished fires when the document's load event has fired.
	PageFinished
)

func (k EventKind) String() string {
	switch k {
	case PageStarted:
		return "page-started"
	case PageFinished:
		return "page-finished"
	default:
		return "unknown"
	}
}

// Event is one page lifecycle signal.
type Event struct {
	Kind EventKind
	URL  string
}

// Surface is the browser the orchestrator issues commands to. It is
// exclusively owned and sequentially driven by one session at a time.
// Implementations deliver lifecycle signals on Events in occurrence
// order.
type Surface interface {
	// Load navigates the page to url.
	Load(url string) error

	// Eval evaluates fn, a JavaScript function literal, with args bound
	// as its parameters. Fire-and-forget: the evaluation result is
	// discarded, outcomes travel through functions registered with
	// Expose. Binding args instead of splicing them into fn keeps
	// credential values out of the script text.
	Eval(fn string, args ...any) error

	// Expose registers fn inside the page as window.<name>(payload).
	// The payload reaches fn as the JSON text of the single argument the
	// page passed. fn may be invoked from any goroutine.
	Expose(name string, fn func(payload string)) error

	// Events streams page lifecycle signals.
	Events() <-chan Event

	Close() error
}
