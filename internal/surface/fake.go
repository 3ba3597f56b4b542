package surface

import "sync"

// Command is one recorded surface command.
type Command struct {
	// Op is "load" or "eval".
	Op   string
	URL  string
	Fn   string
	Args []any
}

// Fake is an in-memory Surface for tests. It records every command so
// tests can assert what the orchestrator did (and, after cancellation,
// what it did not do). Lifecycle events and bridge invocations are
// driven explicitly by the test, except that by default a Load
// immediately emits PageStarted and PageFinished.
type Fake struct {
	mu       sync.Mutex
	commands []Command
	exposed  map[string]func(string)

	events chan Event

	// AutoFinishLoad emits PageStarted/PageFinished on every Load.
	// Defaults to true via NewFake.
	AutoFinishLoad bool

	// LoadErr, when set, is returned by the next Load call.
	LoadErr error
	// EvalErr, when set, is returned by every Eval call.
	EvalErr error

	// OnEval, when set, runs on its own goroutine after each recorded
	// Eval. Tests use it to play the page's part and answer through the
	// bridge.
	OnEval func(fn string, args []any)
}

// NewFake returns a Fake that finishes page loads immediately.
func NewFake() *Fake {
	return &Fake{
		exposed:        make(map[string]func(string)),
		events:         make(chan Event, 32),
		AutoFinishLoad: true,
	}
}

func (f *Fake) Load(url string) error {
	f.mu.Lock()
	f.commands = append(f.commands, Command{Op: "load", URL: url})
	loadErr := f.LoadErr
	f.LoadErr = nil
	auto := f.AutoFinishLoad
	f.mu.Unlock()

	if loadErr != nil {
		return loadErr
	}
	if auto {
		f.Emit(Event{Kind: PageStarted, URL: url})
		f.Emit(Event{Kind: PageFinished, URL: url})
	}
	return nil
}

func (f *Fake) Eval(fn string, args ...any) error {
	f.mu.Lock()
	f.commands = append(f.commands, Command{Op: "eval", Fn: fn, Args: args})
	evalErr := f.EvalErr
	onEval := f.OnEval
	f.mu.Unlock()

	if evalErr != nil {
		return evalErr
	}
	if onEval != nil {
		go onEval(fn, args)
	}
	return nil
}

func (f *Fake) Expose(name string, fn func(payload string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exposed[name] = fn
	return nil
}

func (f *Fake) Events() <-chan Event {
	return f.events
}

func (f *Fake) Close() error {
	return nil
}

// Emit delivers a lifecycle event as the page would.
func (f *Fake) Emit(e Event) {
	f.events <- e
}

// Invoke calls an exposed bridge function the way injected script would,
// passing payload as the JSON text of its argument. Unknown names are
// ignored, matching a page that calls a binding that was never set up.
func (f *Fake) Invoke(name, payload string) {
	f.mu.Lock()
	fn := f.exposed[name]
	f.mu.Unlock()

	if fn != nil {
		fn(payload)
	}
}

// Commands returns a copy of everything recorded so far.
func (f *Fake) Commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.commands))
	copy(out, f.commands)
	return out
}

// CountOp returns how many commands with the given op were recorded.
func (f *Fake) CountOp(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.commands {
		if c.Op == op {
			n++
		}
	}
	return n
}
