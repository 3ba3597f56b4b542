package surface

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

const defaultNavTimeout = 30 * time.Second

// Rod drives a real Chromium page through go-rod.
type Rod struct {
	browser *rod.Browser
	page    *rod.Page
	events  chan Event

	mu      sync.Mutex
	lastURL string
	stops   []func() error

	navTimeout time.Duration
}

// RodOption configures a Rod surface.
type RodOption func(*rodOptions)

type rodOptions struct {
	controlURL string
	headless   bool
	navTimeout time.Duration
	hijacker   func(*rod.Hijack)
}

// WithControlURL connects to an already-running browser instead of
// launching one.
func WithControlURL(url string) RodOption {
	return func(o *rodOptions) { o.controlURL = url }
}

// WithHeadless toggles headless launch. Defaults to true.
func WithHeadless(headless bool) RodOption {
	return func(o *rodOptions) { o.headless = headless }
}

// WithNavTimeout bounds how long Load may take.
func WithNavTimeout(d time.Duration) RodOption {
	return func(o *rodOptions) { o.navTimeout = d }
}

// WithHijacker installs a request hijack handler for every request the
// page makes. Used by tests to serve recorded portal pages instead of
// hitting the network.
func WithHijacker(handler func(*rod.Hijack)) RodOption {
	return func(o *rodOptions) { o.hijacker = handler }
}

// NewRod launches (or connects to) a browser and opens the single page a
// check-in session will drive.
func NewRod(opts ...RodOption) (*Rod, error) {
	o := rodOptions{headless: true, navTimeout: defaultNavTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	controlURL := o.controlURL
	if controlURL == "" {
		var err error
		controlURL, err = launcher.New().Headless(o.headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("launching browser: %w", err)
		}
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	if o.hijacker != nil {
		router := browser.HijackRequests()
		if err := router.Add("*", "", o.hijacker); err != nil {
			_ = browser.Close()
			return nil, fmt.Errorf("installing hijacker: %w", err)
		}
		go router.Run()
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	r := &Rod{
		browser:    browser,
		page:       page,
		events:     make(chan Event, 32),
		navTimeout: o.navTimeout,
	}
	go r.pumpEvents()
	return r, nil
}

// pumpEvents forwards page lifecycle signals until the page closes.
func (r *Rod) pumpEvents() {
	r.page.EachEvent(
		func(e *proto.PageFrameStartedLoading) {
			r.emit(Event{Kind: PageStarted, URL: r.currentURL()})
		},
		func(e *proto.PageLoadEventFired) {
			r.emit(Event{Kind: PageFinished, URL: r.currentURL()})
		},
	)()
}

func (r *Rod) emit(e Event) {
	// Drop rather than block if nobody is draining anymore.
	select {
	case r.events <- e:
	default:
	}
}

func (r *Rod) currentURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastURL
}

// Load navigates the page to url, bounded by the configured timeout.
func (r *Rod) Load(url string) error {
	r.mu.Lock()
	r.lastURL = url
	r.mu.Unlock()

	if err := r.page.Timeout(r.navTimeout).Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Eval evaluates fn with args bound as its parameters. The result is
// discarded.
func (r *Rod) Eval(fn string, args ...any) error {
	if _, err := r.page.Eval(fn, args...); err != nil {
		return fmt.Errorf("evaluating script: %w", err)
	}
	return nil
}

// Expose registers fn as window.<name> inside the page. The single
// argument the page passes is forwarded to fn as JSON text.
func (r *Rod) Expose(name string, fn func(payload string)) error {
	stop, err := r.page.Expose(name, func(arg gson.JSON) (any, error) {
		fn(encodePayload(arg))
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("exposing %s: %w", name, err)
	}
	r.mu.Lock()
	r.stops = append(r.stops, stop)
	r.mu.Unlock()
	return nil
}

// encodePayload renders a binding argument as JSON text. gson.JSON's
// String method prints the decoded Go value, not JSON, so the argument
// is re-marshalled from its value.
func encodePayload(arg gson.JSON) string {
	b, err := json.Marshal(arg.Val())
	if err != nil {
		return ""
	}
	return string(b)
}

// stopBindings removes every binding registered through Expose.
func (r *Rod) stopBindings() error {
	r.mu.Lock()
	stops := r.stops
	r.stops = nil
	r.mu.Unlock()

	var firstErr error
	for _, stop := range stops {
		if err := stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Events streams page lifecycle signals.
func (r *Rod) Events() <-chan Event {
	return r.events
}

// Close tears down the bindings, the page and the browser connection.
func (r *Rod) Close() error {
	_ = r.stopBindings()
	if err := r.page.Close(); err != nil {
		_ = r.browser.Close()
		return err
	}
	return r.browser.Close()
}
