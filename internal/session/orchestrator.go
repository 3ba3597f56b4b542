package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autoclic/internal/account"
	"autoclic/internal/gate"
	"autoclic/internal/loginscript"
	"autoclic/internal/surface"
)

// Orchestrator sequences check-in runs. One Orchestrator drives one
// Surface; runs are strictly sequential.
type Orchestrator struct {
	surf    surface.Surface
	source  account.Source
	gate    *gate.Gate
	logger  *zap.Logger
	timings Timings
	status  func(string)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithGate replaces the default URL gate.
func WithGate(g *gate.Gate) Option {
	return func(o *Orchestrator) { o.gate = g }
}

// WithTimings overrides the default delays and timeouts. Zero fields
// keep their defaults.
func WithTimings(t Timings) Option {
	return func(o *Orchestrator) { o.timings = t }
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithStatus registers an observer for the human-readable status line
// updated on every transition. Wording is informational, not a contract.
func WithStatus(fn func(string)) Option {
	return func(o *Orchestrator) { o.status = fn }
}

// New builds an Orchestrator over the given surface and account source.
func New(surf surface.Surface, source account.Source, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		surf:    surf,
		source:  source,
		gate:    gate.New(),
		logger:  zap.NewNop(),
		timings: DefaultTimings(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.timings = o.timings.withDefaults()
	return o
}

// Run executes one full session against rawURL: validate, snapshot the
// enabled accounts, load the page once, then attempt every account in
// order. Per-attempt failures are recovered internally and show up in
// the Result; a non-nil error means the session itself never completed.
// Cancelling ctx aborts the run; no surface command is issued afterward.
func (o *Orchestrator) Run(ctx context.Context, rawURL string) (*Result, error) {
	if !o.gate.Validate(rawURL) {
		return nil, &RunError{Stage: "validate", Cause: ErrUntrustedURL}
	}

	accounts, err := o.source.ListEnabled(ctx)
	if err != nil {
		return nil, &RunError{Stage: "snapshot", Cause: err}
	}
	if len(accounts) == 0 {
		o.setStatus("No active accounts. Add one before scanning.")
		return nil, &RunError{Stage: "snapshot", Cause: ErrNoActiveAccounts}
	}

	sess := &Session{
		ID:        uuid.NewString(),
		TargetURL: rawURL,
		Accounts:  accounts,
		Phase:     Idle,
	}
	o.logger.Info("session starting",
		zap.String("session", sess.ID),
		zap.Int("accounts", len(accounts)),
	)

	r := &run{
		o:       o,
		sess:    sess,
		notices: make(chan notice, 8),
		result:  &Result{SessionID: sess.ID},
	}
	if err := registerBridge(o.surf, r.notify); err != nil {
		return nil, &RunError{Stage: "bridge", Cause: err}
	}
	return r.loop(ctx)
}

func (o *Orchestrator) setStatus(s string) {
	o.logger.Debug("status", zap.String("text", s))
	if o.status != nil {
		o.status(s)
	}
}

// timerKind tags the single pending timer of a run.
type timerKind int

const (
	timerNone timerKind = iota
	timerPageLoad
	timerSettle
	timerAttemptTimeout
	timerAdvance
)

// run is the mutable state of one session's event loop. Everything in it
// is touched only by the loop goroutine; bridge notices cross over
// through the notices channel.
type run struct {
	o       *Orchestrator
	sess    *Session
	notices chan notice
	result  *Result

	// consumed marks that the current attempt's first notice (or its
	// timeout) was already honored.
	consumed bool

	timer     *time.Timer
	timerC    <-chan time.Time
	timerKind timerKind
}

// notify hands a bridge notice to the loop. Called from surface
// goroutines; never blocks, even after the loop has exited.
func (r *run) notify(n notice) {
	select {
	case r.notices <- n:
	default:
	}
}

// loop processes lifecycle events, bridge notices and timer fires in
// arrival order until the session reaches a terminal phase.
func (r *run) loop(ctx context.Context) (*Result, error) {
	defer r.stopTimer()

	o := r.o
	sess := r.sess

	if err := ctx.Err(); err != nil {
		sess.Phase = Aborted
		return nil, &RunError{Stage: "run", Cause: err}
	}

	o.setStatus("Loading attendance page...")
	sess.Phase = PageLoading
	if err := o.surf.Load(sess.TargetURL); err != nil {
		sess.Phase = Aborted
		return nil, &RunError{Stage: "load", Cause: err, Details: sess.TargetURL}
	}
	r.schedule(timerPageLoad, o.timings.PageLoad)

	for {
		select {
		case <-ctx.Done():
			r.abort()
			return nil, &RunError{Stage: "run", Cause: ctx.Err()}

		case evt := <-o.surf.Events():
			r.onPageEvent(evt)

		case n := <-r.notices:
			r.onNotice(n)

		case <-r.timerC:
			// Cancellation may be ready in the same select round; honor
			// it before the timer so no command follows it.
			if ctx.Err() != nil {
				r.abort()
				return nil, &RunError{Stage: "run", Cause: ctx.Err()}
			}
			done, err := r.onTimer()
			if err != nil {
				sess.Phase = Aborted
				return nil, err
			}
			if done {
				return r.result, nil
			}
		}
	}
}

func (r *run) onPageEvent(evt surface.Event) {
	if evt.Kind == surface.PageFinished && r.sess.Phase == PageLoading {
		r.sess.Phase = AwaitingAttempt
		r.schedule(timerSettle, r.o.timings.Settle)
		return
	}
	// Mid-session navigation (the portal redirecting after a submit)
	// changes nothing: the cadence is driven by timers and notices.
	r.o.logger.Debug("page event ignored",
		zap.Stringer("event", evt.Kind),
		zap.Stringer("phase", r.sess.Phase),
	)
}

func (r *run) onNotice(n notice) {
	if r.sess.Phase != AttemptInFlight || n.attempt != r.sess.Cursor || r.consumed {
		r.o.logger.Debug("stale bridge notice discarded",
			zap.Int("notice_attempt", n.attempt),
			zap.Int("cursor", r.sess.Cursor),
			zap.Stringer("phase", r.sess.Phase),
		)
		return
	}
	r.consumed = true

	acct := r.sess.Accounts[r.sess.Cursor]
	switch n.kind {
	case OutcomeSubmitted:
		r.o.setStatus(fmt.Sprintf("Login submitted for %s. Processing...", displayName(acct)))
		r.finishAttempt(Outcome{Kind: OutcomeSubmitted}, r.o.timings.PostSubmit)
	case OutcomeFailed:
		r.o.setStatus(fmt.Sprintf("Login failed for %s: %s. Moving on...", displayName(acct), n.reason))
		r.finishAttempt(Outcome{Kind: OutcomeFailed, Reason: n.reason}, r.o.timings.PostFailure)
	}
}

func (r *run) onTimer() (done bool, err error) {
	kind := r.timerKind
	r.timer, r.timerC, r.timerKind = nil, nil, timerNone

	switch kind {
	case timerPageLoad:
		return false, &RunError{Stage: "load", Cause: ErrPageLoadTimeout, Details: r.sess.TargetURL}

	case timerSettle:
		r.startAttempt()

	case timerAttemptTimeout:
		acct := r.sess.Accounts[r.sess.Cursor]
		r.consumed = true
		r.o.setStatus(fmt.Sprintf("No response for %s. Moving on...", displayName(acct)))
		r.finishAttempt(Outcome{Kind: OutcomeTimedOut, Reason: "no outcome callback"}, r.o.timings.PostFailure)

	case timerAdvance:
		return r.advance(), nil
	}
	return false, nil
}

// startAttempt evaluates the fill-and-submit script for the account at
// the cursor. Credentials travel as bound arguments, never inside the
// script text.
func (r *run) startAttempt() {
	sess := r.sess
	acct := sess.Accounts[sess.Cursor]

	r.o.setStatus(fmt.Sprintf("Signing in %s (%d/%d)", displayName(acct), sess.Cursor+1, len(sess.Accounts)))
	sess.Phase = AttemptInFlight
	r.consumed = false

	err := r.o.surf.Eval(loginscript.Generate(),
		acct.ID,
		acct.Secret,
		r.o.timings.PreWrite.Milliseconds(),
		sess.Cursor,
	)
	if err != nil {
		// Evaluation failure is a per-attempt problem, not a session
		// one: record it and keep sweeping.
		r.consumed = true
		r.o.logger.Warn("script evaluation failed",
			zap.String("account", acct.ID),
			zap.Error(err),
		)
		r.o.setStatus(fmt.Sprintf("Could not run login for %s. Moving on...", displayName(acct)))
		r.finishAttempt(Outcome{Kind: OutcomeFailed, Reason: "script evaluation failed"}, r.o.timings.PostFailure)
		return
	}

	r.schedule(timerAttemptTimeout, r.o.timings.AttemptTimeout)
}

func (r *run) finishAttempt(out Outcome, wait time.Duration) {
	acct := r.sess.Accounts[r.sess.Cursor]
	r.result.Attempts = append(r.result.Attempts, AttemptResult{Account: acct, Outcome: out})
	r.result.Attempted++
	if out.Kind == OutcomeSubmitted {
		r.result.Submitted++
	} else {
		r.result.Failed++
	}

	r.o.logger.Info("attempt finished",
		zap.String("session", r.sess.ID),
		zap.String("account", acct.ID),
		zap.Int("attempt", r.sess.Cursor),
		zap.Stringer("outcome", out.Kind),
		zap.String("reason", out.Reason),
	)

	r.sess.Phase = Advancing
	r.schedule(timerAdvance, wait)
}

// advance moves the cursor. Returns true when every account has been
// attempted.
func (r *run) advance() bool {
	r.sess.Cursor++
	if r.sess.Cursor == len(r.sess.Accounts) {
		r.sess.Phase = Complete
		r.o.setStatus(fmt.Sprintf("All accounts processed: %d submitted, %d failed.",
			r.result.Submitted, r.result.Failed))
		r.o.logger.Info("session complete",
			zap.String("session", r.sess.ID),
			zap.Int("submitted", r.result.Submitted),
			zap.Int("failed", r.result.Failed),
		)
		return true
	}

	r.sess.Phase = AwaitingAttempt
	r.schedule(timerSettle, r.o.timings.Settle)
	return false
}

func (r *run) abort() {
	r.stopTimer()
	r.sess.Phase = Aborted
	r.o.setStatus("Check-in cancelled.")
	r.o.logger.Info("session aborted",
		zap.String("session", r.sess.ID),
		zap.Int("attempted", r.result.Attempted),
	)
}

func (r *run) schedule(kind timerKind, d time.Duration) {
	r.stopTimer()
	r.timer = time.NewTimer(d)
	r.timerC = r.timer.C
	r.timerKind = kind
}

func (r *run) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer, r.timerC, r.timerKind = nil, nil, timerNone
}

func displayName(a account.Account) string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
