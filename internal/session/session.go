// Package session runs one multi-account check-in against a validated
// attendance URL: it loads the page once, then fills and submits the
// login form for every enabled account in turn, with bounded waits
// between steps.
package session

import (
	"time"

	"autoclic/internal/account"
)

// Phase is an orchestrator state.
type Phase int

const (
	// Idle: no run in progress.
	Idle Phase = iota
	// PageLoading: the load command was issued, waiting for the page.
	PageLoading
	// AwaitingAttempt: waiting out the settling delay before the next
	// account's script is evaluated.
	AwaitingAttempt
	// AttemptInFlight: script evaluated, waiting for its outcome.
	AttemptInFlight
	// Advancing: outcome recorded, waiting out the post-attempt delay.
	Advancing
	// Complete: every account was attempted.
	Complete
	// Aborted: terminal; reachable from any state.
	Aborted
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case PageLoading:
		return "page-loading"
	case AwaitingAttempt:
		return "awaiting-attempt"
	case AttemptInFlight:
		return "attempt-in-flight"
	case Advancing:
		return "advancing"
	case Complete:
		return "complete"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Session is the state of one check-in run. It is owned exclusively by
// the orchestrator; Accounts is an immutable snapshot taken at session
// start. Invariant: 0 <= Cursor <= len(Accounts), with equality exactly
// when Phase is Complete.
type Session struct {
	ID        string
	TargetURL string
	Accounts  []account.Account
	Cursor    int
	Phase     Phase
}

// Timings bound every wait in a run. None of them may be unbounded; zero
// values are replaced with defaults.
type Timings struct {
	// PageLoad caps how long the initial page load may take.
	PageLoad time.Duration
	// Settle is the wait after a page finishes loading (and between
	// accounts) before a fill is attempted, giving the portal's own
	// scripts time to bind their field listeners.
	Settle time.Duration
	// PreWrite is the page-side pause between clearing the fields and
	// writing the new values.
	PreWrite time.Duration
	// PostSubmit is the wait after a submitted attempt, long enough for
	// any resulting navigation to play out.
	PostSubmit time.Duration
	// PostFailure is the wait after a failed or timed-out attempt.
	PostFailure time.Duration
	// AttemptTimeout caps how long an attempt may wait for its outcome
	// callback. An attempt that never reports is treated as failed so
	// the run always makes forward progress.
	AttemptTimeout time.Duration
}

// DefaultTimings mirrors the cadence the portal is known to tolerate.
func DefaultTimings() Timings {
	return Timings{
		PageLoad:       30 * time.Second,
		Settle:         2 * time.Second,
		PreWrite:       500 * time.Millisecond,
		PostSubmit:     3 * time.Second,
		PostFailure:    2 * time.Second,
		AttemptTimeout: 15 * time.Second,
	}
}

func (t Timings) withDefaults() Timings {
	def := DefaultTimings()
	if t.PageLoad <= 0 {
		t.PageLoad = def.PageLoad
	}
	if t.Settle <= 0 {
		t.Settle = def.Settle
	}
	if t.PreWrite <= 0 {
		t.PreWrite = def.PreWrite
	}
	if t.PostSubmit <= 0 {
		t.PostSubmit = def.PostSubmit
	}
	if t.PostFailure <= 0 {
		t.PostFailure = def.PostFailure
	}
	if t.AttemptTimeout <= 0 {
		t.AttemptTimeout = def.AttemptTimeout
	}
	return t
}

// OutcomeKind classifies how an attempt ended.
type OutcomeKind int

const (
	// OutcomeSubmitted: the client-side submit action fired. Whether the
	// portal accepted the credentials is not observable here.
	OutcomeSubmitted OutcomeKind = iota
	// OutcomeFailed: the script reported it could not complete.
	OutcomeFailed
	// OutcomeTimedOut: no callback arrived within AttemptTimeout.
	OutcomeTimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one attempt.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

// AttemptResult pairs an account with how its attempt ended.
type AttemptResult struct {
	Account account.Account
	Outcome Outcome
}

// Result summarizes a completed run.
type Result struct {
	SessionID string
	Attempted int
	Submitted int
	Failed    int
	Attempts  []AttemptResult
}
