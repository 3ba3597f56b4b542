package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveAccounts: the snapshot came back empty. Reported before
	// any browser command is issued.
	ErrNoActiveAccounts = errors.New("no active accounts")
	// ErrUntrustedURL: the candidate URL did not pass the gate.
	ErrUntrustedURL = errors.New("untrusted check-in url")
	// ErrPageLoadTimeout: the attendance page never finished loading.
	ErrPageLoadTimeout = errors.New("page load timed out")
)

// RunError reports which stage of a run failed. Per-attempt problems are
// recovered internally and never surface as errors; a RunError always
// means the session itself ended abnormally.
type RunError struct {
	Stage   string
	Cause   error
	Details string
}

func (e *RunError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("check-in %s failed: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("check-in %s failed: %v - %s", e.Stage, e.Cause, e.Details)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}
