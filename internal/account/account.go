// Package account holds stored portal credentials and the file-backed
// store that manages them.
package account

import "context"

// Account is one stored portal credential.
type Account struct {
	// ID is the portal login identifier. Unique within the store.
	ID string
	// Name is the display name used in status output.
	Name string
	// Secret is the portal password, in the clear. It is only sealed at
	// rest inside the store file.
	Secret string
	// Enabled marks the account for inclusion in check-in runs.
	Enabled bool
}

// Source yields the accounts a check-in run should attempt, in store
// order. The orchestrator calls it exactly once per session and works on
// the returned snapshot; edits made to the store mid-run are not seen.
type Source interface {
	ListEnabled(ctx context.Context) ([]Account, error)
}
