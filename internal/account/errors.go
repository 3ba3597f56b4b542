package account

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("account not found")
	ErrDuplicateID = errors.New("account id already exists")
	ErrEmptyID     = errors.New("account id must not be empty")
	ErrBadKey      = errors.New("invalid store key")
)

func errUnsupportedVersion(v int) error {
	return fmt.Errorf("unsupported accounts schema version %d (current %d)", v, currentSchemaVersion)
}

// StoreError provides context about which store operation failed.
type StoreError struct {
	Operation string
	ID        string
	Cause     error
}

func (e *StoreError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("account store: %s failed: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("account store: %s failed for %q: %v", e.Operation, e.ID, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
