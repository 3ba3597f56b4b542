package account

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Store is a TOML-file-backed credential store. It protects secrets at
// rest (see seal.go) and is safe for concurrent use. The file is read on
// every listing so external edits are picked up between runs; the
// orchestrator itself only ever sees a one-shot snapshot via Source.
type Store struct {
	mu   sync.Mutex
	path string
	key  []byte
}

// StoreOption configures a Store.
type StoreOption func(*Store) error

// WithKey supplies the base64-encoded AES key secrets are sealed with.
// An empty string means base64-only obfuscation.
func WithKey(encoded string) StoreOption {
	return func(s *Store) error {
		if encoded == "" {
			return nil
		}
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadKey, err)
		}
		if len(key) != keyLen {
			return fmt.Errorf("%w: want %d bytes, got %d", ErrBadKey, keyLen, len(key))
		}
		s.key = key
		return nil
	}
}

// NewStore opens the store backed by the given file. The file does not
// need to exist yet; it is created on first write.
func NewStore(path string, opts ...StoreOption) (*Store, error) {
	s := &Store{path: path}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// List returns every stored account in file order, secrets unsealed.
func (s *Store) List(ctx context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

// ListEnabled returns the enabled accounts in file order. It implements
// Source.
func (s *Store) ListEnabled(ctx context.Context) ([]Account, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	enabled := make([]Account, 0, len(all))
	for _, a := range all {
		if a.Enabled {
			enabled = append(enabled, a)
		}
	}
	return enabled, nil
}

// Add appends a new account. The ID must be non-empty and unused.
func (s *Store) Add(ctx context.Context, acct Account) error {
	if acct.ID == "" {
		return &StoreError{Operation: "add", Cause: ErrEmptyID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	schema, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range schema.Accounts {
		if existing.ID == acct.ID {
			return &StoreError{Operation: "add", ID: acct.ID, Cause: ErrDuplicateID}
		}
	}

	sealed, err := seal(acct.Secret, s.key)
	if err != nil {
		return &StoreError{Operation: "add", ID: acct.ID, Cause: err}
	}
	schema.Accounts = append(schema.Accounts, accountSchema{
		ID:      acct.ID,
		Name:    acct.Name,
		Secret:  sealed,
		Enabled: acct.Enabled,
	})
	return s.save(schema)
}

// SetEnabled flips the enabled flag of an existing account.
func (s *Store) SetEnabled(ctx context.Context, id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema, err := s.load()
	if err != nil {
		return err
	}
	for i := range schema.Accounts {
		if schema.Accounts[i].ID == id {
			schema.Accounts[i].Enabled = enabled
			return s.save(schema)
		}
	}
	return &StoreError{Operation: "set-enabled", ID: id, Cause: ErrNotFound}
}

// Remove deletes an account by ID.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema, err := s.load()
	if err != nil {
		return err
	}
	for i := range schema.Accounts {
		if schema.Accounts[i].ID == id {
			schema.Accounts = append(schema.Accounts[:i], schema.Accounts[i+1:]...)
			return s.save(schema)
		}
	}
	return &StoreError{Operation: "remove", ID: id, Cause: ErrNotFound}
}

func (s *Store) list() ([]Account, error) {
	schema, err := s.load()
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(schema.Accounts))
	for _, rec := range schema.Accounts {
		secret, err := open(rec.Secret, s.key)
		if err != nil {
			return nil, &StoreError{Operation: "list", ID: rec.ID, Cause: err}
		}
		accounts = append(accounts, Account{
			ID:      rec.ID,
			Name:    rec.Name,
			Secret:  secret,
			Enabled: rec.Enabled,
		})
	}
	return accounts, nil
}

func (s *Store) load() (*fileSchema, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		schema := &fileSchema{}
		schema.applyDefaults()
		return schema, nil
	}
	if err != nil {
		return nil, &StoreError{Operation: "load", Cause: err}
	}

	var schema fileSchema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return nil, &StoreError{Operation: "load", Cause: err}
	}
	schema.applyDefaults()
	if err := schema.validateVersion(); err != nil {
		return nil, err
	}
	return &schema, nil
}

func (s *Store) save(schema *fileSchema) error {
	data, err := toml.Marshal(schema)
	if err != nil {
		return &StoreError{Operation: "save", Cause: err}
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return &StoreError{Operation: "save", Cause: err}
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return &StoreError{Operation: "save", Cause: err}
	}
	return nil
}
