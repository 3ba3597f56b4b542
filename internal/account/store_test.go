package account

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "accounts.toml")
	store, err := NewStore(path, opts...)
	require.NoError(t, err)
	return store
}

func TestStore_AddAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, Account{ID: "u1", Name: "Alice", Secret: "s3cret", Enabled: true}))
	require.NoError(t, store.Add(ctx, Account{ID: "u2", Name: "Bob", Secret: "hunter2", Enabled: false}))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u1", all[0].ID)
	assert.Equal(t, "Alice", all[0].Name)
	assert.Equal(t, "s3cret", all[0].Secret)
	assert.True(t, all[0].Enabled)
	assert.Equal(t, "u2", all[1].ID)
	assert.False(t, all[1].Enabled)
}

func TestStore_ListEnabled_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, Account{ID: "a", Secret: "x", Enabled: true}))
	require.NoError(t, store.Add(ctx, Account{ID: "b", Secret: "y", Enabled: false}))
	require.NoError(t, store.Add(ctx, Account{ID: "c", Secret: "z", Enabled: true}))

	enabled, err := store.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	assert.Equal(t, "a", enabled[0].ID)
	assert.Equal(t, "c", enabled[1].ID)
}

func TestStore_Add_DuplicateID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, Account{ID: "u1", Secret: "x"}))

	err := store.Add(ctx, Account{ID: "u1", Secret: "y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "add", storeErr.Operation)
	assert.Equal(t, "u1", storeErr.ID)
}

func TestStore_Add_EmptyID(t *testing.T) {
	store := newTestStore(t)
	assert.ErrorIs(t, store.Add(context.Background(), Account{Secret: "x"}), ErrEmptyID)
}

func TestStore_SetEnabledAndRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, Account{ID: "u1", Secret: "x", Enabled: true}))

	require.NoError(t, store.SetEnabled(ctx, "u1", false))
	enabled, err := store.ListEnabled(ctx)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	assert.ErrorIs(t, store.SetEnabled(ctx, "ghost", true), ErrNotFound)

	require.NoError(t, store.Remove(ctx, "u1"))
	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, store.Remove(ctx, "u1"), ErrNotFound)
}

func TestStore_SecretsNotPlaintextOnDisk(t *testing.T) {
	ctx := context.Background()
	key, err := GenerateKey()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "accounts.toml")
	store, err := NewStore(path, WithKey(key))
	require.NoError(t, err)

	const secret = "very-secret-password"
	require.NoError(t, store.Add(ctx, Account{ID: "u1", Secret: secret, Enabled: true}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), secret)

	// A fresh store with the same key can still read it back.
	reopened, err := NewStore(path, WithKey(key))
	require.NoError(t, err)
	all, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, secret, all[0].Secret)
}

func TestStore_NoKeyStillObfuscates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.toml")
	store, err := NewStore(path)
	require.NoError(t, err)

	const secret = "plaintext-password"
	require.NoError(t, store.Add(ctx, Account{ID: "u1", Secret: secret}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), secret)
}

func TestWithKey_Invalid(t *testing.T) {
	_, err := NewStore("unused.toml", WithKey("not-base64!!"))
	assert.ErrorIs(t, err, ErrBadKey)

	short := base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = NewStore("unused.toml", WithKey(short))
	assert.ErrorIs(t, err, ErrBadKey)
}

func TestStore_UnsupportedSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)

	_, err = store.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported accounts schema version")
}
