package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig points the CLI at an isolated store and quiet logging.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "autoclic.yaml")
	content := fmt.Sprintf("store:\n  path: %s\nlogging:\n  level: error\n",
		filepath.Join(dir, "accounts.toml"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := execute(t, "--config", cfgPath, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "autoclic")
}

func TestKeygenCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := execute(t, "--config", cfgPath, "keygen")
	require.NoError(t, err)
	// 32 random bytes base64-encode to 44 characters.
	assert.Len(t, out, 45) // plus trailing newline
}

func TestAccountsAddListRemove(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "--config", cfgPath, "accounts", "add",
		"--id", "u100", "--name", "Alice", "--secret", "pw")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfgPath, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "u100")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "enabled")
	assert.NotContains(t, out, "pw", "secrets never appear in listings")

	_, err = execute(t, "--config", cfgPath, "accounts", "disable", "u100")
	require.NoError(t, err)
	out, err = execute(t, "--config", cfgPath, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")

	_, err = execute(t, "--config", cfgPath, "accounts", "remove", "u100")
	require.NoError(t, err)
	out, err = execute(t, "--config", cfgPath, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no accounts stored")
}

func TestRun_RejectsUntrustedURL(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "--config", cfgPath, "run", "https://example.com/login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a trusted attendance URL")
}

func TestRun_RefusesWithoutActiveAccounts(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := execute(t, "--config", cfgPath, "run", "https://portal.example.edu/clic/checkin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active accounts")
}
