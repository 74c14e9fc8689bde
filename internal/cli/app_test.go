package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/safehold-app/safehold/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:       dir,
		VaultDBPath:   "file:" + filepath.Join(dir, "vault.db"),
		KeystorePath:  filepath.Join(dir, "keystore.json"),
		UnlockSecret:  "unlock",
		IntakeBaseURL: "http://127.0.0.1:8000",
		IntakeTimeout: time.Second,
		DeviceID:      "device-1",
		TokenSecret:   "token-secret",
		EmergencyType: "detention",
	}
}

func TestNewApp_HealthyKeystore(t *testing.T) {
	app, err := NewApp(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.False(t, app.degraded)
	assert.Equal(t, "no record", app.statusLine())
	assert.True(t, app.machine.Begin(), "slider must accept input")
}

// An inaccessible keystore must be reported once, at startup, and switch the
// whole session to degraded mode. Individual commands must not be the first
// place the failure shows up.
func TestNewApp_UnusableKeystoreDegradesAtStartup(t *testing.T) {
	c := testConfig(t)
	// A directory at the keystore path makes every read and write of the
	// entry fail.
	require.NoError(t, os.Mkdir(c.KeystorePath, 0o700))

	var lines []string
	restore := printlnFn
	printlnFn = func(a ...any) { lines = append(lines, fmt.Sprint(a...)) }
	t.Cleanup(func() { printlnFn = restore })

	app, err := NewApp(c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.True(t, app.degraded)
	assert.Equal(t, "vault unavailable", app.statusLine())
	assert.False(t, app.machine.Begin(), "slider must be disabled")
	require.NotEmpty(t, lines, "the user must be warned at startup")
	assert.Contains(t, lines[0], "unavailable")
}
