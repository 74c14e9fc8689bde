// Package config holds runtime settings for the SafeHold device app.
//
// Values are layered: built-in defaults, then a JSON file (if -c/-config is
// given), then environment variables, then command-line flags. Later sources
// take precedence.
package config

import (
	"path/filepath"
	"time"
)

// Config holds runtime settings.
//
// UnlockSecret protects the keystore entry at rest; TokenSecret signs the
// short-lived device token attached to intake submissions.
type Config struct {
	DataDir       string        `env:"SAFEHOLD_DATA_DIR"`
	VaultDBPath   string        `env:"SAFEHOLD_VAULT_DB"`
	KeystorePath  string        `env:"SAFEHOLD_KEYSTORE"`
	UnlockSecret  string        `env:"SAFEHOLD_UNLOCK_SECRET"`
	IntakeBaseURL string        `env:"SAFEHOLD_INTAKE_URL"`
	IntakeTimeout time.Duration `env:"SAFEHOLD_INTAKE_TIMEOUT"`
	DeviceID      string        `env:"SAFEHOLD_DEVICE_ID"`
	TokenSecret   string        `env:"SAFEHOLD_TOKEN_SECRET"`
	EmergencyType string        `env:"SAFEHOLD_EMERGENCY_TYPE"`
	Debug         bool          `env:"SAFEHOLD_DEBUG"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = ".safehold"
	c.IntakeBaseURL = "http://127.0.0.1:8000"
	c.IntakeTimeout = 15 * time.Second
	c.DeviceID = "safehold-device"
	c.EmergencyType = "detention"
}

// Normalize derives the storage paths from DataDir when they were not set
// explicitly by any source.
func (c *Config) Normalize() {
	if c.VaultDBPath == "" {
		c.VaultDBPath = filepath.Join(c.DataDir, "vault.db")
	}
	if c.KeystorePath == "" {
		c.KeystorePath = filepath.Join(c.DataDir, "keystore.json")
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.Normalize()
	return cfg
}
