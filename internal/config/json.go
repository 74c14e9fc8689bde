package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/safehold-app/safehold/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings like "15s".
type jsonConfig struct {
	DataDir       *string `json:"data_dir"`
	VaultDBPath   *string `json:"vault_db_path"`
	KeystorePath  *string `json:"keystore_path"`
	UnlockSecret  *string `json:"unlock_secret"`
	IntakeBaseURL *string `json:"intake_base_url"`
	IntakeTimeout *string `json:"intake_timeout"`
	DeviceID      *string `json:"device_id"`
	TokenSecret   *string `json:"token_secret"`
	EmergencyType *string `json:"emergency_type"`
	Debug         *bool   `json:"debug"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flag, when present. Only fields present in the file are
// copied, so earlier layers keep their values otherwise.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.DataDir, jc.DataDir)
	setIf(&cfg.VaultDBPath, jc.VaultDBPath)
	setIf(&cfg.KeystorePath, jc.KeystorePath)
	setIf(&cfg.UnlockSecret, jc.UnlockSecret)
	setIf(&cfg.IntakeBaseURL, jc.IntakeBaseURL)
	setIf(&cfg.DeviceID, jc.DeviceID)
	setIf(&cfg.TokenSecret, jc.TokenSecret)
	setIf(&cfg.EmergencyType, jc.EmergencyType)
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
	if jc.IntakeTimeout != nil {
		d, err := time.ParseDuration(*jc.IntakeTimeout)
		if err != nil {
			panic(err)
		}
		cfg.IntakeTimeout = d
	}
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
