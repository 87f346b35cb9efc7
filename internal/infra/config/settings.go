package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app/config"
)

// RawSettings represents the structure of setting.json file.
// JSON tags are used for marshaling/unmarshaling.
type RawSettings struct {
	// Core settings
	Home          *string `json:"home"`
	GitBin        *string `json:"git_bin"`
	GitTimeoutSec *int    `json:"git_timeout_sec"`

	// Validation defaults
	Strict       *bool `json:"strict"`
	CheckPrompts *bool `json:"check_prompts"`

	// Logging
	StderrLevel *string `json:"stderr_level"`
}

// LoadSettings loads configuration from setting.json only.
// Priority: setting.json > defaults
func LoadSettings(baseDir string) (*config.AppConfig, error) {
	// Start with empty settings
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	// Try to load setting.json
	jsonPath := filepath.Join(baseDir, "setting.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		configSource = "json"
		settingPath = jsonPath
	}

	// Apply defaults
	applyDefaults(settings)

	// Build AppConfig
	return buildAppConfig(settings, configSource, settingPath), nil
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings) {
	// Core defaults
	if settings.Home == nil {
		v := ".swarmlint"
		settings.Home = &v
	}
	if settings.GitBin == nil {
		v := "git"
		settings.GitBin = &v
	}
	if settings.GitTimeoutSec == nil {
		v := 5
		settings.GitTimeoutSec = &v
	}

	// Validation defaults (off unless the flag or the file enables them)
	if settings.Strict == nil {
		v := false
		settings.Strict = &v
	}
	if settings.CheckPrompts == nil {
		v := false
		settings.CheckPrompts = &v
	}

	// Logging
	if settings.StderrLevel == nil {
		v := "warn" // Default to WARN level
		settings.StderrLevel = &v
	}
}

// buildAppConfig converts RawSettings to AppConfig
func buildAppConfig(settings *RawSettings, configSource, settingPath string) *config.AppConfig {
	return config.NewAppConfig(
		*settings.Home,
		*settings.GitBin,
		*settings.GitTimeoutSec,
		*settings.Strict,
		*settings.CheckPrompts,
		*settings.StderrLevel,
		configSource,
		settingPath,
	)
}
