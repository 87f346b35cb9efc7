package config

import "time"

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (JSON, defaults)
// and ensures the command layer doesn't depend on infrastructure details.
type Config interface {
	// Core settings
	Home() string              // Base directory for swarmlint files (SWARMLINT_HOME)
	GitBin() string            // Git binary for modified-only runs (SWARMLINT_GIT_BIN)
	GitTimeoutSec() int        // Timeout per git call in seconds
	GitTimeout() time.Duration // Timeout per git call as Duration

	// Validation defaults
	Strict() bool       // Treat design warnings as errors
	CheckPrompts() bool // Include the prompt section checker

	// Logging
	StderrLevel() string // Stderr log level (debug, info, warn, error)

	// Metadata
	ConfigSource() string // Source of configuration: "json" or "default"
	SettingPath() string  // Path to setting.json if loaded from file
}

// AppConfig is the concrete implementation of Config interface.
// It holds all configuration values loaded from various sources.
type AppConfig struct {
	home          string
	gitBin        string
	gitTimeoutSec int

	strict       bool
	checkPrompts bool

	stderrLevel string

	configSource string
	settingPath  string
}

// Home returns the base directory for swarmlint files
func (c *AppConfig) Home() string {
	return c.home
}

// GitBin returns the git binary used for modified-only runs
func (c *AppConfig) GitBin() string {
	return c.gitBin
}

// GitTimeoutSec returns the per-git-call timeout in seconds
func (c *AppConfig) GitTimeoutSec() int {
	return c.gitTimeoutSec
}

// GitTimeout returns the per-git-call timeout as a Duration
func (c *AppConfig) GitTimeout() time.Duration {
	return time.Duration(c.gitTimeoutSec) * time.Second
}

// Strict returns whether design warnings should be treated as errors
func (c *AppConfig) Strict() bool {
	return c.strict
}

// CheckPrompts returns whether the prompt section checker runs
func (c *AppConfig) CheckPrompts() bool {
	return c.checkPrompts
}

// StderrLevel returns the stderr log level
func (c *AppConfig) StderrLevel() string {
	return c.stderrLevel
}

// ConfigSource returns the source of configuration
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the path to setting.json if loaded from file
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}

// NewAppConfig creates a new AppConfig with the given values.
// This is typically called by the infrastructure layer after loading and merging configurations.
func NewAppConfig(
	home, gitBin string, gitTimeoutSec int,
	strict, checkPrompts bool,
	stderrLevel string,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		home:          home,
		gitBin:        gitBin,
		gitTimeoutSec: gitTimeoutSec,
		strict:        strict,
		checkPrompts:  checkPrompts,
		stderrLevel:   stderrLevel,
		configSource:  configSource,
		settingPath:   settingPath,
	}
}
