// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatcompose.
//
// Configuration file locations (in order of precedence):
//   - Environment variables (CHATCOMPOSE_*), optionally seeded from a .env file
//   - ~/.chatcompose/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/chatcompose/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNoHomeDir     = errors.New("cannot determine home directory")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatcompose configuration.
type Config struct {
	Version string `toml:"version"`

	Compose   ComposeConfig   `toml:"compose"`
	Realm     RealmConfig     `toml:"realm"`
	Storage   StorageConfig   `toml:"storage"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Logging   LoggingConfig   `toml:"logging"`
	UI        UIConfig        `toml:"ui"`
}

// ComposeConfig controls the message box and its typeahead.
type ComposeConfig struct {
	// MaxItems caps every candidate list the typeahead returns.
	MaxItems int `toml:"max_items"`
	// EnterSends makes a bare Enter send the message. When false,
	// Ctrl/Alt+Enter sends and Enter inserts a newline.
	EnterSends bool `toml:"enter_sends"`
	// DevelopmentEnvironment exposes the dev-only slash commands (/dark, /light).
	DevelopmentEnvironment bool `toml:"development_environment"`
	// DefaultCodeBlockLanguage is shown as a hint while completing fences.
	DefaultCodeBlockLanguage string `toml:"default_code_block_language"`
	// PopularEmojis are unicode codepoints ranked ahead of other prefix matches.
	PopularEmojis []string `toml:"popular_emojis"`
	// TwentyFourHourTime controls the time picker display.
	TwentyFourHourTime bool `toml:"twenty_four_hour_time"`
}

// RealmConfig mirrors the organization settings the typeahead consults.
type RealmConfig struct {
	StreamWildcardMentionAllowed bool `toml:"stream_wildcard_mention_allowed"`
	TopicWildcardMentionAllowed  bool `toml:"topic_wildcard_mention_allowed"`
	// EmailsVisible lets people be matched by email address.
	EmailsVisible bool `toml:"emails_visible"`
	// IsGuest restricts group suggestions to groups whose members are all visible.
	IsGuest bool `toml:"is_guest"`
	// CanAccessAllUsers is false for guests with limited user visibility.
	CanAccessAllUsers bool `toml:"can_access_all_users"`
}

// StorageConfig controls the local SQLite store.
type StorageConfig struct {
	// DatabasePath is where topic history and emoji usage live.
	// Default: ~/.chatcompose/compose.db
	DatabasePath string `toml:"database_path"`
	// TopicFetchPerSecond throttles background topic history fetches.
	TopicFetchPerSecond float64 `toml:"topic_fetch_per_second"`
	// TopicFetchBurst is the burst size for the fetch limiter.
	TopicFetchBurst int `toml:"topic_fetch_burst"`
	// RecentTopicLimit caps the topics returned per stream.
	RecentTopicLimit int `toml:"recent_topic_limit"`
}

// WorkspaceConfig points at the workspace directory file.
type WorkspaceConfig struct {
	// Path is the YAML file with users, groups, streams and emoji.
	Path string `toml:"path"`
	// Watch reloads the workspace when the file changes.
	Watch bool `toml:"watch"`
	// StreamID and Topic preselect the conversation being composed to.
	StreamID int    `toml:"stream_id"`
	Topic    string `toml:"topic"`
}

// LoggingConfig controls the diagnostic log.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File is the log destination. The TUI owns the terminal, so logs never go to stdout.
	File string `toml:"file"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is "dark" or "light".
	Theme string `toml:"theme"`
	// PopupRows is the number of visible suggestion rows.
	PopupRows int `toml:"popup_rows"`
	// Preview shows the glamour-rendered markdown preview by default.
	Preview bool `toml:"preview"`
	// NoColor disables ANSI colors.
	NoColor bool `toml:"no_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Compose: ComposeConfig{
			MaxItems:   50,
			EnterSends: true,
			PopularEmojis: []string{
				"1f44d", // +1
				"1f389", // tada
				"1f642", // smile
				"2764",  // heart
				"1f6e0", // working_on_it
				"1f419", // octopus
			},
			TwentyFourHourTime: false,
		},
		Realm: RealmConfig{
			StreamWildcardMentionAllowed: true,
			TopicWildcardMentionAllowed:  true,
			EmailsVisible:                true,
			CanAccessAllUsers:            true,
		},
		Storage: StorageConfig{
			TopicFetchPerSecond: 2,
			TopicFetchBurst:     4,
			RecentTopicLimit:    100,
		},
		Workspace: WorkspaceConfig{
			Watch: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme:     "dark",
			PopupRows: 8,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns ~/.chatcompose.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHomeDir, err)
	}
	return filepath.Join(home, ".chatcompose"), nil
}

// ConfigPath returns the TOML config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file (if any), applies .env and environment
// overrides, fills defaults and validates.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		return cfg, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load with an explicit config file. A missing file is not
// an error: the defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
	}

	// A .env next to the working directory seeds CHATCOMPOSE_* without
	// overriding variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// SetDefaults fills zero values that have a sensible default.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Compose.MaxItems == 0 {
		c.Compose.MaxItems = def.Compose.MaxItems
	}
	if c.Storage.TopicFetchPerSecond == 0 {
		c.Storage.TopicFetchPerSecond = def.Storage.TopicFetchPerSecond
	}
	if c.Storage.TopicFetchBurst == 0 {
		c.Storage.TopicFetchBurst = def.Storage.TopicFetchBurst
	}
	if c.Storage.RecentTopicLimit == 0 {
		c.Storage.RecentTopicLimit = def.Storage.RecentTopicLimit
	}
	if c.UI.PopupRows == 0 {
		c.UI.PopupRows = def.UI.PopupRows
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}

	if dir, err := ConfigDir(); err == nil {
		if c.Storage.DatabasePath == "" {
			c.Storage.DatabasePath = filepath.Join(dir, "compose.db")
		}
		if c.Workspace.Path == "" {
			c.Workspace.Path = filepath.Join(dir, "workspace.yaml")
		}
		if c.Logging.File == "" {
			c.Logging.File = filepath.Join(dir, "chatcompose.log")
		}
	}
}

// ApplyEnvOverrides applies CHATCOMPOSE_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	// CHATCOMPOSE_MAX_ITEMS
	if v := os.Getenv("CHATCOMPOSE_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Compose.MaxItems = n
		}
	}

	// CHATCOMPOSE_ENTER_SENDS
	if v := os.Getenv("CHATCOMPOSE_ENTER_SENDS"); v != "" {
		c.Compose.EnterSends = envBool(v)
	}

	// CHATCOMPOSE_DEV
	if v := os.Getenv("CHATCOMPOSE_DEV"); v != "" {
		c.Compose.DevelopmentEnvironment = envBool(v)
	}

	// CHATCOMPOSE_WORKSPACE
	if v := os.Getenv("CHATCOMPOSE_WORKSPACE"); v != "" {
		c.Workspace.Path = v
	}

	// CHATCOMPOSE_DB
	if v := os.Getenv("CHATCOMPOSE_DB"); v != "" {
		c.Storage.DatabasePath = v
	}

	// CHATCOMPOSE_LOG_LEVEL / CHATCOMPOSE_LOG_FILE
	if v := os.Getenv("CHATCOMPOSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CHATCOMPOSE_LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	// CHATCOMPOSE_THEME
	if v := os.Getenv("CHATCOMPOSE_THEME"); v != "" {
		c.UI.Theme = v
	}

	// NO_COLOR is honoured as well as our own variable.
	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
	if v := os.Getenv("CHATCOMPOSE_NO_COLOR"); v != "" {
		c.UI.NoColor = envBool(v)
	}
}

func envBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to ~/.chatcompose/config.toml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// Encode renders the configuration as a commented TOML document.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# chatcompose configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveTo writes the configuration as TOML to path.
func SaveTo(cfg *Config, path string) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Compose.MaxItems < 1 || c.Compose.MaxItems > 500 {
		errs = append(errs, ValidationError{
			Field:   "compose.max_items",
			Message: fmt.Sprintf("must be between 1 and 500, got %d", c.Compose.MaxItems),
		})
	}

	if c.Storage.TopicFetchPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "storage.topic_fetch_per_second",
			Message: "must not be negative",
		})
	}
	if c.Storage.TopicFetchBurst < 0 {
		errs = append(errs, ValidationError{
			Field:   "storage.topic_fetch_burst",
			Message: "must not be negative",
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light", c.UI.Theme),
		})
	}

	if c.UI.PopupRows < 1 {
		errs = append(errs, ValidationError{
			Field:   "ui.popup_rows",
			Message: "must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
			cfg.SetDefaults()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
