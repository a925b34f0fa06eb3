// Package config handles configuration loading and validation for kandev.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Diff context names select which changes a review session covers.
const (
	DiffUncommitted = "uncommitted"
	DiffStaged      = "staged"
	DiffBranch      = "branch"
)

// Supported UI themes.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds the application configuration.
type Config struct {
	GitPath string       `yaml:"git_path"`
	Review  ReviewConfig `yaml:"review"`
	GitHub  GitHubConfig `yaml:"github"`
	UI      UIConfig     `yaml:"ui"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// ReviewConfig controls diff review behavior.
type ReviewConfig struct {
	// DiffContext is the default change set to review: uncommitted, staged,
	// or branch.
	DiffContext string `yaml:"diff_context"`
	// EnableAcceptReject toggles per-change accept/reject controls in the
	// diff viewer.
	EnableAcceptReject *bool `yaml:"enable_accept_reject"`
	// HoverDelay is how long annotation popups linger after the cursor
	// leaves them.
	HoverDelay Duration `yaml:"hover_delay"`
	// IgnoreGlobs hides matching files from the diff file tree. Supports
	// doublestar patterns like "**/*.lock".
	IgnoreGlobs []string `yaml:"ignore_globs"`
	// FeedbackTemplate overrides the template used to render finalized
	// review feedback.
	FeedbackTemplate string `yaml:"feedback_template"`
}

// GitHubConfig controls pull request integration via the gh CLI.
type GitHubConfig struct {
	// Enabled overrides gh auto-detection. nil means auto-detect.
	Enabled *bool `yaml:"enabled"`
	// CacheTTL is how long fetched PR data is reused.
	CacheTTL Duration `yaml:"cache_ttl"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GitPath: "git",
		Review: ReviewConfig{
			DiffContext: DiffUncommitted,
			HoverDelay:  Duration(200 * time.Millisecond),
			IgnoreGlobs: []string{},
		},
		GitHub: GitHubConfig{
			CacheTTL: Duration(30 * time.Second),
		},
		UI: UIConfig{
			Theme: ThemeAuto,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Review.DiffContext == "" {
		c.Review.DiffContext = defaults.Review.DiffContext
	}
	if c.Review.HoverDelay == 0 {
		c.Review.HoverDelay = defaults.Review.HoverDelay
	}
	if c.GitHub.CacheTTL == 0 {
		c.GitHub.CacheTTL = defaults.GitHub.CacheTTL
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// AcceptRejectEnabled reports whether accept/reject controls are on.
// Defaults to true when unset.
func (c *Config) AcceptRejectEnabled() bool {
	if c.Review.EnableAcceptReject == nil {
		return true
	}
	return *c.Review.EnableAcceptReject
}

// GitHubEnabled reports whether PR integration should be used. When not
// explicitly configured, the caller decides by probing for the gh CLI.
func (c *Config) GitHubEnabled(autoDetect func() bool) bool {
	if c.GitHub.Enabled != nil {
		return *c.GitHub.Enabled
	}
	return autoDetect()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.GitPath == "" {
		return fmt.Errorf("git_path cannot be empty")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.Review.DiffContext {
	case DiffUncommitted, DiffStaged, DiffBranch:
	default:
		return fmt.Errorf("review.diff_context must be one of %q, %q, %q, got %q",
			DiffUncommitted, DiffStaged, DiffBranch, c.Review.DiffContext)
	}

	if c.Review.HoverDelay < 0 {
		return fmt.Errorf("review.hover_delay cannot be negative")
	}

	for _, pattern := range c.Review.IgnoreGlobs {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("review.ignore_globs: invalid pattern %q", pattern)
		}
	}

	if c.GitHub.CacheTTL < 0 {
		return fmt.Errorf("github.cache_ttl cannot be negative")
	}

	switch c.UI.Theme {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("ui.theme must be one of %q, %q, %q, got %q",
			ThemeAuto, ThemeDark, ThemeLight, c.UI.Theme)
	}

	return nil
}

// DatabaseDir returns the directory holding the SQLite database.
func (c *Config) DatabaseDir() string {
	return c.DataDir
}

// LogFile returns the path to the application log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "kandev.log")
}
