// Package config provides configuration management for cspsync using
// Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// Sources in precedence order: command-line flags, CSPSYNC_* environment
// variables, a .cspsync.yml configuration file, built-in defaults. A
// missing configuration file is not an error; the tool degrades to
// defaults so it stays usable as a drop-in script.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/statichost/cspsync/internal/errors"
)

// Report formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds one run's settings.
type Config struct {
	// Root is the directory scanned for *.html files.
	Root string `mapstructure:"root" yaml:"root"`
	// Write persists rewritten documents; false means dry run.
	Write bool `mapstructure:"write" yaml:"write"`
	// Check never writes and fails the run when changes are pending.
	Check bool `mapstructure:"check" yaml:"check"`
	// JSONLDOnly restricts hashing to application/ld+json scripts.
	JSONLDOnly bool `mapstructure:"jsonld_only" yaml:"jsonld_only"`
	// IncludeTools scans the conventional tools/ subdirectory too.
	IncludeTools bool `mapstructure:"include_tools" yaml:"include_tools"`
	// IncludeEmpty hashes whitespace-only script bodies as well.
	IncludeEmpty bool `mapstructure:"include_empty" yaml:"include_empty"`
	// Prune removes stale hash tokens before appending current ones.
	Prune bool `mapstructure:"prune" yaml:"prune"`
	// Watch keeps the process running and re-syncs changed files.
	Watch bool `mapstructure:"watch" yaml:"watch"`
	// Format selects the summary rendering: text, json, or yaml.
	Format string `mapstructure:"format" yaml:"format"`
	// LogLevel gates diagnostic output (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// Excludes overrides the default excluded directory names.
	Excludes []string `mapstructure:"excludes" yaml:"excludes"`
}

// SetDefaults registers the built-in defaults with viper. Prune defaults
// to true so a plain run always converges the policy to exactly the
// current scripts.
func SetDefaults() {
	viper.SetDefault("prune", true)
	viper.SetDefault("format", FormatText)
	viper.SetDefault("log_level", "info")
}

// Load materializes the configuration from viper. An empty root resolves
// to the parent of the executable's directory, mirroring the upstream
// convention of the tool living in <site>/tools/.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Workaround for viper slice handling when values come from file.
	if viper.IsSet("excludes") && len(cfg.Excludes) == 0 {
		cfg.Excludes = viper.GetStringSlice("excludes")
	}

	if cfg.Root == "" {
		root, err := DefaultRoot()
		if err != nil {
			return nil, errors.NewConfigError("NO_ROOT", "cannot determine default root: "+err.Error())
		}
		cfg.Root = root
	}

	abs, err := filepath.Abs(cfg.Root)
	if err == nil {
		cfg.Root = abs
	}

	return &cfg, nil
}

// DefaultRoot returns the parent of the directory holding the running
// executable.
func DefaultRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}

	return filepath.Dir(filepath.Dir(exe)), nil
}

// Validate rejects configurations the run cannot start with. Root
// problems are the fatal, exit-2 class of error: nothing has been
// scanned or touched yet.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Root)
	if err != nil {
		return errors.NewConfigError("ROOT_NOT_FOUND", "root not found: "+c.Root)
	}
	if !info.IsDir() {
		return errors.NewConfigError("ROOT_NOT_DIR", "root is not a directory: "+c.Root)
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return errors.NewConfigError("BAD_FORMAT", "unknown format: "+c.Format+" (want text, json, or yaml)")
	}

	if c.Watch && c.Check {
		return errors.NewConfigError("WATCH_CHECK_CONFLICT", "--watch cannot be combined with --check")
	}

	return nil
}
