// Package cmd provides the command-line interface for cspsync with
// configuration from multiple sources.
//
// Configuration precedence, highest first:
//  1. Command-line flags (--root, --write, ...)
//  2. CSPSYNC_* environment variables (CSPSYNC_ROOT, CSPSYNC_FORMAT, ...)
//  3. Configuration file (.cspsync.yml in the current directory, or the
//     path given via --config / CSPSYNC_CONFIG_FILE)
//  4. Built-in defaults
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statichost/cspsync/internal/config"
)

var (
	cfgFile string
	noPrune bool
)

// rootCmd represents the base command. Syncing is the root action; the
// tool is a single-purpose filter with mode flags, not a multi-command
// suite.
var rootCmd = &cobra.Command{
	Use:   "cspsync",
	Short: "Sync CSP script hashes for inline <script> blocks",
	Long: `cspsync scans *.html files for inline <script> blocks (no src=),
computes sha256-base64 hashes of the exact inline content, and updates each
page's CSP meta tag so script-src (and script-src-elem, when present) carry
exactly the hashes of the scripts currently on the page.

Stale hash tokens (sha256/sha384/sha512) are pruned and the current sha256
hashes appended; the rewritten policy is a single line. Only the meta tag's
content attribute changes; every other byte of the document is preserved.

Modes:
  default        dry run: report what would change
  --write        persist changes to the files
  --check        CI gate: never writes, exits 1 if anything would change
  --watch        stay running and re-sync files as they change

Examples:
  cspsync --root ./site                 # dry run
  cspsync --root ./site --write         # apply
  cspsync --root ./site --check         # CI
  cspsync --root ./site --write --watch # keep hashes synced while editing`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSync,
}

// Execute runs the root command. Errors come back to main, which owns
// process exit codes.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .cspsync.yml, can also use CSPSYNC_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().String("root", "", "directory to scan for *.html (default: parent of the executable's directory)")
	rootCmd.Flags().Bool("write", false, "write changes to files; without it, runs in dry-run mode")
	rootCmd.Flags().Bool("check", false, "never write; exit 1 if any file would change")
	rootCmd.Flags().Bool("jsonld-only", false, "hash only type=\"application/ld+json\" scripts")
	rootCmd.Flags().Bool("include-tools", false, "do not exclude the tools/ subdirectory from the scan")
	rootCmd.Flags().Bool("include-empty", false, "hash whitespace-only inline script bodies too")
	rootCmd.Flags().BoolVar(&noPrune, "no-prune", false, "append new hash tokens without removing stale ones")
	rootCmd.Flags().Bool("watch", false, "stay running and re-sync changed files")
	rootCmd.Flags().StringP("format", "f", config.FormatText, "summary format (text, json, yaml)")

	bindFlags()
}

// bindFlags registers the flag-to-config bindings with viper. It runs
// once at startup; tests call it again after viper.Reset wipes the
// bindings.
func bindFlags() {
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("root", rootCmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("write", rootCmd.Flags().Lookup("write"))
	_ = viper.BindPFlag("check", rootCmd.Flags().Lookup("check"))
	_ = viper.BindPFlag("jsonld_only", rootCmd.Flags().Lookup("jsonld-only"))
	_ = viper.BindPFlag("include_tools", rootCmd.Flags().Lookup("include-tools"))
	_ = viper.BindPFlag("include_empty", rootCmd.Flags().Lookup("include-empty"))
	_ = viper.BindPFlag("watch", rootCmd.Flags().Lookup("watch"))
	_ = viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
}

// initConfig wires viper's sources. A missing config file is fine; the
// tool degrades to flags, environment, and defaults.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("CSPSYNC_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cspsync")
	}

	viper.SetEnvPrefix("CSPSYNC")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// --no-prune is the user-facing spelling; the config key is the
	// positive "prune".
	if noPrune {
		viper.Set("prune", false)
	}
}
