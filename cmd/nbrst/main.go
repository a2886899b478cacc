// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nbrst CLI, which converts
// notebook documents into reStructuredText for documentation builds.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbrst/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from --verbose before any subcommand runs.
var logger = slog.New(slog.DiscardHandler)

// rootCmd is the base command for the nbrst CLI.
var rootCmd = &cobra.Command{
	Use:   "nbrst",
	Short: "Convert notebooks to reStructuredText",
	Long: `nbrst converts notebook documents (nbformat 3 and 4) into
reStructuredText suitable for documentation publishing.

Code cells become code-block directives followed by their captured output
as a literal block; markdown cells are copied with headings, images, and
inline literals rewritten for reStructuredText. Conversions can optionally
be recorded in a local history database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nbrst.yaml or ~/.config/nbrst/nbrst.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("ledger-dir", "", "directory holding the conversion history database (default .nbrst)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("ledger.dir", rootCmd.PersistentFlags().Lookup("ledger-dir"))

	viper.SetDefault("conversion.language", types.DefaultLanguage)
	viper.SetDefault("ledger.enabled", false)
	viper.SetDefault("ledger.dir", ".nbrst")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nbrst")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nbrst"))
		}
	}

	viper.SetEnvPrefix("NBRST")
	viper.AutomaticEnv()

	readErr := viper.ReadInConfig()

	// verbose may come from the flag, NBRST_VERBOSE, or the config file.
	logger = newLogger(viper.GetBool("verbose"))
	if readErr == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged file, environment, and flag settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Conversion.Language == "" {
		cfg.Conversion.Language = types.DefaultLanguage
	}
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	return newLoggerTo(os.Stderr, verbose)
}

func newLoggerTo(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
