// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbrst/internal/convert"
	"github.com/pdiddy/nbrst/internal/ledger"
	"github.com/pdiddy/nbrst/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <notebook> <output>",
	Short: "Convert a notebook to reStructuredText",
	Long: `Convert reads a notebook JSON file and writes reStructuredText to the
output path. The first cell of every worksheet is treated as a title
placeholder and is not rendered.

Nothing is written when the notebook cannot be read or is malformed; an
existing output file is left untouched in that case.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	in, out := args[0], args[1]

	c := convert.NewNotebookConverter(cfg.Conversion)
	result, convErr := convert.ConvertFile(c, in, out, logger)

	if cfg.Ledger.Enabled {
		if err := recordConversion(cmd.Context(), cfg.Ledger, result, convErr); err != nil {
			logger.Warn("could not record conversion", "error", err)
		}
	}

	if convErr != nil {
		return convErr
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "converted: %s -> %s (%d lines)\n",
		in, out, result.Stats.Lines)
	return nil
}

func recordConversion(ctx context.Context, cfg types.LedgerConfig, result convert.Result, convErr error) error {
	l, err := ledger.Open(cfg)
	if err != nil {
		return err
	}
	defer l.Close()

	id, err := l.Record(ctx, result.Record(convErr))
	if err != nil {
		return err
	}
	logger.Debug("recorded conversion", "id", id, "ledger", l.Path())
	return nil
}

func init() {
	convertCmd.Flags().String("language", types.DefaultLanguage, "language named in code-block directives")
	convertCmd.Flags().Bool("ledger", false, "record this conversion in the history database")

	viper.BindPFlag("conversion.language", convertCmd.Flags().Lookup("language"))
	viper.BindPFlag("ledger.enabled", convertCmd.Flags().Lookup("ledger"))

	rootCmd.AddCommand(convertCmd)
}
