// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbrst/internal/ledger"
	"github.com/pdiddy/nbrst/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversions",
	Long: `History lists conversions recorded with "convert --ledger", newest
first. Use --export to write the matching history to a YAML file instead.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	l, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return err
	}
	defer l.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	input, _ := cmd.Flags().GetString("input")
	status, _ := cmd.Flags().GetString("status")
	opts := ledger.QueryOptions{
		Input:  input,
		Status: types.ConversionStatus(status),
		Limit:  limit,
	}

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		if err := l.ExportYAML(cmd.Context(), path, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported history to %s\n", path)
		return nil
	}

	records, err := l.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(cmd.OutOrStdout(), records, jsonOutput)
}

func formatHistory(w io.Writer, records []types.ConversionRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-9s  %-30s  %-30s  %s\n",
		"ID", "When", "Status", "Input", "Output", "Lines")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, r := range records {
		fmt.Fprintf(w, "%-5d  %-20s  %-9s  %-30s  %-30s  %d\n",
			r.ID, r.ConvertedAt.Format("2006-01-02 15:04:05"), r.Status,
			truncate(r.Input, 30), truncate(r.Output, 30), r.Lines)
		if r.Error != "" {
			fmt.Fprintf(w, "       error: %s\n", r.Error)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-(n-3):]
}

func init() {
	historyCmd.Flags().Int("limit", ledger.DefaultLimit, "maximum number of entries to list")
	historyCmd.Flags().String("input", "", "only show conversions of this notebook path")
	historyCmd.Flags().String("status", "", "only show conversions with this status: converted or failed")
	historyCmd.Flags().String("export", "", "write matching history to this YAML file")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(historyCmd)
}
