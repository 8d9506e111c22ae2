// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/neonatal-trials/internal/aggregate"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch neonatal trial records from the registry",
	Long: `Fetch pages through the study search API, keeps studies that concern
newborns (unless --no-filter), and writes one row per trial. Endpoints are
tried in order on every page; the last one that answered is tried first.

With --save the records are also written to a YAML snapshot that summarize
--from can aggregate later without network access.`,
	RunE: runFetch,
}

func init() {
	addFetchFlags(fetchCmd.Flags())
	addReportFlags(fetchCmd.Flags())
	fetchCmd.Flags().String("save", "", "also write the records to this YAML snapshot")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	res, err := fetchRecords(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := saveSnapshot(path, cfg, res); err != nil {
			return err
		}
	}
	if !cfg.Log.Quiet {
		printFetchSummary(cmd.ErrOrStderr(), res.Stats)
	}

	table := aggregate.FlatTable(aggregate.Flat(res.Records, aggregate.Bounds{}))
	return emit(cmd.Context(), cmd.OutOrStdout(), cfg, res, "trials_flat", table)
}
