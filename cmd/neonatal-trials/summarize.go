// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/neonatal-trials/internal/aggregate"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Aggregate trials by year, sponsor class, status and intervention",
	Long: `Summarize fetches trial records (or loads them with --from) and
aggregates them. Modes:

  grouped  one row per (year, sponsor class, status, study type,
           intervention type, conditions) with trial counts, ids and titles;
           a trial with several intervention types counts once under each
  flat     one row per trial
  pivot    one row per year, one column per sponsor class

--start-year and --end-year bound the report inclusively. Trials without a
start year are left out of grouped and pivot reports, and out of flat
reports when a bound is given.`,
	RunE: runSummarize,
}

func init() {
	addFetchFlags(summarizeCmd.Flags())
	addReportFlags(summarizeCmd.Flags())
	summarizeCmd.Flags().String("mode", "grouped", "report mode: grouped, flat or pivot")
	summarizeCmd.Flags().Int("start-year", 0, "earliest start year to include")
	summarizeCmd.Flags().Int("end-year", 0, "latest start year to include")
	summarizeCmd.Flags().String("from", "", "aggregate records from this snapshot instead of fetching")
	summarizeCmd.Flags().String("save", "", "write fetched records to this YAML snapshot")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	save, _ := cmd.Flags().GetString("save")
	if from != "" && save != "" {
		return fmt.Errorf("--from and --save cannot be combined")
	}

	var res fetchResult
	if from != "" {
		res, err = loadSnapshot(from)
	} else {
		res, err = fetchRecords(cmd.Context(), cfg)
	}
	if err != nil {
		return err
	}
	if save != "" {
		if err := saveSnapshot(save, cfg, res); err != nil {
			return err
		}
	}
	if !cfg.Log.Quiet {
		printFetchSummary(cmd.ErrOrStderr(), res.Stats)
	}

	bounds := aggregate.Bounds{Start: cfg.Report.StartYear, End: cfg.Report.EndYear}
	table, err := aggregate.Build(cfg.Report.Mode, res.Records, bounds)
	if err != nil {
		return err
	}
	return emit(cmd.Context(), cmd.OutOrStdout(), cfg, res, "summary_"+string(cfg.Report.Mode), table)
}
