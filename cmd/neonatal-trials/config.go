// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// setDefaults registers every scalar setting with viper so that
// NEONATAL_TRIALS_* environment variables are seen by Unmarshal.
func setDefaults(cfg types.Config) {
	viper.SetDefault("fetch.term", cfg.Fetch.Term)
	viper.SetDefault("fetch.page_size", cfg.Fetch.PageSize)
	viper.SetDefault("fetch.max_pages", cfg.Fetch.MaxPages)
	viper.SetDefault("fetch.filter", cfg.Fetch.Filter)
	viper.SetDefault("fetch.timeout", cfg.Fetch.Timeout)
	viper.SetDefault("fetch.user_agent", cfg.Fetch.UserAgent)
	viper.SetDefault("report.mode", string(cfg.Report.Mode))
	viper.SetDefault("report.format", cfg.Report.Format)
	viper.SetDefault("report.start_year", cfg.Report.StartYear)
	viper.SetDefault("report.end_year", cfg.Report.EndYear)
	viper.SetDefault("report.db_path", cfg.Report.DBPath)
}

// addFetchFlags registers the flags shared by commands that query the
// registry.
func addFetchFlags(fs *pflag.FlagSet) {
	fs.String("term", "", "registry search expression (default \"neonatal\")")
	fs.Int("page-size", 0, "studies per page (default 100)")
	fs.Int("max-pages", 0, "page budget, 0 for no limit (default 30)")
	fs.Bool("no-filter", false, "keep every study the search returns")
	fs.StringSlice("endpoint", nil, "study search endpoint URL, repeatable (replaces configured endpoints)")
	fs.String("sponsor-field", "", "field path tried first for the sponsor class")
	fs.Duration("timeout", 0, "per-request timeout (default 30s)")
}

// addReportFlags registers the output flags.
func addReportFlags(fs *pflag.FlagSet) {
	fs.String("format", "csv", "output format: csv, json, yaml, table or sqlite")
	fs.String("db", "", "SQLite file for --format sqlite")
}

// loadConfig assembles the run configuration: defaults, then the config
// file and environment through viper, then command-line flags.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	cfg := types.DefaultConfig()
	// Lists from the config file replace the defaults instead of
	// overwriting them element by element.
	zeroFields := func(dc *mapstructure.DecoderConfig) { dc.ZeroFields = true }
	if err := viper.Unmarshal(&cfg, zeroFields); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	applyFlags(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyFlags overrides cfg with the flags the user set explicitly.
func applyFlags(fs *pflag.FlagSet, cfg *types.Config) {
	if fs.Changed("term") {
		cfg.Fetch.Term, _ = fs.GetString("term")
	}
	if fs.Changed("page-size") {
		cfg.Fetch.PageSize, _ = fs.GetInt("page-size")
	}
	if fs.Changed("max-pages") {
		cfg.Fetch.MaxPages, _ = fs.GetInt("max-pages")
	}
	if fs.Changed("no-filter") {
		noFilter, _ := fs.GetBool("no-filter")
		cfg.Fetch.Filter = !noFilter
	}
	if fs.Changed("endpoint") {
		urls, _ := fs.GetStringSlice("endpoint")
		cfg.Fetch.Endpoints = cfg.Fetch.Endpoints[:0:0]
		for _, u := range urls {
			cfg.Fetch.Endpoints = append(cfg.Fetch.Endpoints,
				types.Endpoint{URL: u, Method: http.MethodGet, FallbackMethod: http.MethodPost})
		}
	}
	if fs.Changed("sponsor-field") {
		path, _ := fs.GetString("sponsor-field")
		cfg.Fetch.Fields = cfg.Fetch.Fields.WithSponsorField(path)
	}
	if fs.Changed("timeout") {
		cfg.Fetch.Timeout, _ = fs.GetDuration("timeout")
	}
	if fs.Changed("mode") {
		mode, _ := fs.GetString("mode")
		cfg.Report.Mode = types.ReportMode(mode)
	}
	if fs.Changed("format") {
		cfg.Report.Format, _ = fs.GetString("format")
	}
	if fs.Changed("db") {
		cfg.Report.DBPath, _ = fs.GetString("db")
	}
	if fs.Changed("start-year") {
		cfg.Report.StartYear, _ = fs.GetInt("start-year")
	}
	if fs.Changed("end-year") {
		cfg.Report.EndYear, _ = fs.GetInt("end-year")
	}
}
