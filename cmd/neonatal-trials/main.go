// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the neonatal-trials CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/neonatal-trials/internal/logger"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the command logger, built in PersistentPreRunE.
var log = zap.NewNop()

// restoreLogger puts back the zap global replaced for the current command.
var restoreLogger = func() {}

// rootCmd is the base command for the neonatal-trials CLI.
var rootCmd = &cobra.Command{
	Use:   "neonatal-trials",
	Short: "Summarize neonatal clinical trials from the ClinicalTrials.gov registry",
	Long: `neonatal-trials pages through the ClinicalTrials.gov study search API,
keeps the studies that concern newborns, normalizes each one into a trial
record and reports counts by year, sponsor class, status, study type,
intervention type and condition.

Use fetch to retrieve records, summarize to aggregate them, and classify to
see why a single study is or is not counted.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := logger.Options{
			Debug:  viper.GetBool("log.debug"),
			Quiet:  viper.GetBool("log.quiet"),
			JSON:   viper.GetBool("log.json"),
			Output: cmd.ErrOrStderr(),
		}
		log, restoreLogger = logger.Init(opts)
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
		restoreLogger()
	},
}

func init() {
	cobra.OnInitialize(loadDotEnv, initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./neonatal-trials.yaml or ~/.config/neonatal-trials/config.yaml)")
	pf.Bool("debug", false, "enable debug logging")
	pf.Bool("quiet", false, "only log errors")
	pf.Bool("log-json", false, "log as JSON")

	viper.BindPFlag("log.debug", pf.Lookup("debug"))
	viper.BindPFlag("log.quiet", pf.Lookup("quiet"))
	viper.BindPFlag("log.json", pf.Lookup("log-json"))
}

// loadDotEnv reads ./.env into the process environment. Variables already
// set are not overridden.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("neonatal-trials")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "neonatal-trials"))
		}
	}

	viper.SetEnvPrefix("NEONATAL_TRIALS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(types.DefaultConfig())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
