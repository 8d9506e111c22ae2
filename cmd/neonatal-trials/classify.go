// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/neonatal-trials/internal/classify"
	"github.com/pdiddy/neonatal-trials/internal/extract"
	"github.com/pdiddy/neonatal-trials/internal/study"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Explain the population decision for raw study JSON",
	Long: `Classify reads raw study JSON from file (or stdin) and prints, for each
study, the extracted record, whether it counts as a neonatal trial, and the
rule that decided. The input may be one study, an array of studies, or a
search response page.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("sponsor-field", "", "field path tried first for the sponsor class")

	rootCmd.AddCommand(classifyCmd)
}

// classification is the printed result for one study.
type classification struct {
	ID         string            `yaml:"nct_id"`
	Title      string            `yaml:"title,omitempty"`
	Include    bool              `yaml:"include"`
	Rule       classify.Rule     `yaml:"rule"`
	Keyword    string            `yaml:"keyword,omitempty"`
	MinAgeDays *int              `yaml:"min_age_days,omitempty"`
	MaxAgeDays *int              `yaml:"max_age_days,omitempty"`
	Record     types.TrialRecord `yaml:"record"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var data []byte
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading study: %w", err)
	}

	doc, err := study.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing study: %w", err)
	}

	var out []classification
	for _, s := range studiesIn(doc) {
		d := classify.Explain(s, cfg.Fetch.Fields, cfg.Fetch.Keywords)
		rec := extract.Record(s, cfg.Fetch.Fields)
		c := classification{
			ID:      rec.ID,
			Title:   rec.Title,
			Include: d.Include,
			Rule:    d.Rule,
			Keyword: d.Keyword,
			Record:  rec,
		}
		if d.MinAgeDays >= 0 {
			days := d.MinAgeDays
			c.MinAgeDays = &days
		}
		if d.MaxAgeDays >= 0 {
			days := d.MaxAgeDays
			c.MaxAgeDays = &days
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return fmt.Errorf("no studies found in input")
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return enc.Close()
}

// studiesIn accepts a single study, an array of studies, or a response page.
func studiesIn(doc study.Value) []study.Value {
	if items := doc.Items(); items != nil {
		return items
	}
	for _, key := range []string{"studies", "results"} {
		if v, ok := doc.Field(key); ok && v.Kind() == study.KindArray {
			return v.Items()
		}
	}
	if doc.Kind() == study.KindObject {
		return []study.Value{doc}
	}
	return nil
}
