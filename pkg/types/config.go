// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// HTTPConfig holds shared HTTP settings for registry requests.
type HTTPConfig struct {
	// Timeout is the per-request deadline.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// Endpoint is one candidate base URL for the study search API.
type Endpoint struct {
	// URL is the studies search endpoint.
	URL string `json:"url" yaml:"url" mapstructure:"url" validate:"required,url"`

	// Method is tried first (default GET).
	Method string `json:"method,omitempty" yaml:"method,omitempty" mapstructure:"method" validate:"omitempty,oneof=GET POST get post"`

	// FallbackMethod is tried when Method fails (default POST). Set it equal
	// to Method to disable the second attempt.
	FallbackMethod string `json:"fallback_method,omitempty" yaml:"fallback_method,omitempty" mapstructure:"fallback_method" validate:"omitempty,oneof=GET POST get post"`
}

// Methods returns the HTTP methods to try against e, preferred first.
func (e Endpoint) Methods() []string {
	primary := strings.ToUpper(e.Method)
	if primary == "" {
		primary = http.MethodGet
	}
	secondary := strings.ToUpper(e.FallbackMethod)
	if secondary == "" {
		secondary = http.MethodPost
		if primary == http.MethodPost {
			secondary = http.MethodGet
		}
	}
	if secondary == primary {
		return []string{primary}
	}
	return []string{primary, secondary}
}

// FieldConfig lists, per logical attribute, the dotted paths to try in
// order. The first entry is the primary path; later entries are the
// historically-known alternates from older schema versions.
type FieldConfig struct {
	ID            []string `json:"id" yaml:"id" mapstructure:"id"`
	Title         []string `json:"title" yaml:"title" mapstructure:"title"`
	SponsorClass  []string `json:"sponsor_class" yaml:"sponsor_class" mapstructure:"sponsor_class"`
	Status        []string `json:"status" yaml:"status" mapstructure:"status"`
	StudyType     []string `json:"study_type" yaml:"study_type" mapstructure:"study_type"`
	Conditions    []string `json:"conditions" yaml:"conditions" mapstructure:"conditions"`
	Interventions []string `json:"interventions" yaml:"interventions" mapstructure:"interventions"`
	Dates         []string `json:"dates" yaml:"dates" mapstructure:"dates"`

	// Text lists the title and summary fields scanned for keywords. Unlike
	// the other attributes, every entry is consulted.
	Text []string `json:"text" yaml:"text" mapstructure:"text"`

	MinimumAge []string `json:"minimum_age" yaml:"minimum_age" mapstructure:"minimum_age"`
	MaximumAge []string `json:"maximum_age" yaml:"maximum_age" mapstructure:"maximum_age"`
}

// WithSponsorField returns a copy of f with path tried before the other
// sponsor-class candidates.
func (f FieldConfig) WithSponsorField(path string) FieldConfig {
	if path == "" {
		return f
	}
	out := []string{path}
	for _, p := range f.SponsorClass {
		if p != path {
			out = append(out, p)
		}
	}
	f.SponsorClass = out
	return f
}

// FetchConfig holds settings for retrieving studies from the registry.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Term is the registry search expression (default "neonatal").
	Term string `json:"term" yaml:"term" mapstructure:"term" validate:"required"`

	// PageSize is the number of studies requested per page.
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size" validate:"gt=0,lte=1000"`

	// MaxPages bounds the number of pages fetched. Zero means no bound.
	MaxPages int `json:"max_pages" yaml:"max_pages" mapstructure:"max_pages" validate:"gte=0"`

	// Endpoints are tried in order on every page, after the last endpoint
	// that succeeded.
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints" mapstructure:"endpoints" validate:"required,min=1,dive"`

	// Keywords mark a study as in the target population when found in its
	// conditions, titles or summary.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// Filter enables the population classifier gate.
	Filter bool `json:"filter" yaml:"filter" mapstructure:"filter"`

	// Fields locates each attribute inside a raw study.
	Fields FieldConfig `json:"fields" yaml:"fields" mapstructure:"fields"`
}

// ReportMode selects how records are aggregated.
type ReportMode string

const (
	ModeGrouped ReportMode = "grouped"
	ModeFlat    ReportMode = "flat"
	ModePivot   ReportMode = "pivot"
)

// ReportConfig holds settings for aggregation and output.
type ReportConfig struct {
	// Mode is grouped, flat or pivot.
	Mode ReportMode `json:"mode" yaml:"mode" mapstructure:"mode" validate:"oneof=grouped flat pivot"`

	// Format is csv, json, yaml, table or sqlite.
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=csv json yaml table sqlite"`

	// StartYear and EndYear bound the report inclusively. Zero means unbounded.
	StartYear int `json:"start_year" yaml:"start_year" mapstructure:"start_year" validate:"gte=0"`
	EndYear   int `json:"end_year" yaml:"end_year" mapstructure:"end_year" validate:"gte=0"`

	// DBPath is the SQLite file written by the sqlite format.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path" validate:"required_if=Format sqlite"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Debug bool `json:"debug" yaml:"debug" mapstructure:"debug"`
	Quiet bool `json:"quiet" yaml:"quiet" mapstructure:"quiet"`
	JSON  bool `json:"json" yaml:"json" mapstructure:"json"`
}

// Config groups all settings for a run.
type Config struct {
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Report ReportConfig `json:"report" yaml:"report" mapstructure:"report"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}

var validate = validator.New()

// Validate checks the structural constraints of c. Field paths are not
// validated: a malformed path simply never resolves.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Report.StartYear > 0 && c.Report.EndYear > 0 && c.Report.StartYear > c.Report.EndYear {
		return fmt.Errorf("invalid configuration: start year %d is after end year %d",
			c.Report.StartYear, c.Report.EndYear)
	}
	return nil
}

// Validate checks only the fetch section, for commands that do not
// aggregate.
func (c FetchConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid fetch configuration: %w", err)
	}
	return nil
}
