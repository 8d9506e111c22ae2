// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the neonatal-trials
// pipeline: normalized trial records, report tables and configuration.
package types

// Unknown is the sentinel stored in string attributes that could not be
// resolved from a study.
const Unknown = "Unknown"

// NoIntervention is the intervention-type bucket for records that list none.
const NoIntervention = "None specified"

// TrialRecord is one study normalized by the extractor. Every field holds a
// value or sentinel except Year, which is nil when no date field parses.
type TrialRecord struct {
	// ID is the registry identifier (NCT number), or Unknown.
	ID string `json:"nct_id" yaml:"nct_id"`

	// Title is the brief title, empty if unresolved.
	Title string `json:"title" yaml:"title"`

	// Year is the start (or first-posted) calendar year.
	Year *int `json:"year" yaml:"year"`

	// SponsorClass is the lead sponsor's funder type (INDUSTRY, NIH, OTHER...).
	SponsorClass string `json:"sponsor_class" yaml:"sponsor_class"`

	// Status is the overall recruitment status.
	Status string `json:"status" yaml:"status"`

	// StudyType is interventional, observational or expanded access.
	StudyType string `json:"study_type" yaml:"study_type"`

	// Conditions lists the studied conditions. Order is not significant.
	Conditions []string `json:"conditions" yaml:"conditions"`

	// InterventionTypes lists intervention categories (DRUG, DEVICE...).
	// Order is not significant.
	InterventionTypes []string `json:"intervention_types" yaml:"intervention_types"`
}

// YearOr returns the record's year, or fallback when it has none.
func (r TrialRecord) YearOr(fallback int) int {
	if r.Year == nil {
		return fallback
	}
	return *r.Year
}

// Year returns a pointer to y, for building records.
func Year(y int) *int {
	return &y
}
