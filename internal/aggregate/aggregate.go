// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate turns trial records into deterministic report rows:
// one row per record (flat), one row per aggregation bucket (grouped), or a
// year by sponsor-class count matrix (pivot).
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// Separator joins multi-valued cells.
const Separator = "; "

// Bounds is an inclusive year range. A zero bound is open.
type Bounds struct {
	Start int
	End   int
}

// Bounded reports whether either bound is set.
func (b Bounds) Bounded() bool {
	return b.Start > 0 || b.End > 0
}

// Contains reports whether year falls within b. A yearless record is
// outside any bounded range.
func (b Bounds) Contains(year *int) bool {
	if year == nil {
		return !b.Bounded()
	}
	if b.Start > 0 && *year < b.Start {
		return false
	}
	if b.End > 0 && *year > b.End {
		return false
	}
	return true
}

// Build aggregates records in mode and converts the result for the writers.
func Build(mode types.ReportMode, records []types.TrialRecord, b Bounds) (types.Table, error) {
	switch mode {
	case types.ModeFlat:
		return FlatTable(Flat(records, b)), nil
	case types.ModeGrouped, "":
		return SummaryTable(Group(records, b)), nil
	case types.ModePivot:
		return Pivot(records, b).Table(), nil
	default:
		return types.Table{}, fmt.Errorf("unknown report mode %q", mode)
	}
}

// FlatRow is one record rendered for output.
type FlatRow struct {
	ID                string `json:"nct_id" yaml:"nct_id"`
	Title             string `json:"title" yaml:"title"`
	Year              *int   `json:"year" yaml:"year"`
	SponsorClass      string `json:"sponsor_class" yaml:"sponsor_class"`
	Status            string `json:"status" yaml:"status"`
	StudyType         string `json:"study_type" yaml:"study_type"`
	Conditions        string `json:"conditions" yaml:"conditions"`
	InterventionTypes string `json:"intervention_types" yaml:"intervention_types"`
}

// FlatColumns is the column order of flat output.
var FlatColumns = []string{
	"nct_id", "title", "year", "sponsor_class", "status",
	"study_type", "conditions", "intervention_types",
}

// Flat renders one row per record within b, sorted by year (absent as 0),
// sponsor class, status and id.
func Flat(records []types.TrialRecord, b Bounds) []FlatRow {
	rows := []FlatRow{}
	for _, r := range records {
		if !b.Contains(r.Year) {
			continue
		}
		rows = append(rows, FlatRow{
			ID:                r.ID,
			Title:             r.Title,
			Year:              r.Year,
			SponsorClass:      r.SponsorClass,
			Status:            r.Status,
			StudyType:         r.StudyType,
			Conditions:        Join(r.Conditions),
			InterventionTypes: Join(r.InterventionTypes),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, c := rows[i], rows[j]
		if ya, yc := yearOr0(a.Year), yearOr0(c.Year); ya != yc {
			return ya < yc
		}
		if a.SponsorClass != c.SponsorClass {
			return a.SponsorClass < c.SponsorClass
		}
		if a.Status != c.Status {
			return a.Status < c.Status
		}
		return a.ID < c.ID
	})
	return rows
}

// FlatTable converts flat rows for the writers. An absent year is nil.
func FlatTable(rows []FlatRow) types.Table {
	t := types.Table{Columns: FlatColumns, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		var year any
		if r.Year != nil {
			year = *r.Year
		}
		t.Rows = append(t.Rows, []any{
			r.ID, r.Title, year, r.SponsorClass, r.Status,
			r.StudyType, r.Conditions, r.InterventionTypes,
		})
	}
	return t
}

// Join renders a set of strings as a sorted, deduplicated, Separator-joined
// string. Empty members are skipped.
func Join(values []string) string {
	return strings.Join(sortedSet(values), Separator)
}

func sortedSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func yearOr0(y *int) int {
	if y == nil {
		return 0
	}
	return *y
}
