// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"

	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// Key identifies one aggregation bucket.
type Key struct {
	Year             int
	SponsorClass     string
	Status           string
	StudyType        string
	InterventionType string
	Conditions       string
}

func (k Key) less(o Key) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.SponsorClass != o.SponsorClass {
		return k.SponsorClass < o.SponsorClass
	}
	if k.Status != o.Status {
		return k.Status < o.Status
	}
	if k.StudyType != o.StudyType {
		return k.StudyType < o.StudyType
	}
	if k.InterventionType != o.InterventionType {
		return k.InterventionType < o.InterventionType
	}
	return k.Conditions < o.Conditions
}

// bucket accumulates the records contributing to one Key during a pass.
type bucket struct {
	count  int
	ids    []string
	titles []string
}

// SummaryRow is one bucket rendered for output.
type SummaryRow struct {
	Year             int    `json:"year" yaml:"year"`
	SponsorClass     string `json:"sponsor_class" yaml:"sponsor_class"`
	Status           string `json:"status" yaml:"status"`
	StudyType        string `json:"study_type" yaml:"study_type"`
	InterventionType string `json:"intervention_type" yaml:"intervention_type"`
	Conditions       string `json:"conditions" yaml:"conditions"`
	Count            int    `json:"trial_count" yaml:"trial_count"`
	IDs              string `json:"nct_ids" yaml:"nct_ids"`
	Titles           string `json:"titles" yaml:"titles"`
}

// SummaryColumns is the column order of grouped output.
var SummaryColumns = []string{
	"year", "sponsor_class", "status", "study_type", "intervention_type",
	"conditions", "trial_count", "nct_ids", "titles",
}

// Group buckets records within b by Key. Yearless records are dropped. A
// record with several intervention types contributes once to each type's
// bucket; a record with none lands under types.NoIntervention.
func Group(records []types.TrialRecord, b Bounds) []SummaryRow {
	buckets := map[Key]*bucket{}
	for _, r := range records {
		if r.Year == nil || !b.Contains(r.Year) {
			continue
		}
		conditions := Join(r.Conditions)
		kinds := sortedSet(r.InterventionTypes)
		if len(kinds) == 0 {
			kinds = []string{types.NoIntervention}
		}
		for _, kind := range kinds {
			k := Key{
				Year:             *r.Year,
				SponsorClass:     r.SponsorClass,
				Status:           r.Status,
				StudyType:        r.StudyType,
				InterventionType: kind,
				Conditions:       conditions,
			}
			bk, ok := buckets[k]
			if !ok {
				bk = &bucket{}
				buckets[k] = bk
			}
			bk.count++
			bk.ids = append(bk.ids, r.ID)
			bk.titles = append(bk.titles, r.Title)
		}
	}

	keys := make([]Key, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	rows := make([]SummaryRow, 0, len(keys))
	for _, k := range keys {
		bk := buckets[k]
		rows = append(rows, SummaryRow{
			Year:             k.Year,
			SponsorClass:     k.SponsorClass,
			Status:           k.Status,
			StudyType:        k.StudyType,
			InterventionType: k.InterventionType,
			Conditions:       k.Conditions,
			Count:            bk.count,
			IDs:              Join(bk.ids),
			Titles:           Join(bk.titles),
		})
	}
	return rows
}

// SummaryTable converts grouped rows for the writers.
func SummaryTable(rows []SummaryRow) types.Table {
	t := types.Table{Columns: SummaryColumns, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.Year, r.SponsorClass, r.Status, r.StudyType, r.InterventionType,
			r.Conditions, r.Count, r.IDs, r.Titles,
		})
	}
	return t
}
