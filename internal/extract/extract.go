// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract maps raw registry studies onto normalized TrialRecords.
// Each attribute is resolved from an ordered list of path candidates, so
// studies from older schema versions still yield complete records.
package extract

import (
	"github.com/pdiddy/neonatal-trials/internal/parse"
	"github.com/pdiddy/neonatal-trials/internal/study"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// Record builds a TrialRecord from s. It never fails: unresolved string
// attributes get the Unknown sentinel (the title stays empty) and Year is
// nil when no date candidate parses. Record is pure, so extracting the same
// study twice yields identical records.
func Record(s study.Value, fields types.FieldConfig) types.TrialRecord {
	r := types.TrialRecord{
		ID:                firstText(s, fields.ID, types.Unknown),
		Title:             firstText(s, fields.Title, ""),
		SponsorClass:      firstText(s, fields.SponsorClass, types.Unknown),
		Status:            firstText(s, fields.Status, types.Unknown),
		StudyType:         firstText(s, fields.StudyType, types.Unknown),
		Conditions:        Conditions(s, fields.Conditions),
		InterventionTypes: InterventionTypes(s, fields.Interventions),
	}
	if y, ok := Year(s, fields.Dates); ok {
		r.Year = types.Year(y)
	}
	return r
}

// firstText returns the first candidate that resolves to a non-empty scalar.
func firstText(s study.Value, paths []string, fallback string) string {
	for _, path := range paths {
		v, ok := s.Lookup(path)
		if !ok {
			continue
		}
		if text, ok := v.Text(); ok && text != "" {
			return text
		}
	}
	return fallback
}

// Year returns the year from the first date candidate that both resolves
// and parses. A candidate that is present but unparseable does not stop
// the search.
func Year(s study.Value, paths []string) (int, bool) {
	for _, path := range paths {
		v, ok := s.Lookup(path)
		if !ok {
			continue
		}
		if y, ok := parse.Year(v); ok {
			return y, true
		}
	}
	return 0, false
}

// Conditions reads a list of condition names, or a single name.
func Conditions(s study.Value, paths []string) []string {
	v, ok := s.First(paths)
	if !ok {
		return []string{}
	}
	out := []string{}
	if items := v.Items(); items != nil {
		for _, item := range items {
			if text, ok := item.Text(); ok && text != "" {
				out = append(out, text)
			}
		}
		return out
	}
	if text, ok := v.Text(); ok && text != "" {
		out = append(out, text)
	}
	return out
}

// InterventionTypes reads the intervention list. Entries may be objects
// with a "type" key, bare values, or a single object instead of a list.
// An entry without a "type" key contributes its own text.
func InterventionTypes(s study.Value, paths []string) []string {
	v, ok := s.First(paths)
	if !ok {
		return []string{}
	}
	entries := v.Items()
	if entries == nil {
		entries = []study.Value{v}
	}

	out := []string{}
	for _, entry := range entries {
		if t, ok := entry.Field("type"); ok {
			if text, ok := t.Text(); ok && text != "" {
				out = append(out, text)
			}
			continue
		}
		if text, ok := entry.Text(); ok {
			if text != "" {
				out = append(out, text)
			}
			continue
		}
		if !entry.IsNull() {
			out = append(out, entry.Compact())
		}
	}
	return out
}
