// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"
	"strings"

	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// PivotRow holds one year's trial counts per sponsor class.
type PivotRow struct {
	Year   int            `json:"year" yaml:"year"`
	Counts map[string]int `json:"counts" yaml:"counts"`
}

// PivotTable is a year by sponsor-class count matrix.
type PivotTable struct {
	// Sponsors are the column headings, sorted.
	Sponsors []string   `json:"sponsors" yaml:"sponsors"`
	Rows     []PivotRow `json:"rows" yaml:"rows"`
}

// Pivot counts records within b per year and sponsor class. Yearless
// records are dropped. Every row carries every sponsor, zero-filled.
func Pivot(records []types.TrialRecord, b Bounds) PivotTable {
	counts := map[int]map[string]int{}
	var sponsors []string
	for _, r := range records {
		if r.Year == nil || !b.Contains(r.Year) {
			continue
		}
		perYear, ok := counts[*r.Year]
		if !ok {
			perYear = map[string]int{}
			counts[*r.Year] = perYear
		}
		perYear[r.SponsorClass]++
		sponsors = append(sponsors, r.SponsorClass)
	}

	p := PivotTable{Sponsors: sortedSet(sponsors), Rows: []PivotRow{}}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		row := PivotRow{Year: y, Counts: make(map[string]int, len(p.Sponsors))}
		for _, s := range p.Sponsors {
			row.Counts[s] = counts[y][s]
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// Table converts p for the writers: a "year" column followed by one
// column per sponsor class. An empty pivot has only the year column.
// Sponsor columns are prefixed with "sponsor_" where they would collide,
// case-insensitively, with another column name.
func (p PivotTable) Table() types.Table {
	cols := []string{"year"}
	taken := map[string]bool{"year": true}
	for _, s := range p.Sponsors {
		name := s
		for taken[strings.ToLower(name)] {
			name = "sponsor_" + name
		}
		taken[strings.ToLower(name)] = true
		cols = append(cols, name)
	}
	t := types.Table{Columns: cols, Rows: make([][]any, 0, len(p.Rows))}
	for _, r := range p.Rows {
		row := make([]any, 0, len(cols))
		row = append(row, r.Year)
		for _, s := range p.Sponsors {
			row = append(row, r.Counts[s])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
