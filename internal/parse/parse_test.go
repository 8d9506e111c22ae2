// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/neonatal-trials/internal/study"
)

func TestYear(t *testing.T) {
	tests := []struct {
		name   string
		input  study.Value
		want   int
		wantOK bool
	}{
		{"full date", study.From("2024-05-01"), 2024, true},
		{"year-month", study.From("2019-07"), 2019, true},
		{"year only", study.From("2015"), 2015, true},
		{"integer", study.From(2010), 2010, true},
		{"json integer", study.MustParse(`2010`), 2010, true},
		{"timestamp suffix", study.From("2021-03-04T10:00:00Z"), 2021, true},
		{"invalid month falls to year layout", study.From("2024-13-01"), 2024, true},
		{"hyphen token fallback", study.From("circa-1999-ish"), 1999, true},
		{"no year", study.From("unknown"), 0, false},
		{"empty", study.From(""), 0, false},
		{"absent", study.Value{}, 0, false},
		{"object", study.MustParse(`{"date":"2020"}`), 0, false},
		{"fractional number", study.From(2020.5), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Year(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgeDays(t *testing.T) {
	tests := []struct {
		name   string
		input  study.Value
		want   int
		wantOK bool
	}{
		{"structured weeks", study.MustParse(`{"value": 4, "unit": "Weeks"}`), 28, true},
		{"structured string value", study.MustParse(`{"value": "2", "unit": "Days"}`), 2, true},
		{"structured no unit", study.MustParse(`{"value": 10}`), 10, true},
		{"structured bad unit", study.MustParse(`{"value": 1, "unit": "Fortnights"}`), 0, false},
		{"structured no value", study.MustParse(`{"unit": "Years"}`), 0, false},
		{"days", study.From("28 Days"), 28, true},
		{"one month", study.From("1 Month"), 30, true},
		{"six months", study.From("6 Months"), 182, true},
		{"one year", study.From("1 Year"), 365, true},
		{"plus suffix", study.From("18+ Years"), 6570, true},
		{"abbreviated", study.From("2 wks"), 14, true},
		{"no unit means days", study.From("  45 "), 45, true},
		{"n/a", study.From("N/A"), 0, false},
		{"none", study.From("None"), 0, false},
		{"blank", study.From("   "), 0, false},
		{"non-numeric", study.From("Child"), 0, false},
		{"unknown unit", study.From("3 decades"), 0, false},
		{"nan", study.From("nan days"), 0, false},
		{"absent", study.Value{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AgeDays(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
