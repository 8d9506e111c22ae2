// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse normalizes the registry's date and eligibility-age values.
// Both parsers report absence with a false second return rather than an
// error: an unparseable value is an ordinary schema gap.
package parse

import (
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/neonatal-trials/internal/study"
)

// yearLayouts are tried in order against a prefix of the input truncated
// to each layout's length.
var yearLayouts = []string{"2006-01-02", "2006-01", "2006"}

// Year extracts a calendar year from an integer or a date-like string
// ("2024-05-01", "2019-07", "2015"). When no layout matches it falls back to
// the first 4-digit hyphen-separated token.
func Year(v study.Value) (int, bool) {
	if v.Kind() == study.KindNumber {
		return v.Int()
	}
	text, ok := v.Str()
	if !ok || text == "" {
		return 0, false
	}

	for _, layout := range yearLayouts {
		prefix := text
		if len(prefix) > len(layout) {
			prefix = prefix[:len(layout)]
		}
		if t, err := time.Parse(layout, prefix); err == nil {
			return t.Year(), true
		}
	}

	for _, token := range strings.Split(text, "-") {
		if len(token) == 4 && isDigits(token) {
			y, _ := strconv.Atoi(token)
			return y, true
		}
	}
	return 0, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
