// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/neonatal-trials/internal/study"
)

// daysPerUnit converts an eligibility age unit to days.
var daysPerUnit = map[string]float64{
	"day":   1,
	"week":  7,
	"month": 30.44,
	"year":  365,
}

// unitAliases maps the spellings seen in registry data to a canonical unit.
var unitAliases = map[string]string{
	"d": "day", "day": "day", "days": "day",
	"w": "week", "wk": "week", "wks": "week", "week": "week", "weeks": "week",
	"m": "month", "mo": "month", "mos": "month", "month": "month", "months": "month",
	"y": "year", "yr": "year", "yrs": "year", "year": "year", "years": "year",
}

// noAgeTexts are free-text values that mean "no limit".
var noAgeTexts = map[string]bool{"": true, "n/a": true, "na": true, "none": true}

// AgeDays converts an eligibility age into whole days. It accepts a
// structured {"value": 4, "unit": "Weeks"} object or free text such as
// "6 Months" or "18+ years". A missing unit means days.
func AgeDays(v study.Value) (int, bool) {
	switch v.Kind() {
	case study.KindObject:
		return structuredAge(v)
	case study.KindString:
		text, _ := v.Str()
		return textAge(text)
	case study.KindNumber:
		f, _ := v.Float()
		return toDays(f, "day")
	}
	return 0, false
}

func structuredAge(v study.Value) (int, bool) {
	raw, ok := v.Field("value")
	if !ok {
		return 0, false
	}
	var amount float64
	switch raw.Kind() {
	case study.KindNumber:
		amount, _ = raw.Float()
	case study.KindString:
		s, _ := raw.Str()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		amount = f
	default:
		return 0, false
	}

	unit := "days"
	if u, ok := v.Field("unit"); ok {
		if s, ok := u.Str(); ok && strings.TrimSpace(s) != "" {
			unit = s
		}
	}
	return toDays(amount, unit)
}

func textAge(text string) (int, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if noAgeTexts[text] {
		return 0, false
	}
	parts := strings.Fields(text)
	number := strings.TrimSuffix(parts[0], "+")
	amount, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}
	unit := "days"
	if len(parts) > 1 {
		unit = parts[1]
	}
	return toDays(amount, unit)
}

func toDays(amount float64, unit string) (int, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	canonical, ok := unitAliases[strings.ToLower(strings.Trim(unit, " ."))]
	if !ok {
		return 0, false
	}
	return int(amount * daysPerUnit[canonical]), true
}
