// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether a study belongs to the neonatal
// population. A broad registry search returns many studies that merely
// mention a search term; the classifier narrows that set using keywords
// and eligibility ages, and keeps any study it has no evidence against.
package classify

import (
	"strings"

	"github.com/pdiddy/neonatal-trials/internal/parse"
	"github.com/pdiddy/neonatal-trials/internal/study"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// NeonatalAgeDays is the age threshold T. An eligibility bound at or below
// T marks a neonatal study; multiples of T mark adult ones.
const NeonatalAgeDays = 90

// Rule names the step that decided a classification.
type Rule string

const (
	RuleKeyword     Rule = "keyword"
	RuleYoungAge    Rule = "young-age"
	RuleAdultMinAge Rule = "adult-minimum-age"
	RuleAdultMaxAge Rule = "adult-maximum-age"
	RuleNoSignal    Rule = "no-signal"
)

// Decision is a classification with the rule that produced it.
type Decision struct {
	Include bool
	Rule    Rule

	// Keyword is the matching keyword when Rule is RuleKeyword.
	Keyword string

	// MinAgeDays and MaxAgeDays are the parsed bounds, or -1 when absent.
	MinAgeDays int
	MaxAgeDays int
}

// IsTargetPopulation reports whether s belongs to the target population.
func IsTargetPopulation(s study.Value, fields types.FieldConfig, keywords []string) bool {
	return Explain(s, fields, keywords).Include
}

// Explain classifies s and reports which rule decided. Rules apply in
// order: keyword match, young eligibility age, clear adult age, then the
// permissive default.
func Explain(s study.Value, fields types.FieldConfig, keywords []string) Decision {
	d := Decision{MinAgeDays: -1, MaxAgeDays: -1}

	texts := collectText(s, fields)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		for _, text := range texts {
			if strings.Contains(text, kw) {
				d.Include, d.Rule, d.Keyword = true, RuleKeyword, kw
				return d
			}
		}
	}

	minAge, hasMin := firstAge(s, fields.MinimumAge)
	maxAge, hasMax := firstAge(s, fields.MaximumAge)
	if hasMin {
		d.MinAgeDays = minAge
	}
	if hasMax {
		d.MaxAgeDays = maxAge
	}

	const t = NeonatalAgeDays
	switch {
	case (hasMin && minAge <= t) || (hasMax && maxAge <= t):
		d.Include, d.Rule = true, RuleYoungAge
	case hasMin && minAge > 4*t:
		d.Include, d.Rule = false, RuleAdultMinAge
	case hasMax && maxAge > 12*t && (!hasMin || minAge > 2*t):
		d.Include, d.Rule = false, RuleAdultMaxAge
	default:
		d.Include, d.Rule = true, RuleNoSignal
	}
	return d
}

// collectText gathers lower-cased condition names, resolved the same way
// the extractor resolves them, and every configured title or summary field.
func collectText(s study.Value, fields types.FieldConfig) []string {
	var texts []string
	if v, ok := s.First(fields.Conditions); ok {
		texts = appendText(texts, v)
	}
	for _, path := range fields.Text {
		if v, ok := s.Lookup(path); ok {
			texts = appendText(texts, v)
		}
	}
	return texts
}

func appendText(texts []string, v study.Value) []string {
	if items := v.Items(); items != nil {
		for _, item := range items {
			if text, ok := item.Text(); ok && text != "" {
				texts = append(texts, strings.ToLower(text))
			}
		}
		return texts
	}
	if text, ok := v.Text(); ok && text != "" {
		texts = append(texts, strings.ToLower(text))
	}
	return texts
}

// firstAge returns the first candidate path that parses as an age.
func firstAge(s study.Value, paths []string) (int, bool) {
	for _, path := range paths {
		v, ok := s.Lookup(path)
		if !ok {
			continue
		}
		if days, ok := parse.AgeDays(v); ok {
			return days, true
		}
	}
	return 0, false
}
