// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/neonatal-trials/internal/study"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

func TestIsTargetPopulation(t *testing.T) {
	fields := types.DefaultFieldConfig()
	keywords := types.DefaultKeywords()

	tests := []struct {
		name     string
		study    string
		want     bool
		wantRule Rule
	}{
		{
			name: "keyword in condition",
			study: `{"protocolSection": {
				"conditionsModule": {"conditions": ["Neonatal sepsis"]},
				"eligibilityModule": {"maximumAge": "2 Months"}}}`,
			want:     true,
			wantRule: RuleKeyword,
		},
		{
			name: "keyword beats adult ages",
			study: `{"protocolSection": {
				"conditionsModule": {"conditions": ["Neonatal sepsis"]},
				"eligibilityModule": {"minimumAge": "18 Years", "maximumAge": "65 Years"}}}`,
			want:     true,
			wantRule: RuleKeyword,
		},
		{
			name: "keyword in summary",
			study: `{"protocolSection": {
				"descriptionModule": {"briefSummary": "Outcomes of PRETERM infants after discharge"}}}`,
			want:     true,
			wantRule: RuleKeyword,
		},
		{
			name: "keyword in legacy condition path",
			study: `{"conditions": ["Newborn jaundice"]}`,
			want:     true,
			wantRule: RuleKeyword,
		},
		{
			name: "empty current conditions fall through to legacy path",
			study: `{"protocolSection": {
				"conditionsModule": {"conditions": []},
				"eligibilityModule": {"minimumAge": "18 Years"}},
				"conditions": ["Neonatal sepsis"]}`,
			want:     true,
			wantRule: RuleKeyword,
		},
		{
			name: "adult hypertension",
			study: `{"protocolSection": {
				"conditionsModule": {"conditions": ["Hypertension"]},
				"identificationModule": {"briefTitle": "Adult blood pressure study"},
				"eligibilityModule": {"minimumAge": "18 Years", "maximumAge": "65 Years"}}}`,
			want:     false,
			wantRule: RuleAdultMinAge,
		},
		{
			name:     "no signal",
			study:    `{"protocolSection": {"identificationModule": {"briefTitle": "Untitled"}}}`,
			want:     true,
			wantRule: RuleNoSignal,
		},
		{
			name:     "empty study",
			study:    `{}`,
			want:     true,
			wantRule: RuleNoSignal,
		},
		{
			name: "geriatric",
			study: `{"protocolSection": {
				"eligibilityModule": {"minimumAge": "65 Years", "maximumAge": "99 Years"}}}`,
			want:     false,
			wantRule: RuleAdultMinAge,
		},
		{
			name: "young maximum age",
			study: `{"protocolSection": {
				"eligibilityModule": {"maximumAge": "28 Days"}}}`,
			want:     true,
			wantRule: RuleYoungAge,
		},
		{
			name: "young minimum age with adult maximum",
			study: `{"protocolSection": {
				"eligibilityModule": {"minimumAge": "0 Days", "maximumAge": "80 Years"}}}`,
			want:     true,
			wantRule: RuleYoungAge,
		},
		{
			name: "adult maximum without minimum",
			study: `{"protocolSection": {
				"eligibilityModule": {"maximumAge": "5 Years"}}}`,
			want:     false,
			wantRule: RuleAdultMaxAge,
		},
		{
			name: "adult maximum with infant minimum",
			study: `{"protocolSection": {
				"eligibilityModule": {"minimumAge": "4 Months", "maximumAge": "5 Years"}}}`,
			want:     true,
			wantRule: RuleNoSignal,
		},
		{
			name: "adult maximum with toddler minimum",
			study: `{"protocolSection": {
				"eligibilityModule": {"minimumAge": "9 Months", "maximumAge": "5 Years"}}}`,
			want:     false,
			wantRule: RuleAdultMaxAge,
		},
		{
			name: "unparseable ages",
			study: `{"protocolSection": {
				"eligibilityModule": {"minimumAge": "Child", "maximumAge": "N/A"}}}`,
			want:     true,
			wantRule: RuleNoSignal,
		},
		{
			name: "structured ages",
			study: `{"protocolSection": {
				"eligibilityModule": {"minimumAge": {"value": 4, "unit": "Weeks"}}}}`,
			want:     true,
			wantRule: RuleYoungAge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := study.MustParse(tt.study)
			assert.Equal(t, tt.want, IsTargetPopulation(s, fields, keywords))
			assert.Equal(t, tt.wantRule, Explain(s, fields, keywords).Rule)
		})
	}
}

func TestExplainReportsKeywordAndAges(t *testing.T) {
	s := study.MustParse(`{"protocolSection": {
		"identificationModule": {"briefTitle": "Caffeine for apnea in the NICU"},
		"eligibilityModule": {"minimumAge": "1 Day", "maximumAge": "1 Year"}}}`)

	d := Explain(s, types.DefaultFieldConfig(), types.DefaultKeywords())
	assert.True(t, d.Include)
	assert.Equal(t, "nicu", d.Keyword)
	assert.Equal(t, -1, d.MinAgeDays, "ages are not parsed once a keyword matches")

	d = Explain(s, types.DefaultFieldConfig(), nil)
	assert.Equal(t, RuleYoungAge, d.Rule)
	assert.Equal(t, 1, d.MinAgeDays)
	assert.Equal(t, 365, d.MaxAgeDays)
}

func TestKeywordsAreCaseInsensitiveAndBlankIgnored(t *testing.T) {
	s := study.MustParse(`{"protocolSection": {
		"conditionsModule": {"conditions": ["Bronchopulmonary Dysplasia"]},
		"eligibilityModule": {"minimumAge": "18 Years"}}}`)
	fields := types.DefaultFieldConfig()

	assert.True(t, IsTargetPopulation(s, fields, []string{"  ", "BRONCHOPULMONARY"}))
	assert.False(t, IsTargetPopulation(s, fields, []string{""}))
}
