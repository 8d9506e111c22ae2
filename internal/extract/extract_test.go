// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/neonatal-trials/internal/study"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

const fullStudyJSON = `{
  "protocolSection": {
    "identificationModule": {"nctId": "NCT00000001", "briefTitle": "Trial A"},
    "startDateStruct": {
      "startDate": "2020-01-15",
      "date": "2020-01-15",
      "startDateDay": "2020-01-15"
    },
    "statusModule": {"overallStatus": "Recruiting"},
    "conditionsModule": {"conditions": ["Condition A", "Condition B"]},
    "armsInterventionsModule": {
      "interventions": [
        {"type": "Drug", "name": "Drug A"},
        {"type": "Procedure", "name": "Procedure A"}
      ]
    },
    "designModule": {"studyType": "Interventional"}
  },
  "sponsorInfo": {"leadSponsorClass": "Industry"}
}`

func TestRecordPrefersConfiguredFields(t *testing.T) {
	r := Record(study.MustParse(fullStudyJSON), types.DefaultFieldConfig())

	assert.Equal(t, "NCT00000001", r.ID)
	assert.Equal(t, "Trial A", r.Title)
	require.NotNil(t, r.Year)
	assert.Equal(t, 2020, *r.Year)
	assert.Equal(t, "Industry", r.SponsorClass)
	assert.Equal(t, "Recruiting", r.Status)
	assert.ElementsMatch(t, []string{"Condition A", "Condition B"}, r.Conditions)
	assert.ElementsMatch(t, []string{"Drug", "Procedure"}, r.InterventionTypes)
	assert.Equal(t, "Interventional", r.StudyType)
}

func TestRecordSentinels(t *testing.T) {
	r := Record(study.MustParse(`{}`), types.DefaultFieldConfig())

	assert.Equal(t, types.Unknown, r.ID)
	assert.Equal(t, "", r.Title)
	assert.Nil(t, r.Year)
	assert.Equal(t, types.Unknown, r.SponsorClass)
	assert.Equal(t, types.Unknown, r.Status)
	assert.Equal(t, types.Unknown, r.StudyType)
	assert.NotNil(t, r.Conditions)
	assert.Empty(t, r.Conditions)
	assert.NotNil(t, r.InterventionTypes)
	assert.Empty(t, r.InterventionTypes)
}

func TestRecordIsIdempotent(t *testing.T) {
	s := study.MustParse(fullStudyJSON)
	fields := types.DefaultFieldConfig()
	assert.Equal(t, Record(s, fields), Record(s, fields))
}

func TestRecordFallsBackToAlternatePaths(t *testing.T) {
	s := study.MustParse(`{
		"protocolSection": {
			"identificationModule": {"nctId": "", "officialTitle": "Official only"},
			"sponsorCollaboratorsModule": {"leadSponsor": {"name": "Acme"}}
		},
		"nctId": "NCT09999999",
		"sponsors": {"lead_sponsor_class": "NIH"},
		"overall_status": "COMPLETED",
		"study_type": "OBSERVATIONAL"
	}`)
	r := Record(s, types.DefaultFieldConfig())

	assert.Equal(t, "NCT09999999", r.ID, "empty primary value falls through")
	assert.Equal(t, "Official only", r.Title)
	assert.Equal(t, "NIH", r.SponsorClass)
	assert.Equal(t, "COMPLETED", r.Status)
	assert.Equal(t, "OBSERVATIONAL", r.StudyType)
}

func TestRecordCandidateOrderIsRespected(t *testing.T) {
	s := study.MustParse(`{
		"protocolSection": {"sponsorCollaboratorsModule": {"leadSponsor": {"class": "INDUSTRY"}}},
		"sponsorInfo": {"leadSponsorClass": "OTHER"}
	}`)
	fields := types.DefaultFieldConfig()
	assert.Equal(t, "INDUSTRY", Record(s, fields).SponsorClass)

	fields = fields.WithSponsorField("sponsorInfo.leadSponsorClass")
	assert.Equal(t, "OTHER", Record(s, fields).SponsorClass)
}

func TestYearSkipsUnparseableCandidates(t *testing.T) {
	s := study.MustParse(`{
		"protocolSection": {
			"statusModule": {"startDateStruct": {"date": "TBD"}},
			"startDateStruct": {"startDate": "2018-11"},
			"firstPostDateStruct": {"firstPostDate": "2017-01-01"}
		}
	}`)
	y, ok := Year(s, types.DefaultFieldConfig().Dates)
	require.True(t, ok)
	assert.Equal(t, 2018, y, "first parseable candidate wins, later ones are not consulted")
}

func TestYearAbsent(t *testing.T) {
	s := study.MustParse(`{"protocolSection": {"statusModule": {"startDateStruct": {"date": "unknown"}}}}`)
	_, ok := Year(s, types.DefaultFieldConfig().Dates)
	assert.False(t, ok)
}

func TestConditions(t *testing.T) {
	paths := []string{"a.conditions", "conditions"}
	tests := []struct {
		name  string
		study string
		want  []string
	}{
		{"list", `{"a": {"conditions": ["X", "", "Y"]}}`, []string{"X", "Y"}},
		{"single string", `{"a": {"conditions": "Sepsis"}}`, []string{"Sepsis"}},
		{"empty list falls through", `{"a": {"conditions": []}, "conditions": ["Z"]}`, []string{"Z"}},
		{"absent", `{}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Conditions(study.MustParse(tt.study), paths))
		})
	}
}

func TestInterventionTypes(t *testing.T) {
	paths := []string{"interventions"}
	tests := []struct {
		name  string
		study string
		want  []string
	}{
		{"list of objects", `{"interventions": [{"type": "DRUG", "name": "Caffeine"}, {"type": "DEVICE"}]}`, []string{"DRUG", "DEVICE"}},
		{"single object", `{"interventions": {"type": "BEHAVIORAL", "name": "Kangaroo care"}}`, []string{"BEHAVIORAL"}},
		{"bare strings", `{"interventions": ["Drug", "Procedure"]}`, []string{"Drug", "Procedure"}},
		{"object without type", `{"interventions": [{"name": "Surfactant"}]}`, []string{`{"name":"Surfactant"}`}},
		{"absent", `{}`, []string{}},
		{"null", `{"interventions": null}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterventionTypes(study.MustParse(tt.study), paths))
		})
	}
}
