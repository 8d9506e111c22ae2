// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"net/http"
	"time"
)

const (
	DefaultTerm      = "neonatal"
	DefaultPageSize  = 100
	DefaultMaxPages  = 30
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "neonatal-trials/0.1"
)

// DefaultEndpoints are the ClinicalTrials.gov study search APIs, current
// version first.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{URL: "https://clinicaltrials.gov/api/v2/studies", Method: http.MethodGet, FallbackMethod: http.MethodPost},
		{URL: "https://clinicaltrials.gov/data-api/api/studies", Method: http.MethodGet, FallbackMethod: http.MethodPost},
	}
}

// DefaultKeywords identify neonatal studies by their text.
func DefaultKeywords() []string {
	return []string{
		"neonat",
		"newborn",
		"new-born",
		"preterm",
		"premature",
		"prematurity",
		"nicu",
		"low birth weight",
		"perinatal",
		"bronchopulmonary dysplasia",
		"necrotizing enterocolitis",
		"hypoxic-ischemic encephalopathy",
		"retinopathy of prematurity",
	}
}

// DefaultFieldConfig returns the path candidates for the v2 study schema,
// followed by the layouts older API versions used.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		ID: []string{
			"protocolSection.identificationModule.nctId",
			"identificationModule.nctId",
			"nctId",
		},
		Title: []string{
			"protocolSection.identificationModule.briefTitle",
			"protocolSection.identificationModule.officialTitle",
			"briefTitle",
		},
		SponsorClass: []string{
			"protocolSection.sponsorCollaboratorsModule.leadSponsor.class",
			"sponsorInfo.leadSponsorClass",
			"sponsors.lead_sponsor_class",
		},
		Status: []string{
			"protocolSection.statusModule.overallStatus",
			"statusModule.overallStatus",
			"overall_status",
		},
		StudyType: []string{
			"protocolSection.designModule.studyType",
			"designModule.studyType",
			"study_type",
		},
		Conditions: []string{
			"protocolSection.conditionsModule.conditions",
			"conditionsModule.conditions",
			"conditions",
		},
		Interventions: []string{
			"protocolSection.armsInterventionsModule.interventions",
			"armsInterventionsModule.interventions",
			"interventions",
		},
		Dates: []string{
			"protocolSection.statusModule.startDateStruct.date",
			"protocolSection.startDateStruct.startDate",
			"protocolSection.startDateStruct.date",
			"protocolSection.startDateStruct.startDateDay",
			"protocolSection.statusModule.studyFirstPostDateStruct.date",
			"protocolSection.firstPostDateStruct.firstPostDate",
		},
		Text: []string{
			"protocolSection.identificationModule.briefTitle",
			"protocolSection.identificationModule.officialTitle",
			"protocolSection.descriptionModule.briefSummary",
			"protocolSection.conditionsModule.keywords",
		},
		MinimumAge: []string{
			"protocolSection.eligibilityModule.minimumAge",
			"eligibilityModule.minimumAge",
		},
		MaximumAge: []string{
			"protocolSection.eligibilityModule.maximumAge",
			"eligibilityModule.maximumAge",
		},
	}
}

// DefaultConfig returns the settings used when no config file or flag
// overrides them.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			Term:      DefaultTerm,
			PageSize:  DefaultPageSize,
			MaxPages:  DefaultMaxPages,
			Endpoints: DefaultEndpoints(),
			Keywords:  DefaultKeywords(),
			Filter:    true,
			Fields:    DefaultFieldConfig(),
		},
		Report: ReportConfig{
			Mode:   ModeGrouped,
			Format: "csv",
		},
	}
}
