// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/neonatal-trials/pkg/types"
)

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	records := []types.TrialRecord{
		{
			ID: "NCT00000001", Title: "Caffeine for apnea", Year: types.Year(2019),
			SponsorClass: "OTHER", Status: "COMPLETED", StudyType: "INTERVENTIONAL",
			Conditions: []string{"Apnea of Prematurity"}, InterventionTypes: []string{"DRUG"},
		},
		{
			ID: types.Unknown, SponsorClass: types.Unknown, Status: types.Unknown,
			StudyType: types.Unknown, Conditions: []string{}, InterventionTypes: []string{},
		},
	}
	in := File{
		Run:     types.Run{ID: "run-1", Term: "neonatal", FetchedAt: time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)},
		Query:   Query{PageSize: 100, MaxPages: 5, Filter: true, Keywords: []string{"neonat"}},
		Summary: Summary{Pages: 1, Studies: 3, Filtered: 1, Endpoint: "https://example.test/studies"},
		Records: records,
	}
	require.NoError(t, Write(path, in))

	out, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, Version, out.Version)
	assert.Equal(t, "run-1", out.Run.ID)
	assert.True(t, in.Run.FetchedAt.Equal(out.Run.FetchedAt))
	assert.Equal(t, in.Query, out.Query)
	assert.Equal(t, 2, out.Summary.Records)
	assert.Equal(t, records, out.Records)
	assert.Nil(t, out.Records[1].Year)
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, Write(path, File{Run: types.Run{ID: "r"}}))

	out, err := Read(path)
	require.NoError(t, err)
	assert.NotNil(t, out.Records)
	assert.Empty(t, out.Records)
}

func TestReadFillsSentinels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edited.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`version: 1
records:
  - nct_id: NCT00000042
    year: 2022
`), 0o644))

	out, err := Read(path)
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	r := out.Records[0]
	assert.Equal(t, 2022, r.YearOr(0))
	assert.Equal(t, types.Unknown, r.SponsorClass)
	assert.Equal(t, types.Unknown, r.Status)
	assert.Equal(t, types.Unknown, r.StudyType)
	assert.Equal(t, []string{}, r.Conditions)
}

func TestReadRejects(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "records: [unclosed"},
		{"future version", "version: 99\nrecords: []\n"},
		{"missing id", "version: 1\nrecords:\n  - title: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Read(path)
			assert.Error(t, err)
		})
	}

	_, err := Read(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
