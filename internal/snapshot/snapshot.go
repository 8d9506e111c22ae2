// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot saves fetched records to a YAML file and loads them back,
// so reports can be regenerated without querying the registry again.
package snapshot

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// Version is the snapshot file format version.
const Version = 1

// File is the on-disk representation of one fetch run.
type File struct {
	Version int                 `yaml:"version"`
	Run     types.Run           `yaml:"run"`
	Query   Query               `yaml:"query"`
	Summary Summary             `yaml:"summary"`
	Records []types.TrialRecord `yaml:"records"`
}

// Query stores the request parameters that produced the records.
type Query struct {
	PageSize int      `yaml:"page_size"`
	MaxPages int      `yaml:"max_pages"`
	Filter   bool     `yaml:"filter"`
	Keywords []string `yaml:"keywords,omitempty"`
}

// Summary stores fetch statistics.
type Summary struct {
	Pages      int    `yaml:"pages"`
	Studies    int    `yaml:"studies"`
	Filtered   int    `yaml:"filtered"`
	Duplicates int    `yaml:"duplicates"`
	Records    int    `yaml:"records"`
	Endpoint   string `yaml:"endpoint,omitempty"`
}

// Write saves f to path.
func Write(path string, f File) error {
	if f.Version == 0 {
		f.Version = Version
	}
	f.Summary.Records = len(f.Records)
	if f.Records == nil {
		f.Records = []types.TrialRecord{}
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Read loads a snapshot written by Write.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if f.Version > Version {
		return nil, fmt.Errorf("snapshot %s has version %d, newest supported is %d", path, f.Version, Version)
	}
	if err := f.normalize(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return &f, nil
}

// normalize restores sentinels that a hand-edited file may have dropped.
func (f *File) normalize() error {
	for i := range f.Records {
		r := &f.Records[i]
		if r.ID == "" {
			return fmt.Errorf("record %d has no nct_id", i)
		}
		if r.SponsorClass == "" {
			r.SponsorClass = types.Unknown
		}
		if r.Status == "" {
			r.Status = types.Unknown
		}
		if r.StudyType == "" {
			r.StudyType = types.Unknown
		}
		if r.Conditions == nil {
			r.Conditions = []string{}
		}
		if r.InterventionTypes == nil {
			r.InterventionTypes = []string{}
		}
	}
	return nil
}
