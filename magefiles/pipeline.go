//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Fetch retrieves neonatal trials and saves a dated snapshot under
// output/snapshots.
func Fetch() error {
	mg.Deps(Build, Init)
	snap := snapshotPath()
	if err := sh.RunV(binPath, "fetch", "--save", snap, "--format", "table"); err != nil {
		return err
	}
	fmt.Println("Snapshot:", snap)
	return nil
}

// Summarize writes grouped, flat and pivot CSV reports for the newest
// snapshot, fetching one first if none exists.
func Summarize() error {
	mg.Deps(Build, Init)
	snap, err := latestSnapshot()
	if err != nil {
		return err
	}
	if snap == "" {
		mg.Deps(Fetch)
		if snap, err = latestSnapshot(); err != nil {
			return err
		}
	}

	for _, mode := range []string{"grouped", "flat", "pivot"} {
		out := filepath.Join("output", "reports", mode+".csv")
		report, err := sh.Output(binPath, "summarize", "--quiet", "--from", snap, "--mode", mode)
		if err != nil {
			return fmt.Errorf("summarize %s: %w", mode, err)
		}
		if err := writeFile(out, report+"\n"); err != nil {
			return err
		}
		fmt.Println("  ", out)
	}
	return nil
}

func snapshotPath() string {
	return filepath.Join("output", "snapshots", "trials-"+time.Now().Format("20060102-150405")+".yaml")
}

// latestSnapshot returns the newest snapshot file, or "" if there is none.
func latestSnapshot() (string, error) {
	matches, err := filepath.Glob(filepath.Join("output", "snapshots", "trials-*.yaml"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	// Names embed a sortable timestamp.
	return matches[len(matches)-1], nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
