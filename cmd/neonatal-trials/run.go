// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/pdiddy/neonatal-trials/internal/fetch"
	"github.com/pdiddy/neonatal-trials/internal/httputil"
	"github.com/pdiddy/neonatal-trials/internal/output"
	"github.com/pdiddy/neonatal-trials/internal/snapshot"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// newTransport builds the transport used for live fetches. Tests replace it.
var newTransport = func(cfg types.HTTPConfig) httputil.Transport {
	return httputil.NewClient(cfg)
}

// fetchResult is one live or replayed fetch.
type fetchResult struct {
	Run     types.Run
	Stats   fetch.Stats
	Records []types.TrialRecord
}

// fetchRecords queries the registry with cfg.Fetch.
func fetchRecords(ctx context.Context, cfg types.Config) (fetchResult, error) {
	f := fetch.New(newTransport(cfg.Fetch.HTTPConfig), cfg.Fetch.Endpoints, log)
	started := time.Now().UTC()
	records, stats, err := f.FetchWithStats(ctx, fetch.RequestFromConfig(cfg.Fetch))
	if err != nil {
		return fetchResult{}, err
	}
	return fetchResult{
		Run:     types.Run{ID: stats.RunID, Term: cfg.Fetch.Term, FetchedAt: started},
		Stats:   stats,
		Records: records,
	}, nil
}

// loadSnapshot replays a saved fetch.
func loadSnapshot(path string) (fetchResult, error) {
	f, err := snapshot.Read(path)
	if err != nil {
		return fetchResult{}, err
	}
	log.Info("loaded snapshot",
		zap.String("path", path),
		zap.String("run_id", f.Run.ID),
		zap.Int("records", len(f.Records)))
	return fetchResult{
		Run: f.Run,
		Stats: fetch.Stats{
			RunID:      f.Run.ID,
			Pages:      f.Summary.Pages,
			Studies:    f.Summary.Studies,
			Filtered:   f.Summary.Filtered,
			Duplicates: f.Summary.Duplicates,
			Records:    len(f.Records),
			Endpoint:   f.Summary.Endpoint,
		},
		Records: f.Records,
	}, nil
}

// saveSnapshot writes res to path.
func saveSnapshot(path string, cfg types.Config, res fetchResult) error {
	err := snapshot.Write(path, snapshot.File{
		Run: res.Run,
		Query: snapshot.Query{
			PageSize: cfg.Fetch.PageSize,
			MaxPages: cfg.Fetch.MaxPages,
			Filter:   cfg.Fetch.Filter,
			Keywords: cfg.Fetch.Keywords,
		},
		Summary: snapshot.Summary{
			Pages:      res.Stats.Pages,
			Studies:    res.Stats.Studies,
			Filtered:   res.Stats.Filtered,
			Duplicates: res.Stats.Duplicates,
			Endpoint:   res.Stats.Endpoint,
		},
		Records: res.Records,
	})
	if err != nil {
		return err
	}
	log.Info("saved snapshot", zap.String("path", path), zap.Int("records", len(res.Records)))
	return nil
}

// printFetchSummary writes a one-line human summary of a fetch.
func printFetchSummary(w io.Writer, s fetch.Stats) {
	if s.Pages == 0 {
		fmt.Fprintf(w, "%s records\n", humanize.Comma(int64(s.Records)))
		return
	}
	fmt.Fprintf(w, "Fetched %s records from %s studies on %s pages (%s filtered out, %s duplicates)\n",
		humanize.Comma(int64(s.Records)),
		humanize.Comma(int64(s.Studies)),
		humanize.Comma(int64(s.Pages)),
		humanize.Comma(int64(s.Filtered)),
		humanize.Comma(int64(s.Duplicates)))
}

// emit writes table in the configured format. The sqlite format writes the
// run's records and the table (as name) to the database file instead.
func emit(ctx context.Context, w io.Writer, cfg types.Config, res fetchResult, name string, table types.Table) error {
	format := output.Format(cfg.Report.Format)
	if format != output.FormatSQLite {
		return output.Write(w, format, table)
	}

	sink, err := output.OpenSQLite(cfg.Report.DBPath)
	if err != nil {
		return err
	}
	defer sink.Close()

	if res.Run.ID != "" {
		if err := sink.WriteRecords(ctx, res.Run, res.Records); err != nil {
			return fmt.Errorf("exporting records: %w", err)
		}
	}
	if err := sink.WriteTable(ctx, name, table); err != nil {
		return fmt.Errorf("exporting %s: %w", name, err)
	}
	log.Info("wrote sqlite export",
		zap.String("path", cfg.Report.DBPath),
		zap.String("table", name),
		zap.Int("rows", table.Len()))
	return nil
}
