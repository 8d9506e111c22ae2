// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch pages through the registry search API and returns
// normalized, deduplicated trial records.
//
// Every page is requested through an ordered plan of endpoint, method and
// request-shape attempts. The first attempt that yields a JSON payload
// becomes sticky for later pages. Pages are fetched one at a time.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/neonatal-trials/internal/classify"
	"github.com/pdiddy/neonatal-trials/internal/extract"
	"github.com/pdiddy/neonatal-trials/internal/httputil"
	"github.com/pdiddy/neonatal-trials/internal/study"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// previewBytes bounds the body excerpt kept per failed attempt.
const previewBytes = 200

// Envelope and cursor keys, current schema first.
var (
	envelopeKeys = []string{"studies", "results"}
	tokenKeys    = []string{"nextPageToken", "next_page_token"}
)

// Request holds the parameters of one fetch call.
type Request struct {
	Term     string
	Fields   types.FieldConfig
	PageSize int

	// MaxPages bounds the pages requested. Zero means no bound.
	MaxPages int

	Keywords []string

	// Filter runs the population classifier before extraction.
	Filter bool
}

// RequestFromConfig builds a Request from the fetch configuration.
func RequestFromConfig(cfg types.FetchConfig) Request {
	return Request{
		Term:     cfg.Term,
		Fields:   cfg.Fields,
		PageSize: cfg.PageSize,
		MaxPages: cfg.MaxPages,
		Keywords: cfg.Keywords,
		Filter:   cfg.Filter,
	}
}

// Stats summarizes one fetch call.
type Stats struct {
	RunID      string `json:"run_id" yaml:"run_id"`
	Pages      int    `json:"pages" yaml:"pages"`
	Studies    int    `json:"studies" yaml:"studies"`
	Filtered   int    `json:"filtered" yaml:"filtered"`
	Duplicates int    `json:"duplicates" yaml:"duplicates"`
	Records    int    `json:"records" yaml:"records"`

	// Endpoint is the URL that served the last page.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// CycleDetected is set when paging stopped on a repeated token.
	CycleDetected bool `json:"cycle_detected" yaml:"cycle_detected"`
}

// Fetcher retrieves studies through Transport from Endpoints.
type Fetcher struct {
	Transport httputil.Transport
	Endpoints []types.Endpoint
	Logger    *zap.Logger
}

// New returns a Fetcher. A nil logger discards output.
func New(t httputil.Transport, endpoints []types.Endpoint, logger *zap.Logger) *Fetcher {
	return &Fetcher{Transport: t, Endpoints: endpoints, Logger: logger}
}

// Fetch returns the records for req in first-seen order.
func (f *Fetcher) Fetch(ctx context.Context, req Request) ([]types.TrialRecord, error) {
	records, _, err := f.FetchWithStats(ctx, req)
	return records, err
}

// FetchWithStats is Fetch plus the run's counters. On error no records are
// returned; the stats still describe the pages completed before the error.
func (f *Fetcher) FetchWithStats(ctx context.Context, req Request) ([]types.TrialRecord, Stats, error) {
	stats := Stats{RunID: uuid.NewString()}
	log := f.logger().With(zap.String("run_id", stats.RunID), zap.String("term", req.Term))

	if f.Transport == nil {
		return nil, stats, errors.New("fetch: no transport configured")
	}
	if len(f.Endpoints) == 0 {
		return nil, stats, errors.New("fetch: no endpoints configured")
	}

	var (
		records    []types.TrialRecord
		seenIDs    = map[string]bool{}
		seenTokens = map[string]bool{}
		token      string
		sticky     string
	)

	for page := 1; req.MaxPages == 0 || page <= req.MaxPages; page++ {
		payload, used, err := f.fetchPage(ctx, log, req, page, token, sticky)
		if err != nil {
			return nil, stats, err
		}
		sticky = used
		stats.Pages++
		stats.Endpoint = used

		studies := studyList(payload)
		kept := 0
		for _, s := range studies {
			stats.Studies++
			if req.Filter && !classify.IsTargetPopulation(s, req.Fields, req.Keywords) {
				stats.Filtered++
				continue
			}
			rec := extract.Record(s, req.Fields)
			if rec.ID != types.Unknown {
				if seenIDs[rec.ID] {
					stats.Duplicates++
					continue
				}
				seenIDs[rec.ID] = true
			}
			records = append(records, rec)
			kept++
		}
		log.Debug("page fetched",
			zap.Int("page", page),
			zap.String("endpoint", used),
			zap.Int("studies", len(studies)),
			zap.Int("kept", kept))

		next, ok := nextToken(payload)
		if !ok {
			break
		}
		if seenTokens[next] {
			stats.CycleDetected = true
			log.Warn("page token repeated, stopping", zap.Int("page", page), zap.String("token", next))
			break
		}
		seenTokens[next] = true
		token = next
	}

	stats.Records = len(records)
	log.Info("fetch complete",
		zap.Int("pages", stats.Pages),
		zap.Int("studies", stats.Studies),
		zap.Int("filtered", stats.Filtered),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("records", stats.Records),
		zap.String("endpoint", stats.Endpoint))

	if records == nil {
		records = []types.TrialRecord{}
	}
	return records, stats, nil
}

// fetchPage walks the attempt plan until one attempt yields a JSON payload.
// It returns the payload and the endpoint URL that served it.
func (f *Fetcher) fetchPage(ctx context.Context, log *zap.Logger, req Request, page int, token, sticky string) (study.Value, string, error) {
	var failures []AttemptError
	for _, a := range PlanAttempts(f.Endpoints, sticky) {
		if err := ctx.Err(); err != nil {
			return study.Value{}, "", fmt.Errorf("fetching page %d: %w", page, err)
		}

		resp, err := f.Transport.Do(ctx, buildRequest(a, req.Term, req.PageSize, token))
		if err != nil {
			failures = append(failures, AttemptError{Attempt: a, Err: err})
			log.Debug("attempt failed", zap.Int("page", page), zap.Stringer("attempt", a), zap.Error(err))
			continue
		}

		payload, aerr := accept(a, resp)
		if aerr != nil {
			failures = append(failures, *aerr)
			log.Debug("attempt rejected", zap.Int("page", page), zap.Stringer("attempt", a), zap.Error(aerr))
			continue
		}
		if a.URL != sticky && sticky != "" {
			log.Info("switched endpoint", zap.String("from", sticky), zap.String("to", a.URL))
		}
		return payload, a.URL, nil
	}
	return study.Value{}, "", &ExhaustedError{Page: page, Attempts: failures}
}

// accept applies the success rule: 2xx status, JSON content type and a
// body that parses.
func accept(a Attempt, resp *httputil.Response) (study.Value, *AttemptError) {
	fail := func(err error) *AttemptError {
		return &AttemptError{
			Attempt:    a,
			StatusCode: resp.StatusCode,
			Preview:    resp.Preview(previewBytes),
			Err:        err,
		}
	}
	if !resp.OK() {
		return study.Value{}, fail(errors.New("unexpected status"))
	}
	if !resp.IsJSON() {
		return study.Value{}, fail(fmt.Errorf("content type %q is not JSON", resp.Header.Get("Content-Type")))
	}
	payload, err := resp.JSON()
	if err != nil {
		return study.Value{}, fail(fmt.Errorf("parsing body: %w", err))
	}
	return payload, nil
}

// studyList returns the raw studies under the first non-empty envelope key.
func studyList(payload study.Value) []study.Value {
	for _, key := range envelopeKeys {
		v, ok := payload.Field(key)
		if !ok {
			continue
		}
		if items := v.Items(); len(items) > 0 {
			return items
		}
	}
	return nil
}

// nextToken returns the continuation cursor, if any.
func nextToken(payload study.Value) (string, bool) {
	for _, key := range tokenKeys {
		v, ok := payload.Field(key)
		if !ok {
			continue
		}
		if text, ok := v.Text(); ok && text != "" {
			return text, true
		}
	}
	return "", false
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}
