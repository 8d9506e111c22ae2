// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/neonatal-trials/internal/httputil"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// Variant names a request shape the registry API family accepts.
type Variant string

const (
	// VariantStructured is the current API's dotted query parameters.
	VariantStructured Variant = "structured"
	// VariantLegacy is the flat parameter style of older deployments.
	VariantLegacy Variant = "legacy"
)

// variants are tried in this order for every endpoint and method.
var variants = []Variant{VariantStructured, VariantLegacy}

// Attempt is one (endpoint, method, variant) combination.
type Attempt struct {
	URL     string
	Method  string
	Variant Variant
}

func (a Attempt) String() string {
	return fmt.Sprintf("%s %s (%s)", a.Method, a.URL, a.Variant)
}

// PlanAttempts orders the attempts for one page: the sticky endpoint first
// when it is configured, then the remaining endpoints in configured order.
// Each endpoint contributes its preferred method then its fallback method,
// and each method the structured variant then the legacy one.
func PlanAttempts(endpoints []types.Endpoint, sticky string) []Attempt {
	ordered := make([]types.Endpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		if sticky != "" && ep.URL == sticky {
			ordered = append(ordered, ep)
			break
		}
	}
	for _, ep := range endpoints {
		if sticky != "" && ep.URL == sticky {
			continue
		}
		ordered = append(ordered, ep)
	}

	var attempts []Attempt
	for _, ep := range ordered {
		for _, method := range ep.Methods() {
			for _, v := range variants {
				attempts = append(attempts, Attempt{URL: ep.URL, Method: method, Variant: v})
			}
		}
	}
	return attempts
}

// pageParams returns the variant's parameters for one page. Values are
// strings for the query string; body payloads get typed numbers.
func pageParams(v Variant, term string, pageSize int, token string) map[string]any {
	switch v {
	case VariantLegacy:
		p := map[string]any{"term": term, "page_size": pageSize}
		if token != "" {
			p["page_token"] = token
		}
		return p
	default:
		p := map[string]any{"query.term": term, "pageSize": pageSize, "format": "json"}
		if token != "" {
			p["pageToken"] = token
		}
		return p
	}
}

// buildRequest turns an attempt into a transport request: query parameters
// for GET, a JSON body otherwise.
func buildRequest(a Attempt, term string, pageSize int, token string) httputil.Request {
	params := pageParams(a.Variant, term, pageSize, token)
	req := httputil.Request{Method: a.Method, URL: a.URL}
	if a.Method == http.MethodGet {
		req.Params = url.Values{}
		for k, v := range params {
			switch x := v.(type) {
			case int:
				req.Params.Set(k, strconv.Itoa(x))
			default:
				req.Params.Set(k, fmt.Sprint(x))
			}
		}
		return req
	}
	req.Body = params
	return req
}

// ErrExhausted matches any ExhaustedError via errors.Is.
var ErrExhausted = errors.New("every endpoint attempt failed")

// AttemptError records why one attempt did not yield a page.
type AttemptError struct {
	Attempt
	// StatusCode is zero when no response was received.
	StatusCode int
	// Preview is the start of the response body.
	Preview string
	Err     error
}

func (e AttemptError) Error() string {
	var b strings.Builder
	b.WriteString(e.Attempt.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Preview != "" {
		fmt.Fprintf(&b, " [body: %s]", e.Preview)
	}
	return b.String()
}

func (e AttemptError) Unwrap() error { return e.Err }

// ExhaustedError reports that no attempt for a page succeeded. It lists
// every attempt in the order tried.
type ExhaustedError struct {
	Page     int
	Attempts []AttemptError
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetching page %d: all %d endpoint attempts failed", e.Page, len(e.Attempts))
	for _, a := range e.Attempts {
		b.WriteString("\n  - ")
		b.WriteString(a.Error())
	}
	return b.String()
}

// Is makes errors.Is(err, ErrExhausted) true.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}
