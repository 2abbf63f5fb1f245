// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks that every figure's published artifacts
// (.mxl and .krn) are actually reachable at the configured base URL,
// so a regenerated index never links into a void.
// See docs/ARCHITECTURE § Verification.
package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fourscore/gradus-engine/internal/httputil"
	"github.com/fourscore/gradus-engine/internal/report"
	"github.com/fourscore/gradus-engine/pkg/types"
)

// Result holds the outcome of a verification run.
type Result struct {
	OK      int
	Missing int
	Failed  int
}

// Total returns the number of URLs checked.
func (r Result) Total() int {
	return r.OK + r.Missing + r.Failed
}

// HasFailures reports whether any artifact was missing or errored.
func (r Result) HasFailures() bool {
	return r.Missing > 0 || r.Failed > 0
}

// Figures HEAD-checks the published .mxl and .krn artifact of every
// figure, printing per-URL status to w. Requests are spaced by
// cfg.RequestDelay and rate-limit responses are retried with backoff.
// It continues after individual failures so one missing file does not
// hide the rest.
func Figures(ctx context.Context, client *http.Client, figures []types.Figure, cfg types.VerifyConfig, w io.Writer) Result {
	rawBase := cfg.RawBase
	if rawBase == "" {
		rawBase = report.DefaultRawBase
	}

	var result Result
	first := true
	for _, fig := range figures {
		for _, url := range report.PublishedURLs(rawBase, fig.Name) {
			if !first && cfg.RequestDelay > 0 {
				select {
				case <-ctx.Done():
					return result
				case <-time.After(cfg.RequestDelay):
				}
			}
			first = false

			switch status, err := check(ctx, client, url, cfg); {
			case err != nil:
				fmt.Fprintf(w, "failed:  %s (%v)\n", url, err)
				result.Failed++
			case status == http.StatusOK:
				fmt.Fprintf(w, "ok:      %s\n", url)
				result.OK++
			case status == http.StatusNotFound:
				fmt.Fprintf(w, "missing: %s\n", url)
				result.Missing++
			default:
				fmt.Fprintf(w, "failed:  %s (HTTP %d)\n", url, status)
				result.Failed++
			}
		}
	}

	fmt.Fprintf(w, "\nVerify summary: %d ok, %d missing, %d failed (total: %d)\n",
		result.OK, result.Missing, result.Failed, result.Total())
	return result
}

func check(ctx context.Context, client *http.Client, url string, cfg types.VerifyConfig) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}
