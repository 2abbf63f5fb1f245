// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fourscore/gradus-engine/internal/httputil"
	"github.com/fourscore/gradus-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func testFigures() []types.Figure {
	return []types.Figure{
		{MeasureStart: 1, Name: "5", MeasureEnd: 11, MeasureCount: 11},
		{MeasureStart: 12, Name: "6", MeasureEnd: 22, MeasureCount: 11},
	}
}

func TestFiguresAllPublished(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	var out bytes.Buffer
	cfg := types.VerifyConfig{RawBase: ts.URL + "/scores/"}
	result := Figures(context.Background(), ts.Client(), testFigures(), cfg, &out)

	// Two figures, two artifacts each.
	if result.OK != 4 || result.Missing != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 4 ok", result)
	}
	if result.HasFailures() {
		t.Error("HasFailures = true for a clean run")
	}
	if !strings.Contains(out.String(), "Verify summary: 4 ok, 0 missing, 0 failed (total: 4)") {
		t.Errorf("missing summary line:\n%s", out.String())
	}
}

func TestFiguresMissingArtifact(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "006.krn") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	var out bytes.Buffer
	cfg := types.VerifyConfig{RawBase: ts.URL + "/scores/"}
	result := Figures(context.Background(), ts.Client(), testFigures(), cfg, &out)

	if result.OK != 3 || result.Missing != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 3 ok, 1 missing", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures = false with a missing artifact")
	}
	if !strings.Contains(out.String(), "missing: "+ts.URL+"/scores/006.krn") {
		t.Errorf("missing line not reported:\n%s", out.String())
	}
}

func TestFiguresServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	var out bytes.Buffer
	cfg := types.VerifyConfig{RawBase: ts.URL + "/scores/"}
	result := Figures(context.Background(), ts.Client(), testFigures()[:1], cfg, &out)

	if result.Failed != 2 {
		t.Fatalf("result = %+v, want 2 failed", result)
	}
	if !strings.Contains(out.String(), "(HTTP 500)") {
		t.Errorf("status code not reported:\n%s", out.String())
	}
}

func TestFiguresRetriesRateLimit(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	var out bytes.Buffer
	cfg := types.VerifyConfig{RawBase: ts.URL + "/scores/", MaxRetries: 3}
	result := Figures(context.Background(), ts.Client(), testFigures()[:1], cfg, &out)

	if result.OK != 2 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 2 ok after retry", result)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d requests, want 3 (one retried)", got)
	}
}

func TestFiguresSendsUserAgent(t *testing.T) {
	var agent atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg := types.VerifyConfig{RawBase: ts.URL + "/scores/"}
	cfg.UserAgent = "gradus-engine-test/1"
	Figures(context.Background(), ts.Client(), testFigures()[:1], cfg, &bytes.Buffer{})

	if got, _ := agent.Load().(string); got != "gradus-engine-test/1" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestFiguresContextCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := types.VerifyConfig{RawBase: ts.URL + "/scores/", RequestDelay: time.Hour}
	var out bytes.Buffer
	result := Figures(ctx, ts.Client(), testFigures(), cfg, &out)

	// The first request may go through; the delay before the second
	// observes the cancelled context and the run stops early.
	if result.Total() >= 4 {
		t.Errorf("result = %+v, expected an early stop", result)
	}
}
