// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"path/filepath"
	"testing"
	"time"
)

func TestManifestRoundTrip(t *testing.T) {
	result := Result{
		Written: 2,
		Failed:  1,
		Records: []Record{
			{Figure: "5", File: "005.mxl", MeasureStart: 1, MeasureEnd: 11, MeasureCount: 11, Digest: "ab12"},
			{Figure: "6", File: "006.mxl", MeasureStart: 12, MeasureEnd: 22, MeasureCount: 11, Digest: "cd34"},
		},
	}

	path := filepath.Join(t.TempDir(), "I-manifest.yaml")
	before := time.Now()
	if err := WriteManifest("I", "scores/I/I-Solutions.mxl", result, path); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}

	if m.Section != "I" {
		t.Errorf("section = %q, want %q", m.Section, "I")
	}
	if m.Source != "scores/I/I-Solutions.mxl" {
		t.Errorf("source = %q", m.Source)
	}
	if m.Summary.Written != 2 || m.Summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 written, 1 failed", m.Summary)
	}
	if m.Summary.Timestamp.Before(before.Add(-time.Second)) {
		t.Errorf("timestamp %v predates the run", m.Summary.Timestamp)
	}
	if len(m.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(m.Segments))
	}
	if m.Segments[0] != result.Records[0] || m.Segments[1] != result.Records[1] {
		t.Errorf("segments = %+v, want %+v", m.Segments, result.Records)
	}
}

func TestReadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadManifest(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Fatal("expected error for missing manifest")
		}
	})
}
