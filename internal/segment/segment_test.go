// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fourscore/gradus-engine/internal/score"
	"github.com/fourscore/gradus-engine/pkg/types"
)

// buildScore assembles a two-part section score with n sequential
// measures and attributes declared in measure 1.
func buildScore(t *testing.T, n int) *score.Score {
	t.Helper()

	var b strings.Builder
	b.WriteString(`<score-partwise version="4.0"><part-list>`)
	b.WriteString(`<score-part id="P1"><part-name>Cantus</part-name></score-part>`)
	b.WriteString(`<score-part id="P2"><part-name>Contrapunctus</part-name></score-part>`)
	b.WriteString(`</part-list>`)
	for _, id := range []string{"P1", "P2"} {
		fmt.Fprintf(&b, `<part id="%s">`, id)
		for m := 1; m <= n; m++ {
			fmt.Fprintf(&b, `<measure number="%d">`, m)
			if m == 1 {
				b.WriteString(`<attributes><divisions>4</divisions></attributes>`)
			}
			b.WriteString(`<note><duration>16</duration></note></measure>`)
		}
		b.WriteString(`</part>`)
	}
	b.WriteString(`</score-partwise>`)

	s, err := score.Parse([]byte(b.String()))
	if err != nil {
		t.Fatalf("building score: %v", err)
	}
	return s
}

func TestWriteAll(t *testing.T) {
	s := buildScore(t, 10)
	figures := []types.Figure{
		{MeasureStart: 1, Name: "5", MeasureEnd: 4, MeasureCount: 4},
		{MeasureStart: 5, Name: "84", MeasureEnd: 10, MeasureCount: 6},
	}

	dir := t.TempDir()
	var out bytes.Buffer
	result, err := WriteAll(s, figures, types.SegmentConfig{SegmentsDir: dir}, &out)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	if result.Written != 2 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 2 written, 0 failed", result)
	}
	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}

	for _, name := range []string{"005.mxl", "084.mxl"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing segment file %s: %v", name, err)
		}
	}

	status := out.String()
	if !strings.Contains(status, "wrote:   005.mxl (measures 1-4)") {
		t.Errorf("status output missing first segment line:\n%s", status)
	}
	if !strings.Contains(status, "Segment summary: 2 written, 0 failed (total: 2)") {
		t.Errorf("status output missing summary:\n%s", status)
	}
}

func TestWriteAllStampsMetadata(t *testing.T) {
	s := buildScore(t, 6)
	figures := []types.Figure{{MeasureStart: 1, Name: "1", MeasureEnd: 6, MeasureCount: 6}}

	dir := t.TempDir()
	if _, err := WriteAll(s, figures, types.SegmentConfig{SegmentsDir: dir}, &bytes.Buffer{}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	seg, err := score.ReadFile(filepath.Join(dir, "001.mxl"))
	if err != nil {
		t.Fatalf("reading segment back: %v", err)
	}
	out := string(seg.XML())

	if !strings.Contains(out, "<work-title>"+ExerciseTitle+"</work-title>") {
		t.Error("segment missing work title")
	}
	if !strings.Contains(out, "<movement-title>"+ExerciseTitle+"</movement-title>") {
		t.Error("segment missing movement title")
	}
	if !strings.Contains(out, ExerciseComposer) {
		t.Error("segment missing composer")
	}
	// Part names are anonymized to their ordinal.
	if !strings.Contains(out, "<part-name>1</part-name>") || !strings.Contains(out, "<part-name>2</part-name>") {
		t.Errorf("segment part names not numeric:\n%s", out)
	}
	if strings.Contains(out, "Cantus") {
		t.Error("segment still carries the working part name")
	}
}

func TestWriteAllRecordsDigests(t *testing.T) {
	s := buildScore(t, 4)
	figures := []types.Figure{{MeasureStart: 1, Name: "7", MeasureEnd: 4, MeasureCount: 4}}

	dir := t.TempDir()
	result, err := WriteAll(s, figures, types.SegmentConfig{SegmentsDir: dir}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	rec := result.Records[0]
	if rec.Figure != "7" || rec.File != "007.mxl" {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Digest) != 64 {
		t.Errorf("digest %q is not a 256-bit hex digest", rec.Digest)
	}
}

func TestWriteAllRejectsCollidingNames(t *testing.T) {
	s := buildScore(t, 8)
	// "23" and "23 (alt)" both map to 023.mxl.
	figures := []types.Figure{
		{MeasureStart: 1, Name: "23", MeasureEnd: 4, MeasureCount: 4},
		{MeasureStart: 5, Name: "23 (alt)", MeasureEnd: 8, MeasureCount: 4},
	}

	dir := t.TempDir()
	var out bytes.Buffer
	_, err := WriteAll(s, figures, types.SegmentConfig{SegmentsDir: dir}, &out)
	if err == nil || !strings.Contains(err.Error(), "023.mxl") {
		t.Fatalf("error = %v, want colliding-name error naming 023.mxl", err)
	}

	// Nothing may be written before the collision is caught.
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("segments written despite collision: %v", entries)
	}
}

func TestWriteAllContinuesOnFailure(t *testing.T) {
	s := buildScore(t, 6)
	figures := []types.Figure{
		{MeasureStart: 1, Name: "1", MeasureEnd: 3, MeasureCount: 3},
		{MeasureStart: 9, Name: "2", MeasureEnd: 12, MeasureCount: 4}, // beyond the score
		{MeasureStart: 4, Name: "3", MeasureEnd: 6, MeasureCount: 3},
	}

	dir := t.TempDir()
	var out bytes.Buffer
	result, err := WriteAll(s, figures, types.SegmentConfig{SegmentsDir: dir}, &out)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	if result.Written != 2 || result.Failed != 1 {
		t.Fatalf("result = %+v, want 2 written, 1 failed", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures = false")
	}
	if !strings.Contains(out.String(), "failed:  002.mxl") {
		t.Errorf("status output missing failure line:\n%s", out.String())
	}
}
