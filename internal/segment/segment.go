// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment writes one score file per exercise, stamped with
// neutral exercise metadata, and records what it wrote in a YAML
// manifest. See docs/ARCHITECTURE § Segmentation.
package segment

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/fourscore/gradus-engine/internal/report"
	"github.com/fourscore/gradus-engine/internal/score"
	"github.com/fourscore/gradus-engine/pkg/types"
)

// Metadata stamped on every segment file. The section scores carry
// working titles; the published exercises all share these.
const (
	ExerciseTitle    = "Gradus ad Parnassum Exercise"
	ExerciseComposer = "Fux, Johann Joseph"
)

// DefaultSegmentsDir is where per-figure files go when not configured.
const DefaultSegmentsDir = "1x1"

// Result holds the outcome of a segmentation run.
type Result struct {
	Written int
	Failed  int

	// Records describes the files written, for the manifest.
	Records []Record
}

// Total returns the number of figures processed.
func (r Result) Total() int {
	return r.Written + r.Failed
}

// HasFailures reports whether any segments failed to write.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// WriteAll slices the section score into one .mxl file per figure
// under cfg.SegmentsDir, printing per-file status to w. The score's
// header metadata and part names are normalized first, so every
// segment inherits them. Individual failures are reported and the
// remaining figures still run. Two figures whose labels map to the
// same file name are an error before anything is written; a silent
// overwrite would lose the first exercise.
func WriteAll(s *score.Score, figures []types.Figure, cfg types.SegmentConfig, w io.Writer) (Result, error) {
	names := make(map[string]string, len(figures))
	for _, fig := range figures {
		name := report.BaseName(fig.Name)
		if prev, ok := names[name]; ok {
			return Result{}, fmt.Errorf("figures %q and %q both map to segment file %s.mxl", prev, fig.Name, name)
		}
		names[name] = fig.Name
	}

	dir := cfg.SegmentsDir
	if dir == "" {
		dir = DefaultSegmentsDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating segments directory %s: %w", dir, err)
	}

	s.SetWorkTitle(ExerciseTitle)
	s.SetMovementTitle(ExerciseTitle)
	s.SetComposer(ExerciseComposer)
	s.SetNumericPartNames()

	var result Result
	for _, fig := range figures {
		name := report.BaseName(fig.Name) + ".mxl"
		path := filepath.Join(dir, name)

		record, err := writeOne(s, fig, name, path)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "wrote:   %s (measures %d-%d)\n", name, fig.MeasureStart, fig.MeasureEnd)
		result.Written++
		result.Records = append(result.Records, record)
	}

	fmt.Fprintf(w, "\nSegment summary: %d written, %d failed (total: %d)\n",
		result.Written, result.Failed, result.Total())
	return result, nil
}

func writeOne(s *score.Score, fig types.Figure, name, path string) (Record, error) {
	seg, err := s.Slice(fig.MeasureStart, fig.MeasureEnd)
	if err != nil {
		return Record{}, err
	}

	data, err := seg.MXLBytes()
	if err != nil {
		return Record{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Record{}, fmt.Errorf("writing %s: %w", path, err)
	}

	digest := blake3.Sum256(data)
	return Record{
		Figure:       fig.Name,
		File:         name,
		MeasureStart: fig.MeasureStart,
		MeasureEnd:   fig.MeasureEnd,
		MeasureCount: fig.MeasureCount,
		Digest:       hex.EncodeToString(digest[:]),
	}, nil
}
