// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Manifest is the on-disk record of a segmentation run. A publisher
// can diff the digests against a previous run to see which exercises
// actually changed before pushing regenerated files.
type Manifest struct {
	Section  string          `yaml:"section"`
	Source   string          `yaml:"source"`
	Segments []Record        `yaml:"segments"`
	Summary  ManifestSummary `yaml:"summary"`
}

// Record describes one written segment file.
type Record struct {
	Figure       string `yaml:"figure"`
	File         string `yaml:"file"`
	MeasureStart int    `yaml:"measure_start"`
	MeasureEnd   int    `yaml:"measure_end"`
	MeasureCount int    `yaml:"measure_count"`

	// Digest is the BLAKE3-256 hex digest of the written .mxl file.
	Digest string `yaml:"digest"`
}

// ManifestSummary stores run statistics and a timestamp.
type ManifestSummary struct {
	Written   int       `yaml:"written"`
	Failed    int       `yaml:"failed"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteManifest saves a segmentation run to a YAML file.
func WriteManifest(section, source string, result Result, path string) error {
	m := Manifest{
		Section:  section,
		Source:   source,
		Segments: result.Records,
		Summary: ManifestSummary{
			Written:   result.Written,
			Failed:    result.Failed,
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}
