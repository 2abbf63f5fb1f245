// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and record types shared across
// pipeline stages.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gradus-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProcessConfig holds settings for the batch processing stage.
type ProcessConfig struct {
	// ScoresDir is the root directory holding the section directories.
	// Each section S provides its solutions score at S/S-Solutions.mxl.
	ScoresDir string `json:"scores_dir" yaml:"scores_dir"`

	// Sections lists the section names to process (default I, II, III).
	Sections []string `json:"sections" yaml:"sections"`

	// WriteTSV controls whether data.tsv is written per section.
	WriteTSV bool `json:"write_tsv" yaml:"write_tsv"`

	// WriteHTML controls whether search.html is written per section.
	WriteHTML bool `json:"write_html" yaml:"write_html"`

	// WriteSegments controls whether per-figure score files are written.
	WriteSegments bool `json:"write_segments" yaml:"write_segments"`

	// WriteManifest controls whether a segment manifest is written per section.
	WriteManifest bool `json:"write_manifest" yaml:"write_manifest"`
}

// ReportConfig holds settings for the dataset and HTML index writers.
type ReportConfig struct {
	// OutDir is the directory for data.tsv and search.html. Empty means
	// alongside the input score.
	OutDir string `json:"out_dir,omitempty" yaml:"out_dir,omitempty"`

	// RawBase is the base URL for published segment files
	// (direct .mxl / .krn downloads).
	RawBase string `json:"raw_base" yaml:"raw_base"`

	// VHVBase is the base URL for the Verovio Humdrum Viewer; the
	// published .krn URL is appended to it.
	VHVBase string `json:"vhv_base" yaml:"vhv_base"`
}

// SegmentConfig holds settings for the score segmentation stage.
type SegmentConfig struct {
	// SegmentsDir is the directory for per-figure score files (default "1x1").
	SegmentsDir string `json:"segments_dir" yaml:"segments_dir"`

	// ManifestDir is the directory for segment manifests. Empty means
	// SegmentsDir.
	ManifestDir string `json:"manifest_dir,omitempty" yaml:"manifest_dir,omitempty"`
}

// CatalogConfig holds settings for the figure catalog stage.
type CatalogConfig struct {
	// CatalogDir is the base directory for the catalog (contains index/).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// VerifyConfig holds settings for the published-link verification stage.
type VerifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// RawBase is the base URL the published segment files live under.
	RawBase string `json:"raw_base" yaml:"raw_base"`

	// RequestDelay is the delay between consecutive HEAD requests (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// MaxRetries is the number of retry attempts on rate limiting (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Process ProcessConfig `json:"process" yaml:"process"`
	Report  ReportConfig  `json:"report" yaml:"report"`
	Segment SegmentConfig `json:"segment" yaml:"segment"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Verify  VerifyConfig  `json:"verify" yaml:"verify"`
}
