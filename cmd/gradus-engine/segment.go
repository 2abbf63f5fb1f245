// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fourscore/gradus-engine/internal/figure"
	"github.com/fourscore/gradus-engine/internal/score"
	"github.com/fourscore/gradus-engine/internal/segment"
	"github.com/fourscore/gradus-engine/pkg/types"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [score-file]",
	Short: "Write one score file per exercise from a section score",
	Long: `Segment slices a section score into one .mxl file per exercise,
named by zero-padded figure number, with normalized exercise metadata
(shared title and composer, numeric part names). A YAML manifest with
a BLAKE3 digest per file records the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().String("segments-dir", segment.DefaultSegmentsDir, "directory for per-figure files")
	segmentCmd.Flags().String("section", "", "section ID for the manifest (default: derived from the filename)")
	segmentCmd.Flags().Bool("manifest", true, "write a segment manifest")

	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	path := args[0]

	s, err := score.ReadFile(path)
	if err != nil {
		return err
	}
	figures, err := figure.Extract(s)
	if err != nil {
		return err
	}

	segmentsDir, _ := cmd.Flags().GetString("segments-dir")
	cfg := types.SegmentConfig{SegmentsDir: segmentsDir}

	result, err := segment.WriteAll(s, figures, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if writeManifest, _ := cmd.Flags().GetBool("manifest"); writeManifest {
		sectionID, _ := cmd.Flags().GetString("section")
		if sectionID == "" {
			sectionID = sectionIDFromPath(path)
		}
		manifestPath := filepath.Join(filepath.Dir(path), sectionID+"-manifest.yaml")
		if err := segment.WriteManifest(sectionID, path, result, manifestPath); err != nil {
			return err
		}
		fmt.Printf("wrote: %s\n", manifestPath)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d segment(s) failed", result.Failed)
	}
	return nil
}
