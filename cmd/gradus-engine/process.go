// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fourscore/gradus-engine/internal/figure"
	"github.com/fourscore/gradus-engine/internal/report"
	"github.com/fourscore/gradus-engine/internal/score"
	"github.com/fourscore/gradus-engine/internal/segment"
	"github.com/fourscore/gradus-engine/pkg/types"
)

// defaultSections are the Gradus parts, each with a solutions score at
// <scores-dir>/<S>/<S>-Solutions.mxl.
var defaultSections = []string{"I", "II", "III"}

var processCmd = &cobra.Command{
	Use:   "process [sections...]",
	Short: "Run the full pipeline over section score files",
	Long: `Process reads each section's solutions score, extracts the exercise
annotations, computes measure ranges, and writes the section artifacts:
data.tsv, search.html, per-figure segment files, and a segment manifest.

A failure in one section is reported and the remaining sections still run.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("scores-dir", ".", "root directory holding the section directories")
	processCmd.Flags().String("segments-dir", "", "directory for per-figure files (default <scores-dir>/1x1)")
	processCmd.Flags().String("raw-base", "", "base URL for published segment downloads")
	processCmd.Flags().String("vhv-base", "", "base URL for Verovio Humdrum Viewer links")
	processCmd.Flags().Bool("tsv", true, "write data.tsv per section")
	processCmd.Flags().Bool("html", true, "write search.html per section")
	processCmd.Flags().Bool("segments", true, "write per-figure segment files")
	processCmd.Flags().Bool("manifest", true, "write a segment manifest per section")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	scoresDir, _ := cmd.Flags().GetString("scores-dir")
	segmentsDir, _ := cmd.Flags().GetString("segments-dir")
	if segmentsDir == "" {
		segmentsDir = filepath.Join(scoresDir, segment.DefaultSegmentsDir)
	}

	procCfg := types.ProcessConfig{
		ScoresDir: scoresDir,
		Sections:  args,
	}
	procCfg.WriteTSV, _ = cmd.Flags().GetBool("tsv")
	procCfg.WriteHTML, _ = cmd.Flags().GetBool("html")
	procCfg.WriteSegments, _ = cmd.Flags().GetBool("segments")
	procCfg.WriteManifest, _ = cmd.Flags().GetBool("manifest")
	if len(procCfg.Sections) == 0 {
		procCfg.Sections = configSections()
	}

	reportCfg := reportConfigFromFlags(cmd)
	segCfg := types.SegmentConfig{SegmentsDir: segmentsDir}

	failed := 0
	for _, sec := range procCfg.Sections {
		path := filepath.Join(scoresDir, sec, sec+"-Solutions.mxl")
		if err := processSection(sec, path, procCfg, reportCfg, segCfg); err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}
		fmt.Printf("processed: %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d section(s) failed processing", failed)
	}
	return nil
}

// processSection runs one section score through extraction and every
// enabled artifact writer.
func processSection(sectionID, path string, procCfg types.ProcessConfig, reportCfg types.ReportConfig, segCfg types.SegmentConfig) error {
	s, err := score.ReadFile(path)
	if err != nil {
		return err
	}

	figures, err := figure.Extract(s)
	if err != nil {
		return err
	}

	outDir := filepath.Dir(path)

	if procCfg.WriteTSV {
		if err := report.WriteTSV(figures, filepath.Join(outDir, "data.tsv")); err != nil {
			return err
		}
	}

	if procCfg.WriteHTML {
		if err := report.WriteHTML(figures, reportCfg, filepath.Join(outDir, "search.html")); err != nil {
			return err
		}
	}

	if procCfg.WriteSegments {
		result, err := segment.WriteAll(s, figures, segCfg, os.Stdout)
		if err != nil {
			return err
		}
		if procCfg.WriteManifest {
			manifestPath := filepath.Join(outDir, sectionID+"-manifest.yaml")
			if err := segment.WriteManifest(sectionID, path, result, manifestPath); err != nil {
				return err
			}
		}
		if result.HasFailures() {
			return fmt.Errorf("%d segment(s) failed", result.Failed)
		}
	}

	return nil
}

// configSections returns the sections to process from the config file,
// falling back to the Gradus parts.
func configSections() []string {
	if s := viper.GetStringSlice("process.sections"); len(s) > 0 {
		return s
	}
	return defaultSections
}

// reportConfigFromFlags builds a ReportConfig from flags, the config
// file, and the built-in defaults, in that order.
func reportConfigFromFlags(cmd *cobra.Command) types.ReportConfig {
	rawBase, _ := cmd.Flags().GetString("raw-base")
	if rawBase == "" {
		rawBase = viper.GetString("report.raw_base")
	}
	if rawBase == "" {
		rawBase = report.DefaultRawBase
	}

	vhvBase, _ := cmd.Flags().GetString("vhv-base")
	if vhvBase == "" {
		vhvBase = viper.GetString("report.vhv_base")
	}
	if vhvBase == "" {
		vhvBase = report.DefaultVHVBase
	}

	return types.ReportConfig{RawBase: rawBase, VHVBase: vhvBase}
}

// sectionIDFromPath derives a section ID from a score filename:
// "II/II-Solutions.mxl" yields "II".
func sectionIDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.IndexByte(base, '-'); i > 0 {
		return base[:i]
	}
	return base
}
