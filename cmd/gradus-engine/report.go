// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fourscore/gradus-engine/internal/figure"
	"github.com/fourscore/gradus-engine/internal/report"
	"github.com/fourscore/gradus-engine/internal/score"
)

var reportCmd = &cobra.Command{
	Use:   "report [score-file]",
	Short: "Write the dataset and HTML index for one section score",
	Long: `Report extracts the exercise table from a single section score and
writes data.tsv (for researchers) and search.html (the public-facing
searchable index) without touching segment files.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("out-dir", "", "output directory (default: alongside the input score)")
	reportCmd.Flags().String("raw-base", "", "base URL for published segment downloads")
	reportCmd.Flags().String("vhv-base", "", "base URL for Verovio Humdrum Viewer links")
	reportCmd.Flags().Bool("tsv", true, "write data.tsv")
	reportCmd.Flags().Bool("html", true, "write search.html")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	path := args[0]

	s, err := score.ReadFile(path)
	if err != nil {
		return err
	}
	figures, err := figure.Extract(s)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = filepath.Dir(path)
	}

	if writeTSV, _ := cmd.Flags().GetBool("tsv"); writeTSV {
		tsvPath := filepath.Join(outDir, "data.tsv")
		if err := report.WriteTSV(figures, tsvPath); err != nil {
			return err
		}
		fmt.Printf("wrote: %s (%d figures)\n", tsvPath, len(figures))
	}

	if writeHTML, _ := cmd.Flags().GetBool("html"); writeHTML {
		htmlPath := filepath.Join(outDir, "search.html")
		if err := report.WriteHTML(figures, reportConfigFromFlags(cmd), htmlPath); err != nil {
			return err
		}
		fmt.Printf("wrote: %s\n", htmlPath)
	}

	return nil
}
