// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fourscore/gradus-engine/internal/report"
	"github.com/fourscore/gradus-engine/internal/verify"
	"github.com/fourscore/gradus-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "gradus-engine/0.1"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [data.tsv...]",
	Short: "Check that every figure's published files are reachable",
	Long: `Verify issues HEAD requests for each figure's published .mxl and .krn
URLs and reports what is reachable, missing, or erroring. Without
arguments it checks the default section tables under --scores-dir.

The command exits non-zero when any published artifact is missing, so
it can gate an index deployment.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("scores-dir", ".", "root directory holding the section directories")
	verifyCmd.Flags().String("raw-base", "", "base URL the published segment files live under")
	verifyCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	verifyCmd.Flags().Duration("delay", 0, "delay between consecutive requests (default 1s)")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		scoresDir, _ := cmd.Flags().GetString("scores-dir")
		for _, sec := range configSections() {
			paths = append(paths, filepath.Join(scoresDir, sec, "data.tsv"))
		}
	}

	var figures []types.Figure
	for _, path := range paths {
		figs, err := report.ReadTSV(path)
		if err != nil {
			return err
		}
		figures = append(figures, figs...)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	cfg := types.VerifyConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		RawBase:      verifyRawBase(cmd),
		RequestDelay: delay,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	result := verify.Figures(context.Background(), client, figures, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d published artifact(s) missing or erroring", result.Missing+result.Failed)
	}
	return nil
}

// verifyRawBase resolves the published base URL from the flag, then
// the report.raw_base config key, so verify checks the same URLs a
// config-driven index publishes. An empty result falls through to the
// built-in default inside verify.Figures.
func verifyRawBase(cmd *cobra.Command) string {
	rawBase, _ := cmd.Flags().GetString("raw-base")
	if rawBase == "" {
		rawBase = viper.GetString("report.raw_base")
	}
	return rawBase
}
