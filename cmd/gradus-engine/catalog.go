// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fourscore/gradus-engine/internal/catalog"
	"github.com/fourscore/gradus-engine/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the figure catalog (ingest, query, export)",
	Long: `Catalog manages a local SQLite index of extracted figures. Use
subcommands to ingest section tables, query them, or export.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest [data.tsv...]",
	Short: "Ingest section figure tables into the catalog",
	Long: `Ingest reads data.tsv files written by process or report, loads them
into a SQLite database with FTS5 indexing, and writes an export file.
Unchanged sections are skipped on subsequent runs. Without arguments it
looks for the default section tables under --scores-dir.`,
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	paths := args
	if len(paths) == 0 {
		scoresDir, _ := cmd.Flags().GetString("scores-dir")
		for _, sec := range configSections() {
			paths = append(paths, filepath.Join(scoresDir, sec, "data.tsv"))
		}
	}

	summary, err := store.Ingest(context.Background(), paths, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d section(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var catalogQueryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Query the catalog with full-text search and filters",
	Long: `Query searches the catalog using FTS5 full-text search, structured
filters (species, modal final, section), or a combination of both.`,
	RunE: runCatalogQuery,
}

func runCatalogQuery(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --species, --final, or --section")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []catalog.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-10s  %-20s  %-8s  %-12s  %-14s  %s\n",
		"Rank", "ID", "Figure", "Species", "Modal final", "Cantus firmus", "Measures")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for i, r := range results {
		name := r.Figure
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-10s  %-20s  %-8s  %-12s  %-14s  %d-%d\n",
			i+1, r.ID, name, r.Species, r.ModalFinal, r.CantusFirmus,
			r.MeasureStart, r.MeasureEnd)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or a filtered subset) to
<catalog-dir>/index/export.yaml or export.json. Supports the same
filter flags as query for partial exports.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to catalog index export.yaml")
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to catalog index export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	if catalogDir == "" {
		catalogDir = "catalog"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.CatalogConfig{
		CatalogDir: catalogDir,
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	species, _ := cmd.Flags().GetString("species")
	modalFinal, _ := cmd.Flags().GetString("final")
	section, _ := cmd.Flags().GetString("section")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Species:    species,
		ModalFinal: modalFinal,
		Section:    section,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "base directory for the catalog (contains index/)")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Ingest flags.
	catalogIngestCmd.Flags().String("scores-dir", ".", "root directory holding the section directories")

	// Query flags.
	catalogQueryCmd.Flags().String("query", "", "full-text search query")
	catalogQueryCmd.Flags().String("species", "", "filter by counterpoint species")
	catalogQueryCmd.Flags().String("final", "", "filter by modal final")
	catalogQueryCmd.Flags().String("section", "", "filter by section ID")
	catalogQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	catalogExportCmd.Flags().String("species", "", "filter by species for partial export")
	catalogExportCmd.Flags().String("final", "", "filter by modal final for partial export")
	catalogExportCmd.Flags().String("section", "", "filter by section for partial export")
	catalogExportCmd.Flags().Int("limit", 0, "maximum figures to export (0 = all)")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogQueryCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
