// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists extracted figures and builds a retrieval
// index, so the exercise corpus can be searched without re-reading the
// section scores. See docs/ARCHITECTURE § Catalog.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fourscore/gradus-engine/internal/report"
	"github.com/fourscore/gradus-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "gradus.db"
)

// Store manages the figure catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// NewStore opens or creates the catalog database at
// catalogDir/index/gradus.db, creating the schema if needed.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CatalogDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		catalogDir: cfg.CatalogDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			source_path TEXT,
			figure_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS figures (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			figure TEXT NOT NULL,
			species TEXT,
			modal_final TEXT,
			cantus_firmus TEXT,
			section_id TEXT NOT NULL REFERENCES sections(id),
			measure_start INTEGER,
			measure_end INTEGER,
			measure_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_figures_section_id ON figures(section_id)`,
		`CREATE INDEX IF NOT EXISTS idx_figures_species ON figures(species)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			section_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='figures_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE figures_fts USING fts5(
				figure, species, modal_final, cantus_firmus,
				content=figures, content_rowid=rowid)`,
			`CREATE TRIGGER figures_ai AFTER INSERT ON figures BEGIN
				INSERT INTO figures_fts(rowid, figure, species, modal_final, cantus_firmus)
				VALUES (new.rowid, new.figure, new.species, new.modal_final, new.cantus_firmus);
			END`,
			`CREATE TRIGGER figures_ad AFTER DELETE ON figures BEGIN
				INSERT INTO figures_fts(figures_fts, rowid, figure, species, modal_final, cantus_firmus)
				VALUES('delete', old.rowid, old.figure, old.species, old.modal_final, old.cantus_firmus);
			END`,
			`CREATE TRIGGER figures_au AFTER UPDATE ON figures BEGIN
				INSERT INTO figures_fts(figures_fts, rowid, figure, species, modal_final, cantus_firmus)
				VALUES('delete', old.rowid, old.figure, old.species, old.modal_final, old.cantus_firmus);
				INSERT INTO figures_fts(rowid, figure, species, modal_final, cantus_firmus)
				VALUES (new.rowid, new.figure, new.species, new.modal_final, new.cantus_firmus);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a catalog indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of sections processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads section tables (data.tsv files) and populates the
// database. The section ID is the name of the directory holding the
// table. New, changed, and unchanged files are detected by mod time,
// so re-running after a partial corpus rebuild only touches the
// sections that changed.
func (s *Store) Ingest(ctx context.Context, tsvPaths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range tsvPaths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		sectionID := filepath.Base(filepath.Dir(path))

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", sectionID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE section_id = ?`, sectionID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", sectionID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		figures, err := report.ReadTSV(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", sectionID, err)
			summary.Failed++
			continue
		}

		if err := s.ingestSection(ctx, sectionID, path, figures, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", sectionID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d figures)\n", sectionID, len(figures))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d figures)\n", sectionID, len(figures))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestSection(ctx context.Context, sectionID, sourcePath string, figures []types.Figure, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM figures WHERE section_id = ?`, sectionID); err != nil {
			return fmt.Errorf("deleting old figures: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sections (id, source_path, figure_count)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_path=excluded.source_path, figure_count=excluded.figure_count`,
		sectionID, sourcePath, len(figures),
	)
	if err != nil {
		return fmt.Errorf("upserting section: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO figures
			(id, figure, species, modal_final, cantus_firmus, section_id,
			 measure_start, measure_end, measure_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	seen := make(map[string]string, len(figures))
	for _, fig := range figures {
		id := sectionID + "/" + report.BaseName(fig.Name)
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("figures %q and %q map to the same catalog id %s", prev, fig.Name, id)
		}
		seen[id] = fig.Name
		_, err := stmt.ExecContext(ctx,
			id, fig.Name, fig.Species, fig.ModalFinal, fig.CantusFirmus, sectionID,
			fig.MeasureStart, fig.MeasureEnd, fig.MeasureCount,
		)
		if err != nil {
			return fmt.Errorf("inserting figure %s: %w", id, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (section_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(section_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		sectionID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}
