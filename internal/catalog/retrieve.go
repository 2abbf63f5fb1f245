// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string, matched against
	// figure, species, modal final, and cantus firmus.
	Query string

	// Species filters by counterpoint species.
	Species string

	// ModalFinal filters by modal final.
	ModalFinal string

	// Section filters by section ID.
	Section string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Species == "" && q.ModalFinal == "" && q.Section == ""
}

// QueryResult is a catalog figure with its section.
type QueryResult struct {
	ID           string `json:"id" yaml:"id"`
	Figure       string `json:"figure" yaml:"figure"`
	Species      string `json:"species" yaml:"species"`
	ModalFinal   string `json:"modal_final" yaml:"modal_final"`
	CantusFirmus string `json:"cantus_firmus" yaml:"cantus_firmus"`
	Section      string `json:"section" yaml:"section"`
	MeasureStart int    `json:"measure_start" yaml:"measure_start"`
	MeasureEnd   int    `json:"measure_end" yaml:"measure_end"`
	MeasureCount int    `json:"measure_count" yaml:"measure_count"`
}

// Retrieve queries the catalog with optional full-text search and
// structured filters. Full-text results are ranked by relevance;
// structured-only queries come back in score order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT f.id, f.figure, f.species, f.modal_final, f.cantus_firmus,
				f.section_id, f.measure_start, f.measure_end, f.measure_count
			FROM figures_fts
			JOIN figures f ON f.rowid = figures_fts.rowid
			WHERE figures_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT f.id, f.figure, f.species, f.modal_final, f.cantus_firmus,
				f.section_id, f.measure_start, f.measure_end, f.measure_count
			FROM figures f
			WHERE 1=1`)
	}

	if opts.Species != "" {
		qb.WriteString(` AND f.species = ?`)
		args = append(args, opts.Species)
	}

	if opts.ModalFinal != "" {
		qb.WriteString(` AND f.modal_final = ?`)
		args = append(args, opts.ModalFinal)
	}

	if opts.Section != "" {
		qb.WriteString(` AND f.section_id = ?`)
		args = append(args, opts.Section)
	}

	if useFTS {
		qb.WriteString(` ORDER BY figures_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY f.section_id, f.measure_start`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var qr QueryResult
		if err := rows.Scan(
			&qr.ID, &qr.Figure, &qr.Species, &qr.ModalFinal, &qr.CantusFirmus,
			&qr.Section, &qr.MeasureStart, &qr.MeasureEnd, &qr.MeasureCount,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, qr)
	}

	return results, rows.Err()
}
