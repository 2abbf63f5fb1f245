// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the per-section dataset artifacts: the TSV
// table for researchers and the searchable HTML index for the public
// site. See docs/ARCHITECTURE § Reports.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/fourscore/gradus-engine/pkg/types"
)

// columnNames is the TSV header, fixed so downstream consumers can
// rely on column positions.
var columnNames = []string{
	"Measure start", "Figure", "Species", "Modal final", "Cantus firmus",
	"Measure end", "Measure Count",
}

// WriteTSV writes the figure table to path as tab-separated values.
func WriteTSV(figures []types.Figure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(columnNames); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, fig := range figures {
		record := []string{
			strconv.Itoa(fig.MeasureStart),
			fig.Name,
			fig.Species,
			fig.ModalFinal,
			fig.CantusFirmus,
			strconv.Itoa(fig.MeasureEnd),
			strconv.Itoa(fig.MeasureCount),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing figure %q: %w", fig.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// ReadTSV loads a figure table previously written by WriteTSV. The
// catalog and verify stages consume sections through this rather than
// re-parsing scores.
func ReadTSV(path string) ([]types.Figure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = len(columnNames)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty table", path)
	}
	for i, name := range columnNames {
		if records[0][i] != name {
			return nil, fmt.Errorf("%s: unexpected header column %d: got %q, want %q",
				path, i, records[0][i], name)
		}
	}

	figures := make([]types.Figure, 0, len(records)-1)
	for i, rec := range records[1:] {
		start, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad measure start %q", path, i+1, rec[0])
		}
		end, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad measure end %q", path, i+1, rec[5])
		}
		count, err := strconv.Atoi(rec[6])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad measure count %q", path, i+1, rec[6])
		}
		figures = append(figures, types.Figure{
			MeasureStart: start,
			Name:         rec[1],
			Species:      rec[2],
			ModalFinal:   rec[3],
			CantusFirmus: rec[4],
			MeasureEnd:   end,
			MeasureCount: count,
		})
	}
	return figures, nil
}
