// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package figure

import (
	"fmt"

	"github.com/fourscore/gradus-engine/pkg/types"
)

// ComputeRanges fills MeasureEnd and MeasureCount in place. Figure i
// ends one measure before figure i+1 starts; the last figure ends at
// the final measure of the score.
//
// measureNumbers are the first part's measure numbers and must be
// exactly the sequence 1..N — annotated section scores are renumbered
// before annotation, so anything else indicates the wrong input file.
// Figure starts must be strictly ascending within [1, N]: a repeated
// start measure would produce an empty range, and a start beyond the
// score an inverted one.
func ComputeRanges(figures []types.Figure, measureNumbers []int) error {
	if len(figures) == 0 {
		return fmt.Errorf("no figures to compute ranges for")
	}

	if err := validateSequential(measureNumbers); err != nil {
		return err
	}
	lastMeasure := measureNumbers[len(measureNumbers)-1]

	for i := range figures {
		start := figures[i].MeasureStart
		if start < 1 || start > lastMeasure {
			return fmt.Errorf("figure %q starts at measure %d, outside the score (1-%d)",
				figures[i].Name, start, lastMeasure)
		}
		if i > 0 {
			prev := figures[i-1].MeasureStart
			if start == prev {
				return fmt.Errorf("figures %q and %q both start at measure %d",
					figures[i-1].Name, figures[i].Name, start)
			}
			if start < prev {
				return fmt.Errorf("figure %q at measure %d starts before figure %q at measure %d",
					figures[i].Name, start, figures[i-1].Name, prev)
			}
		}
	}

	for i := range figures {
		if i < len(figures)-1 {
			figures[i].MeasureEnd = figures[i+1].MeasureStart - 1
		} else {
			figures[i].MeasureEnd = lastMeasure
		}
		figures[i].MeasureCount = figures[i].MeasureEnd - figures[i].MeasureStart + 1
	}

	return nil
}

// validateSequential checks that the measure numbers are exactly 1..N.
func validateSequential(numbers []int) error {
	if len(numbers) == 0 {
		return fmt.Errorf("score has no measures")
	}
	for i, n := range numbers {
		if n != i+1 {
			return fmt.Errorf("measure numbering is not sequential: expected %d at position %d, got %d",
				i+1, i, n)
		}
	}
	return nil
}
