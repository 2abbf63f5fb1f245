// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package figure turns the loosely structured text annotations of a
// section score into a validated table of exercises with contiguous,
// non-overlapping measure ranges. This is the one piece of the
// pipeline with real invariants; everything downstream just formats
// its output. See docs/ARCHITECTURE § Figure Extraction.
package figure

import (
	"fmt"
	"strings"

	"github.com/fourscore/gradus-engine/internal/score"
	"github.com/fourscore/gradus-engine/pkg/types"
)

// fieldPrefixes are the required component prefixes of an exercise
// annotation, in order. A figure annotation reads, for example:
//
//	Fig. 5; Species: 1; Modal final: D; Cantus firmus: lower
var fieldPrefixes = []string{"Fig. ", "Species: ", "Modal final: ", "Cantus firmus: "}

// componentSeparator joins the annotation fields on the score.
const componentSeparator = "; "

// ParseAnnotation parses one annotation into a Figure with only the
// start measure and label fields set. The annotation must have exactly
// one component per prefix, in order; anything else is an error that
// names the measure and quotes the raw text, since the fix happens in
// the score, not here.
func ParseAnnotation(measure int, text string) (types.Figure, error) {
	components := strings.Split(text, componentSeparator)
	if len(components) != len(fieldPrefixes) {
		return types.Figure{}, fmt.Errorf(
			"annotation at measure %d: expected %d components, got %d (raw: %q)",
			measure, len(fieldPrefixes), len(components), text)
	}

	values := make([]string, len(fieldPrefixes))
	for i, prefix := range fieldPrefixes {
		if !strings.HasPrefix(components[i], prefix) {
			return types.Figure{}, fmt.Errorf(
				"annotation at measure %d: component %d must start with %q, got %q",
				measure, i, prefix, components[i])
		}
		values[i] = components[i][len(prefix):]
	}

	return types.Figure{
		MeasureStart: measure,
		Name:         values[0],
		Species:      values[1],
		ModalFinal:   values[2],
		CantusFirmus: values[3],
	}, nil
}

// Extract reads every annotation from the score, parses it, and
// computes the measure ranges. The returned figures are in score
// order and cover the score from the first annotation to the final
// measure without gaps or overlaps.
func Extract(s *score.Score) ([]types.Figure, error) {
	annotations, err := s.Annotations()
	if err != nil {
		return nil, err
	}
	if len(annotations) == 0 {
		return nil, fmt.Errorf("score contains no exercise annotations")
	}

	figures := make([]types.Figure, 0, len(annotations))
	for _, a := range annotations {
		fig, err := ParseAnnotation(a.Measure, a.Text)
		if err != nil {
			return nil, err
		}
		figures = append(figures, fig)
	}

	numbers, err := s.MeasureNumbers()
	if err != nil {
		return nil, err
	}
	if err := ComputeRanges(figures, numbers); err != nil {
		return nil, err
	}
	return figures, nil
}
