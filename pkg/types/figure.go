// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Figure is one counterpoint exercise extracted from a section score.
// MeasureStart is the measure carrying the exercise annotation; the
// remaining range fields are filled in once all figures of a section
// are known.
type Figure struct {
	// MeasureStart is the first measure of the exercise.
	MeasureStart int `json:"measure_start" yaml:"measure_start"`

	// Name is the figure label, verbatim from the annotation
	// (mostly numeric, e.g. "5" or "23 (alt)").
	Name string `json:"figure" yaml:"figure"`

	// Species is the counterpoint species (e.g. "1", "2", "mixed").
	Species string `json:"species" yaml:"species"`

	// ModalFinal is the modal final of the exercise (e.g. "D", "E").
	ModalFinal string `json:"modal_final" yaml:"modal_final"`

	// CantusFirmus names the voice carrying the cantus firmus.
	CantusFirmus string `json:"cantus_firmus" yaml:"cantus_firmus"`

	// MeasureEnd is the last measure of the exercise (inclusive).
	MeasureEnd int `json:"measure_end" yaml:"measure_end"`

	// MeasureCount is MeasureEnd - MeasureStart + 1.
	MeasureCount int `json:"measure_count" yaml:"measure_count"`
}

// Section groups the figures extracted from one section score file.
type Section struct {
	// ID is the section name (e.g. "I", "II", "III").
	ID string `json:"id" yaml:"id"`

	// SourcePath is the section score file the figures came from.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Figures lists the section's exercises in measure order.
	Figures []Figure `json:"figures" yaml:"figures"`
}
