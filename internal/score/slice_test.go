// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"strings"
	"testing"
)

func TestSlice(t *testing.T) {
	s := mustParse(t, buildXML(10, nil))

	seg, err := s.Slice(4, 7)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}

	numbers, err := seg.MeasureNumbers()
	if err != nil {
		t.Fatalf("MeasureNumbers: %v", err)
	}
	want := []int{4, 5, 6, 7}
	if len(numbers) != len(want) {
		t.Fatalf("got measures %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("got measures %v, want %v", numbers, want)
		}
	}

	// The source score is untouched.
	origNumbers, err := s.MeasureNumbers()
	if err != nil {
		t.Fatalf("source MeasureNumbers: %v", err)
	}
	if len(origNumbers) != 10 {
		t.Errorf("source score mutated: %d measures left", len(origNumbers))
	}
}

func TestSliceCarriesAttributes(t *testing.T) {
	// Attributes are declared in measure 1 only; a slice starting at 4
	// must inherit them.
	s := mustParse(t, buildXML(10, nil))

	seg, err := s.Slice(4, 7)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}

	out := string(seg.XML())
	if !strings.Contains(out, "<divisions>4</divisions>") {
		t.Error("sliced segment lost the running attributes")
	}
	if strings.Count(out, "<attributes>") != 2 {
		// One carried-forward attributes element per part.
		t.Errorf("attributes count = %d, want 2:\n%s", strings.Count(out, "<attributes>"), out)
	}
}

func TestSliceFromStartKeepsOriginalAttributes(t *testing.T) {
	s := mustParse(t, buildXML(5, nil))

	seg, err := s.Slice(1, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}

	out := string(seg.XML())
	if strings.Count(out, "<attributes>") != 2 {
		t.Errorf("attributes count = %d, want 2 (no duplication)", strings.Count(out, "<attributes>"))
	}
}

func TestSliceKeepsPartList(t *testing.T) {
	s := mustParse(t, buildXML(6, nil))

	seg, err := s.Slice(2, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if got := seg.PartCount(); got != 2 {
		t.Errorf("PartCount after slice = %d, want 2", got)
	}
}

func TestSliceErrors(t *testing.T) {
	s := mustParse(t, buildXML(5, nil))

	tests := []struct {
		name       string
		start, end int
	}{
		{"start below one", 0, 3},
		{"end before start", 4, 2},
		{"beyond score", 6, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Slice(tt.start, tt.end); err == nil {
				t.Fatalf("Slice(%d, %d): expected error", tt.start, tt.end)
			}
		})
	}
}
