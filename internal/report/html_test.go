// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fourscore/gradus-engine/pkg/types"
)

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.html")
	cfg := types.ReportConfig{
		RawBase: "https://example.org/scores/",
		VHVBase: "https://viewer.example/?file=",
	}

	if err := WriteHTML(sampleFigures(), cfg, path); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)

	for _, want := range []string{
		`<table id="dataframe" class="table table-striped table-hover">`,
		"paging: false",
		`<a href="https://example.org/scores/005.mxl">.mxl</a>`,
		`<a href="https://viewer.example/?file=023.krn">click here</a>`,
		"<th>Measure start</th>",
		"<th>Direct download</th>",
		"<th>View on VHV</th>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestWriteHTMLDefaultBases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.html")

	if err := WriteHTML(sampleFigures()[:1], types.ReportConfig{}, path); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	if !strings.Contains(page, DefaultRawBase+"005.mxl") {
		t.Error("page does not use the default raw base")
	}
	if !strings.Contains(page, DefaultVHVBase+"005.krn") {
		t.Error("page does not use the default viewer base")
	}
}

func TestWriteHTMLEscapesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.html")
	figures := []types.Figure{{
		MeasureStart: 1,
		Name:         "5",
		Species:      "<script>1</script>",
		ModalFinal:   "D",
		CantusFirmus: "lower",
		MeasureEnd:   4,
		MeasureCount: 4,
	}}

	cfg := types.ReportConfig{RawBase: "https://example.org/", VHVBase: "https://viewer.example/?file="}
	if err := WriteHTML(figures, cfg, path); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	if strings.Contains(page, "<script>1</script>") {
		t.Error("figure field rendered unescaped")
	}
	if !strings.Contains(page, "&lt;script&gt;1&lt;/script&gt;") {
		t.Error("figure field not HTML-escaped")
	}
}
