// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score reads, queries, slices, and writes MusicXML scores.
// It handles both compressed .mxl containers and plain .musicxml/.xml
// documents, and exposes just the surface the pipeline needs: parts,
// measures, inline text annotations, measure slicing, and header
// metadata. See docs/ARCHITECTURE § Score Model.
package score

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const xmlDecl = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Precompiled XPath expressions for the hot queries.
var (
	partsExpr      = xpath.MustCompile("//score-partwise/part")
	measuresExpr   = xpath.MustCompile("measure")
	wordsExpr      = xpath.MustCompile("//part/measure/direction/direction-type/words")
	scorePartsExpr = xpath.MustCompile("//part-list/score-part")
)

// Score is a parsed score-partwise MusicXML document.
type Score struct {
	doc  *xmlquery.Node
	root *xmlquery.Node
}

// Annotation is one inline text expression with the number of the
// measure that carries it.
type Annotation struct {
	Measure int
	Text    string
}

// Parse parses a MusicXML document. Only score-partwise documents are
// supported; score-timewise is rejected rather than silently misread.
func Parse(data []byte) (*Score, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing MusicXML: %w", err)
	}

	root := xmlquery.FindOne(doc, "score-partwise")
	if root == nil {
		if xmlquery.FindOne(doc, "score-timewise") != nil {
			return nil, fmt.Errorf("score-timewise documents are not supported")
		}
		return nil, fmt.Errorf("no score-partwise root element found")
	}

	return &Score{doc: doc, root: root}, nil
}

// XML serializes the score as an uncompressed MusicXML document.
func (s *Score) XML() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlDecl)
	buf.WriteString(s.root.OutputXML(true))
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Annotations returns every text expression in the score, in document
// order, with the number of its enclosing measure.
func (s *Score) Annotations() ([]Annotation, error) {
	var annotations []Annotation
	for _, words := range xmlquery.QuerySelectorAll(s.doc, wordsExpr) {
		measure := xmlquery.FindOne(words, "ancestor::measure")
		if measure == nil {
			return nil, fmt.Errorf("text expression %q has no enclosing measure", words.InnerText())
		}
		number, err := measureNumber(measure)
		if err != nil {
			return nil, fmt.Errorf("text expression %q: %w", words.InnerText(), err)
		}
		annotations = append(annotations, Annotation{
			Measure: number,
			Text:    strings.TrimSpace(words.InnerText()),
		})
	}
	return annotations, nil
}

// MeasureNumbers returns the measure numbers of the first part, in
// document order. Non-numeric measure numbers (e.g. pickup "X1") are
// an error; downstream range computation has no place for them.
func (s *Score) MeasureNumbers() ([]int, error) {
	parts := xmlquery.QuerySelectorAll(s.doc, partsExpr)
	if len(parts) == 0 {
		return nil, fmt.Errorf("score has no parts")
	}

	measures := xmlquery.QuerySelectorAll(parts[0], measuresExpr)
	numbers := make([]int, 0, len(measures))
	for _, m := range measures {
		n, err := measureNumber(m)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// PartCount returns the number of parts declared in the part-list.
func (s *Score) PartCount() int {
	return len(xmlquery.QuerySelectorAll(s.doc, scorePartsExpr))
}

// SetWorkTitle sets work/work-title, creating the header elements as needed.
func (s *Score) SetWorkTitle(title string) {
	work := s.ensureHeaderElement("work")
	setChildText(work, "work-title", title)
}

// SetMovementTitle sets the movement-title header element.
func (s *Score) SetMovementTitle(title string) {
	movement := s.ensureHeaderElement("movement-title")
	setText(movement, title)
}

// SetComposer sets identification/creator[@type="composer"].
func (s *Score) SetComposer(name string) {
	ident := s.ensureHeaderElement("identification")

	var creator *xmlquery.Node
	for c := ident.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == "creator" && attrValue(c, "type") == "composer" {
			creator = c
			break
		}
	}
	if creator == nil {
		creator = newElement("creator")
		creator.Attr = []xmlquery.Attr{{Name: xml.Name{Local: "type"}, Value: "composer"}}
		prependChild(ident, creator)
	}
	setText(creator, name)
}

// SetNumericPartNames renames each part in the part-list to its 1-based
// index ("1", "2", ...) and clears the part abbreviations, so segment
// files carry neutral voice labels instead of section-score names.
func (s *Score) SetNumericPartNames() {
	for i, sp := range xmlquery.QuerySelectorAll(s.doc, scorePartsExpr) {
		setChildText(sp, "part-name", strconv.Itoa(i+1))
		setChildText(sp, "part-abbreviation", "")
	}
}

// ensureHeaderElement finds or creates a direct child element of the
// score-partwise root. New elements are inserted before the part-list
// so the document stays schema-ordered; callers create them in header
// order (work, movement-title, identification).
func (s *Score) ensureHeaderElement(name string) *xmlquery.Node {
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}

	n := newElement(name)
	if partList := s.root.SelectElement("part-list"); partList != nil {
		insertBefore(partList, n)
	} else {
		appendChild(s.root, n)
	}
	return n
}

// measureNumber parses the number attribute of a measure element.
func measureNumber(measure *xmlquery.Node) (int, error) {
	raw := attrValue(measure, "number")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("non-numeric measure number %q", raw)
	}
	return n, nil
}

func attrValue(n *xmlquery.Node, name string) string {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
