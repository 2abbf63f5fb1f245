// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"fmt"

	"github.com/antchfx/xmlquery"
)

// Slice returns a deep copy of the score containing only measures in
// [start, end] (inclusive, by measure number) for every part. The
// part-list and header elements are preserved. When the first kept
// measure of a part carries no <attributes> element, the most recent
// one from before the range is cloned into it so the segment keeps its
// divisions, key, time, and clef.
func (s *Score) Slice(start, end int) (*Score, error) {
	if start < 1 {
		return nil, fmt.Errorf("slice start %d: measure numbers begin at 1", start)
	}
	if end < start {
		return nil, fmt.Errorf("slice range %d-%d: end before start", start, end)
	}

	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	root := cloneNode(s.root)
	appendChild(doc, root)
	out := &Score{doc: doc, root: root}

	for _, part := range xmlquery.QuerySelectorAll(doc, partsExpr) {
		if err := slicePart(part, start, end); err != nil {
			return nil, fmt.Errorf("part %s: %w", attrValue(part, "id"), err)
		}
	}

	return out, nil
}

func slicePart(part *xmlquery.Node, start, end int) error {
	measures := xmlquery.QuerySelectorAll(part, measuresExpr)

	var lastAttributes *xmlquery.Node
	kept := 0
	for _, m := range measures {
		n, err := measureNumber(m)
		if err != nil {
			return err
		}
		if n >= start && n <= end {
			kept++
			continue
		}
		if n < start {
			if a := lastChildElement(m, "attributes"); a != nil {
				lastAttributes = a
			}
		}
		xmlquery.RemoveFromTree(m)
	}

	if kept == 0 {
		return fmt.Errorf("no measures in range %d-%d", start, end)
	}

	// Carry the running attributes into the slice when it does not
	// restate them itself.
	first := firstChildElement(part, "measure")
	if first != nil && lastChildElement(first, "attributes") == nil && lastAttributes != nil {
		prependChild(first, cloneNode(lastAttributes))
	}

	return nil
}

func firstChildElement(parent *xmlquery.Node, name string) *xmlquery.Node {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func lastChildElement(parent *xmlquery.Node, name string) *xmlquery.Node {
	var found *xmlquery.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			found = c
		}
	}
	return found
}
