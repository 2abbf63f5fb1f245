// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import "github.com/antchfx/xmlquery"

// Node construction and tree-surgery helpers. xmlquery exposes its node
// links directly; these keep the sibling/parent pointers consistent.

func newElement(name string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
}

func newText(text string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.TextNode, Data: text}
}

func appendChild(parent, n *xmlquery.Node) {
	n.Parent = parent
	n.NextSibling = nil
	if parent.FirstChild == nil {
		parent.FirstChild = n
		n.PrevSibling = nil
	} else {
		parent.LastChild.NextSibling = n
		n.PrevSibling = parent.LastChild
	}
	parent.LastChild = n
}

func prependChild(parent, n *xmlquery.Node) {
	n.Parent = parent
	n.PrevSibling = nil
	n.NextSibling = parent.FirstChild
	if parent.FirstChild != nil {
		parent.FirstChild.PrevSibling = n
	} else {
		parent.LastChild = n
	}
	parent.FirstChild = n
}

// insertBefore places n immediately before ref under ref's parent.
func insertBefore(ref, n *xmlquery.Node) {
	n.Parent = ref.Parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if ref.Parent != nil {
		ref.Parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// setText replaces n's children with a single text node.
func setText(n *xmlquery.Node, text string) {
	n.FirstChild = nil
	n.LastChild = nil
	appendChild(n, newText(text))
}

// setChildText sets the text of the named direct child of parent,
// creating the child (appended) when missing.
func setChildText(parent *xmlquery.Node, name, text string) {
	var child *xmlquery.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			child = c
			break
		}
	}
	if child == nil {
		child = newElement(name)
		appendChild(parent, child)
	}
	setText(child, text)
}

// cloneNode deep-copies a node and its subtree.
func cloneNode(n *xmlquery.Node) *xmlquery.Node {
	nn := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	if len(n.Attr) > 0 {
		nn.Attr = append([]xmlquery.Attr(nil), n.Attr...)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendChild(nn, cloneNode(c))
	}
	return nn
}
