// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

// NodeID is a monotonically assigned, per-Document identifier.
type NodeID uint64

// NodeKind distinguishes the variants a Node can hold (spec.md §3): the
// root Document, a Block (paragraph/heading/quote/code/table/hr), a
// List, a ListItem, or a Format span (inline markup wrapping text).
type NodeKind int

const (
	NodeDocument NodeKind = iota
	NodeBlock
	NodeList
	NodeListItem
	NodeFormat
)

// Node is one entry in a Document's arena. Children are owned by their
// parent via index into Document.nodes; Parent is a non-owning back
// reference (an index, never a pointer) so the tree has no reference
// cycles to manage — see DESIGN.md for why an arena was chosen over
// parent-owning pointers with weak back-references.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Block    Kind   // valid when Kind == NodeBlock or NodeFormat
	Ordered  bool   // valid when Kind == NodeList
	Task     bool   // valid when Kind == NodeListItem
	Checked  bool   // valid when Kind == NodeListItem && Task
	Indent   int    // list/quote nesting level
	Lang     string // fenced-code language tag
	FenceChar byte  // '`' or '~', which fence delimiter opened this code block
	Align    Align  // table cell alignment
	Href     string // link/image destination
	Title    string
	Text     string // accumulated text for leaf Format/text nodes
	Parent   NodeID
	hasParent bool
	Children []NodeID
}

// Document is an in-memory node tree a Renderer may build for AST
// consumers (spec.md §3, collaborator). TreeRenderer (tree_renderer.go)
// is the Renderer implementation that populates one.
type Document struct {
	nodes []Node
	root  NodeID
}

// NewDocument creates an empty Document with a single root node.
func NewDocument() *Document {
	d := &Document{}
	d.root = d.newNode(NodeDocument)
	return d
}

// Root returns the document's root node id.
func (d *Document) Root() NodeID { return d.root }

// Node returns the node with the given id. The second return value is
// false if id is out of range.
func (d *Document) Node(id NodeID) (Node, bool) {
	if int(id) >= len(d.nodes) {
		return Node{}, false
	}
	return d.nodes[id], true
}

// Children returns the ordered child ids of a node.
func (d *Document) Children(id NodeID) []NodeID {
	if int(id) >= len(d.nodes) {
		return nil
	}
	return d.nodes[id].Children
}

func (d *Document) newNode(kind NodeKind) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, Node{ID: id, Kind: kind})
	return id
}

func (d *Document) appendChild(parent NodeID, kind NodeKind) NodeID {
	id := d.newNode(kind)
	d.nodes[id].Parent = parent
	d.nodes[id].hasParent = true
	d.nodes[parent].Children = append(d.nodes[parent].Children, id)
	return id
}

func (d *Document) appendText(parent NodeID, text string) {
	n := &d.nodes[parent]
	if len(n.Children) > 0 {
		last := &d.nodes[n.Children[len(n.Children)-1]]
		if last.Kind == NodeFormat && last.Block == KindText {
			last.Text += text
			return
		}
	}
	id := d.appendChild(parent, NodeFormat)
	d.nodes[id].Block = KindText
	d.nodes[id].Text = text
}

// ParentOf reports id's parent and whether it has one (false only for
// the root).
func (d *Document) ParentOf(id NodeID) (NodeID, bool) {
	if int(id) >= len(d.nodes) {
		return 0, false
	}
	n := d.nodes[id]
	return n.Parent, n.hasParent
}
