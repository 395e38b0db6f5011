package dom

import (
	"strings"

	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/markup"
	"github.com/npillmayer/domfront/mstring"
	"github.com/npillmayer/domfront/tree"
)

// NodeType is the type of a document node.
type NodeType uint8

// Types of document nodes
const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "Document"
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	}
	return "?"
}

// Node is a node of a document tree.
type Node struct {
	tree.Node[*Node] // we build on top of general purpose tree
	doc              *Document
	ntype            NodeType
	tag              atom.Atom          // elements only
	attrs            []markup.Attribute // elements only, in source order
	text             *mstring.String    // text and comment nodes only
	offset           int                // stream offset of the token the node stems from
}

func newNode(doc *Document, ntype NodeType, offset int) *Node {
	n := &Node{doc: doc, ntype: ntype, offset: offset}
	n.Payload = n // Payload will always reference the node itself
	return n
}

// NodeFromTreeNode gets the document node from a generic tree node.
func NodeFromTreeNode(n *tree.Node[*Node]) *Node {
	if n == nil {
		return nil
	}
	return n.Payload
}

// TreeNode returns the generic tree node of n.
func (n *Node) TreeNode() *tree.Node[*Node] {
	return &n.Node
}

// Type returns the type of the node.
func (n *Node) Type() NodeType {
	return n.ntype
}

// Document returns the document n belongs to.
func (n *Node) Document() *Document {
	return n.doc
}

// Tag returns the tag name atom of an element, or 0 for other nodes.
func (n *Node) Tag() atom.Atom {
	return n.tag
}

// Offset returns the byte offset in the input the node has been created for.
func (n *Node) Offset() int {
	return n.offset
}

// Name returns the tag name of an element, and a pseudo-name of the form
// "#text" for other nodes.
func (n *Node) Name() string {
	switch n.ntype {
	case ElementNode:
		return n.doc.atoms.Name(n.tag)
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	}
	return "#document"
}

// Attr returns the value of the attribute with name key.
func (n *Node) Attr(key atom.Atom) (*mstring.String, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// AttrString returns the value of the attribute with the given name.
func (n *Node) AttrString(name string) (string, bool) {
	key, ok := n.doc.atoms.Lookup(name)
	if !ok {
		return "", false
	}
	v, ok := n.Attr(key)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Attributes returns the attributes of an element in source order.
// The values are still held by the document.
func (n *Node) Attributes() []markup.Attribute {
	return append([]markup.Attribute(nil), n.attrs...)
}

// Text returns the content of a text or comment node, and "" for other nodes.
func (n *Node) Text() string {
	if n.text == nil {
		return ""
	}
	return n.text.String()
}

// TextValue returns the managed string of a text or comment node, or nil.
func (n *Node) TextValue() *mstring.String {
	return n.text
}

// TextContent returns the concatenated text of n and all its descendents.
func (n *Node) TextContent() string {
	if n.ntype == TextNode {
		return n.Text()
	}
	var b strings.Builder
	n.Walk(func(tn *tree.Node[*Node], _ int) error {
		if tn.Payload.ntype == TextNode {
			b.WriteString(tn.Payload.Text())
		}
		return nil
	})
	return b.String()
}

// ParentNode returns the parent of n, or nil for the document node.
func (n *Node) ParentNode() *Node {
	return NodeFromTreeNode(n.Parent())
}

// ChildNodes returns the children of n.
func (n *Node) ChildNodes() []*Node {
	children := n.Children()
	nodes := make([]*Node, len(children))
	for i, ch := range children {
		nodes[i] = ch.Payload
	}
	return nodes
}

// FirstChild returns the first child of n, or nil.
func (n *Node) FirstChild() *Node {
	return NodeFromTreeNode(n.Node.FirstChild())
}

// LastChild returns the last child of n, or nil.
func (n *Node) LastChild() *Node {
	return NodeFromTreeNode(n.Node.LastChild())
}

// NextSibling returns the sibling following n, or nil.
func (n *Node) NextSibling() *Node {
	return NodeFromTreeNode(n.Node.NextSibling())
}

// PreviousSibling returns the sibling preceding n, or nil.
func (n *Node) PreviousSibling() *Node {
	return NodeFromTreeNode(n.Node.PrevSibling())
}

// Closest returns the nearest ancestor element of n with tag name atom tag,
// or nil. A tag of 0 matches any element. The document node is never
// returned.
func (n *Node) Closest(tag atom.Atom) *Node {
	anc, _ := n.AncestorWith(NodeIsElement(tag))
	return NodeFromTreeNode(anc)
}

// Elements returns all elements with tag name atom tag below n, in document
// order.
func (n *Node) Elements(tag atom.Atom) []*Node {
	matches, _ := n.FindAll(NodeIsElement(tag))
	var nodes []*Node
	for _, m := range matches {
		nodes = append(nodes, m.Payload)
	}
	return nodes
}

func (n *Node) release() {
	for _, a := range n.attrs {
		a.Value.Release()
	}
	n.attrs = nil
	if n.text != nil {
		n.text.Release()
		n.text = nil
	}
}
