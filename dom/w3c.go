package dom

import (
	"fmt"
	"strings"

	"github.com/npillmayer/domfront/dom/w3cdom"
	"golang.org/x/net/html"
)

// W3CNode is a read-only view of a document node, implementing the W3C
// node interface of package w3cdom.
type W3CNode struct {
	node *Node
}

var _ w3cdom.Node = &W3CNode{}

// W3C returns a W3C view of n. For n == nil it returns nil.
func W3C(n *Node) *W3CNode {
	if n == nil {
		return nil
	}
	return &W3CNode{node: n}
}

// toW3C avoids returning a typed nil inside an interface.
func toW3C(n *Node) w3cdom.Node {
	if n == nil {
		return nil
	}
	return W3C(n)
}

// DOMNode returns the underlying document node.
func (w *W3CNode) DOMNode() *Node {
	return w.node
}

// NodeType is part of interface w3cdom.Node.
func (w *W3CNode) NodeType() html.NodeType {
	switch w.node.ntype {
	case ElementNode:
		return html.ElementNode
	case TextNode:
		return html.TextNode
	case CommentNode:
		return html.CommentNode
	}
	return html.DocumentNode
}

// NodeName is part of interface w3cdom.Node.
// Elements return their tag name, other nodes a pseudo-name like "#text".
func (w *W3CNode) NodeName() string {
	return w.node.Name()
}

// NodeValue is part of interface w3cdom.Node.
// Text and comment nodes return their text, all others return "".
func (w *W3CNode) NodeValue() string {
	return w.node.Text()
}

// HasAttributes is part of interface w3cdom.Node.
func (w *W3CNode) HasAttributes() bool {
	return len(w.node.attrs) > 0
}

// ParentNode is part of interface w3cdom.Node.
func (w *W3CNode) ParentNode() w3cdom.Node {
	return toW3C(w.node.ParentNode())
}

// HasChildNodes is part of interface w3cdom.Node.
func (w *W3CNode) HasChildNodes() bool {
	return w.node.ChildCount() > 0
}

// ChildNodes is part of interface w3cdom.Node.
func (w *W3CNode) ChildNodes() w3cdom.NodeList {
	return nodeList(w.node.ChildNodes())
}

// Children is part of interface w3cdom.Node.
// It returns the element children only.
func (w *W3CNode) Children() w3cdom.NodeList {
	var elems nodeList
	for _, ch := range w.node.ChildNodes() {
		if ch.ntype == ElementNode {
			elems = append(elems, ch)
		}
	}
	return elems
}

// FirstChild is part of interface w3cdom.Node.
func (w *W3CNode) FirstChild() w3cdom.Node {
	return toW3C(w.node.FirstChild())
}

// LastChild is part of interface w3cdom.Node.
func (w *W3CNode) LastChild() w3cdom.Node {
	return toW3C(w.node.LastChild())
}

// NextSibling is part of interface w3cdom.Node.
func (w *W3CNode) NextSibling() w3cdom.Node {
	return toW3C(w.node.NextSibling())
}

// PreviousSibling is part of interface w3cdom.Node.
func (w *W3CNode) PreviousSibling() w3cdom.Node {
	return toW3C(w.node.PreviousSibling())
}

// Attributes is part of interface w3cdom.Node.
func (w *W3CNode) Attributes() w3cdom.NamedNodeMap {
	return attrMap{w.node}
}

// TextContent is part of interface w3cdom.Node.
func (w *W3CNode) TextContent() (string, error) {
	if w.node.doc.released {
		return "", fmt.Errorf("document of node %s has been released", w.node.Name())
	}
	return w.node.TextContent(), nil
}

// --- Node lists ------------------------------------------------------------

type nodeList []*Node

func (l nodeList) Length() int {
	return len(l)
}

func (l nodeList) Item(i int) w3cdom.Node {
	if i < 0 || i >= len(l) {
		return nil
	}
	return W3C(l[i])
}

func (l nodeList) String() string {
	names := make([]string, len(l))
	for i, n := range l {
		names[i] = n.Name()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// --- Attributes ------------------------------------------------------------

type attrMap struct {
	node *Node
}

type attr struct {
	key, value string
}

func (m attrMap) Length() int {
	return len(m.node.attrs)
}

func (m attrMap) Item(i int) w3cdom.Attr {
	if i < 0 || i >= len(m.node.attrs) {
		return nil
	}
	a := m.node.attrs[i]
	return attr{m.node.doc.atoms.Name(a.Key), a.Value.String()}
}

func (m attrMap) GetNamedItem(name string) w3cdom.Attr {
	v, ok := m.node.AttrString(name)
	if !ok {
		return nil
	}
	return attr{name, v}
}

// Namespace returns the prefix of a qualified attribute name like "xml:lang".
func (a attr) Namespace() string {
	if i := strings.IndexByte(a.key, ':'); i > 0 {
		return a.key[:i]
	}
	return ""
}

func (a attr) Key() string {
	return a.key
}

func (a attr) Value() string {
	return a.value
}
