package dom

import (
	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/fault"
	"github.com/npillmayer/domfront/markup"
	"github.com/npillmayer/domfront/tree"
)

// Document is a document tree, built from a single parse session.
type Document struct {
	root     *Node
	atoms    *atom.Table
	mode     markup.Mode
	doctype  string
	complete bool
	released bool
	faults   fault.List
}

// NewDocument creates an empty document. Names are interned with tab.
func NewDocument(tab *atom.Table, mode markup.Mode) *Document {
	if tab == nil {
		tab = atom.Global()
	}
	doc := &Document{atoms: tab, mode: mode}
	doc.root = newNode(doc, DocumentNode, 0)
	return doc
}

// Root returns the document node, which is the parent of all top-level nodes.
func (doc *Document) Root() *Node {
	return doc.root
}

// DocumentElement returns the first top-level element, or nil.
func (doc *Document) DocumentElement() *Node {
	for _, ch := range doc.root.ChildNodes() {
		if ch.ntype == ElementNode {
			return ch
		}
	}
	return nil
}

// Atoms returns the atom table the document's names are interned with.
func (doc *Document) Atoms() *atom.Table {
	return doc.atoms
}

// Mode returns the markup mode the document has been parsed with.
func (doc *Document) Mode() markup.Mode {
	return doc.mode
}

// Doctype returns the document type declaration without the leading
// "DOCTYPE" keyword, e.g. "html".
func (doc *Document) Doctype() string {
	return doc.doctype
}

// Complete is true after the end of the input has been processed.
func (doc *Document) Complete() bool {
	return doc.complete
}

// Faults returns the recoverable faults detected while parsing the document.
func (doc *Document) Faults() fault.List {
	return doc.faults
}

// Elements returns all elements with the given tag name, in document order.
func (doc *Document) Elements(name string) []*Node {
	tag, ok := doc.atoms.Lookup(name)
	if !ok {
		return nil
	}
	return doc.root.Elements(tag)
}

// Release drops the references the document holds on text and attribute
// values. References retained by clients are not affected. The document must
// not be used afterwards.
func (doc *Document) Release() {
	if doc.released {
		return
	}
	doc.released = true
	count := 0
	doc.root.Walk(func(n *tree.Node[*Node], _ int) error {
		n.Payload.release()
		count++
		return nil
	})
	tracer().Debugf("released document with %d nodes", count)
}
