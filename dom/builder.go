package dom

import (
	"bytes"
	"strings"

	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/markup"
	"github.com/npillmayer/domfront/mstring"
)

// Builder constructs a document from parse events. It implements
// markup.Handler.
type Builder struct {
	doc   *Document
	stack []*Node // open nodes, stack[0] is the document node
}

var _ markup.Handler = (*Builder)(nil)

// NewBuilder creates a builder for a new, empty document.
func NewBuilder(tab *atom.Table, mode markup.Mode) *Builder {
	doc := NewDocument(tab, mode)
	return &Builder{doc: doc, stack: []*Node{doc.root}}
}

// Document returns the document under construction.
func (b *Builder) Document() *Document {
	return b.doc
}

func (b *Builder) top() *Node {
	return b.stack[len(b.stack)-1]
}

// HandleEvent is part of interface markup.Handler.
func (b *Builder) HandleEvent(ev *markup.Event) {
	assertThat(!b.doc.complete, "event %s after end of document", ev.Kind)
	switch ev.Kind {
	case markup.OpenTag:
		n := newNode(b.doc, ElementNode, ev.Offset)
		n.tag = ev.Tag
		if len(ev.Attrs) > 0 {
			n.attrs = make([]markup.Attribute, len(ev.Attrs))
			for i, a := range ev.Attrs {
				n.attrs[i] = markup.Attribute{Key: a.Key, Value: a.Value.Retain()}
			}
		}
		b.top().AddChild(&n.Node)
		b.stack = append(b.stack, n)
	case markup.Text:
		b.text(ev)
	case markup.CloseTag:
		b.close(ev)
	case markup.Comment:
		n := newNode(b.doc, CommentNode, ev.Offset)
		n.text = mstring.FromOwned(ev.Data)
		b.top().AddChild(&n.Node)
	case markup.Directive:
		b.directive(ev.Data)
	case markup.EndOfDocument:
		assertThat(len(b.stack) == 1, "end of document with %d open elements", len(b.stack)-1)
		b.doc.complete = true
		tracer().Debugf("document complete")
	}
}

// text appends text to the current node. Adjacent text is merged into a
// single text node.
func (b *Builder) text(ev *markup.Event) {
	if len(ev.Data) == 0 {
		return
	}
	parent := b.top()
	if last := parent.LastChild(); last != nil && last.ntype == TextNode {
		more := mstring.FromOwned(ev.Data)
		merged := mstring.Concat(last.text, more)
		more.Release()
		last.text.Release()
		last.text = merged
		return
	}
	n := newNode(b.doc, TextNode, ev.Offset)
	n.text = mstring.FromOwned(ev.Data)
	parent.AddChild(&n.Node)
}

func (b *Builder) close(ev *markup.Event) {
	if b.doc.mode == markup.XML {
		top := b.top()
		assertThat(len(b.stack) > 1 && top.tag == ev.Tag, "close tag %s does not match open element %s",
			b.doc.atoms.Name(ev.Tag), top.Name())
		b.stack = b.stack[:len(b.stack)-1]
		return
	}
	for len(b.stack) > 1 {
		top := b.top()
		b.stack = b.stack[:len(b.stack)-1]
		if top.tag == ev.Tag {
			return
		}
	}
	tracer().Infof("close tag %s without open element", b.doc.atoms.Name(ev.Tag))
}

var doctypeKeyword = []byte("!doctype")

func (b *Builder) directive(data []byte) {
	if len(data) >= len(doctypeKeyword) && bytes.EqualFold(data[:len(doctypeKeyword)], doctypeKeyword) {
		b.doc.doctype = strings.TrimSpace(string(data[len(doctypeKeyword):]))
		return
	}
	tracer().Debugf("ignoring directive <%s>", data)
}
