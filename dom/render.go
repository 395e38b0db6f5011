package dom

import (
	"bufio"
	"io"
	"strings"

	"github.com/npillmayer/domfront/markup"
	"golang.org/x/net/html"
)

// Render writes a document as markup to w. Text and attribute values are
// escaped, except for the content of HTML raw text elements like <style>.
// Empty XML elements are written as <x/>.
func Render(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	if doc.doctype != "" {
		bw.WriteString("<!DOCTYPE " + doc.doctype + ">")
	}
	for _, ch := range doc.root.ChildNodes() {
		render(bw, ch)
	}
	return bw.Flush()
}

// RenderString returns the markup of a document as a string.
func RenderString(doc *Document) string {
	var b strings.Builder
	Render(&b, doc)
	return b.String()
}

func render(w *bufio.Writer, n *Node) {
	switch n.ntype {
	case TextNode:
		if p := n.ParentNode(); n.doc.mode == markup.HTML && p != nil && markup.IsRawTextElement(p.Name()) {
			w.WriteString(n.Text())
		} else {
			w.WriteString(html.EscapeString(n.Text()))
		}
		return
	case CommentNode:
		w.WriteString("<!--" + n.Text() + "-->")
		return
	}
	name := n.Name()
	w.WriteString("<" + name)
	for _, a := range n.attrs {
		w.WriteString(" " + n.doc.atoms.Name(a.Key) + `="` + html.EscapeString(a.Value.String()) + `"`)
	}
	if n.ChildCount() == 0 {
		if n.doc.mode == markup.XML {
			w.WriteString("/>")
			return
		}
		if markup.IsVoidElement(name) {
			w.WriteString(">")
			return
		}
	}
	w.WriteString(">")
	for _, ch := range n.Children() {
		render(w, ch.Payload)
	}
	w.WriteString("</" + name + ">")
}
