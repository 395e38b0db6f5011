/*
Package domdbg implements helpers to debug a DOM tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/domfront/dom"
	"github.com/npillmayer/domfront/tree"
	tp "github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

// ToGraphViz outputs a diagram for a DOM tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root node of
// the DOM and a Writer. Elements with attributes are connected to a
// table of their attributes.
func ToGraphViz(doc *dom.W3CNode, w io.Writer) {
	g := &graph{Fontname: "Helvetica"}
	g.collect(doc, "")
	if err := dotTmpl.Execute(w, g); err != nil {
		panic(err)
	}
}

// graph is the model a DOT digraph is generated from.
type graph struct {
	Fontname string
	Nodes    []gvNode
	Edges    [][2]string
}

type gvNode struct {
	Name  string
	Kind  string // "elem", "text" or "other"
	Label string
	Attrs [][2]string
}

func (g *graph) collect(n *dom.W3CNode, parent string) {
	v := gvNode{Name: fmt.Sprintf("node%05d", len(g.Nodes)+1), Label: n.NodeName()}
	switch n.NodeType() {
	case html.ElementNode:
		v.Kind = "elem"
		m := n.Attributes()
		for i := 0; i < m.Length(); i++ {
			v.Attrs = append(v.Attrs, [2]string{m.Item(i).Key(), m.Item(i).Value()})
		}
	case html.TextNode, html.CommentNode:
		v.Kind = "text"
		v.Label = shortText(n.NodeValue())
	default:
		v.Kind = "other"
	}
	g.Nodes = append(g.Nodes, v)
	if parent != "" {
		g.Edges = append(g.Edges, [2]string{parent, v.Name})
	}
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		g.collect(ch.(*dom.W3CNode), v.Name)
	}
}

// Dotty is a helper for testing. Given a DOM node and a testing.T, it will
// create a Graphiviz image of the DOM tree under `doc` and write it to
// a file in the current folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
//
func Dotty(doc *dom.W3CNode, t *testing.T) {
	tmpfile, err := os.CreateTemp(".", "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing DOM digraph to %s\n", tmpfile.Name())
	ToGraphViz(doc, tmpfile)
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Log("writing DOM tree image to tree.svg\n")
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

// Print returns an indented outline of the DOM (sub-)tree under n.
func Print(n *dom.Node) string {
	printer := tp.New()
	printer.SetValue(label(n))
	for _, ch := range n.ChildNodes() {
		printNode(printer, ch)
	}
	return printer.String()
}

func printNode(printer tp.Tree, n *dom.Node) {
	if n.ChildCount() == 0 {
		printer.AddNode(label(n))
		return
	}
	branch := printer.AddBranch(label(n))
	for _, ch := range n.ChildNodes() {
		printNode(branch, ch)
	}
}

func label(n *dom.Node) string {
	switch n.Type() {
	case dom.TextNode, dom.CommentNode:
		return fmt.Sprintf("%s %q", n.Name(), n.Text())
	case dom.ElementNode:
		var b strings.Builder
		b.WriteString(n.Name())
		for _, a := range n.Attributes() {
			fmt.Fprintf(&b, " %s=%q", n.Document().Atoms().Name(a.Key), a.Value.String())
		}
		return b.String()
	}
	return n.Name()
}

// Count returns the number of nodes of each type in the tree under n.
func Count(n *dom.Node) map[dom.NodeType]int {
	counts := make(map[dom.NodeType]int)
	all, _ := n.FindAll(tree.Whatever[*dom.Node]())
	for _, tn := range all {
		counts[tn.Payload.Type()]++
	}
	return counts
}

func shortText(data string) string {
	if len(data) > 10 {
		data = data[:10] + "..."
	}
	r := strings.NewReplacer("\n", `\\n`, "\t", `\\t`, " ", "␣", `"`, `\"`)
	return `"\"` + r.Replace(data) + `\""`
}

// --- Templates --------------------------------------------------------

var dotTmpl = template.Must(template.New("dom").Parse(`digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  node [fontname = "{{ .Fontname }}" fontsize=14] ;
  edge [fontname = "{{ .Fontname }}" fontsize=14] ;
{{- range .Nodes }}
{{- if eq .Kind "text" }}
  {{ .Name }} [ label={{ .Label }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{- else if eq .Kind "elem" }}
  {{ .Name }} [ label={{ printf "%q" .Label }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{- else }}
  {{ .Name }} [ label={{ printf "%q" .Label }} shape=note style=filled fillcolor=ivory ] ;
{{- end }}
{{- if .Attrs }}
  {{ .Name }}attrs [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
{{- range .Attrs }}
      <tr><td align="right">{{ index . 0 | html }}:</td><td>{{ index . 1 | html }}</td></tr>
{{- end }}
    </table>> ] ;
  {{ .Name }} -> {{ .Name }}attrs [dir=none weight=1 style="dashed"] ;
{{- end }}
{{- end }}
{{- range .Edges }}
  {{ index . 0 }} -> {{ index . 1 }} [weight=1] ;
{{- end }}
}
`))
