package markup

import (
	"github.com/npillmayer/domfront/atom"
	htmlatom "golang.org/x/net/html/atom"
)

// htmlRules holds the HTML recovery vocabulary, interned into the
// tokenizer's atom table once at construction time.
type htmlRules struct {
	void     atomSet // elements without content, closed immediately
	optional atomSet // elements whose end tag may be omitted without a fault
	rawText  atomSet // content is text up to the end tag, not decoded
	rcData   atomSet // content is text up to the end tag, decoded
	implied  map[atom.Atom][]impliedClose
}

type atomSet map[atom.Atom]bool

type atomSetBuilder struct {
	t *atom.Table
}

func (b atomSetBuilder) set(names ...string) atomSet {
	s := make(atomSet, len(names))
	for _, n := range names {
		s[b.t.Intern(n)] = true
	}
	return s
}

// impliedClose describes end tags implied by a start tag: an open element of
// set targets is closed, provided it is found on the stack of open elements
// before an element of set boundary. With topOnly, just the current element
// is inspected.
type impliedClose struct {
	targets  atomSet
	boundary atomSet
	topOnly  bool
}

var headings = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

var (
	voidElements = []string{"area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr"}
	rawTextElements = []string{"script", "style"}
)

// IsVoidElement is true for HTML elements which never have content and
// no end tag, e.g. "br". name must be lower case.
func IsVoidElement(name string) bool {
	return contains(voidElements, name)
}

// IsRawTextElement is true for HTML elements whose content is not decoded,
// e.g. "style".
func IsRawTextElement(name string) bool {
	return contains(rawTextElements, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func newHTMLRules(tab *atom.Table) *htmlRules {
	b := atomSetBuilder{tab}
	r := &htmlRules{
		void: b.set(voidElements...),
		optional: b.set("html", "head", "body", "p", "li", "dt", "dd", "option",
			"optgroup", "thead", "tbody", "tfoot", "tr", "td", "th", "colgroup", "caption"),
		rawText: b.set(rawTextElements...),
		rcData:  b.set("textarea", "title"),
		implied: make(map[atom.Atom][]impliedClose),
	}
	scope := b.set("html", "table", "td", "th", "caption", "template", "button",
		"object", "marquee", "applet")
	closeP := impliedClose{targets: b.set("p"), boundary: scope}
	pClosers := append([]string{"address", "article", "aside", "blockquote", "center",
		"details", "dialog", "dir", "div", "dl", "fieldset", "figcaption", "figure",
		"footer", "form", "header", "hgroup", "hr", "main", "menu", "nav", "ol", "p",
		"pre", "section", "summary", "table", "ul", "li", "dd", "dt"}, headings...)
	for _, name := range pClosers {
		a := tab.Intern(name)
		r.implied[a] = append(r.implied[a], closeP)
	}
	r.add(tab, []string{"li"}, impliedClose{
		targets:  b.set("li"),
		boundary: union(scope, b.set("ol", "ul")),
	})
	r.add(tab, []string{"dt", "dd"}, impliedClose{
		targets:  b.set("dt", "dd"),
		boundary: union(scope, b.set("dl")),
	})
	r.add(tab, headings, impliedClose{targets: b.set(headings...), topOnly: true})
	r.add(tab, []string{"option"}, impliedClose{targets: b.set("option"), topOnly: true})
	r.add(tab, []string{"thead", "tbody", "tfoot"}, impliedClose{
		targets:  b.set("thead", "tbody", "tfoot"),
		boundary: b.set("table", "html", "template"),
	})
	r.add(tab, []string{"tr"}, impliedClose{
		targets:  b.set("tr"),
		boundary: b.set("table", "thead", "tbody", "tfoot", "html", "template"),
	})
	r.add(tab, []string{"td", "th"}, impliedClose{
		targets:  b.set("td", "th"),
		boundary: b.set("tr", "table", "html", "template"),
	})
	return r
}

func (r *htmlRules) add(tab *atom.Table, openers []string, ic impliedClose) {
	for _, name := range openers {
		a := tab.Intern(name)
		r.implied[a] = append(r.implied[a], ic)
	}
}

func union(sets ...atomSet) atomSet {
	u := make(atomSet)
	for _, s := range sets {
		for a := range s {
			u[a] = true
		}
	}
	return u
}

// isForeign is true for elements outside the HTML vocabulary, e.g. SVG
// content, which may use self-closing syntax.
func isForeign(lowerName []byte) bool {
	return htmlatom.Lookup(lowerName) == 0
}
