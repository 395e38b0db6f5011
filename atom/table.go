package atom

import (
	"sync"

	htmlatom "golang.org/x/net/html/atom"
)

// Atom is an interned name. Atoms of the same table are equal if and only if
// their texts are equal.
//
// The zero Atom denotes "no atom" and is never returned by Intern.
type Atom uint32

// Table maps texts to atoms and back. It is safe for concurrent use.
type Table struct {
	props
	mu    sync.RWMutex
	ids   map[string]Atom
	names []string // names[0] is reserved for the zero Atom
}

// NewTable creates an atom table. Options may pre-seed the table with a
// vocabulary of names.
//
//     tab := atom.NewTable(atom.WithHTMLVocabulary())
//
func NewTable(opts ...Option) *Table {
	t := &Table{
		ids:   make(map[string]Atom, 256),
		names: make([]string, 1, 256),
	}
	for _, option := range opts {
		t.props = option.config(t.props)
	}
	for _, name := range t.props.seed {
		t.Intern(name)
	}
	tracer().Debugf("new atom table with %d pre-seeded atoms", t.Len())
	return t
}

// Intern returns the atom for text, creating it if text has not been seen.
func (t *Table) Intern(text string) Atom {
	t.mu.RLock()
	a, ok := t.ids[text]
	t.mu.RUnlock()
	if ok {
		return a
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok = t.ids[text]; ok { // somebody else may have been faster
		return a
	}
	a = Atom(len(t.names))
	t.names = append(t.names, text)
	t.ids[text] = a
	return a
}

// InternBytes is like Intern, but accepts a byte slice. No allocation takes
// place if the text has been interned before.
func (t *Table) InternBytes(text []byte) Atom {
	t.mu.RLock()
	a, ok := t.ids[string(text)] // compiler avoids the allocation for map lookups
	t.mu.RUnlock()
	if ok {
		return a
	}
	return t.Intern(string(text))
}

// Lookup returns the atom for text without creating one.
func (t *Table) Lookup(text string) (Atom, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.ids[text]
	return a, ok
}

// Name returns the canonical text of an atom. The zero Atom has an empty name.
// Asking for an atom this table never handed out is a programming error.
func (t *Table) Name(a Atom) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	assertThat(int(a) < len(t.names), "atom %d does not belong to this table", a)
	return t.names[a]
}

// Len returns the number of atoms in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names) - 1
}

// --- Options ---------------------------------------------------------------

type props struct {
	seed []string
}

// Option is a type to help initializing atom tables at creation time.
type Option struct {
	config func(props) props
}

// WithNames pre-seeds a table with a vocabulary of names.
func WithNames(names ...string) Option {
	conf := func(p props) props {
		p.seed = append(p.seed, names...)
		return p
	}
	return Option{config: conf}
}

// WithHTMLVocabulary pre-seeds a table with common HTML tag and attribute names.
func WithHTMLVocabulary() Option {
	names := make([]string, len(htmlVocabulary))
	for i, a := range htmlVocabulary {
		names[i] = a.String()
	}
	return WithNames(names...)
}

var htmlVocabulary = []htmlatom.Atom{
	// elements
	htmlatom.Html, htmlatom.Head, htmlatom.Title, htmlatom.Meta, htmlatom.Link,
	htmlatom.Style, htmlatom.Script, htmlatom.Body, htmlatom.Div, htmlatom.Span,
	htmlatom.P, htmlatom.A, htmlatom.Br, htmlatom.Hr, htmlatom.Img,
	htmlatom.H1, htmlatom.H2, htmlatom.H3, htmlatom.H4, htmlatom.H5, htmlatom.H6,
	htmlatom.Ul, htmlatom.Ol, htmlatom.Li, htmlatom.Dl, htmlatom.Dt, htmlatom.Dd,
	htmlatom.Table, htmlatom.Thead, htmlatom.Tbody, htmlatom.Tfoot, htmlatom.Tr,
	htmlatom.Td, htmlatom.Th, htmlatom.Em, htmlatom.Strong, htmlatom.B, htmlatom.I,
	htmlatom.Code, htmlatom.Pre, htmlatom.Blockquote, htmlatom.Section,
	htmlatom.Article, htmlatom.Aside, htmlatom.Header, htmlatom.Footer, htmlatom.Nav,
	htmlatom.Main, htmlatom.Form, htmlatom.Input, htmlatom.Button, htmlatom.Select,
	htmlatom.Option, htmlatom.Textarea, htmlatom.Label,
	// attributes
	htmlatom.Id, htmlatom.Class, htmlatom.Href, htmlatom.Src, htmlatom.Alt,
	htmlatom.Name, htmlatom.Type, htmlatom.Value, htmlatom.Rel, htmlatom.Lang,
	htmlatom.Width, htmlatom.Height, htmlatom.Content, htmlatom.Charset,
}
