package markup

import (
	"fmt"
	"strings"

	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/mstring"
)

// Mode selects the lexical rules of a tokenizer.
type Mode uint8

// Tokenizer modes
const (
	HTML Mode = iota // lenient
	XML              // strict
)

func (m Mode) String() string {
	if m == XML {
		return "XML"
	}
	return "HTML"
}

// EventKind is the type of a parse event.
type EventKind uint8

// Parse events, in the order a document produces them
const (
	OpenTag EventKind = iota
	Text
	CloseTag
	Comment
	Directive // <!DOCTYPE …> or <?…?>
	EndOfDocument
)

func (k EventKind) String() string {
	switch k {
	case OpenTag:
		return "OpenTag"
	case Text:
		return "Text"
	case CloseTag:
		return "CloseTag"
	case Comment:
		return "Comment"
	case Directive:
		return "Directive"
	case EndOfDocument:
		return "EndOfDocument"
	}
	return "?"
}

// Attribute is a name/value pair of an open tag.
type Attribute struct {
	Key   atom.Atom
	Value *mstring.String
}

// Event is a parse event.
//
// Attribute values are owned by the tokenizer and released after the handler
// returns. Handlers which keep a value must retain it. Data is a private copy
// and may be kept.
type Event struct {
	Kind        EventKind
	Tag         atom.Atom   // OpenTag, CloseTag
	Attrs       []Attribute // OpenTag; keys are unique, in source order
	Data        []byte      // Text, Comment, Directive
	Offset      int         // byte offset of the token in the input stream
	SelfClosing bool        // OpenTag written as <x/>
	Synthetic   bool        // CloseTag not present in the input
}

// Format returns a short textual representation of an event, resolving
// atoms with tab.
func (ev *Event) Format(tab *atom.Table) string {
	var b strings.Builder
	b.WriteString(ev.Kind.String())
	switch ev.Kind {
	case OpenTag:
		b.WriteString("(" + tab.Name(ev.Tag))
		for _, a := range ev.Attrs {
			fmt.Fprintf(&b, " %s=%q", tab.Name(a.Key), a.Value.String())
		}
		b.WriteString(")")
	case CloseTag:
		b.WriteString("(" + tab.Name(ev.Tag) + ")")
		if ev.Synthetic {
			b.WriteString("*")
		}
	case Text, Comment, Directive:
		fmt.Fprintf(&b, "(%q)", ev.Data)
	}
	return b.String()
}

// Handler consumes parse events.
type Handler interface {
	HandleEvent(ev *Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ev *Event)

// HandleEvent calls f(ev).
func (f HandlerFunc) HandleEvent(ev *Event) {
	f(ev)
}
