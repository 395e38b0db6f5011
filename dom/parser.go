package dom

import (
	"io"
	"strings"

	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/fault"
	"github.com/npillmayer/domfront/markup"
	"github.com/pkg/errors"
)

// Parser is a parse session: a tokenizer feeding a document builder.
// Parser implements io.Writer.
type Parser struct {
	tok     *markup.Tokenizer
	builder *Builder
	done    bool
}

// NewParser creates a parse session for a new document. Names are interned
// with tab; if tab is nil, the process-wide atom table is used.
func NewParser(tab *atom.Table, mode markup.Mode, opts ...markup.Option) *Parser {
	if tab == nil {
		tab = atom.Global()
	}
	b := NewBuilder(tab, mode)
	return &Parser{
		tok:     markup.NewTokenizer(tab, mode, b, opts...),
		builder: b,
	}
}

// Write feeds the next chunk of input. After a fatal fault, Write returns
// the fault and the session is dead.
func (p *Parser) Write(chunk []byte) (int, error) {
	n, err := p.tok.Write(chunk)
	if err != nil {
		return n, wrap(err)
	}
	return n, nil
}

// Close ends the input and returns the document. If a fatal fault has been
// detected, the partial document is released and Close returns nil and the
// fault.
func (p *Parser) Close() (*Document, error) {
	if p.done {
		return nil, markup.ErrClosed
	}
	p.done = true
	err := p.tok.Close()
	doc := p.builder.doc
	doc.faults = p.tok.Faults()
	if err != nil {
		doc.Release()
		return nil, wrap(err)
	}
	tracer().Infof("parsed %s document with %d faults", doc.mode, len(doc.faults))
	return doc, nil
}

// Faults returns the faults detected so far.
func (p *Parser) Faults() fault.List {
	return p.tok.Faults()
}

func wrap(err error) error {
	if f, ok := fault.AsFault(err); ok {
		return f.Wrap()
	}
	return errors.WithStack(err)
}

// Parse reads all of r and parses it into a document.
func Parse(tab *atom.Table, mode markup.Mode, r io.Reader, opts ...markup.Option) (*Document, error) {
	p := NewParser(tab, mode, opts...)
	if _, err := io.Copy(p, r); err != nil {
		if _, ok := fault.AsFault(err); !ok {
			err = errors.Wrap(err, "reading markup")
		}
		p.Close()
		return nil, err
	}
	return p.Close()
}

// ParseString parses a complete document from a string.
func ParseString(tab *atom.Table, mode markup.Mode, input string, opts ...markup.Option) (*Document, error) {
	return Parse(tab, mode, strings.NewReader(input), opts...)
}
