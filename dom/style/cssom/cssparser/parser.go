package cssparser

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/gorilla/css/scanner"
	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/dom"
	"github.com/npillmayer/domfront/dom/style/cssom"
	"github.com/npillmayer/domfront/fault"
	"github.com/npillmayer/domfront/mstring"
)

// Parse parses a stylesheet. Property names are interned with tab; if tab is
// nil, the process-wide atom table is used.
//
// Parse never fails as a whole. It returns every rule it could make sense of,
// in source order, together with a fault for every error it recovered from.
func Parse(tab *atom.Table, buf []byte, opts ...Option) (*cssom.Stylesheet, fault.List) {
	p := newParser(tab, string(buf), opts...)
	p.parse()
	tracer().Debugf("parsed stylesheet: %d rules, %d faults", p.sheet.Len(), len(p.faults))
	return p.sheet, p.faults
}

// ParseDocumentStyles parses the content of every <style> element of doc, in
// document order, into a single stylesheet. Fault offsets are relative to
// the document.
func ParseDocumentStyles(tab *atom.Table, doc *dom.Document, opts ...Option) (*cssom.Stylesheet, fault.List) {
	if tab == nil {
		tab = doc.Atoms()
	}
	sheet := cssom.NewStylesheet(tab)
	var faults fault.List
	for _, n := range doc.Elements("style") {
		p := newParser(tab, n.TextContent(), opts...)
		if first := n.FirstChild(); first != nil {
			p.base = first.Offset()
		}
		p.sheet = sheet
		p.parse()
		faults = append(faults, p.faults...)
	}
	tracer().Debugf("document styles: %d rules, %d faults", sheet.Len(), len(faults))
	return sheet, faults
}

// --- Parser ----------------------------------------------------------------

type parser struct {
	props
	atoms  *atom.Table
	scan   *scanner.Scanner
	sheet  *cssom.Stylesheet
	faults fault.List
	base   int    // offset of the stylesheet within a document
	offset int    // offset of the next token
	back   *token // pushed back token
	lexerr bool
}

// token is a scanner token together with its byte offset.
type token struct {
	*scanner.Token
	offset int
}

func newParser(tab *atom.Table, input string, opts ...Option) *parser {
	if tab == nil {
		tab = atom.Global()
	}
	p := &parser{
		atoms: tab,
		scan:  scanner.New(input),
		sheet: cssom.NewStylesheet(tab),
	}
	for _, opt := range opts {
		p.props = opt.config(p.props)
	}
	return p
}

func (p *parser) next() token {
	if p.back != nil {
		t := *p.back
		p.back = nil
		return t
	}
	t := token{Token: p.scan.Next(), offset: p.offset}
	switch t.Type {
	case scanner.TokenError:
		if !p.lexerr {
			p.lexerr = true
			p.fault(t, "lexical error: %s", t.Value)
		}
		t.Token = &scanner.Token{Type: scanner.TokenEOF, Line: t.Line, Column: t.Column}
	case scanner.TokenEOF:
	default:
		p.offset += len(t.Value)
	}
	return t
}

func (p *parser) unread(t token) {
	assertThat(p.back == nil, "cannot push back two tokens")
	p.back = &t
}

// skipSpace returns the next token which is neither whitespace nor a comment.
func (p *parser) skipSpace() token {
	for {
		t := p.next()
		switch t.Type {
		case scanner.TokenS, scanner.TokenComment, scanner.TokenBOM:
			continue
		}
		return t
	}
}

func (p *parser) fault(t token, reason string, args ...interface{}) {
	f := fault.Recover(p.base+t.offset, reason, args...)
	f.Line, f.Column = t.Line, t.Column
	tracer().Infof("css: %s", f.Error())
	p.faults = append(p.faults, f)
}

func (p *parser) parse() {
	for {
		t := p.skipSpace()
		switch {
		case t.Type == scanner.TokenEOF:
			return
		case t.Type == scanner.TokenCDO || t.Type == scanner.TokenCDC:
			continue
		case t.Type == scanner.TokenAtKeyword:
			p.skipAtRule(t)
		default:
			p.rule(t)
		}
	}
}

// rule parses a qualified rule, starting with its first token.
func (p *parser) rule(first token) {
	header, ok := p.header(first)
	if !ok {
		return
	}
	selector := strings.TrimSpace(header.String())
	if header.malformed {
		p.skipBlock(first)
		return
	}
	if selector == "" {
		p.fault(first, "rule without selector")
		p.skipBlock(first)
		return
	}
	if p.validate {
		if _, err := cascadia.ParseGroupWithPseudoElements(selector); err != nil {
			p.fault(first, "invalid selector %q: %v", selector, err)
			p.skipBlock(first)
			return
		}
	}
	rule := cssom.NewStyleRule(p.atoms, mstring.FromDuplicate(selector))
	p.declarations(rule, first)
	if len(rule.Declarations()) == 0 && !p.keepEmpty {
		tracer().Debugf("css: dropping empty rule %q", selector)
		rule.Release()
		return
	}
	p.sheet.Append(rule)
}

// header collects the selector text of a rule up to its opening '{'.
// It returns false if the input ends before the block starts.
func (p *parser) header(first token) (*text, bool) {
	h := &text{}
	depth := 0
	for t := first; ; t = p.next() {
		switch {
		case t.Type == scanner.TokenEOF:
			p.fault(first, "rule %q without declaration block", strings.TrimSpace(h.String()))
			return h, false
		case isChar(t, "{") && depth == 0:
			return h, true
		case (isChar(t, ";") || isChar(t, "}")) && depth == 0:
			if !h.malformed {
				p.fault(t, "unexpected %q in selector", t.Value)
				h.malformed = true
			}
		default:
			depth += nesting(t)
		}
		h.add(t)
	}
}

// declarations parses a declaration block, the opening '{' already consumed.
func (p *parser) declarations(rule *cssom.StyleRule, first token) {
	for {
		t := p.skipSpace()
		switch {
		case t.Type == scanner.TokenEOF:
			if !p.lexerr {
				p.fault(first, "unterminated declaration block for %q", rule.Selector())
			}
			return
		case isChar(t, "}"):
			return
		case isChar(t, ";"):
			continue
		case t.Type == scanner.TokenIdent:
			p.declaration(rule, t)
		default:
			p.fault(t, "malformed declaration: unexpected %q", t.Value)
			p.skipDeclaration(t)
		}
	}
}

// declaration parses 'property: value [!important]'.
func (p *parser) declaration(rule *cssom.StyleRule, name token) {
	property := strings.ToLower(name.Value)
	t := p.skipSpace()
	if !isChar(t, ":") {
		p.fault(name, "malformed declaration %q: expected ':'", property)
		p.skipDeclaration(t)
		return
	}
	var value []token
	depth := 0
	for t = p.next(); ; t = p.next() {
		if t.Type == scanner.TokenEOF || depth == 0 && (isChar(t, ";") || isChar(t, "}")) {
			break
		}
		depth += nesting(t)
		value = append(value, t)
	}
	if !isChar(t, ";") {
		p.unread(t)
	}
	value, important := stripImportant(value)
	v := &text{}
	for _, vt := range value {
		v.add(vt)
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		p.fault(name, "malformed declaration %q: missing value", property)
		return
	}
	rule.AddDeclaration(cssom.Declaration{
		Property:  p.atoms.Intern(property),
		Value:     mstring.FromDuplicate(s),
		Important: important,
		Offset:    p.base + name.offset,
	})
}

// stripImportant strips a trailing '!important' from a value.
func stripImportant(value []token) ([]token, bool) {
	i := len(value) - 1
	for i >= 0 && isSpace(value[i]) {
		i--
	}
	if i < 0 || value[i].Type != scanner.TokenIdent || !strings.EqualFold(value[i].Value, "important") {
		return value, false
	}
	i--
	for i >= 0 && isSpace(value[i]) {
		i--
	}
	if i < 0 || !isChar(value[i], "!") {
		return value, false
	}
	return value[:i], true
}

// skipDeclaration skips tokens up to the end of a declaration, starting with
// t. A closing '}' is left for the declaration block.
func (p *parser) skipDeclaration(t token) {
	depth := 0
	for ; ; t = p.next() {
		switch {
		case t.Type == scanner.TokenEOF:
			p.unread(t)
			return
		case depth == 0 && isChar(t, ";"):
			return
		case depth == 0 && isChar(t, "}"):
			p.unread(t)
			return
		}
		depth += nesting(t)
		if depth < 0 {
			depth = 0
		}
	}
}

// skipBlock skips a block, the opening '{' already consumed.
func (p *parser) skipBlock(first token) {
	depth := 1
	for {
		t := p.next()
		if t.Type == scanner.TokenEOF {
			if !p.lexerr {
				p.fault(first, "unterminated block")
			}
			return
		}
		depth += nesting(t)
		if isChar(t, "}") && depth == 0 {
			return
		}
	}
}

// skipAtRule skips an at-rule: either up to a ';' or including its block.
func (p *parser) skipAtRule(at token) {
	tracer().Debugf("css: skipping at-rule %s", at.Value)
	depth := 0
	for {
		t := p.next()
		switch {
		case t.Type == scanner.TokenEOF:
			return
		case depth == 0 && isChar(t, ";"):
			return
		case depth == 0 && isChar(t, "{"):
			p.skipBlock(at)
			return
		}
		depth += nesting(t)
	}
}

// --- Helpers ---------------------------------------------------------------

func isChar(t token, c string) bool {
	return t.Type == scanner.TokenChar && t.Value == c
}

func isSpace(t token) bool {
	return t.Type == scanner.TokenS || t.Type == scanner.TokenComment
}

// nesting returns +1 for tokens opening a nested group, -1 for tokens
// closing one.
func nesting(t token) int {
	if t.Type == scanner.TokenFunction {
		return 1
	}
	if t.Type != scanner.TokenChar {
		return 0
	}
	switch t.Value {
	case "(", "[", "{":
		return 1
	case ")", "]", "}":
		return -1
	}
	return 0
}

// text collects token values, collapsing whitespace and comments into a
// single space.
type text struct {
	strings.Builder
	space     bool
	malformed bool
}

func (x *text) add(t token) {
	if isSpace(t) || t.Type == scanner.TokenBOM {
		x.space = x.Len() > 0
		return
	}
	if x.space {
		x.WriteByte(' ')
		x.space = false
	}
	x.WriteString(t.Value)
}

// --- Options ---------------------------------------------------------------

type props struct {
	keepEmpty bool
	validate  bool
}

// Option is a type to help initializing the CSS parser.
type Option struct {
	config func(props) props
}

// KeepEmptyRules keeps rules without any valid declaration in the
// stylesheet. By default they are dropped.
func KeepEmptyRules() Option {
	conf := func(p props) props {
		p.keepEmpty = true
		return p
	}
	return Option{config: conf}
}

// ValidateSelectors drops rules with selectors which cannot be parsed,
// reporting a recoverable fault for each of them.
func ValidateSelectors() Option {
	conf := func(p props) props {
		p.validate = true
		return p
	}
	return Option{config: conf}
}
