package markup

import (
	"bytes"

	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/fault"
	"github.com/npillmayer/domfront/mstring"
	"golang.org/x/net/html"
)

// Tokenizer is an incremental tokenizer for HTML or XML. It implements
// io.WriteCloser: Write feeds a chunk of input, Close signals the end of the
// stream.
//
// A tokenizer is not safe for concurrent use; one session has one owner at a
// time. The atom table may be shared between tokenizers.
type Tokenizer struct {
	props
	tab     *atom.Table
	mode    Mode
	handler Handler
	rules   *htmlRules // HTML mode only
	buf     []byte     // input not yet tokenized
	base    int        // stream offset of buf[0]
	line    int        // line of buf[0], 1-based
	col     int        // column of buf[0], 1-based
	scan    int        // prefix of buf known not to contain a markup start
	raw     rawState
	open    []openElement // stack of open elements
	roots   int           // number of top-level elements seen (XML)
	faults  fault.List
	nrecov  int
	fatal   *fault.Fault
	closed  bool
}

type openElement struct {
	tag    atom.Atom
	offset int
}

// rawState is active while inside a raw text element such as <style>.
type rawState struct {
	active bool
	name   []byte // lower-case element name
	decode bool   // decode character references (RCDATA)
}

// NewTokenizer creates a tokenizer delivering events to h. Names are interned
// with tab; if tab is nil, the process-wide table is used.
func NewTokenizer(tab *atom.Table, mode Mode, h Handler, opts ...Option) *Tokenizer {
	assertThat(h != nil, "tokenizer needs an event handler")
	if tab == nil {
		tab = atom.Global()
	}
	t := &Tokenizer{tab: tab, mode: mode, handler: h, line: 1, col: 1}
	for _, option := range opts {
		t.props = option.config(t.props)
	}
	if mode == HTML {
		t.rules = newHTMLRules(tab)
	}
	tracer().Debugf("new %s tokenizer", mode)
	return t
}

// Write feeds the next chunk of input. Events for all tokens completed by p
// are delivered before Write returns. A fatal fault is returned as an error
// of type fault.Fault; the session is dead afterwards.
func (t *Tokenizer) Write(p []byte) (int, error) {
	if t.fatal != nil {
		return 0, *t.fatal
	}
	if t.closed {
		return 0, ErrClosed
	}
	t.buf = append(t.buf, p...)
	t.run(false)
	if t.fatal != nil {
		return len(p), *t.fatal
	}
	return len(p), nil
}

// Close signals the end of the stream. Pending input is flushed, open
// elements are closed (HTML) or reported as a fatal fault (XML), and an
// EndOfDocument event is delivered.
func (t *Tokenizer) Close() error {
	if t.fatal != nil {
		t.closed = true
		return *t.fatal
	}
	if t.closed {
		return ErrClosed
	}
	t.closed = true
	t.run(true)
	if t.fatal == nil {
		t.finish()
	}
	t.buf = nil
	if t.fatal != nil {
		return *t.fatal
	}
	return nil
}

// Mode returns the mode of the tokenizer.
func (t *Tokenizer) Mode() Mode {
	return t.mode
}

// Faults returns all faults detected so far, in input order.
func (t *Tokenizer) Faults() fault.List {
	return append(fault.List(nil), t.faults...)
}

// Depth returns the number of currently open elements.
func (t *Tokenizer) Depth() int {
	return len(t.open)
}

// Offset returns the number of input bytes tokenized so far.
func (t *Tokenizer) Offset() int {
	return t.base
}

// --- Driver ----------------------------------------------------------------

func (t *Tokenizer) run(eof bool) {
	for t.fatal == nil && len(t.buf) > 0 {
		var n int
		if t.raw.active {
			n = t.stepRawText(eof)
		} else {
			n = t.stepText(eof)
		}
		if n == 0 {
			break
		}
		t.consume(n)
	}
	if len(t.buf) == 0 {
		t.buf = nil
	}
}

func (t *Tokenizer) consume(n int) {
	for _, c := range t.buf[:n] {
		if c == '\n' {
			t.line++
			t.col = 1
		} else {
			t.col++
		}
	}
	t.buf = t.buf[n:]
	t.base += n
	t.scan = 0
}

// position returns line and column of stream offset at, which must not lie
// before the current buffer.
func (t *Tokenizer) position(at int) (int, int) {
	line, col := t.line, t.col
	for i := 0; i < at-t.base && i < len(t.buf); i++ {
		if t.buf[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// dispatch hands an event to the handler. No events are delivered after a
// fatal fault.
func (t *Tokenizer) dispatch(ev *Event) {
	if t.fatal != nil {
		return
	}
	t.handler.HandleEvent(ev)
}

// --- Faults ----------------------------------------------------------------

func (t *Tokenizer) recover(at int, reason string, args ...interface{}) {
	f := fault.Recover(at, reason, args...)
	f.Line, f.Column = t.position(at)
	t.faults = append(t.faults, f)
	tracer().Infof("%v", f)
	t.nrecov++
	if t.maxFaults > 0 && t.nrecov > t.maxFaults {
		t.abort(at, "too many faults (limit is %d)", t.maxFaults)
	}
}

func (t *Tokenizer) abort(at int, reason string, args ...interface{}) {
	if t.fatal != nil {
		return
	}
	f := fault.Abort(at, reason, args...)
	f.Line, f.Column = t.position(at)
	t.faults = append(t.faults, f)
	t.fatal = &f
	tracer().Errorf("%v", f)
}

// unterminated handles a construct cut off by the end of the stream.
func (t *Tokenizer) unterminated(what string) int {
	if t.mode == XML {
		t.abort(t.base, "unterminated %s at end of input", what)
		return 0
	}
	t.recover(t.base, "unterminated %s at end of input dropped", what)
	return len(t.buf)
}

// --- Steps -----------------------------------------------------------------
//
// A step looks at the start of the buffer and returns the number of bytes it
// has tokenized, or 0 if it needs more input.

func (t *Tokenizer) classify(b []byte, eof bool) markupClass {
	if t.mode == XML {
		return isMarkup
	}
	if len(b) < 2 {
		if eof {
			return notMarkup
		}
		return needMore
	}
	switch c := b[1]; {
	case isASCIILetter(c), c == '!', c == '?':
		return isMarkup
	case c == '/':
		if len(b) < 3 {
			if eof {
				return notMarkup
			}
			return needMore
		}
		return isMarkup
	}
	return notMarkup
}

func (t *Tokenizer) stepText(eof bool) int {
	b := t.buf
	for j := t.scan; j < len(b); j++ {
		if b[j] != '<' {
			continue
		}
		switch t.classify(b[j:], eof) {
		case needMore:
			t.scan = j
			return 0
		case isMarkup:
			if j > 0 {
				t.emitText(b[:j], t.base, true)
				return j
			}
			return t.stepMarkup(eof)
		}
	}
	if !eof {
		t.scan = len(b)
		return 0
	}
	t.emitText(b, t.base, true)
	return len(b)
}

func (t *Tokenizer) stepRawText(eof bool) int {
	b := t.buf
	for j := t.scan; j < len(b); j++ {
		if b[j] != '<' {
			continue
		}
		switch matchRawEnd(b[j:], t.raw.name, eof) {
		case needMore:
			t.scan = j
			return 0
		case isMarkup:
			if j > 0 {
				t.emitText(b[:j], t.base, t.raw.decode)
				return j
			}
			t.raw = rawState{}
			return t.stepMarkup(eof)
		}
	}
	if !eof {
		t.scan = len(b)
		return 0
	}
	t.emitText(b, t.base, t.raw.decode)
	t.raw = rawState{}
	return len(b)
}

func (t *Tokenizer) stepMarkup(eof bool) int {
	b := t.buf
	if !eof && (pendingPrefix(b, "<!--") || pendingPrefix(b, "<![CDATA[")) {
		return 0
	}
	switch {
	case bytes.HasPrefix(b, []byte("<!--")):
		return t.stepComment(eof)
	case bytes.HasPrefix(b, []byte("<![CDATA[")):
		return t.stepCDATA(eof)
	case len(b) > 1 && b[1] == '!':
		return t.stepDirective(eof)
	case len(b) > 1 && b[1] == '?':
		return t.stepProcInst(eof)
	case len(b) > 1 && b[1] == '/':
		return t.stepEndTag(eof)
	}
	return t.stepStartTag(eof)
}

func (t *Tokenizer) stepComment(eof bool) int {
	b := t.buf
	if t.mode == HTML { // abruptly closed empty comments
		if bytes.HasPrefix(b, []byte("<!-->")) {
			t.comment(nil)
			return 5
		}
		if bytes.HasPrefix(b, []byte("<!--->")) {
			t.comment(nil)
			return 6
		}
	}
	k := indexFrom(b, 4, "-->")
	if k < 0 {
		if !eof {
			return 0
		}
		if t.mode == XML {
			t.abort(t.base, "unterminated comment at end of input")
			return 0
		}
		t.recover(t.base, "unterminated comment at end of input")
		t.comment(b[4:])
		return len(b)
	}
	t.comment(b[4:k])
	return k + 3
}

func (t *Tokenizer) stepCDATA(eof bool) int {
	b := t.buf
	k := indexFrom(b, 9, "]]>")
	if k < 0 {
		if !eof {
			return 0
		}
		if t.mode == XML {
			t.abort(t.base, "unterminated CDATA section at end of input")
			return 0
		}
		t.recover(t.base, "unterminated CDATA section at end of input")
		if len(b) > 9 {
			t.emitText(b[9:], t.base, false)
		}
		return len(b)
	}
	if k > 9 {
		t.emitText(b[9:k], t.base, false)
	}
	return k + 3
}

func (t *Tokenizer) stepDirective(eof bool) int {
	k := scanDirective(t.buf)
	if k < 0 {
		if !eof {
			return 0
		}
		return t.unterminated("declaration")
	}
	t.directive(t.buf[1:k])
	return k + 1
}

func (t *Tokenizer) stepProcInst(eof bool) int {
	b := t.buf
	if t.mode == HTML { // bogus comment up to the next '>'
		k := bytes.IndexByte(b, '>')
		if k < 0 {
			if !eof {
				return 0
			}
			t.recover(t.base, "unterminated processing instruction at end of input")
			t.comment(b[1:])
			return len(b)
		}
		t.comment(b[1:k])
		return k + 1
	}
	k := indexFrom(b, 2, "?>")
	if k < 0 {
		if !eof {
			return 0
		}
		return t.unterminated("processing instruction")
	}
	t.directive(b[1 : k+1])
	return k + 2
}

func (t *Tokenizer) stepEndTag(eof bool) int {
	b := t.buf
	if t.mode == HTML {
		if len(b) < 3 { // cannot happen after classify, but keep the invariant local
			if !eof {
				return 0
			}
			t.emitText(b, t.base, false)
			return len(b)
		}
		switch c := b[2]; {
		case c == '>':
			t.recover(t.base, "empty close tag </> dropped")
			return 3
		case !isASCIILetter(c): // bogus comment
			k := bytes.IndexByte(b, '>')
			if k < 0 {
				if !eof {
					return 0
				}
				t.recover(t.base, "malformed close tag at end of input treated as comment")
				t.comment(b[2:])
				return len(b)
			}
			t.recover(t.base, "malformed close tag treated as comment")
			t.comment(b[2:k])
			return k + 1
		}
	}
	name, n, st, reason := scanEndTag(b, t.mode == XML)
	switch st {
	case incomplete:
		if !eof {
			return 0
		}
		return t.unterminated("close tag")
	case malformed:
		t.abort(t.base, "%s", reason)
		return 0
	}
	t.endTag(name, t.base)
	return n
}

func (t *Tokenizer) stepStartTag(eof bool) int {
	tag, n, st := scanStartTag(t.buf, t.mode == XML)
	switch st {
	case incomplete:
		if !eof {
			return 0
		}
		return t.unterminated("tag")
	case malformed:
		t.abort(t.base+tag.errAt, "%s", tag.errReason)
		return 0
	}
	t.startTag(&tag, t.base)
	return n
}

// --- Token handling --------------------------------------------------------

func (t *Tokenizer) emitText(b []byte, at int, decode bool) {
	if t.mode == XML && len(t.open) == 0 {
		if !isAllSpace(b) {
			t.abort(at, "text outside of the root element")
		}
		return
	}
	var data []byte
	if decode && bytes.IndexByte(b, '&') >= 0 {
		t.checkXMLEntities(b, at)
		data = []byte(html.UnescapeString(string(b)))
	} else {
		data = append([]byte(nil), b...)
	}
	t.dispatch(&Event{Kind: Text, Data: data, Offset: at})
}

var xmlEntities = map[string]bool{"amp": true, "lt": true, "gt": true, "quot": true, "apos": true}

// checkXMLEntities flags named character references which XML does not
// predefine, e.g. "&nbsp;". They are still decoded the HTML way.
func (t *Tokenizer) checkXMLEntities(b []byte, at int) {
	if t.mode != XML {
		return
	}
	for i := 0; i < len(b); i++ {
		if b[i] != '&' || i+1 >= len(b) || b[i+1] == '#' {
			continue
		}
		k := bytes.IndexByte(b[i+1:], ';')
		if k <= 0 {
			continue
		}
		name := b[i+1 : i+1+k]
		if isXMLName(name) && !xmlEntities[string(name)] {
			t.recover(at+i, "entity &%s; is not predefined in XML", name)
		}
	}
}

func (t *Tokenizer) comment(b []byte) {
	if t.noComments {
		return
	}
	t.dispatch(&Event{Kind: Comment, Data: append([]byte(nil), b...), Offset: t.base})
}

func (t *Tokenizer) directive(b []byte) {
	t.dispatch(&Event{Kind: Directive, Data: append([]byte(nil), b...), Offset: t.base})
}

func (t *Tokenizer) startTag(raw *rawTag, at int) {
	name := raw.name
	if t.mode == HTML {
		name = lowerASCII(name)
	}
	tag := t.tab.InternBytes(name)
	attrs := make([]Attribute, 0, len(raw.attrs))
	for _, ra := range raw.attrs {
		aname := ra.name
		if t.mode == HTML {
			aname = lowerASCII(aname)
		}
		key := t.tab.InternBytes(aname)
		if hasKey(attrs, key) {
			if t.mode == XML {
				t.abort(at+ra.offset, "duplicate attribute %s in <%s>", aname, name)
				break
			}
			t.recover(at+ra.offset, "duplicate attribute %s in <%s> dropped", aname, name)
			continue
		}
		value := string(ra.value)
		if bytes.IndexByte(ra.value, '&') >= 0 {
			t.checkXMLEntities(ra.value, at+ra.offset)
			value = html.UnescapeString(value)
		}
		attrs = append(attrs, Attribute{Key: key, Value: mstring.FromDuplicate(value)})
	}
	defer releaseAll(attrs)
	if t.fatal != nil {
		return
	}
	if t.mode == XML && len(t.open) == 0 {
		if t.roots > 0 {
			t.abort(at, "element <%s> after the root element", name)
			return
		}
		t.roots++
	}
	if t.mode == HTML {
		t.impliedCloses(tag, name, at)
	}
	t.dispatch(&Event{Kind: OpenTag, Tag: tag, Attrs: attrs, Offset: at, SelfClosing: raw.selfClosing})
	t.open = append(t.open, openElement{tag: tag, offset: at})
	closeNow := raw.selfClosing
	if t.mode == HTML {
		closeNow = t.rules.void[tag] || (raw.selfClosing && isForeign(name))
		if raw.selfClosing && !closeNow {
			t.recover(at, "self-closing syntax on non-void element <%s> ignored", name)
		}
		if !closeNow && t.rules.rawText[tag] {
			t.raw = rawState{active: true, name: name}
		} else if !closeNow && t.rules.rcData[tag] {
			t.raw = rawState{active: true, name: name, decode: true}
		}
	}
	if closeNow {
		t.closeTop(at)
	}
}

func (t *Tokenizer) endTag(rawName []byte, at int) {
	name := rawName
	if t.mode == HTML {
		name = lowerASCII(name)
	}
	tag := t.tab.InternBytes(name)
	if t.mode == XML {
		if len(t.open) == 0 {
			t.abort(at, "close tag </%s> without open element", name)
			return
		}
		if top := t.open[len(t.open)-1]; top.tag != tag {
			t.abort(at, "mismatched close tag </%s>, open element is <%s>", name, t.tab.Name(top.tag))
			return
		}
		t.open = t.open[:len(t.open)-1]
		t.dispatch(&Event{Kind: CloseTag, Tag: tag, Offset: at})
		return
	}
	k := len(t.open) - 1
	for k >= 0 && t.open[k].tag != tag {
		k--
	}
	if k < 0 {
		t.recover(at, "stray close tag </%s> dropped", name)
		return
	}
	t.closeDownTo(k+1, at, "</"+string(name)+">")
	t.open = t.open[:k]
	t.dispatch(&Event{Kind: CloseTag, Tag: tag, Offset: at})
}

// impliedCloses closes open elements whose end tag is implied by the start
// tag of element tag.
func (t *Tokenizer) impliedCloses(tag atom.Atom, name []byte, at int) {
	for _, ic := range t.rules.implied[tag] {
		if k := t.findOpen(ic); k >= 0 {
			t.closeDownTo(k, at, "<"+string(name)+">")
		}
	}
}

func (t *Tokenizer) findOpen(ic impliedClose) int {
	for k := len(t.open) - 1; k >= 0; k-- {
		a := t.open[k].tag
		if ic.targets[a] {
			return k
		}
		if ic.topOnly || ic.boundary[a] {
			break
		}
	}
	return -1
}

// closeDownTo closes open elements until the stack has depth k. Elements
// without an optional end tag are reported as recoverable faults.
func (t *Tokenizer) closeDownTo(k int, at int, by string) {
	for len(t.open) > k {
		top := t.open[len(t.open)-1]
		if !t.rules.optional[top.tag] {
			t.recover(at, "element <%s> implicitly closed by %s", t.tab.Name(top.tag), by)
		}
		t.closeTop(at)
	}
}

func (t *Tokenizer) closeTop(at int) {
	top := t.open[len(t.open)-1]
	t.open = t.open[:len(t.open)-1]
	t.dispatch(&Event{Kind: CloseTag, Tag: top.tag, Offset: at, Synthetic: true})
}

// finish handles the end of the stream after all input has been tokenized.
func (t *Tokenizer) finish() {
	end := t.base + len(t.buf)
	if t.mode == XML {
		if t.roots == 0 {
			t.abort(end, "document has no root element")
			return
		}
		if len(t.open) > 0 {
			top := t.open[len(t.open)-1]
			t.abort(end, "unclosed element <%s> (opened at offset %d) at end of input",
				t.tab.Name(top.tag), top.offset)
			return
		}
	} else {
		t.closeDownTo(0, end, "end of input")
	}
	t.dispatch(&Event{Kind: EndOfDocument, Offset: end})
}

func hasKey(attrs []Attribute, key atom.Atom) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

func releaseAll(attrs []Attribute) {
	for _, a := range attrs {
		a.Value.Release()
	}
}

// --- Options ---------------------------------------------------------------

type props struct {
	maxFaults  int
	noComments bool
}

// Option is a type to help initializing tokenizers at creation time.
type Option struct {
	config func(props) props
}

// WithMaxFaults makes a session fatal as soon as more than n recoverable
// faults have been detected. n ≤ 0 means no limit, which is the default.
func WithMaxFaults(n int) Option {
	conf := func(p props) props {
		p.maxFaults = n
		return p
	}
	return Option{config: conf}
}

// WithoutComments suppresses Comment events.
func WithoutComments() Option {
	conf := func(p props) props {
		p.noComments = true
		return p
	}
	return Option{config: conf}
}
