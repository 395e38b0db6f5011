package markup

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/fault"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// recorder collects formatted events.
type recorder struct {
	tab    *atom.Table
	events []string
}

func (r *recorder) HandleEvent(ev *Event) {
	r.events = append(r.events, ev.Format(r.tab))
}

// run tokenizes the chunks and returns the events, the faults and the first
// error from Write or Close.
func run(mode Mode, chunks []string, opts ...Option) ([]string, fault.List, error) {
	tab := atom.NewTable()
	rec := &recorder{tab: tab}
	tok := NewTokenizer(tab, mode, rec, opts...)
	for _, c := range chunks {
		if _, err := tok.Write([]byte(c)); err != nil {
			return rec.events, tok.Faults(), err
		}
	}
	err := tok.Close()
	return rec.events, tok.Faults(), err
}

func runString(mode Mode, input string, opts ...Option) ([]string, fault.List, error) {
	return run(mode, []string{input}, opts...)
}

func TestHTMLImpliedParagraphClose(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	events, faults, err := runString(HTML, "<p>one<p>two")
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`OpenTag(p)`, `Text("one")`, `CloseTag(p)*`,
		`OpenTag(p)`, `Text("two")`, `CloseTag(p)*`,
		`EndOfDocument`,
	}, events)
	if len(faults) != 0 {
		t.Errorf("expected optional end tags to be omitted silently, have %v", faults)
	}
}

func TestTokenAcrossChunks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	events, _, err := run(HTML, []string{"<h", "1>h", "i</h1>"})
	assert.NoError(t, err)
	assert.Equal(t, []string{`OpenTag(h1)`, `Text("hi")`, `CloseTag(h1)`, `EndOfDocument`}, events)
}

func TestTextIsDeliveredWhenComplete(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	tab := atom.NewTable()
	rec := &recorder{tab: tab}
	tok := NewTokenizer(tab, HTML, rec)
	tok.Write([]byte("<b>bold"))
	if len(rec.events) != 1 {
		t.Fatalf("expected only the open tag before text is complete, have %v", rec.events)
	}
	tok.Write([]byte(" face</b>"))
	if len(rec.events) != 3 || rec.events[1] != `Text("bold face")` {
		t.Errorf("expected text to be delivered in one piece, have %v", rec.events)
	}
	if tok.Depth() != 0 {
		t.Errorf("expected no open elements, have %d", tok.Depth())
	}
}

func TestXMLMismatchIsFatal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	events, faults, err := runString(XML, "<a><b></a>")
	if err == nil {
		t.Fatal("expected mismatched close tag to be fatal")
	}
	f, ok := fault.AsFault(err)
	if !ok || !f.IsFatal() {
		t.Fatalf("expected a fatal fault, have %v", err)
	}
	if !strings.Contains(f.Reason, "</a>") {
		t.Errorf("expected fault to mention </a>, is %q", f.Reason)
	}
	if f.Offset != 6 {
		t.Errorf("expected fault at offset 6, is %d", f.Offset)
	}
	assert.Equal(t, []string{`OpenTag(a)`, `OpenTag(b)`}, events)
	assert.True(t, faults.HasFatal())
}

func TestXMLStrictness(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	inputs := []string{
		`<a x=1/>`,
		`<a x/>`,
		`<a x="1" x="2"/>`,
		`<a x="1"y="2"/>`,
		`<a/><b/>`,
		`<a/>text`,
		`text<a/>`,
		`<a>`,
		`   `,
		`</a>`,
		`<a><!-- open`,
		`<a></a b>`,
		`< a/>`,
	}
	for _, input := range inputs {
		_, _, err := runString(XML, input)
		f, ok := fault.AsFault(err)
		if !ok || !f.IsFatal() {
			t.Errorf("expected %q to be fatal in XML mode, have %v", input, err)
		}
	}
}

func TestXMLWellFormed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	input := `<?xml version="1.0"?>
<Doc lang='en'><Item n="1"/><![CDATA[a<b]]></Doc>
`
	events, faults, err := runString(XML, input)
	assert.NoError(t, err)
	assert.Empty(t, faults)
	assert.Equal(t, []string{
		`Directive("?xml version=\"1.0\"?")`,
		`OpenTag(Doc lang="en")`,
		`OpenTag(Item n="1")`, `CloseTag(Item)*`,
		`Text("a<b")`,
		`CloseTag(Doc)`,
		`EndOfDocument`,
	}, events)
}

func TestXMLEntities(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	input := `<r a="x&nbsp;y">&lt;&#65;&nbsp;&apos;&amp;</r>`
	events, faults, err := runString(XML, input)
	assert.NoError(t, err, "unknown entities are not fatal")
	assert.Equal(t, []string{
		`OpenTag(r a="x\u00a0y")`, `Text("<A\u00a0'&")`, `CloseTag(r)`, `EndOfDocument`,
	}, events)
	if assert.Len(t, faults, 2) {
		assert.False(t, faults.HasFatal())
		assert.Equal(t, strings.Index(input, "a="), faults[0].Offset)
		assert.Equal(t, strings.LastIndex(input, "&nbsp;"), faults[1].Offset)
		assert.Contains(t, faults[1].Reason, "&nbsp;")
	}
	_, faults, _ = runString(HTML, input)
	assert.Empty(t, faults)
}

func TestHTMLRawText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	events, _, err := runString(HTML, `<style>a<b {}&amp;</STYLE ><textarea>&lt;x&gt;</textarea>`)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`OpenTag(style)`, `Text("a<b {}&amp;")`, `CloseTag(style)`,
		`OpenTag(textarea)`, `Text("<x>")`, `CloseTag(textarea)`,
		`EndOfDocument`,
	}, events)
}

func TestHTMLEntitiesAndAttributes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	events, faults, err := runString(HTML, `<P Title="a&amp;b" hidden id=x>x &lt; y</p><br><img src=i.png/>`)
	assert.NoError(t, err)
	assert.Empty(t, faults)
	assert.Equal(t, []string{
		`OpenTag(p title="a&b" hidden="" id="x")`, `Text("x < y")`, `CloseTag(p)`,
		`OpenTag(br)`, `CloseTag(br)*`,
		`OpenTag(img src="i.png/")`, `CloseTag(img)*`,
		`EndOfDocument`,
	}, events)
}

func TestHTMLRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	events, faults, err := runString(HTML, `<div><p>a</span>b<x a="1" a="2"></div>`)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`OpenTag(div)`, `OpenTag(p)`, `Text("a")`, `Text("b")`,
		`OpenTag(x a="1")`, `CloseTag(x)*`, `CloseTag(p)*`, `CloseTag(div)`,
		`EndOfDocument`,
	}, events)
	// stray </span>, duplicate attribute, <x> implicitly closed
	if len(faults) != 3 {
		t.Fatalf("expected 3 recoverable faults, have %d: %v", len(faults), faults)
	}
	for _, f := range faults {
		if f.IsFatal() {
			t.Errorf("expected HTML faults to be recoverable, have %v", f)
		}
	}
	if faults[0].Offset != 9 {
		t.Errorf("expected stray close tag fault at offset 9, is %d", faults[0].Offset)
	}
}

func TestHTMLUnclosedAtEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	events, faults, err := runString(HTML, `<ul><li>a<li>b</ul><div>x`)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`OpenTag(ul)`, `OpenTag(li)`, `Text("a")`, `CloseTag(li)*`,
		`OpenTag(li)`, `Text("b")`, `CloseTag(li)*`, `CloseTag(ul)`,
		`OpenTag(div)`, `Text("x")`, `CloseTag(div)*`,
		`EndOfDocument`,
	}, events)
	assert.Len(t, faults, 1)
}

func TestCommentsAndDirectives(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	input := `<!DOCTYPE html><!-- hi --><!--><p>1 < 2</p>`
	events, _, err := runString(HTML, input)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`Directive("!DOCTYPE html")`, `Comment(" hi ")`, `Comment("")`,
		`OpenTag(p)`, `Text("1 < 2")`, `CloseTag(p)`,
		`EndOfDocument`,
	}, events)
	events, _, _ = runString(HTML, input, WithoutComments())
	for _, e := range events {
		if strings.HasPrefix(e, "Comment") {
			t.Errorf("expected no comment events, have %s", e)
		}
	}
}

func TestMaxFaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	_, faults, err := runString(HTML, `</x></y></z>`, WithMaxFaults(1))
	if f, ok := fault.AsFault(err); !ok || !f.IsFatal() {
		t.Fatalf("expected fault limit to abort the session, have %v", err)
	}
	if len(faults) != 3 { // two recoverable, one fatal
		t.Errorf("expected 3 faults, have %v", faults)
	}
}

func TestUseAfterClose(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	tok := NewTokenizer(atom.NewTable(), HTML, HandlerFunc(func(*Event) {}))
	assert.NoError(t, tok.Close())
	if _, err := tok.Write([]byte("x")); err != ErrClosed {
		t.Errorf("expected ErrClosed, have %v", err)
	}
	assert.Equal(t, ErrClosed, tok.Close())
}

func TestFaultPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	_, faults, _ := runString(HTML, "<p>\nab</span>")
	if len(faults) != 1 {
		t.Fatalf("expected one fault, have %v", faults)
	}
	if faults[0].Line != 2 || faults[0].Column != 3 {
		t.Errorf("expected fault at 2:3, is %d:%d", faults[0].Line, faults[0].Column)
	}
}

// --- Chunk boundary independence -------------------------------------------

var chunkInputs = []struct {
	mode  Mode
	input string
}{
	{HTML, `<!DOCTYPE html><html><head><title>A &amp; B</title></head><body><p class=x>one<p>two</body></html>`},
	{HTML, `<style>p { color: red } a<b</style><script>if (a </ b) {}</script><p>x</P>`},
	{HTML, `<div id="a" a='b'><!-- c --><!--->x</span><br/><svg><path d="M0"/></svg>&lt;&gt;</div>`},
	{HTML, `a < b <1 </ x <? pi ?><![CDATA[z]]></>`},
	{HTML, `<ul><li>1<li>2</ul><table><tr><td>a<td>b<tr><td>c</table><div>`},
	{HTML, `<p><!-- unterminated`},
	{XML, `<?xml version="1.0"?><!DOCTYPE r [<!ENTITY e "x">]><r a="1"><s/><t>x&amp;y<![CDATA[<z>]]></t></r>`},
	{XML, `<r><s></r>`},
	{XML, `<r a="1" a="2">`},
	{XML, `<r/>tail`},
}

func reference(t *testing.T, mode Mode, chunks []string) string {
	events, faults, err := run(mode, chunks)
	var b strings.Builder
	for _, e := range events {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	for _, f := range faults {
		b.WriteString(f.Error())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "err=%v", err)
	return b.String()
}

func TestChunkIndependenceTwoWay(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	for _, c := range chunkInputs {
		whole := reference(t, c.mode, []string{c.input})
		for i := 0; i <= len(c.input); i++ {
			split := reference(t, c.mode, []string{c.input[:i], c.input[i:]})
			if split != whole {
				t.Errorf("split at %d of %q differs:\n%s\n--- vs ---\n%s", i, c.input, split, whole)
				break
			}
		}
	}
}

func TestChunkIndependenceBytewise(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	for _, c := range chunkInputs {
		whole := reference(t, c.mode, []string{c.input})
		bytewise := make([]string, len(c.input))
		for i := range c.input {
			bytewise[i] = c.input[i : i+1]
		}
		if got := reference(t, c.mode, bytewise); got != whole {
			t.Errorf("byte-wise tokenizing of %q differs:\n%s\n--- vs ---\n%s", c.input, got, whole)
		}
	}
}

func TestChunkIndependenceRandom(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.markup")
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(4711))
	for _, c := range chunkInputs {
		whole := reference(t, c.mode, []string{c.input})
		for round := 0; round < 50; round++ {
			var chunks []string
			for rest := c.input; len(rest) > 0; {
				n := 1 + rnd.Intn(7)
				if n > len(rest) {
					n = len(rest)
				}
				chunks = append(chunks, rest[:n])
				rest = rest[n:]
			}
			if got := reference(t, c.mode, chunks); got != whole {
				t.Errorf("chunks %q differ:\n%s\n--- vs ---\n%s", chunks, got, whole)
				break
			}
		}
	}
}
