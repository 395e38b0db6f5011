package cssom

import (
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/dom/style"
	"github.com/npillmayer/domfront/mstring"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRule(tab *atom.Table, sel string, decls ...string) *StyleRule {
	r := NewStyleRule(tab, mstring.FromDuplicate(sel))
	for i := 0; i+1 < len(decls); i += 2 {
		r.AddDeclaration(Declaration{
			Property: tab.Intern(decls[i]),
			Value:    mstring.FromDuplicate(decls[i+1]),
		})
	}
	return r
}

func TestStylesheetAppendOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.css")
	defer teardown()
	//
	tab := atom.NewTable()
	sheet := NewStylesheet(tab)
	assert.True(t, sheet.Empty())
	a := makeRule(tab, "p", "color", "red")
	b := makeRule(tab, "#main", "color", "blue")
	assert.Equal(t, -1, a.Index())
	sheet.Append(a)
	sheet.Append(b)
	require.Equal(t, 2, sheet.Len())
	assert.Equal(t, 0, a.Index())
	assert.Equal(t, 1, b.Index())
	assert.Same(t, sheet, b.Stylesheet())
	assert.Panics(t, func() { sheet.Append(a) }, "a rule belongs to one stylesheet only")
	other := makeRule(atom.NewTable(), "q", "color", "red")
	assert.Panics(t, func() { sheet.Append(other) }, "atom tables must match")
}

func TestSetSelectorTextKeepsPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.css")
	defer teardown()
	//
	tab := atom.NewTable()
	sheet := NewStylesheet(tab)
	first := makeRule(tab, "p", "margin", "0")
	sheet.Append(first)
	sheet.Append(makeRule(tab, "div", "margin", "1pt"))
	before, err := first.Specificity()
	require.NoError(t, err)
	old := first.SelectorText().Retain()
	first.SetSelectorText(mstring.FromDuplicate("#a .b p"))
	assert.Equal(t, "#a .b p", first.Selector())
	assert.Equal(t, "p", old.String(), "retained selector survives replacement")
	assert.Equal(t, 1, old.Refs())
	old.Release()
	after, err := first.Specificity()
	require.NoError(t, err)
	assert.True(t, before.Less(after))
	assert.Same(t, first, sheet.Rule(0), "mutating the selector does not reorder")
	assert.Equal(t, 0, first.Index())
	assert.Equal(t, []string{"#a .b p", "div"}, []string{sheet.Rule(0).Selector(), sheet.Rule(1).Selector()})
	d, ok := first.Lookup(tab.Intern("margin"))
	assert.True(t, ok)
	assert.Equal(t, "0", d.Value.String(), "declarations are untouched")
}

func TestLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.css")
	defer teardown()
	//
	tab := atom.NewTable()
	r := makeRule(tab, "p", "color", "red", "color", "blue", "margin-top", "1pt")
	d, ok := r.Lookup(tab.Intern("color"))
	require.True(t, ok)
	assert.Equal(t, "blue", d.Value.String(), "last declaration wins")
	r.AddDeclaration(Declaration{
		Property:  tab.Intern("margin-top"),
		Value:     mstring.FromDuplicate("2pt"),
		Important: true,
	})
	r.AddDeclaration(Declaration{Property: tab.Intern("margin-top"), Value: mstring.FromDuplicate("3pt")})
	d, _ = r.Lookup(tab.Intern("margin-top"))
	assert.Equal(t, "2pt", d.Value.String(), "important beats normal")
	assert.True(t, r.IsImportant("Margin-Top"))
	assert.Equal(t, style.Property("blue"), r.Value("color"))
	assert.Equal(t, style.NullStyle, r.Value("padding"))
	assert.Equal(t, style.NullStyle, r.Value("never-interned-property"))
	assert.Equal(t, []string{"color", "margin-top"}, r.Properties())
	assert.Len(t, r.Declarations(), 5)
	_, ok = r.Lookup(tab.Intern("padding"))
	assert.False(t, ok)
}

func TestSpecificity(t *testing.T) {
	tab := atom.NewTable()
	for _, c := range []struct {
		sel  string
		spec cascadia.Specificity
	}{
		{"p", cascadia.Specificity{0, 0, 1}},
		{"p.note", cascadia.Specificity{0, 1, 1}},
		{"#main > p", cascadia.Specificity{1, 0, 1}},
		{"p, #x", cascadia.Specificity{1, 0, 0}},
	} {
		s, err := makeRule(tab, c.sel).Specificity()
		assert.NoError(t, err)
		assert.Equal(t, c.spec, s, c.sel)
	}
	_, err := makeRule(tab, "p[").Specificity()
	assert.Error(t, err)
}

func TestRulePropertyMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.style")
	defer teardown()
	//
	tab := atom.NewTable()
	r := makeRule(tab, "p", "margin", "1pt 2pt", "color", "red")
	r.AddDeclaration(Declaration{Property: tab.Intern("margin-left"), Value: mstring.FromDuplicate("5pt"), Important: true})
	r.AddDeclaration(Declaration{Property: tab.Intern("margin"), Value: mstring.FromDuplicate("0")})
	pmap := r.PropertyMap()
	p, ok := pmap.Property("margin-top")
	assert.True(t, ok)
	assert.Equal(t, style.Property("0"), p)
	p, _ = pmap.Property("margin-left")
	assert.Equal(t, style.Property("5pt"), p)
	p, _ = pmap.Property("color")
	assert.Equal(t, style.Property("red"), p)
}

func TestReleaseAndClone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.css")
	defer teardown()
	//
	tab := atom.NewTable()
	sheet := NewStylesheet(tab)
	r := makeRule(tab, "p", "color", "red")
	sheet.Append(r)
	value := r.Declarations()[0].Value
	copied := NewStylesheet(tab)
	copied.AppendRules(sheet)
	require.Equal(t, 1, copied.Len())
	assert.Equal(t, 2, value.Refs(), "clone shares the value")
	assert.Equal(t, 0, copied.Rule(0).Index())
	sheet.Release()
	assert.Equal(t, 1, value.Refs())
	assert.Equal(t, style.Property("red"), copied.Rule(0).Value("color"))
	copied.Release()
	assert.True(t, value.Released())
	assert.True(t, copied.Empty())
}

type foreignRule struct {
	sel   string
	props map[string]string
	keys  []string
}

func (r foreignRule) Selector() string              { return r.sel }
func (r foreignRule) Properties() []string          { return r.keys }
func (r foreignRule) Value(k string) style.Property { return style.Property(r.props[k]) }
func (r foreignRule) IsImportant(k string) bool     { return k == "color" }

type foreignSheet struct {
	rules []Rule
}

func (s foreignSheet) Rules() []Rule                { return s.rules }
func (s foreignSheet) Empty() bool                  { return len(s.rules) == 0 }
func (s foreignSheet) AppendRules(other StyleSheet) {}

func TestFromStyleSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.css")
	defer teardown()
	//
	tab := atom.NewTable()
	other := foreignSheet{rules: []Rule{
		foreignRule{sel: "h1", props: map[string]string{"color": "red", "margin-top": "1pt"},
			keys: []string{"color", "margin-top"}},
	}}
	sheet := FromStyleSheet(tab, other)
	require.Equal(t, 1, sheet.Len())
	r := sheet.Rule(0)
	assert.Equal(t, "h1", r.Selector())
	assert.True(t, r.IsImportant("color"))
	assert.False(t, r.IsImportant("margin-top"))
	assert.Equal(t, style.Property("1pt"), r.Value("margin-top"))
	sheet.Release()
}
