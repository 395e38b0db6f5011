package cssom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/dom/style"
	"github.com/npillmayer/domfront/mstring"
	"github.com/pkg/errors"
)

// Declaration is a property/value pair of a style rule, e.g.
//
//     margin-top: 15px !important
//
type Declaration struct {
	Property  atom.Atom
	Value     *mstring.String
	Important bool
	Offset    int // byte offset of the declaration in the source, if known
}

// StyleRule is a selector together with an ordered list of declarations.
//
// A rule holds one reference on its selector text and on every declaration
// value.
type StyleRule struct {
	atoms    *atom.Table
	selector *mstring.String
	decls    []Declaration
	sheet    *Stylesheet
	index    int
}

var _ Rule = &StyleRule{}

// NewStyleRule creates a rule for a selector. The rule takes over the
// reference the caller holds on selector.
func NewStyleRule(tab *atom.Table, selector *mstring.String) *StyleRule {
	assertThat(selector != nil, "style rule needs a selector")
	if tab == nil {
		tab = atom.Global()
	}
	return &StyleRule{atoms: tab, selector: selector, index: -1}
}

// SelectorText returns the selector of the rule. Callers keeping it beyond
// the lifetime of the rule have to retain it.
func (r *StyleRule) SelectorText() *mstring.String {
	return r.selector
}

// SetSelectorText replaces the selector of the rule, taking over the
// caller's reference on selector. Declarations are untouched and the
// position of the rule within its stylesheet does not change, even if the
// specificity does.
func (r *StyleRule) SetSelectorText(selector *mstring.String) {
	assertThat(selector != nil, "style rule needs a selector")
	old := r.selector
	r.selector = selector
	old.Release()
	tracer().Debugf("rule #%d: selector changed to %q", r.index, selector.String())
}

// AddDeclaration appends a declaration, taking over the caller's reference on
// its value.
func (r *StyleRule) AddDeclaration(d Declaration) {
	assertThat(d.Value != nil, "declaration needs a value")
	r.decls = append(r.decls, d)
}

// Declarations returns the declarations of the rule in source order.
func (r *StyleRule) Declarations() []Declaration {
	return append([]Declaration(nil), r.decls...)
}

// Lookup returns the effective declaration for a property: the last one
// declared, where an important declaration beats normal ones.
func (r *StyleRule) Lookup(property atom.Atom) (Declaration, bool) {
	var found Declaration
	ok := false
	for _, d := range r.decls {
		if d.Property != property {
			continue
		}
		if !ok || d.Important || !found.Important {
			found, ok = d, true
		}
	}
	return found, ok
}

// Index returns the position of the rule in its stylesheet, or -1.
func (r *StyleRule) Index() int {
	return r.index
}

// Stylesheet returns the stylesheet the rule belongs to, or nil.
func (r *StyleRule) Stylesheet() *Stylesheet {
	return r.sheet
}

// Selector is part of interface Rule.
func (r *StyleRule) Selector() string {
	return r.selector.String()
}

// Properties is part of interface Rule. It returns the property names in
// order of their first declaration.
func (r *StyleRule) Properties() []string {
	var props []string
	seen := make(map[atom.Atom]bool, len(r.decls))
	for _, d := range r.decls {
		if !seen[d.Property] {
			seen[d.Property] = true
			props = append(props, r.atoms.Name(d.Property))
		}
	}
	return props
}

// Value is part of interface Rule.
func (r *StyleRule) Value(key string) style.Property {
	if d, ok := r.lookupName(key); ok {
		return style.Property(d.Value.String())
	}
	return style.NullStyle
}

// IsImportant is part of interface Rule.
func (r *StyleRule) IsImportant(key string) bool {
	d, ok := r.lookupName(key)
	return ok && d.Important
}

func (r *StyleRule) lookupName(key string) (Declaration, bool) {
	a, ok := r.atoms.Lookup(strings.ToLower(key))
	if !ok {
		return Declaration{}, false
	}
	return r.Lookup(a)
}

// Specificity computes the specificity of the rule's selector. For a
// selector group, the highest specificity of the group is returned.
func (r *StyleRule) Specificity() (cascadia.Specificity, error) {
	group, err := cascadia.ParseGroupWithPseudoElements(r.selector.String())
	if err != nil {
		return cascadia.Specificity{}, errors.Wrapf(err, "selector %q", r.selector.String())
	}
	var max cascadia.Specificity
	for _, sel := range group {
		if s := sel.Specificity(); max.Less(s) {
			max = s
		}
	}
	return max, nil
}

// PropertyMap converts the effective declarations of the rule into a property
// map. Shorthand properties like "margin" are split into their components.
func (r *StyleRule) PropertyMap() *style.PropertyMap {
	pmap := style.NewPropertyMap()
	important := make(map[string]bool)
	for _, d := range r.decls {
		key := r.atoms.Name(d.Property)
		value := style.Property(d.Value.String())
		kvs, err := style.SplitCompoundProperty(key, value)
		if err != nil {
			if style.IsShorthand(key) {
				tracer().Infof("shorthand %s kept unsplit: %v", key, err)
			}
			kvs = []style.KeyValue{{Key: key, Value: value}}
		}
		for _, kv := range kvs {
			if important[kv.Key] && !d.Important {
				continue
			}
			pmap.Add(kv.Key, kv.Value)
			if d.Important {
				important[kv.Key] = true
			}
		}
	}
	return pmap
}

func (r *StyleRule) clone() *StyleRule {
	c := NewStyleRule(r.atoms, r.selector.Retain())
	for _, d := range r.decls {
		d.Value = d.Value.Retain()
		c.AddDeclaration(d)
	}
	return c
}

// Release drops the references of a rule which has never been appended to a
// stylesheet. Rules of a stylesheet are released with the stylesheet.
func (r *StyleRule) Release() {
	assertThat(r.sheet == nil, "rule %q belongs to a stylesheet", r.Selector())
	r.release()
}

func (r *StyleRule) release() {
	for _, d := range r.decls {
		d.Value.Release()
	}
	r.decls = nil
	r.selector.Release()
}
