package cssom

import (
	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/dom/style"
	"github.com/npillmayer/domfront/mstring"
)

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple implementations of CSS-stylesheets from their
// consumers, we introduce an interface for CSS stylesheets. Type Stylesheet
// of this package is the native implementation; package douceuradapter
// provides another one.
//
// Having this interface imposes a performance hit. However, this
// implementation of CSS-styling will never trade modularity and
// clarity for performance.
//
// See interface Rule.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the rules of a stylesheet
}

// Rule is the type stylesheets consists of.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string            // the prelude / selectors of the rule
	Properties() []string        // property keys, e.g. "margin-top"
	Value(string) style.Property // property value for key, e.g. "15px"
	IsImportant(string) bool     // is property key marked as important?
}

// Stylesheet is an ordered sequence of style rules.
type Stylesheet struct {
	atoms *atom.Table
	rules []*StyleRule
}

var _ StyleSheet = &Stylesheet{}

// NewStylesheet creates an empty stylesheet. Property names are interned
// with tab; if tab is nil, the process-wide atom table is used.
func NewStylesheet(tab *atom.Table) *Stylesheet {
	if tab == nil {
		tab = atom.Global()
	}
	return &Stylesheet{atoms: tab}
}

// Atoms returns the atom table of the stylesheet.
func (sheet *Stylesheet) Atoms() *atom.Table {
	return sheet.atoms
}

// Append adds a rule at the end of the stylesheet. A rule may belong to one
// stylesheet only, and its position never changes afterwards.
func (sheet *Stylesheet) Append(r *StyleRule) {
	assertThat(r.sheet == nil, "rule %q already belongs to a stylesheet", r.Selector())
	assertThat(r.atoms == sheet.atoms, "rule uses a different atom table")
	r.sheet = sheet
	r.index = len(sheet.rules)
	sheet.rules = append(sheet.rules, r)
}

// Len returns the number of rules.
func (sheet *Stylesheet) Len() int {
	return len(sheet.rules)
}

// Rule returns rule number i.
func (sheet *Stylesheet) Rule(i int) *StyleRule {
	return sheet.rules[i]
}

// StyleRules returns the rules of the stylesheet in order.
func (sheet *Stylesheet) StyleRules() []*StyleRule {
	return append([]*StyleRule(nil), sheet.rules...)
}

// Empty is part of interface StyleSheet.
func (sheet *Stylesheet) Empty() bool {
	return len(sheet.rules) == 0
}

// Rules is part of interface StyleSheet.
func (sheet *Stylesheet) Rules() []Rule {
	rules := make([]Rule, len(sheet.rules))
	for i, r := range sheet.rules {
		rules[i] = r
	}
	return rules
}

// AppendRules is part of interface StyleSheet. Rules of other are copied,
// other stays intact.
func (sheet *Stylesheet) AppendRules(other StyleSheet) {
	if native, ok := other.(*Stylesheet); ok && native.atoms == sheet.atoms {
		for _, r := range native.rules {
			sheet.Append(r.clone())
		}
		return
	}
	for _, r := range other.Rules() {
		sheet.Append(ruleFrom(sheet.atoms, r))
	}
}

// Release drops the references the stylesheet holds on selector texts and
// declaration values. The stylesheet must not be used afterwards.
func (sheet *Stylesheet) Release() {
	for _, r := range sheet.rules {
		r.release()
	}
	sheet.rules = nil
}

// FromStyleSheet converts any implementation of StyleSheet into a Stylesheet.
func FromStyleSheet(tab *atom.Table, other StyleSheet) *Stylesheet {
	sheet := NewStylesheet(tab)
	sheet.AppendRules(other)
	tracer().Debugf("converted stylesheet with %d rules", sheet.Len())
	return sheet
}

func ruleFrom(tab *atom.Table, r Rule) *StyleRule {
	rule := NewStyleRule(tab, mstring.FromDuplicate(r.Selector()))
	for _, key := range r.Properties() {
		rule.AddDeclaration(Declaration{
			Property:  tab.Intern(key),
			Value:     mstring.FromDuplicate(r.Value(key).String()),
			Important: r.IsImportant(key),
		})
	}
	return rule
}
