/*
Package douceuradapter is a concrete implementation of interface cssom.StyleSheet.

It is backed by the CSS parser of github.com/aymerick/douceur, which is strict:
a syntax error anywhere in a stylesheet fails the stylesheet as a whole.
For error tolerant parsing please refer to package cssparser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/domfront/dom"
	"github.com/npillmayer/domfront/dom/style"
	"github.com/npillmayer/domfront/dom/style/cssom"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

// tracer traces with key 'domfront.css'.
func tracer() tracing.Trace {
	return tracing.Select("domfront.css")
}

// CSSStyles is an adapter for interface cssom.StyleSheet.
// For an explanation of the motivation behind this design, please refer
// to documentation for interface cssom.StyleSheet.
type CSSStyles struct {
	css css.Stylesheet
}

// Wrap a douceur.css.Stylesheet into CssStyles.
// The stylesheet is now managed by the wrapper.
func Wrap(css *css.Stylesheet) *CSSStyles {
	sheet := &CSSStyles{*css}
	return sheet
}

// Parse parses a stylesheet with the douceur parser.
func Parse(text string) (*CSSStyles, error) {
	c, err := parser.Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "douceur")
	}
	tracer().Debugf("douceur parsed %d rules", len(c.Rules))
	return Wrap(c), nil
}

// Empty checks if this stylesheet contains any rules.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Empty() bool {
	return len(sheet.css.Rules) == 0
}

// AppendRules appends rules from another stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) AppendRules(other cssom.StyleSheet) {
	if othercss, ok := other.(*CSSStyles); ok {
		sheet.css.Rules = append(sheet.css.Rules, othercss.css.Rules...)
		return
	}
	for _, r := range other.Rules() {
		sheet.css.Rules = append(sheet.css.Rules, convert(r))
	}
}

// Rules returns all the rules of a stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Rules() []cssom.Rule {
	rules := make([]cssom.Rule, 0, len(sheet.css.Rules))
	for _, r := range sheet.css.Rules {
		if r.Kind != css.QualifiedRule {
			continue // at-rules are not supported
		}
		rules = append(rules, Rule(*r))
	}
	return rules
}

var _ cssom.StyleSheet = &CSSStyles{}

func convert(r cssom.Rule) *css.Rule {
	c := css.NewRule(css.QualifiedRule)
	c.Prelude = r.Selector()
	c.Selectors = strings.Split(r.Selector(), ",")
	for i, s := range c.Selectors {
		c.Selectors[i] = strings.TrimSpace(s)
	}
	for _, key := range r.Properties() {
		c.Declarations = append(c.Declarations, &css.Declaration{
			Property:  key,
			Value:     r.Value(key).String(),
			Important: r.IsImportant(key),
		})
	}
	return c
}

// Rule is an adapter for interface cssom.Rule.
type Rule css.Rule

// Selector returns the prelude / selectors of the rule.
func (r Rule) Selector() string {
	return r.Prelude
}

// Properties returns the property keys of a rule,
// e.g. "margin-top"
func (r Rule) Properties() []string {
	decl := r.Declarations
	props := make([]string, 0, len(decl))
	seen := make(map[string]bool, len(decl))
	for _, d := range decl {
		if !seen[d.Property] {
			seen[d.Property] = true
			props = append(props, d.Property)
		}
	}
	return props
}

// Value returns the property value for a given key, e.g. "15px".
// As with the native rules, the last declaration wins unless an earlier one
// is important.
func (r Rule) Value(key string) style.Property {
	if d := r.lookup(key); d != nil {
		return style.Property(d.Value)
	}
	return style.NullStyle
}

// IsImportant returns true if a style key is marked as important ("!").
func (r Rule) IsImportant(key string) bool {
	d := r.lookup(key)
	return d != nil && d.Important
}

func (r Rule) lookup(key string) *css.Declaration {
	var found *css.Declaration
	for _, d := range r.Declarations {
		if d.Property != key {
			continue
		}
		if found == nil || d.Important || !found.Important {
			found = d
		}
	}
	return found
}

var _ cssom.Rule = &Rule{}

// ExtractStyleElements searches a document for embedded <style>s. It
// returns the content of style-elements as style sheets, in document order.
func ExtractStyleElements(doc *dom.Document) ([]*CSSStyles, error) {
	var sheets []*CSSStyles
	for _, n := range doc.Elements("style") {
		c, err := Parse(n.TextContent())
		if err != nil {
			return sheets, errors.Wrapf(err, "<style> at offset %d", n.Offset())
		}
		sheets = append(sheets, c)
	}
	return sheets, nil
}
