/*
Package css provides typed values for CSS declarations.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/domfront/dom/style"
	"github.com/npillmayer/tyse/core/dimen"
	. "github.com/npillmayer/tyse/core/percent"
	"github.com/pkg/errors"
)

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	kindMask      uint32 = 0x000f

	// Flags for content dependent dimensions
	DimenContentMax uint32 = 0x0010
	DimenContentMin uint32 = 0x0020
	DimenContentFit uint32 = 0x0030
	contentMask     uint32 = 0x00f0

	dimenEM      uint32 = 0x0100
	dimenEX      uint32 = 0x0200
	dimenCH      uint32 = 0x0300
	dimenREM     uint32 = 0x0400
	dimenVW      uint32 = 0x0500
	dimenVH      uint32 = 0x0600
	dimenVMIN    uint32 = 0x0700
	dimenVMAX    uint32 = 0x0800
	dimenPercent uint32 = 0x0900
	relativeMask uint32 = 0xff00
)

// ErrNotADimension is returned by ParseDimen for values which are no
// dimension, e.g. "red".
var ErrNotADimension = errors.New("css: value is not a dimension")

// DimenT is an option type for CSS dimensions.
type DimenT struct {
	d       dimen.DU
	percent Percent
	flags   uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| JustDimen dimen
	| Percentage Percent
	| FontRel unit
	| ViewRel unit
*/

// Auto creates the dimension 'auto'.
func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

// Inherit creates the dimension 'inherit'.
func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

// Initial creates the dimension 'initial'.
func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Percentage creates a CSS dimension with a %-relative value.
func Percentage(n Percent) DimenT {
	return DimenT{percent: n, flags: dimenPercent}
}

// FontRelative creates a CSS dimension relative to the font size, i.e. a
// value in units of 'em' or 'rem'. The factor is held in scaled points, with
// one unit being dimen.PT.
func FontRelative(factor dimen.DU, rootRelative bool) DimenT {
	if rootRelative {
		return DimenT{d: factor, flags: dimenREM}
	}
	return DimenT{d: factor, flags: dimenEM}
}

// IsRelative is true for dimensions relative to a context, e.g. percentages.
func (d DimenT) IsRelative() bool {
	return d.flags&relativeMask > 0
}

// IsNone is true for the zero value.
func (d DimenT) IsNone() bool {
	return d.flags == dimenNone
}

func (d DimenT) String() string {
	switch {
	case d.flags == dimenNone:
		return "none"
	case d.flags == dimenAuto:
		return "auto"
	case d.flags == dimenInherit:
		return "inherit"
	case d.flags == dimenInitial:
		return "initial"
	case d.flags == dimenAbsolute:
		return fmt.Sprintf("%dsp", int64(d.d))
	case d.flags == dimenPercent:
		return fmt.Sprintf("%v", d.percent)
	case d.flags == dimenEM:
		return fmt.Sprintf("%.3gem", float64(d.d)/float64(dimen.PT))
	case d.flags == dimenREM:
		return fmt.Sprintf("%.3grem", float64(d.d)/float64(dimen.PT))
	}
	return fmt.Sprintf("dimen(%#x)", d.flags)
}

// --- Parsing ---------------------------------------------------------------

// Absolute units, as multiples of a printer's point.
var unitsInPT = map[string]float64{
	"pt": 1.0,
	"pc": 12.0,
	"in": 72.27,
	"cm": 72.27 / 2.54,
	"mm": 72.27 / 25.4,
	"px": 72.27 / 96.0,
}

// ParseDimen converts the value of a CSS declaration into a dimension.
// Recognized are the keywords auto, inherit and initial, absolute lengths
// (pt, pc, in, cm, mm, px), font relative lengths (em, rem) and percentages.
// Percentages are rounded to whole numbers. A unit-less 0 is a length of 0.
func ParseDimen(p style.Property) (DimenT, error) {
	v := strings.ToLower(strings.TrimSpace(p.String()))
	switch v {
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	case "initial":
		return Initial(), nil
	case "0":
		return JustDimen(0), nil
	case "":
		return DimenT{}, errors.Wrap(ErrNotADimension, "empty value")
	}
	num, unit := splitNumber(v)
	if num == "" {
		return DimenT{}, errors.Wrapf(ErrNotADimension, "%q", v)
	}
	x, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return DimenT{}, errors.Wrapf(ErrNotADimension, "%q: %v", v, err)
	}
	switch unit {
	case "%":
		return Percentage(FromInt(int(math.Round(x)))), nil
	case "em":
		return FontRelative(dimen.DU(x*float64(dimen.PT)), false), nil
	case "rem":
		return FontRelative(dimen.DU(x*float64(dimen.PT)), true), nil
	}
	f, ok := unitsInPT[unit]
	if !ok {
		return DimenT{}, errors.Wrapf(ErrNotADimension, "unknown unit %q in %q", unit, v)
	}
	return JustDimen(dimen.DU(math.Round(x * f * float64(dimen.PT)))), nil
}

func splitNumber(v string) (string, string) {
	i := 0
	if i < len(v) && (v[i] == '-' || v[i] == '+') {
		i++
	}
	for i < len(v) && (v[i] >= '0' && v[i] <= '9' || v[i] == '.') {
		i++
	}
	return v[:i], v[i:]
}

// ---------------------------------------------------------------------------

// Match starts a match expression for d.
func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

// Matcher is used to switch over the variants of a dimension:
//
//     switch m := d.Match(); m {
//     case m.Just(&du): …
//     case m.IsKind(css.Auto()): …
//     }
//
type Matcher struct {
	dimen DimenT
}

// IsKind matches dimensions of the same kind as d.
func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case (m.dimen.flags & kindMask) == (d.flags&kindMask) && m.dimen.flags&kindMask > 0:
		return m
	case (m.dimen.flags&relativeMask > 0) && (d.flags&relativeMask > 0):
		if (m.dimen.flags&relativeMask == dimenPercent) != (d.flags&relativeMask == dimenPercent) {
			return nil
		}
		return m
	case (m.dimen.flags&contentMask > 0) && (d.flags&contentMask > 0):
		return m
	}
	return nil
}

// Just matches fixed dimensions and extracts the value to du.
func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.flags == dimenAbsolute {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

// Percentage matches percentages and extracts the value to p.
func (m *Matcher) Percentage(p *Percent) *Matcher {
	if m.dimen.flags&relativeMask == dimenPercent {
		if p != nil {
			*p = m.dimen.percent
		}
		return m
	}
	return nil
}

// --- Expression matching ---------------------------------------------------

// DimenPatterns holds the results of a match expression, one per variant.
type DimenPatterns[T any] struct {
	Auto    T
	Inherit T
	Initial T
	Just    T
	Percent T
	Default T
}

// DimenPattern starts a match expression for d, yielding a value of type T.
func DimenPattern[T any](d DimenT) *MatchExpr[T] {
	return &MatchExpr[T]{dimen: d}
}

// MatchExpr is a match expression over the variants of a dimension.
type MatchExpr[T any] struct {
	dimen DimenT
}

// OneOf selects the pattern result for the variant of the dimension.
func (m *MatchExpr[T]) OneOf(patterns DimenPatterns[T]) T {
	switch {
	case m.dimen.flags == dimenAuto:
		return patterns.Auto
	case m.dimen.flags == dimenAbsolute:
		return patterns.Just
	case m.dimen.flags == dimenInitial:
		return patterns.Initial
	case m.dimen.flags == dimenInherit:
		return patterns.Inherit
	case m.dimen.flags == dimenPercent:
		return patterns.Percent
	}
	return patterns.Default
}

// With extracts the fixed value of the dimension to du.
func (m *MatchExpr[T]) With(du *dimen.DU) *MatchExpr[T] {
	*du = m.dimen.d
	return m
}

// Const returns x.
func (m *MatchExpr[T]) Const(x T) T {
	return x
}
