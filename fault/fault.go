/*
Package fault defines the fault records produced by the markup tokenizer and
the CSS parser.

Faults are data, not control flow: parsers collect them while they continue
(Recoverable) or stop with one of them (Fatal). Every fault carries the byte
offset into the input where it was detected and a human readable reason.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fault

import (
	"fmt"

	"github.com/pkg/errors"
)

// Class is the class of a fault.
type Class uint8

// Fault classes
const (
	Recoverable Class = iota // parsing continues, output is best-effort complete
	Fatal                    // parse session aborts
)

func (c Class) String() string {
	if c == Fatal {
		return "fatal"
	}
	return "recoverable"
}

// Fault is a parse error at a position in the input.
// Line and Column are 1-based and may be 0 if unknown.
type Fault struct {
	Class  Class
	Offset int
	Line   int
	Column int
	Reason string
}

// Recover creates a recoverable fault.
func Recover(offset int, reason string, args ...interface{}) Fault {
	return Fault{Class: Recoverable, Offset: offset, Reason: fmt.Sprintf(reason, args...)}
}

// Abort creates a fatal fault.
func Abort(offset int, reason string, args ...interface{}) Fault {
	return Fault{Class: Fatal, Offset: offset, Reason: fmt.Sprintf(reason, args...)}
}

func (f Fault) Error() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s fault at offset %d (%d:%d): %s", f.Class, f.Offset, f.Line,
			f.Column, f.Reason)
	}
	return fmt.Sprintf("%s fault at offset %d: %s", f.Class, f.Offset, f.Reason)
}

// IsFatal is true for faults of class Fatal.
func (f Fault) IsFatal() bool {
	return f.Class == Fatal
}

// Wrap returns an error carrying a stack trace, with the fault as its cause.
func (f Fault) Wrap() error {
	return errors.WithStack(f)
}

// AsFault extracts a fault from an error chain.
func AsFault(err error) (Fault, bool) {
	if err == nil {
		return Fault{}, false
	}
	if f, ok := errors.Cause(err).(Fault); ok {
		return f, true
	}
	return Fault{}, false
}

// --- Fault lists -----------------------------------------------------------

// List is an ordered collection of faults.
type List []Fault

// HasFatal is true if the list contains a fatal fault.
func (l List) HasFatal() bool {
	_, ok := l.Fatal()
	return ok
}

// Fatal returns the first fatal fault of the list.
func (l List) Fatal() (Fault, bool) {
	for _, f := range l {
		if f.IsFatal() {
			return f, true
		}
	}
	return Fault{}, false
}

// Err returns nil for an empty list and an error summarizing the list
// otherwise.
func (l List) Err() error {
	switch len(l) {
	case 0:
		return nil
	case 1:
		return l[0]
	}
	return errors.Errorf("%s (and %d more faults)", l[0].Error(), len(l)-1)
}
