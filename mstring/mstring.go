package mstring

import (
	"strings"
	"unsafe"

	"go.uber.org/atomic"
)

// Strategy is the release strategy of a managed string.
type Strategy uint8

// Release strategies
const (
	Constant Strategy = iota // never released, e.g. compiled-in text
	Owned                    // buffer owned by the string, dropped on release
	Foreign                  // buffer owned by a foreign library, handed back on release
)

func (s Strategy) String() string {
	switch s {
	case Constant:
		return "constant"
	case Owned:
		return "owned"
	case Foreign:
		return "foreign"
	}
	return "?"
}

// ReleaseFunc hands a foreign buffer back to its owner.
type ReleaseFunc func(buf []byte)

// String is a reference-counted immutable text. Strings are always handled by
// pointer; the zero value is not usable.
//
// Reference counting is atomic, strings may therefore be shared between
// goroutines.
type String struct {
	text     string
	buf      []byte      // backing buffer for Foreign strings
	release  ReleaseFunc // for Foreign strings
	strategy Strategy
	refs     atomic.Int32
	released atomic.Bool
}

// releaseHook, if set, is called whenever a string is disposed.
var releaseHook func(*String)

func newString(text string, strategy Strategy) *String {
	s := &String{text: text, strategy: strategy}
	s.refs.Store(1)
	return s
}

// FromConstant wraps a text which lives for the duration of the process.
func FromConstant(text string) *String {
	return newString(text, Constant)
}

// FromOwned takes ownership of buf. Clients must not modify buf after the call.
func FromOwned(buf []byte) *String {
	if len(buf) == 0 {
		return newString("", Owned)
	}
	return newString(unsafe.String(&buf[0], len(buf)), Owned)
}

// FromDuplicate creates an owned string with a private copy of text.
func FromDuplicate(text string) *String {
	return newString(strings.Clone(text), Owned)
}

// FromDuplicateBytes creates an owned string with a private copy of buf.
func FromDuplicateBytes(buf []byte) *String {
	return newString(string(buf), Owned)
}

// FromForeign wraps a buffer allocated by a foreign library. release will be
// called with buf exactly once, when the last reference is released.
// buf must not be modified by anyone while the string is alive.
func FromForeign(buf []byte, release ReleaseFunc) *String {
	assertThat(release != nil, "foreign string needs a release function")
	s := newString("", Foreign)
	if len(buf) > 0 {
		s.text = unsafe.String(&buf[0], len(buf))
	}
	s.buf = buf
	s.release = release
	return s
}

// Retain adds a reference to s and returns s.
func (s *String) Retain() *String {
	n := s.refs.Inc()
	assertThat(n > 1, "retain of released string %q", s.debugText())
	return s
}

// Release drops a reference to s. Dropping the last reference disposes of the
// string according to its release strategy; s must not be used afterwards.
func (s *String) Release() {
	n := s.refs.Dec()
	assertThat(n >= 0, "release of string with refcount 0")
	if n > 0 {
		return
	}
	s.released.Store(true)
	switch s.strategy {
	case Constant:
		// nothing to free
	case Owned:
		s.text = ""
	case Foreign:
		buf := s.buf
		s.buf, s.text = nil, ""
		s.release(buf)
	}
	if releaseHook != nil {
		releaseHook(s)
	}
	tracer().Debugf("released %s string", s.strategy)
}

// String returns the text of s.
func (s *String) String() string {
	assertThat(!s.released.Load(), "use of released string")
	return s.text
}

// Len returns the length of the text in bytes.
func (s *String) Len() int {
	return len(s.String())
}

// Equal compares the texts of two strings. nil equals nil only.
func (s *String) Equal(other *String) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s == other || s.String() == other.String()
}

// Refs returns the current reference count.
func (s *String) Refs() int {
	return int(s.refs.Load())
}

// Strategy returns the release strategy of s.
func (s *String) Strategy() Strategy {
	return s.strategy
}

// Released is true after the last reference has been dropped.
func (s *String) Released() bool {
	return s.released.Load()
}

// Concat creates a new owned string holding the texts of a and b.
// The references held on a and b are not touched.
func Concat(a, b *String) *String {
	at, bt := a.String(), b.String()
	buf := make([]byte, 0, len(at)+len(bt))
	buf = append(buf, at...)
	buf = append(buf, bt...)
	return FromOwned(buf)
}

func (s *String) debugText() string {
	if len(s.text) > 20 {
		return s.text[:20] + "…"
	}
	return s.text
}
