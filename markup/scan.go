package markup

import (
	"bytes"
	"fmt"
)

// Lexical helpers. All of them work on a prefix of the input and report
// `incomplete` whenever they would need a byte beyond the end of the prefix.
// A decision is only ever taken on bytes actually seen, which keeps the
// token stream independent of chunk boundaries.

type scanStatus uint8

const (
	complete scanStatus = iota
	incomplete
	malformed
)

type markupClass uint8

const (
	notMarkup markupClass = iota // '<' is plain text
	isMarkup
	needMore // cannot decide yet
)

// rawAttr is an attribute as found in the input, not yet interned or decoded.
type rawAttr struct {
	name     []byte
	value    []byte
	hasValue bool
	offset   int // relative to the start of the tag
}

// rawTag is a start tag as found in the input.
type rawTag struct {
	name        []byte
	attrs       []rawAttr
	selfClosing bool
	errAt       int // position of a malformation, relative to the start of the tag
	errReason   string
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isXMLNameStart(c byte) bool {
	return isASCIILetter(c) || c == '_' || c == ':' || c >= 0x80
}

func isXMLNameChar(c byte) bool {
	return isXMLNameStart(c) || ('0' <= c && c <= '9') || c == '-' || c == '.'
}

func isXMLName(b []byte) bool {
	if len(b) == 0 || !isXMLNameStart(b[0]) {
		return false
	}
	for _, c := range b[1:] {
		if !isXMLNameChar(c) {
			return false
		}
	}
	return true
}

func isTagNameChar(c byte, xml bool) bool {
	if xml {
		return isXMLNameChar(c)
	}
	return !isSpace(c) && c != '/' && c != '>'
}

func isAttrNameChar(c byte, xml bool) bool {
	if xml {
		return isXMLNameChar(c)
	}
	return !isSpace(c) && c != '/' && c != '>' && c != '='
}

func skipSpace(b []byte, i int) int {
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	return i
}

func isAllSpace(b []byte) bool {
	return skipSpace(b, 0) == len(b)
}

func lowerByte(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// lowerASCII returns a lower-cased copy of b.
func lowerASCII(b []byte) []byte {
	l := make([]byte, len(b))
	for i, c := range b {
		l[i] = lowerByte(c)
	}
	return l
}

// pendingPrefix is true if b is a proper prefix of lit, i.e. more input is
// needed to tell whether b starts with lit.
func pendingPrefix(b []byte, lit string) bool {
	return len(b) < len(lit) && bytes.HasPrefix([]byte(lit), b)
}

// indexFrom finds delim in b, starting at position from.
func indexFrom(b []byte, from int, delim string) int {
	if from > len(b) {
		return -1
	}
	k := bytes.Index(b[from:], []byte(delim))
	if k < 0 {
		return -1
	}
	return from + k
}

// scanStartTag scans a start tag at the beginning of b (b[0] == '<').
// It returns the tag and the number of bytes it spans.
func scanStartTag(b []byte, xml bool) (tag rawTag, n int, st scanStatus) {
	fail := func(at int, reason string, args ...interface{}) (rawTag, int, scanStatus) {
		tag.errAt, tag.errReason = at, fmt.Sprintf(reason, args...)
		return tag, 0, malformed
	}
	i := 1
	if i >= len(b) {
		return tag, 0, incomplete
	}
	if xml && !isXMLNameStart(b[i]) {
		return fail(i, "invalid character %q after '<'", b[i])
	}
	start := i
	for i < len(b) && isTagNameChar(b[i], xml) {
		i++
	}
	if i >= len(b) {
		return tag, 0, incomplete
	}
	tag.name = b[start:i]
	for {
		i = skipSpace(b, i)
		if i >= len(b) {
			return tag, 0, incomplete
		}
		switch b[i] {
		case '>':
			return tag, i + 1, complete
		case '/':
			if i+1 >= len(b) {
				return tag, 0, incomplete
			}
			if b[i+1] == '>' {
				tag.selfClosing = true
				return tag, i + 2, complete
			}
			if xml {
				return fail(i, "unexpected '/' in tag <%s>", tag.name)
			}
			i++ // stray slash, ignored in HTML
			continue
		}
		if xml && !isXMLNameStart(b[i]) {
			return fail(i, "invalid attribute name in tag <%s>", tag.name)
		}
		attr := rawAttr{offset: i}
		i++ // an attribute name has at least one character
		for i < len(b) && isAttrNameChar(b[i], xml) {
			i++
		}
		if i >= len(b) {
			return tag, 0, incomplete
		}
		attr.name = b[attr.offset:i]
		i = skipSpace(b, i)
		if i >= len(b) {
			return tag, 0, incomplete
		}
		if b[i] != '=' { // attribute without value
			if xml {
				return fail(attr.offset, "attribute %s without value", attr.name)
			}
			tag.attrs = append(tag.attrs, attr)
			continue
		}
		i = skipSpace(b, i+1)
		if i >= len(b) {
			return tag, 0, incomplete
		}
		if q := b[i]; q == '"' || q == '\'' {
			k := bytes.IndexByte(b[i+1:], q)
			if k < 0 {
				return tag, 0, incomplete
			}
			attr.value, attr.hasValue = b[i+1:i+1+k], true
			i += k + 2
			if xml {
				if i >= len(b) {
					return tag, 0, incomplete
				}
				if !isSpace(b[i]) && b[i] != '/' && b[i] != '>' {
					return fail(i, "missing whitespace between attributes in tag <%s>", tag.name)
				}
			}
		} else {
			if xml {
				return fail(i, "unquoted value for attribute %s", attr.name)
			}
			vstart := i
			for i < len(b) && !isSpace(b[i]) && b[i] != '>' {
				i++
			}
			if i >= len(b) {
				return tag, 0, incomplete
			}
			attr.value, attr.hasValue = b[vstart:i], true
		}
		tag.attrs = append(tag.attrs, attr)
	}
}

// scanEndTag scans an end tag at the beginning of b (b starts with "</").
// It returns the tag name and the number of bytes the tag spans.
func scanEndTag(b []byte, xml bool) (name []byte, n int, st scanStatus, reason string) {
	i := 2
	if i >= len(b) {
		return nil, 0, incomplete, ""
	}
	if xml && !isXMLNameStart(b[i]) {
		return nil, 0, malformed, fmt.Sprintf("invalid character %q after '</'", b[i])
	}
	for i < len(b) && isTagNameChar(b[i], xml) {
		i++
	}
	if i >= len(b) {
		return nil, 0, incomplete, ""
	}
	name = b[2:i]
	if xml {
		i = skipSpace(b, i)
		if i >= len(b) {
			return nil, 0, incomplete, ""
		}
		if b[i] != '>' {
			return nil, 0, malformed, fmt.Sprintf("unexpected %q in close tag </%s>", b[i], name)
		}
		return name, i + 1, complete, ""
	}
	k := bytes.IndexByte(b[i:], '>') // HTML ignores anything up to '>'
	if k < 0 {
		return nil, 0, incomplete, ""
	}
	return name, i + k + 1, complete, ""
}

// scanDirective finds the end of a <!…> construct, respecting an internal
// DTD subset in brackets. It returns the index of the closing '>'.
func scanDirective(b []byte) int {
	depth := 0
	for i := 2; i < len(b); i++ {
		switch b[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '>':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchRawEnd checks if b (b[0] == '<') starts with the end tag of a raw text
// element, comparing the name case-insensitively.
func matchRawEnd(b []byte, name []byte, eof bool) markupClass {
	want := len(name) + 3 // "</" + name + delimiter
	n := len(b)
	if n > want {
		n = want
	}
	for i := 1; i < n; i++ {
		var c byte
		switch {
		case i == 1:
			c = '/'
		case i < len(name)+2:
			c = name[i-2]
		default: // delimiter
			if d := b[i]; isSpace(d) || d == '/' || d == '>' {
				return isMarkup
			}
			return notMarkup
		}
		if lowerByte(b[i]) != c {
			return notMarkup
		}
	}
	if eof {
		return notMarkup
	}
	return needMore
}
