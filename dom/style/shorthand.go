package style

import (
	"strings"

	"github.com/gorilla/css/scanner"
	"github.com/pkg/errors"
)

// A box shorthand distributes one to four values over the four sides (or
// corners) of a box, clockwise starting at the top. Missing values are
// copied from the opposite side.
type boxShorthand struct {
	prefix, suffix string
	parts          *[4]string
}

var (
	boxSides   = [4]string{"top", "right", "bottom", "left"}
	boxCorners = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}
)

// value index per part, for 1, 2, 3 or 4 values given
var boxValueIndex = [4][4]int{
	{0, 0, 0, 0},
	{0, 1, 0, 1},
	{0, 1, 2, 1},
	{0, 1, 2, 3},
}

var shorthands = map[string]boxShorthand{
	"margin":        {"margin", "", &boxSides},
	"padding":       {"padding", "", &boxSides},
	"border-color":  {"border", "color", &boxSides},
	"border-width":  {"border", "width", &boxSides},
	"border-style":  {"border", "style", &boxSides},
	"border-radius": {"border", "radius", &boxCorners},
}

func (sh boxShorthand) key(part string) string {
	if sh.suffix == "" {
		return sh.prefix + "-" + part
	}
	return sh.prefix + "-" + part + "-" + sh.suffix
}

// IsShorthand is true for property keys which SplitCompoundProperty is able
// to split up.
func IsShorthand(key string) bool {
	_, ok := shorthands[key]
	return ok
}

// SplitCompoundProperty splits up a shorthand property into its individual
// components. Returns a slice of key-value pairs representing the
// individual (fine grained) style properties.
// Example:
//    SplitCompoundProperty("padding", "3px 1px")
// will return
//    "padding-top"    => "3px"
//    "padding-right"  => "1px"
//    "padding-bottom" => "3px"
//    "padding-left"   => "1px"
//
// For the logic behind this, refer to e.g.
// https://www.w3schools.com/css/css_padding.asp .
func SplitCompoundProperty(key string, value Property) ([]KeyValue, error) {
	sh, ok := shorthands[key]
	if !ok {
		return nil, errors.Errorf("not recognized as compound property: %s", key)
	}
	fields, err := splitValues(value.String())
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 || len(fields) > 4 {
		return nil, errors.Errorf("expecting 1-4 values for %s, have %d", key, len(fields))
	}
	index := boxValueIndex[len(fields)-1]
	kvs := make([]KeyValue, 4)
	for i, part := range sh.parts {
		kvs[i] = KeyValue{Key: sh.key(part), Value: Property(fields[index[i]])}
	}
	return kvs, nil
}

// splitValues splits a property value at white space which is neither
// inside parentheses nor part of a string token. "rgb(1, 2, 3) auto" yields
// two values.
func splitValues(v string) ([]string, error) {
	var fields []string
	var field strings.Builder
	depth := 0
	flush := func() {
		if field.Len() > 0 {
			fields = append(fields, field.String())
			field.Reset()
		}
	}
	scan := scanner.New(v)
	for {
		token := scan.Next()
		switch {
		case token.Type == scanner.TokenEOF:
			flush()
			return fields, nil
		case token.Type == scanner.TokenError:
			return nil, errors.Errorf("malformed value %q: %s", v, token.Value)
		case token.Type == scanner.TokenS && depth == 0:
			flush()
			continue
		case token.Type == scanner.TokenFunction:
			depth++
		case token.Type == scanner.TokenChar && token.Value == "(":
			depth++
		case token.Type == scanner.TokenChar && token.Value == ")" && depth > 0:
			depth--
		}
		field.WriteString(token.Value)
	}
}
