/*
Package style holds raw CSS property values and groups them for consumers.

Values are kept as strings (type Property); package css converts them into
typed values on demand. Property maps are what a style rule boils down to:
a set of fine grained properties, shorthand properties split up, segmented
into groups like "Margins" or "Font".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'domfront.style'.
func tracer() tracing.Trace {
	return tracing.Select("domfront.style")
}

// Property is a raw value for a CSS property. For example, with
//
//     color: black
//
// a property value of "black" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient type conversion functions and other helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return p == "initial"
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return p == "inherit"
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// --- Property groups -------------------------------------------------------

// Symbolic names for property groups.
const (
	PGMargins   = "Margins"
	PGPadding   = "Padding"
	PGBorder    = "Border"
	PGDimension = "Dimension"
	PGDisplay   = "Display"
	PGRegion    = "Region"
	PGColor     = "Color"
	PGText      = "Text"
	PGFont      = "Font"
	PGX         = "X" // everything else
)

var groupByKey = map[string]string{
	"width":            PGDimension,
	"height":           PGDimension,
	"min-width":        PGDimension,
	"min-height":       PGDimension,
	"max-width":        PGDimension,
	"max-height":       PGDimension,
	"display":          PGDisplay,
	"float":            PGDisplay,
	"visibility":       PGDisplay,
	"position":         PGDisplay,
	"color":            PGColor,
	"background-color": PGColor,
	"direction":        PGText,
	"white-space":      PGText,
	"letter-spacing":   PGText,
	"line-height":      PGFont,
}

// Families of properties sharing a common prefix.
var groupByPrefix = []KeyValue{
	{"margin-", PGMargins},
	{"padding-", PGPadding},
	{"border-", PGBorder},
	{"font-", PGFont},
	{"text-", PGText},
	{"word-", PGText},
	{"flow-", PGRegion},
}

// GroupNameFromPropertyKey returns the property group name for a fine
// grained property key.
// Example:
//    GroupNameFromPropertyKey("margin-top") => "Margins"
//
// Unknown property keys and shorthand keys like "margin" belong to group "X".
func GroupNameFromPropertyKey(key string) string {
	if g, ok := groupByKey[key]; ok {
		return g
	}
	for _, kv := range groupByPrefix {
		if strings.HasPrefix(key, kv.Key) {
			return kv.Value.String()
		}
	}
	return PGX
}

// PropertyGroup is a collection of properties sharing a common topic.
// CSS knows a whole lot of properties, we split them up into organisatorial
// groups (see GroupNameFromPropertyKey).
type PropertyGroup struct {
	name  string
	props map[string]Property
}

// NewPropertyGroup creates a new empty property group, given its name.
func NewPropertyGroup(groupname string) *PropertyGroup {
	return &PropertyGroup{name: groupname}
}

// Name returns the name of the property group.
func (pg *PropertyGroup) Name() string {
	return pg.name
}

func (pg *PropertyGroup) String() string {
	var b strings.Builder
	b.WriteString("[" + pg.name + "] =\n")
	for _, kv := range pg.Properties() {
		fmt.Fprintf(&b, "  %s = %s\n", kv.Key, kv.Value)
	}
	return b.String()
}

// Properties returns all properties of a group, sorted by key.
func (pg *PropertyGroup) Properties() []KeyValue {
	r := make([]KeyValue, 0, len(pg.props))
	for k, v := range pg.props {
		r = append(r, KeyValue{k, v})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Key < r[j].Key })
	return r
}

// IsSet is true if a non-empty value is set for key.
func (pg *PropertyGroup) IsSet(key string) bool {
	v, ok := pg.props[key]
	return ok && !v.IsEmpty()
}

// Get a property's value.
func (pg *PropertyGroup) Get(key string) (Property, bool) {
	p, ok := pg.props[key]
	return p, ok
}

// Set a property's value, overwriting an existing value.
// Keywords, numbers and hex colors are converted to lower case. Values
// containing a function or a quoted string (url(…), font names, content) are
// case-sensitive and kept as they are.
func (pg *PropertyGroup) Set(key string, p Property) {
	if pg.props == nil {
		pg.props = make(map[string]Property)
	}
	if !strings.ContainsAny(string(p), `("'`) {
		p = Property(strings.ToLower(string(p)))
	}
	pg.props[key] = p
}

// Add a property's value if no value is present for key.
func (pg *PropertyGroup) Add(key string, p Property) {
	if _, exists := pg.props[key]; !exists {
		pg.Set(key, p)
	}
}

// --- Property maps ---------------------------------------------------------

// PropertyMap holds CSS properties, segmented into property groups. nil is a
// legal (empty) property map.
type PropertyMap struct {
	m map[string]*PropertyGroup
}

// NewPropertyMap returns a new empty property map.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{m: make(map[string]*PropertyGroup)}
}

func (pmap *PropertyMap) String() string {
	var b strings.Builder
	b.WriteString("Property Map = {\n")
	for _, name := range pmap.GroupNames() {
		b.WriteString(pmap.m[name].String())
	}
	b.WriteString("}")
	return b.String()
}

// GroupNames returns the names of all property groups of the map, sorted.
func (pmap *PropertyMap) GroupNames() []string {
	if pmap == nil {
		return nil
	}
	names := make([]string, 0, len(pmap.m))
	for name := range pmap.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of property groups.
func (pmap *PropertyMap) Size() int {
	if pmap == nil {
		return 0
	}
	return len(pmap.m)
}

// Group returns the property group for a group name or nil.
func (pmap *PropertyMap) Group(groupname string) *PropertyGroup {
	if pmap == nil {
		return nil
	}
	return pmap.m[groupname]
}

// Property returns a property value, together with an indicator wether it
// has been found in the map.
func (pmap *PropertyMap) Property(key string) (Property, bool) {
	group := pmap.Group(GroupNameFromPropertyKey(key))
	if group == nil {
		return NullStyle, false
	}
	return group.Get(key)
}

// AddAllFromGroup transfers all properties from a property group to a
// property map. If overwrite is set, existing values will be overwritten,
// otherwise only new values are set.
func (pmap *PropertyMap) AddAllFromGroup(group *PropertyGroup, overwrite bool) *PropertyMap {
	if pmap == nil {
		pmap = NewPropertyMap()
	}
	g := pmap.group(group.name)
	for k, v := range group.props {
		if overwrite {
			g.Set(k, v)
		} else {
			g.Add(k, v)
		}
	}
	return pmap
}

// Add sets a property of the map, e.g.,
//
//    pm.Add("funny-margin", "big")
//
func (pmap *PropertyMap) Add(key string, value Property) {
	if pmap == nil {
		return
	}
	tracer().Debugf("style: %s = %s", key, value)
	pmap.group(GroupNameFromPropertyKey(key)).Set(key, value)
}

func (pmap *PropertyMap) group(groupname string) *PropertyGroup {
	if pmap.m == nil {
		pmap.m = make(map[string]*PropertyGroup)
	}
	g, ok := pmap.m[groupname]
	if !ok {
		g = NewPropertyGroup(groupname)
		pmap.m[groupname] = g
	}
	return g
}
