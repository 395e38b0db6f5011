/*
Package w3cdom defines a read-only interface for W3C-style document object
models.

Package dom implements it as a view onto its document trees, so that clients
written against the W3C node API do not depend on the tree representation.
Node types are reported using the constants of golang.org/x/net/html.

See also https://www.w3schools.com/XML/dom_intro.asp

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package w3cdom

import (
	"golang.org/x/net/html"
)

// Node represents a W3C Node.
//
// Navigation methods return nil where the W3C API returns null.
type Node interface {
	NodeType() html.NodeType
	NodeName() string  // tag name for elements, "#text", "#comment" or "#document" otherwise
	NodeValue() string // text of text and comment nodes, "" otherwise
	HasAttributes() bool
	Attributes() NamedNodeMap
	ParentNode() Node
	HasChildNodes() bool
	ChildNodes() NodeList
	Children() NodeList // element children only
	FirstChild() Node
	LastChild() Node
	NextSibling() Node
	PreviousSibling() Node
	TextContent() (string, error) // fails for nodes of released documents
}

// NodeList represents a W3C NodeList. Item returns nil for indices out of
// range.
type NodeList interface {
	Length() int
	Item(int) Node
	String() string
}

// Attr represents a W3C Attr.
type Attr interface {
	Namespace() string
	Key() string
	Value() string
}

// NamedNodeMap represents a W3C NamedNodeMap of attributes.
type NamedNodeMap interface {
	Length() int
	Item(int) Attr
	GetNamedItem(string) Attr
}
