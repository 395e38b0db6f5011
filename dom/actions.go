package dom

import (
	"github.com/npillmayer/domfront/atom"
	"github.com/npillmayer/domfront/tree"
)

// NodeIsText is a predicate to match text-nodes of a document.
// It is intended to be used with tree.Node.Find and friends.
var NodeIsText tree.Predicate[*Node] = func(n *tree.Node[*Node], unused *tree.Node[*Node]) (
	match *tree.Node[*Node], err error) {
	//
	if NodeFromTreeNode(n).Type() == TextNode {
		return n, nil
	}
	return nil, nil
}

// NodeIsElement returns a predicate to match elements with tag name atom tag.
// A tag of 0 matches every element.
func NodeIsElement(tag atom.Atom) tree.Predicate[*Node] {
	return func(n *tree.Node[*Node], unused *tree.Node[*Node]) (match *tree.Node[*Node], err error) {
		domnode := NodeFromTreeNode(n)
		if domnode.Type() == ElementNode && (tag == 0 || domnode.Tag() == tag) {
			return n, nil
		}
		return nil, nil
	}
}
