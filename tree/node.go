package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sync"
)

// Node is the base type our tree is built of. Each node carries a payload of
// type parameter T. A tree is built by a single owner, but may be read
// concurrently once it is complete.
//
// A node knows its position within the children of its parent, making
// sibling navigation O(1).
type Node[T comparable] struct {
	Payload T // nodes may carry a payload of arbitrary type
	parent  *Node[T]
	pos     int // index within parent.kids; valid if parent != nil
	mx      sync.RWMutex
	kids    []*Node[T]
}

// NewNode creates a new tree node with a given payload.
func NewNode[T comparable](payload T) *Node[T] {
	return &Node[T]{Payload: payload}
}

func (node *Node[T]) String() string {
	return fmt.Sprintf("(Node #ch=%d %v)", node.ChildCount(), node.Payload)
}

// AddChild appends ch to the children of node and makes node its parent.
// If ch is currently attached elsewhere, it is isolated first.
// AddChild returns node to allow for chaining.
func (node *Node[T]) AddChild(ch *Node[T]) *Node[T] {
	if ch == nil {
		return node
	}
	ch.Isolate()
	node.mx.Lock()
	defer node.mx.Unlock()
	ch.parent, ch.pos = node, len(node.kids)
	node.kids = append(node.kids, ch)
	return node
}

// Parent returns the parent node or nil (for the root of the tree).
func (node *Node[T]) Parent() *Node[T] {
	return node.parent
}

// Isolate removes a node from its parent. Later siblings move up by one
// position. Isolate returns the isolated node.
func (node *Node[T]) Isolate() *Node[T] {
	if node == nil || node.parent == nil {
		return node
	}
	p := node.parent
	p.mx.Lock()
	defer p.mx.Unlock()
	p.kids = append(p.kids[:node.pos], p.kids[node.pos+1:]...)
	for i := node.pos; i < len(p.kids); i++ {
		p.kids[i].pos = i
	}
	node.parent, node.pos = nil, 0
	return node
}

// ChildCount returns the number of children-nodes for a node.
func (node *Node[T]) ChildCount() int {
	node.mx.RLock()
	defer node.mx.RUnlock()
	return len(node.kids)
}

// Child returns the n-th child of node, if present.
func (node *Node[T]) Child(n int) (*Node[T], bool) {
	node.mx.RLock()
	defer node.mx.RUnlock()
	if n < 0 || n >= len(node.kids) {
		return nil, false
	}
	return node.kids[n], true
}

// FirstChild returns the first child of a node, or nil.
func (node *Node[T]) FirstChild() *Node[T] {
	ch, _ := node.Child(0)
	return ch
}

// LastChild returns the last child of a node, or nil.
func (node *Node[T]) LastChild() *Node[T] {
	ch, _ := node.Child(node.ChildCount() - 1)
	return ch
}

// NextSibling returns the node following node within its parent, or nil.
func (node *Node[T]) NextSibling() *Node[T] {
	if node.parent == nil {
		return nil
	}
	ch, _ := node.parent.Child(node.pos + 1)
	return ch
}

// PrevSibling returns the node preceding node within its parent, or nil.
func (node *Node[T]) PrevSibling() *Node[T] {
	if node.parent == nil {
		return nil
	}
	ch, _ := node.parent.Child(node.pos - 1)
	return ch
}

// Children returns a copy of the slice of children of a node.
func (node *Node[T]) Children() []*Node[T] {
	node.mx.RLock()
	defer node.mx.RUnlock()
	children := make([]*Node[T], len(node.kids))
	copy(children, node.kids)
	return children
}
