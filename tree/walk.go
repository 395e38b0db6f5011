package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import "errors"

// ErrStopWalk may be returned by a visitor to end a walk early. Walk will
// not report it as an error.
var ErrStopWalk = errors.New("stop walking the tree")

// Predicate is a function type to match against nodes of a tree.
// test is the node under test, node is the node the search started from.
type Predicate[T comparable] func(test *Node[T], node *Node[T]) (match *Node[T], err error)

// Whatever is a predicate to match anything (see type Predicate).
// It is useful to match the first node in a given direction.
func Whatever[T comparable]() Predicate[T] {
	return func(test *Node[T], node *Node[T]) (*Node[T], error) {
		return test, nil
	}
}

// Walk visits node and all of its descendents in pre-order, i.e. in document
// order. If visit returns an error, the walk stops. ErrStopWalk ends the walk
// without an error.
func (node *Node[T]) Walk(visit func(n *Node[T], depth int) error) error {
	if node == nil {
		return nil
	}
	if err := node.walk(visit, 0); err != nil && err != ErrStopWalk {
		return err
	}
	return nil
}

func (node *Node[T]) walk(visit func(*Node[T], int) error, depth int) error {
	if err := visit(node, depth); err != nil {
		return err
	}
	for _, ch := range node.Children() {
		if err := ch.walk(visit, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the first node in pre-order, starting with node itself,
// matching predicate.
func (node *Node[T]) Find(predicate Predicate[T]) (*Node[T], error) {
	var found *Node[T]
	err := node.Walk(func(n *Node[T], _ int) error {
		match, err := predicate(n, node)
		if err != nil {
			return err
		}
		if match != nil {
			found = match
			return ErrStopWalk
		}
		return nil
	})
	return found, err
}

// FindAll returns all nodes in the (sub-)tree of node matching predicate,
// in document order.
func (node *Node[T]) FindAll(predicate Predicate[T]) ([]*Node[T], error) {
	var matches []*Node[T]
	err := node.Walk(func(n *Node[T], _ int) error {
		match, err := predicate(n, node)
		if err != nil {
			return err
		}
		if match != nil {
			matches = append(matches, match)
		}
		return nil
	})
	return matches, err
}

// AncestorWith returns the nearest ancestor of node matching predicate, or nil.
func (node *Node[T]) AncestorWith(predicate Predicate[T]) (*Node[T], error) {
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		match, err := predicate(anc, node)
		if err != nil || match != nil {
			return match, err
		}
	}
	return nil, nil
}
