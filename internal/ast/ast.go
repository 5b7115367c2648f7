// Package ast defines the regex syntax tree consumed by the code generator.
package ast

import (
	"strings"
)

// Node is a syntax tree node. The set of implementations is closed: Char,
// Seq, Or, Star, Plus and Question.
type Node interface {
	String() string
	node()
}

// Char matches exactly one input symbol.
type Char struct {
	Rune rune
}

// Seq is concatenation; an empty Seq matches the empty string.
type Seq struct {
	Nodes []Node
}

// Or is alternation. Left is attempted before Right.
type Or struct {
	Left  Node
	Right Node
}

// Star is zero-or-more repetition (greedy).
type Star struct {
	Node Node
}

// Plus is one-or-more repetition (greedy).
type Plus struct {
	Node Node
}

// Question is zero-or-one occurrence (greedy).
type Question struct {
	Node Node
}

func (Char) node()     {}
func (Seq) node()      {}
func (Or) node()       {}
func (Star) node()     {}
func (Plus) node()     {}
func (Question) node() {}

const metaChars = `\.+*?()|[]{}^$`

func (n Char) String() string {
	if strings.ContainsRune(metaChars, n.Rune) {
		return `\` + string(n.Rune)
	}
	return string(n.Rune)
}

func (n Seq) String() string {
	var b strings.Builder
	for _, sub := range n.Nodes {
		if _, ok := sub.(Or); ok {
			b.WriteString("(" + sub.String() + ")")
			continue
		}
		b.WriteString(sub.String())
	}
	return b.String()
}

func (n Or) String() string {
	return n.Left.String() + "|" + n.Right.String()
}

func (n Star) String() string     { return group(n.Node) + "*" }
func (n Plus) String() string     { return group(n.Node) + "+" }
func (n Question) String() string { return group(n.Node) + "?" }

// group parenthesises anything that is not a single atom.
func group(n Node) string {
	if c, ok := n.(Char); ok {
		return c.String()
	}
	return "(" + n.String() + ")"
}

// Walk calls fn for n and every descendant in pre-order. Children are not
// visited when fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case Seq:
		for _, sub := range n.Nodes {
			Walk(sub, fn)
		}
	case Or:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case Star:
		Walk(n.Node, fn)
	case Plus:
		Walk(n.Node, fn)
	case Question:
		Walk(n.Node, fn)
	}
}
