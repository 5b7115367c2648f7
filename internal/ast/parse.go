package ast

import (
	"errors"
	"fmt"
	"regexp/syntax"
)

// MaxClassRunes is the largest character class that is expanded into an
// alternation of single characters.
const MaxClassRunes = 256

// ErrUnsupported is returned for constructs outside the supported operator
// set (anchors, wildcards, case folding, lazy quantifiers, large classes).
var ErrUnsupported = errors.New("unsupported construct")

// Parse parses pattern with regexp/syntax and converts the result into a
// syntax tree.
func Parse(pattern string) (Node, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pattern: %w", err)
	}

	// Expand counted repetition into concatenation and optionals
	re = re.Simplify()

	return FromSyntax(re)
}

// FromSyntax converts a regexp/syntax tree. Capture groups are kept only as
// grouping.
func FromSyntax(re *syntax.Regexp) (Node, error) {
	switch re.Op {
	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			return nil, unsupported("case-insensitive literal")
		}
		if len(re.Rune) == 1 {
			return Char{Rune: re.Rune[0]}, nil
		}
		nodes := make([]Node, len(re.Rune))
		for i, r := range re.Rune {
			nodes[i] = Char{Rune: r}
		}
		return Seq{Nodes: nodes}, nil

	case syntax.OpEmptyMatch:
		return Seq{}, nil

	case syntax.OpCapture:
		return FromSyntax(re.Sub[0])

	case syntax.OpConcat:
		nodes, err := fromSubs(re.Sub)
		if err != nil {
			return nil, err
		}
		return Seq{Nodes: nodes}, nil

	case syntax.OpAlternate:
		nodes, err := fromSubs(re.Sub)
		if err != nil {
			return nil, err
		}
		return alternate(nodes), nil

	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest:
		if re.Flags&syntax.NonGreedy != 0 {
			return nil, unsupported("lazy quantifier")
		}
		sub, err := FromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		switch re.Op {
		case syntax.OpStar:
			return Star{Node: sub}, nil
		case syntax.OpPlus:
			return Plus{Node: sub}, nil
		}
		return Question{Node: sub}, nil

	case syntax.OpCharClass:
		return fromClass(re.Rune)
	}

	return nil, unsupported(re.Op.String())
}

func fromSubs(subs []*syntax.Regexp) ([]Node, error) {
	nodes := make([]Node, 0, len(subs))
	for _, sub := range subs {
		n, err := FromSyntax(sub)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// fromClass expands a class given as lo/hi pairs. regexp/syntax folds
// single-character alternations such as a|b into [a-b].
func fromClass(ranges []rune) (Node, error) {
	var count int
	for i := 0; i+1 < len(ranges); i += 2 {
		count += int(ranges[i+1]-ranges[i]) + 1
		if count > MaxClassRunes {
			return nil, unsupported(fmt.Sprintf("character class larger than %d runes", MaxClassRunes))
		}
	}
	if count == 0 {
		return nil, unsupported("empty character class")
	}

	nodes := make([]Node, 0, count)
	for i := 0; i+1 < len(ranges); i += 2 {
		for r := ranges[i]; r <= ranges[i+1]; r++ {
			nodes = append(nodes, Char{Rune: r})
		}
	}
	return alternate(nodes), nil
}

// alternate builds a right-nested Or chain preserving left-to-right order.
func alternate(nodes []Node) Node {
	n := nodes[len(nodes)-1]
	for i := len(nodes) - 2; i >= 0; i-- {
		n = Or{Left: nodes[i], Right: n}
	}
	return n
}

func unsupported(what string) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, what)
}
