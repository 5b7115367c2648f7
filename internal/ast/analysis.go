package ast

// Analysis summarises the structure of a syntax tree.
type Analysis struct {
	Chars     int
	Seqs      int
	Ors       int
	Stars     int
	Plusses   int
	Questions int

	// Nullable is true when the tree accepts the empty string.
	Nullable bool

	// NestedQuantifiers is true when a Star or Plus body contains another
	// Star or Plus, e.g. (a+)+. Such patterns can backtrack exponentially.
	NestedQuantifiers bool

	// EmptyLoop is true when a Star or Plus repeats a body that accepts the
	// empty string, e.g. (a*)*. The backtracking evaluator can recurse on
	// such a loop without consuming input.
	EmptyLoop bool
}

// Analyze walks n once and returns its Analysis.
func Analyze(n Node) Analysis {
	a := Analysis{
		Nullable:          Nullable(n),
		NestedQuantifiers: HasNestedQuantifiers(n),
		EmptyLoop:         HasEmptyLoop(n),
	}
	Walk(n, func(n Node) bool {
		switch n.(type) {
		case Char:
			a.Chars++
		case Seq:
			a.Seqs++
		case Or:
			a.Ors++
		case Star:
			a.Stars++
		case Plus:
			a.Plusses++
		case Question:
			a.Questions++
		}
		return true
	})
	return a
}

// Nullable reports whether n accepts the empty string.
func Nullable(n Node) bool {
	switch n := n.(type) {
	case Char:
		return false
	case Seq:
		for _, sub := range n.Nodes {
			if !Nullable(sub) {
				return false
			}
		}
		return true
	case Or:
		return Nullable(n.Left) || Nullable(n.Right)
	case Star, Question:
		return true
	case Plus:
		return Nullable(n.Node)
	}
	return false
}

// HasNestedQuantifiers reports whether a repetition is nested inside another.
func HasNestedQuantifiers(n Node) bool {
	return walkNested(n, false)
}

func walkNested(n Node, inLoop bool) bool {
	switch n := n.(type) {
	case Star:
		return inLoop || walkNested(n.Node, true)
	case Plus:
		return inLoop || walkNested(n.Node, true)
	case Question:
		return walkNested(n.Node, inLoop)
	case Or:
		return walkNested(n.Left, inLoop) || walkNested(n.Right, inLoop)
	case Seq:
		for _, sub := range n.Nodes {
			if walkNested(sub, inLoop) {
				return true
			}
		}
	}
	return false
}

// HasEmptyLoop reports whether some Star or Plus repeats a nullable body.
func HasEmptyLoop(n Node) bool {
	found := false
	Walk(n, func(n Node) bool {
		switch n := n.(type) {
		case Star:
			found = found || Nullable(n.Node)
		case Plus:
			found = found || Nullable(n.Node)
		}
		return !found
	})
	return found
}
