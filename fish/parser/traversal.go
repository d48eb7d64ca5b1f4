package parser

import "iter"

type traversalEntry struct {
	node    Node
	visited bool
}

// Traversal walks a subtree in pre-order: each node comes before its
// children, and children come in field order.
//
//	t := NewTraversal(ast.Top())
//	for n := t.Next(); n != nil; n = t.Next() {
//		...
//	}
//
// Visited nodes stay on the stack until their children are done, so the
// ancestors of the current node are always known.
type Traversal struct {
	stack []traversalEntry
}

func NewTraversal(n Node) *Traversal {
	return &Traversal{stack: []traversalEntry{{node: n}}}
}

// Next returns the next node, or nil when the walk is over.
func (t *Traversal) Next() Node {
	var n Node
	for n == nil {
		if len(t.stack) == 0 {
			return nil
		}
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		if !top.visited {
			t.stack = append(t.stack, traversalEntry{node: top.node, visited: true})
			n = top.node
		}
	}

	before := len(t.stack)
	n.Accept(VisitorFunc(func(child Node) {
		t.stack = append(t.stack, traversalEntry{node: child})
	}))
	pushed := t.stack[before:]
	for i, j := 0, len(pushed)-1; i < j; i, j = i+1, j-1 {
		pushed[i], pushed[j] = pushed[j], pushed[i]
	}
	return n
}

// All returns the remaining nodes as a sequence.
func (t *Traversal) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for n := t.Next(); n != nil; n = t.Next() {
			if !yield(n) {
				return
			}
		}
	}
}

// ParentNodes returns the node last returned by Next followed by its
// ancestors, innermost first.
func (t *Traversal) ParentNodes() []Node {
	var parents []Node
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].visited {
			parents = append(parents, t.stack[i].node)
		}
	}
	return parents
}

// Parent returns the parent of n, which must be the current node or one of
// its ancestors.
func (t *Traversal) Parent(n Node) Node {
	parents := t.ParentNodes()
	for i, p := range parents {
		if p == n {
			if i+1 == len(parents) {
				panic("parser: node is root and has no parent")
			}
			return parents[i+1]
		}
	}
	panic("parser: node " + Describe(n) + " is not on the traversal stack")
}

// SkipChildren drops the unvisited children of n, which must be the last
// node returned by Next. n itself is removed from the ancestor list.
func (t *Traversal) SkipChildren(n Node) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].visited {
			if t.stack[i].node != n {
				panic("parser: passed node is not the last visited node")
			}
			t.stack = t.stack[:i]
			return
		}
	}
	panic("parser: passed node is not on the stack")
}
