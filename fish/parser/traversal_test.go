package parser

import "testing"

var traversalSources = []string{
	"",
	"echo hi",
	"begin; echo a | cat; end",
	"if true; echo a; else if false; echo b; else; echo c; end",
	"for i in 1 2 3; switch $i; case 1; echo one; case '*'; echo other; end; end",
	"function f --argument-names a; not time a=b echo $a > out &; end",
	"true && false || { echo brace }",
	"if true; echo unterminated",
}

func countNodes(n Node) int {
	count := 1
	n.Accept(VisitorFunc(func(child Node) {
		count += countNodes(child)
	}))
	return count
}

func TestTraversalVisitsEveryNode(t *testing.T) {
	for _, src := range traversalSources {
		t.Run(src, func(t *testing.T) {
			ast := Parse(src, ContinueAfterError, nil)
			got := 0
			for range ast.Walk().All() {
				got++
			}
			if want := countNodes(ast.Top()); got != want {
				t.Errorf("got %d nodes, want %d", got, want)
			}
		})
	}
}

func TestTraversalParentsMatchLinks(t *testing.T) {
	for _, src := range traversalSources {
		t.Run(src, func(t *testing.T) {
			ast := Parse(src, ContinueAfterError, nil)
			tr := ast.Walk()
			for n := tr.Next(); n != nil; n = tr.Next() {
				parents := tr.ParentNodes()
				if parents[0] != n {
					t.Fatalf("%s: current node is not first", Describe(n))
				}
				if parents[len(parents)-1] != ast.Top() {
					t.Fatalf("%s: root is not last", Describe(n))
				}
				for i := 0; i+1 < len(parents); i++ {
					if got, want := Parent(parents[i]), parents[i+1]; got != want {
						t.Errorf("%s: got parent %s, want %s", Describe(parents[i]), Describe(got), Describe(want))
					}
					if got := tr.Parent(parents[i]); got != parents[i+1] {
						t.Errorf("%s: traversal parent %s, want %s", Describe(parents[i]), Describe(got), Describe(parents[i+1]))
					}
				}
			}
		})
	}
}

func TestTraversalSkipChildren(t *testing.T) {
	src := "begin; echo a; end; echo b"
	ast := Parse(src, 0, nil)

	var commands []string
	tr := ast.Walk()
	for n := tr.Next(); n != nil; n = tr.Next() {
		switch n := n.(type) {
		case *BlockStatement:
			tr.SkipChildren(n)
		case *DecoratedStatement:
			cmd, _ := SourceOf(&n.Command, src)
			commands = append(commands, cmd)
		}
	}
	if len(commands) != 1 || commands[0] != "echo" {
		t.Fatalf("got %v, want [echo]", commands)
	}

	// The skipped block leaves no trace in the ancestors of later nodes.
	tr = ast.Walk()
	for n := tr.Next(); n != nil; n = tr.Next() {
		if block, ok := n.(*BlockStatement); ok {
			tr.SkipChildren(block)
			continue
		}
		for _, p := range tr.ParentNodes() {
			if _, ok := p.(*BlockStatement); ok {
				t.Errorf("%s has a skipped block as ancestor", Describe(n))
			}
		}
	}
}

func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic")
		}
	}()
	fn()
}

func TestTraversalMisuse(t *testing.T) {
	ast := Parse("echo a; echo b", 0, nil)
	jobs := ast.JobList().Items

	t.Run("skip children of another node", func(t *testing.T) {
		tr := ast.Walk()
		tr.Next()
		tr.Next()
		expectPanic(t, func() { tr.SkipChildren(jobs[1]) })
	})

	t.Run("parent of a finished node", func(t *testing.T) {
		tr := ast.Walk()
		for n := tr.Next(); n != nil; n = tr.Next() {
			if n == jobs[1] {
				break
			}
		}
		expectPanic(t, func() { tr.Parent(jobs[0]) })
	})

	t.Run("parent of the root", func(t *testing.T) {
		tr := ast.Walk()
		tr.Next()
		expectPanic(t, func() { tr.Parent(ast.Top()) })
	})
}

func TestTraversalEarlyStop(t *testing.T) {
	ast := Parse("echo a; echo b", 0, nil)
	tr := ast.Walk()
	for n := range tr.All() {
		if _, ok := n.(*JobConjunction); ok {
			break
		}
	}
	next := tr.Next()
	if _, ok := next.(*JobPipeline); !ok {
		t.Errorf("got %s, want job_pipeline", Describe(next))
	}
}
