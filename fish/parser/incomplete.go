package parser

// IsIncomplete reports whether src stops in the middle of a construct that
// more input could complete: an open quote, subshell or escape, a dangling
// pipe or conjunction, or a block without its end.
func IsIncomplete(src string) bool {
	incomplete, _ := detectErrors(src, true)
	return incomplete
}

// DetectErrors parses src as a complete script and returns its errors.
func DetectErrors(src string) ErrorList {
	_, errs := detectErrors(src, false)
	return errs
}

func detectErrors(src string, allowIncomplete bool) (bool, ErrorList) {
	var flags ParseFlags
	if allowIncomplete {
		flags = LeaveUnterminated
	}
	var errs ErrorList
	ast := Parse(src, flags, &errs)

	if allowIncomplete {
		unterminated := false
		kept := errs[:0]
		for _, err := range errs {
			switch err.Code {
			case ErrorTokenizerUnterminatedQuote, ErrorTokenizerUnterminatedSubshell, ErrorTokenizerUnterminatedEscape:
				unterminated = true
			default:
				kept = append(kept, err)
			}
		}
		if unterminated {
			return true, nil
		}
		errs = kept
	}
	if len(errs) > 0 {
		return false, errs
	}
	return hasUnclosedConstruct(ast), nil
}

func hasUnclosedConstruct(ast *Ast) bool {
	for n := range ast.Walk().All() {
		switch n := n.(type) {
		case *JobContinuation:
			if n.Pipe.HasSource() {
				if _, ok := SourceRangeOf(&n.Statement); !ok {
					return true
				}
			}
		case *JobConjunctionContinuation:
			if n.Conjunction.HasSource() {
				if _, ok := SourceRangeOf(&n.Job); !ok {
					return true
				}
			}
		case *BlockStatement:
			if !n.End.HasSource() {
				return true
			}
		case *BraceStatement:
			if !n.RightBrace.HasSource() {
				return true
			}
		case *IfStatement:
			if !n.End.HasSource() {
				return true
			}
		case *SwitchStatement:
			if !n.End.HasSource() {
				return true
			}
		}
	}
	return false
}
