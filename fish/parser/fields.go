package parser

// Field order here matches Accept. Optional fields are tried with their
// lookahead predicate.

func (n *Redirection) populate(w *fieldWalker) {
	w.visit(&n.Oper)
	w.visit(&n.Target)
}

func (n *JobPipeline) populate(w *fieldWalker) {
	optional(w, &n.Time)
	w.visit(&n.Variables)
	w.visit(&n.Statement)
	w.visit(&n.Continuation)
	optional(w, &n.Bg)
}

func (n *JobConjunction) populate(w *fieldWalker) {
	optional(w, &n.Decorator)
	w.visit(&n.Job)
	w.visit(&n.Continuations)
	optional(w, &n.SemiNl)
}

func (n *ForHeader) populate(w *fieldWalker) {
	w.visit(&n.KwFor)
	w.visit(&n.VarName)
	w.visit(&n.KwIn)
	w.visit(&n.Args)
	w.visit(&n.SemiNl)
}

func (n *WhileHeader) populate(w *fieldWalker) {
	w.visit(&n.KwWhile)
	w.visit(&n.Condition)
	w.visit(&n.AndorTail)
}

func (n *FunctionHeader) populate(w *fieldWalker) {
	w.visit(&n.KwFunction)
	w.visit(&n.FirstArg)
	w.visit(&n.Args)
	w.visit(&n.SemiNl)
}

func (n *BeginHeader) populate(w *fieldWalker) {
	w.visit(&n.KwBegin)
	optional(w, &n.SemiNl)
}

func (n *BlockStatement) populate(w *fieldWalker) {
	w.visit(&n.Header)
	w.visit(&n.Jobs)
	w.visit(&n.End)
	w.visit(&n.ArgsOrRedirs)
}

func (n *BraceStatement) populate(w *fieldWalker) {
	w.visit(&n.LeftBrace)
	w.visit(&n.Jobs)
	w.visit(&n.RightBrace)
	w.visit(&n.ArgsOrRedirs)
}

func (n *IfClause) populate(w *fieldWalker) {
	w.visit(&n.KwIf)
	w.visit(&n.Condition)
	w.visit(&n.AndorTail)
	w.visit(&n.Body)
}

func (n *ElseifClause) populate(w *fieldWalker) {
	w.visit(&n.KwElse)
	w.visit(&n.IfClause)
}

func (n *ElseClause) populate(w *fieldWalker) {
	w.visit(&n.KwElse)
	optional(w, &n.SemiNl)
	w.visit(&n.Body)
}

func (n *IfStatement) populate(w *fieldWalker) {
	w.visit(&n.IfClause)
	w.visit(&n.ElseifClauses)
	optional(w, &n.ElseClause)
	w.visit(&n.End)
	w.visit(&n.ArgsOrRedirs)
}

func (n *CaseItem) populate(w *fieldWalker) {
	w.visit(&n.KwCase)
	w.visit(&n.Arguments)
	w.visit(&n.SemiNl)
	w.visit(&n.Body)
}

func (n *SwitchStatement) populate(w *fieldWalker) {
	w.visit(&n.KwSwitch)
	w.visit(&n.Argument)
	w.visit(&n.SemiNl)
	w.visit(&n.Cases)
	w.visit(&n.End)
	w.visit(&n.ArgsOrRedirs)
}

func (n *DecoratedStatement) populate(w *fieldWalker) {
	optional(w, &n.OptDecoration)
	w.visit(&n.Command)
	w.visit(&n.ArgsOrRedirs)
}

func (n *NotStatement) populate(w *fieldWalker) {
	w.visit(&n.Kw)
	optional(w, &n.Time)
	w.visit(&n.Variables)
	w.visit(&n.Contents)
}

func (n *JobContinuation) populate(w *fieldWalker) {
	w.visit(&n.Pipe)
	w.visit(&n.Newlines)
	w.visit(&n.Variables)
	w.visit(&n.Statement)
}

func (n *JobConjunctionContinuation) populate(w *fieldWalker) {
	w.visit(&n.Conjunction)
	w.visit(&n.Newlines)
	w.visit(&n.Job)
}

func (n *AndorJob) populate(w *fieldWalker) {
	w.visit(&n.Job)
}

func (n *FreestandingArgumentList) populate(w *fieldWalker) {
	w.visit(&n.Arguments)
}
