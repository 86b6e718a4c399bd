package lower

import (
	"pythonj/internal/errors"
	"pythonj/internal/ir"
	"pythonj/internal/pyast"
)

func (lz *Lowerer) VisitModule(n *pyast.Module) interface{} {
	return lz.lowerBlock(n.Body)
}

func (lz *Lowerer) VisitIf(n *pyast.If) interface{} {
	testExpr, pre := lz.lowerExprWithStmts(n.Test)
	cond := ir.BoolValue(testExpr)
	body := lz.lowerBlock(n.Body)
	orelse := lz.lowerBlock(n.Orelse)
	return append(pre, ir.NewIf(cond, body, orelse)...)
}

func (lz *Lowerer) VisitWhile(n *pyast.While) interface{} {
	testExpr, pre := lz.lowerExprWithStmts(n.Test)
	cond := ir.BoolValue(testExpr)

	label := ""
	if len(n.Orelse) > 0 {
		label = lz.newLabel()
	}
	savedLabel := lz.breakLabel
	lz.breakLabel = label
	body := lz.lowerBlock(n.Body)
	lz.breakLabel = savedLabel

	whileStmts := ir.NewWhile(cond, body)
	if label == "" {
		return append(pre, whileStmts...)
	}
	elseBody := lz.lowerBlock(n.Orelse)
	all := append(append([]ir.Stmt{}, whileStmts...), elseBody...)
	return append(pre, ir.LabeledBlock{Label: label, Body: all})
}

// VisitFor implements §4.3.3's iterator-protocol lowering: the iterable
// is pulled once into t0 = iter.iter(), then a counted for-loop repeats
// t1 = t0.next() until t1 is the null sentinel, unpacking t1 into the
// user target at the top of each pass.
func (lz *Lowerer) VisitFor(n *pyast.For) interface{} {
	saved := lz.pending
	lz.pending = nil
	iterExpr := lz.lowerExpr(n.Iter)
	t0 := lz.newTemp()
	lz.emit(ir.VarDecl{Type: "PyObject", Name: t0, Init: ir.Call{Receiver: iterExpr, Method: "iter"}})
	pre := lz.pending
	lz.pending = saved

	t1 := lz.newTemp()
	advance := ir.Call{Receiver: ir.Ident{Name: t0}, Method: "next"}
	cond := ir.Binary{Op: "!=", Left: ir.Ident{Name: t1}, Right: ir.Null}

	label := ""
	if len(n.Orelse) > 0 {
		label = lz.newLabel()
	}
	savedLabel := lz.breakLabel
	lz.breakLabel = label

	saved = lz.pending
	lz.pending = nil
	lz.bindTarget(n.Target, ir.Ident{Name: t1}, n.Line)
	unpackStmts := lz.pending
	lz.pending = saved

	bodyIR := lz.lowerBlock(n.Body)
	lz.breakLabel = savedLabel

	fullBody := append(unpackStmts, bodyIR...)
	forStmt := ir.ForCounted{
		InitType: "PyObject", InitName: t1, InitValue: advance,
		Cond: cond, IncrName: t1, IncrValue: advance,
		Body: fullBody,
	}

	if label == "" {
		return append(pre, forStmt)
	}
	elseBody := lz.lowerBlock(n.Orelse)
	all := append([]ir.Stmt{forStmt}, elseBody...)
	return append(pre, ir.LabeledBlock{Label: label, Body: all})
}

func (lz *Lowerer) VisitAssign(n *pyast.Assign) interface{} {
	if len(n.Targets) != 1 {
		lz.sink.Report(errors.UnsupportedStatementForm, n.Line, "chained assignment is not supported")
	}
	if len(n.Targets) == 0 {
		return nil
	}
	saved := lz.pending
	lz.pending = nil
	value := lz.lowerExpr(n.Value)
	lz.bindTarget(n.Targets[0], value, n.Line)
	pre := lz.pending
	lz.pending = saved
	return pre
}

// VisitAugAssign implements `target op= value` (§4.3.3): the receiver
// (and, for a subscript target, the index) is cached in a temp so it is
// only evaluated once even though it is read for the in-place operation
// and written back to.
func (lz *Lowerer) VisitAugAssign(n *pyast.AugAssign) interface{} {
	method, ok := binMethod[n.Op]
	if !ok {
		lz.sink.Report(errors.UnsupportedConstruct, n.Line, "unsupported augmented-assignment operator "+n.Op)
		return nil
	}
	saved := lz.pending
	lz.pending = nil

	switch t := n.Target.(type) {
	case *pyast.Name:
		lz.addAssignedName(t.Value)
		dest := lz.identExpr(t.Value, false)
		val := lz.lowerExpr(n.Value)
		lz.emit(ir.Assign{Target: dest, Value: ir.Call{Receiver: dest, Method: method + "InPlace", Args: []ir.Expr{val}}})
	case *pyast.Attribute:
		recvExpr := lz.lowerExpr(t.Value)
		recvT := lz.newTemp()
		lz.emit(ir.VarDecl{Type: "PyObject", Name: recvT, Init: recvExpr})
		val := lz.lowerExpr(n.Value)
		cur := ir.Call{Receiver: ir.Ident{Name: recvT}, Method: "getAttr", Args: []ir.Expr{ir.Raw{Text: ir.QuoteJavaString(t.Attr)}}}
		newVal := ir.Call{Receiver: cur, Method: method + "InPlace", Args: []ir.Expr{val}}
		lz.emit(ir.ExprStmt{Value: ir.Call{Receiver: ir.Ident{Name: recvT}, Method: "setAttr", Args: []ir.Expr{ir.Raw{Text: ir.QuoteJavaString(t.Attr)}, newVal}}})
	case *pyast.Subscript:
		recvExpr := lz.lowerExpr(t.Value)
		recvT := lz.newTemp()
		lz.emit(ir.VarDecl{Type: "PyObject", Name: recvT, Init: recvExpr})
		idxExpr := lz.lowerExpr(t.Index)
		idxT := lz.newTemp()
		lz.emit(ir.VarDecl{Type: "PyObject", Name: idxT, Init: idxExpr})
		val := lz.lowerExpr(n.Value)
		cur := ir.Call{Receiver: ir.Ident{Name: recvT}, Method: "getItem", Args: []ir.Expr{ir.Ident{Name: idxT}}}
		newVal := ir.Call{Receiver: cur, Method: method + "InPlace", Args: []ir.Expr{val}}
		lz.emit(ir.ExprStmt{Value: ir.Call{Receiver: ir.Ident{Name: recvT}, Method: "setItem", Args: []ir.Expr{ir.Ident{Name: idxT}, newVal}}})
	default:
		lz.sink.Report(errors.UnsupportedStatementForm, n.Line, "augmented assignment to unsupported target")
	}

	pre := lz.pending
	lz.pending = saved
	return pre
}

func (lz *Lowerer) VisitAssert(n *pyast.Assert) interface{} {
	saved := lz.pending
	lz.pending = nil
	testV := lz.lowerExpr(n.Test)
	cond := ir.UnaryNot(ir.BoolValue(testV))
	prefix := lz.path + ":" + itoa(n.Line) + ": assertion failure"
	var message ir.Expr = ir.Raw{Text: ir.QuoteJavaString(prefix)}
	if n.Msg != nil {
		msgV := lz.lowerExpr(n.Msg)
		message = ir.Binary{Op: "+", Left: ir.Raw{Text: ir.QuoteJavaString(prefix + ": ")}, Right: ir.Call{Receiver: msgV, Method: "repr"}}
	}
	pre := lz.pending
	lz.pending = saved
	throwStmt := ir.Throw{Value: ir.Call{Receiver: ir.Raw{Text: "PyAssertionError"}, Method: "raise", Args: []ir.Expr{message}}}
	return append(pre, ir.NewIf(cond, []ir.Stmt{throwStmt}, nil)...)
}

func (lz *Lowerer) VisitDelete(n *pyast.Delete) interface{} {
	saved := lz.pending
	lz.pending = nil
	for _, t := range n.Targets {
		switch tt := t.(type) {
		case *pyast.Attribute:
			recv := lz.lowerExpr(tt.Value)
			lz.emit(ir.ExprStmt{Value: ir.Call{Receiver: recv, Method: "delAttr", Args: []ir.Expr{ir.Raw{Text: ir.QuoteJavaString(tt.Attr)}}}})
		case *pyast.Subscript:
			recv := lz.lowerExpr(tt.Value)
			idx := lz.lowerExpr(tt.Index)
			lz.emit(ir.ExprStmt{Value: ir.Call{Receiver: recv, Method: "delItem", Args: []ir.Expr{idx}}})
		default:
			lz.sink.Report(errors.UnsupportedStatementForm, n.Line, "del of this target form is not supported")
		}
	}
	pre := lz.pending
	lz.pending = saved
	return pre
}

func (lz *Lowerer) VisitReturn(n *pyast.Return) interface{} {
	if n.Value == nil {
		return []ir.Stmt{ir.Return{Value: ir.Raw{Text: "PyNone.singleton"}}}
	}
	val, pre := lz.lowerExprWithStmts(n.Value)
	return append(pre, ir.Return{Value: val})
}

func (lz *Lowerer) VisitPass(n *pyast.Pass) interface{} { return nil }

func (lz *Lowerer) VisitGlobal(n *pyast.Global) interface{} {
	for _, name := range n.Names {
		lz.explicitGlobals[name] = true
	}
	return nil
}

func (lz *Lowerer) VisitBreak(n *pyast.Break) interface{} {
	return []ir.Stmt{ir.Break{Label: lz.breakLabel}}
}

func (lz *Lowerer) VisitContinue(n *pyast.Continue) interface{} {
	return []ir.Stmt{ir.Continue{}}
}

// VisitExprStmt implements §4.3.3: a call lowers directly to an
// expression statement; anything else (the translator accepts any
// expression in statement position, as Python does) is discarded into a
// reused scratch local so its side effects still happen.
func (lz *Lowerer) VisitExprStmt(n *pyast.ExprStmt) interface{} {
	saved := lz.pending
	lz.pending = nil
	var result ir.Stmt
	if call, ok := n.Value.(*pyast.Call); ok {
		result = ir.ExprStmt{Value: lz.lowerExpr(call)}
	} else {
		v := lz.lowerExpr(n.Value)
		lz.usedDiscard = true
		result = ir.Assign{Target: ir.Ident{Name: "expr_discard"}, Value: v}
	}
	pre := lz.pending
	lz.pending = saved
	return append(pre, result)
}

// VisitWith lowers `with ctx as name: body` to a try/finally calling the
// runtime's enter/exit protocol methods, matching Python's context-
// manager protocol (§4.3.3).
func (lz *Lowerer) VisitWith(n *pyast.With) interface{} {
	if n.ExtraItems > 0 {
		lz.sink.Report(errors.UnsupportedStatementForm, n.Line, "with statement with multiple items is not supported")
	}
	saved := lz.pending
	lz.pending = nil
	ctxExpr := lz.lowerExpr(n.ContextExpr)
	ctxT := lz.newTemp()
	lz.emit(ir.VarDecl{Type: "PyObject", Name: ctxT, Init: ctxExpr})
	enterT := lz.newTemp()
	lz.emit(ir.VarDecl{Type: "PyObject", Name: enterT, Init: ir.Call{Receiver: ir.Ident{Name: ctxT}, Method: "enter"}})
	if n.OptionalVars != nil {
		lz.bindTarget(n.OptionalVars, ir.Ident{Name: enterT}, n.Line)
	}
	pre := lz.pending
	lz.pending = saved

	bodyIR := lz.lowerBlock(n.Body)
	finallyIR := []ir.Stmt{ir.ExprStmt{Value: ir.Call{Receiver: ir.Ident{Name: ctxT}, Method: "exit"}}}
	tryStmt := ir.NewTry(bodyIR, "", "", false, nil, true, finallyIR)
	return append(pre, tryStmt)
}

// VisitTry lowers try/except/finally. Every raised Python exception
// surfaces on the JVM stack wrapped in the runtime's PyRaise carrier; the
// catch clause unconditionally unwraps it — the only supported handler
// type is the universal BaseException (or omitted), so there is nothing
// to type-check before binding.
func (lz *Lowerer) VisitTry(n *pyast.Try) interface{} {
	if n.ExtraHandlers > 0 {
		lz.sink.Report(errors.UnsupportedStatementForm, n.Line, "multiple except clauses are not supported")
	}
	if n.HasElse {
		lz.sink.Report(errors.UnsupportedStatementForm, n.Line, "try/else is not supported")
	}

	saved := lz.pending
	lz.pending = nil
	bodyIR := lz.lowerBlock(n.Body)

	hasCatch := n.HasHandler
	excTemp := ""
	var catchIR []ir.Stmt
	if hasCatch {
		excTemp = lz.newTemp()
		if n.ExcType != nil {
			if nm, ok := n.ExcType.(*pyast.Name); !ok || nm.Value != "BaseException" {
				lz.sink.Report(errors.UnsupportedConstruct, n.Line, "except clause type must be omitted or BaseException")
			}
		}
		if n.ExcName != "" {
			lz.addAssignedName(n.ExcName)
			dest := lz.identExpr(n.ExcName, false)
			catchIR = append(catchIR, ir.Assign{Target: dest, Value: ir.Field{Receiver: ir.Ident{Name: excTemp}, Name: "exc"}})
		}
		savedExcTemp := lz.currentExcTemp
		lz.currentExcTemp = excTemp
		catchIR = append(catchIR, lz.lowerBlock(n.Handler)...)
		lz.currentExcTemp = savedExcTemp
	}

	var finallyIR []ir.Stmt
	if n.HasFinally {
		finallyIR = lz.lowerBlock(n.Finally)
	}

	pre := lz.pending
	lz.pending = saved
	tryStmt := ir.NewTry(bodyIR, "PyRaise", excTemp, hasCatch, catchIR, n.HasFinally, finallyIR)
	return append(pre, tryStmt)
}

// VisitRaise lowers `raise exc [from cause]` to throw new PyRaise(...),
// and bare `raise` (re-raise) to re-throwing the temp VisitTry bound for
// the enclosing handler.
func (lz *Lowerer) VisitRaise(n *pyast.Raise) interface{} {
	if n.Exc == nil {
		if lz.currentExcTemp == "" {
			lz.sink.Report(errors.UnsupportedStatementForm, n.Line, "bare raise outside an except clause")
			return nil
		}
		return []ir.Stmt{ir.Throw{Value: ir.Ident{Name: lz.currentExcTemp}}}
	}
	saved := lz.pending
	lz.pending = nil
	val := lz.lowerExpr(n.Exc)
	var raiseExpr ir.Expr
	if n.Cause != nil {
		cause := lz.lowerExpr(n.Cause)
		raiseExpr = ir.New{Type: "PyRaise", Args: []ir.Expr{val, cause}}
	} else {
		raiseExpr = ir.New{Type: "PyRaise", Args: []ir.Expr{val}}
	}
	pre := lz.pending
	lz.pending = saved
	return append(pre, ir.Throw{Value: raiseExpr})
}

func (lz *Lowerer) VisitFunctionDef(n *pyast.FunctionDef) interface{} {
	return lz.lowerFunctionDef(n)
}
