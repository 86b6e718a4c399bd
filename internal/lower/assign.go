package lower

import (
	"pythonj/internal/errors"
	"pythonj/internal/ir"
	"pythonj/internal/pyast"
)

// addAssignedName records name as belonging to the active scope's name
// set, unless it is already an explicit `global` in the current function
// — that name resolves through identExpr to the global slot regardless,
// so no local declaration should be synthesized for it in the function
// preamble (§4.3.4 step 5).
func (lz *Lowerer) addAssignedName(name string) {
	if lz.inFunction && lz.explicitGlobals[name] {
		return
	}
	lz.curNames()[name] = true
}

func elementsOf(e pyast.Expr) ([]pyast.Expr, bool) {
	switch t := e.(type) {
	case *pyast.TupleExpr:
		return t.Elements, true
	case *pyast.ListExpr:
		return t.Elements, true
	}
	return nil, false
}

// bindTarget implements the assignment-target binding machinery shared by
// plain assignment, for-loop target unpacking, and a with statement's
// `as` binding (§4.3.3). It emits whatever
// statements the binding needs via lz.emit, in source order, rather than
// returning them, so nested unpacking composes without the caller having
// to interleave two parallel result lists.
func (lz *Lowerer) bindTarget(target pyast.Expr, value ir.Expr, line int) {
	switch t := target.(type) {
	case *pyast.Name:
		lz.addAssignedName(t.Value)
		dest := lz.identExpr(t.Value, false)
		lz.emit(ir.Assign{Target: dest, Value: value})
	case *pyast.Attribute:
		recvExpr := lz.lowerExpr(t.Value)
		lz.emit(ir.ExprStmt{Value: ir.Call{
			Receiver: recvExpr,
			Method:   "setAttr",
			Args:     []ir.Expr{ir.Raw{Text: ir.QuoteJavaString(t.Attr)}, value},
		}})
	case *pyast.Subscript:
		recvExpr := lz.lowerExpr(t.Value)
		idxExpr := lz.lowerExpr(t.Index)
		lz.emit(ir.ExprStmt{Value: ir.Call{
			Receiver: recvExpr,
			Method:   "setItem",
			Args:     []ir.Expr{idxExpr, value},
		}})
	default:
		if elems, ok := elementsOf(target); ok {
			lz.bindTupleTarget(elems, value, line)
			return
		}
		lz.sink.Report(errors.UnsupportedBindingForm, line, "unsupported assignment target")
	}
}

// bindTupleTarget implements tuple/list-unpacking assignment: an
// iterator is pulled from value, each element target is bound from a
// successive non-null next(), and a trailing next() is required to
// return null (rejecting a too-long right-hand side).
func (lz *Lowerer) bindTupleTarget(elements []pyast.Expr, value ir.Expr, line int) {
	iterT := lz.newTemp()
	lz.emit(ir.VarDecl{Type: "PyObject", Name: iterT, Init: ir.Call{Receiver: value, Method: "iter"}})
	for _, el := range elements {
		if _, ok := el.(*pyast.Starred); ok {
			lz.sink.Report(errors.UnsupportedBindingForm, line, "starred unpacking targets are not supported")
			continue
		}
		bound := ir.Call{Receiver: runtimeNS, Method: "nextRequireNonNull", Args: []ir.Expr{ir.Ident{Name: iterT}}}
		lz.bindTarget(el, bound, line)
	}
	lz.emit(ir.ExprStmt{Value: ir.Call{Receiver: runtimeNS, Method: "nextRequireNull", Args: []ir.Expr{ir.Ident{Name: iterT}}}})
}
