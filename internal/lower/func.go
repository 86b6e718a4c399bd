package lower

import (
	"sort"

	"pythonj/internal/errors"
	"pythonj/internal/ir"
	"pythonj/internal/pyast"
)

// lowerFunctionDef implements §4.3.4: a `def` becomes a private nested
// class extending PyUserFunction, with a call(PyObject[] args, PyDict
// kwargs) method built from a fixed preamble (kwargs rejection, arity
// check, parameter bindings, other-locals declarations) followed by the
// lowered body and an implicit trailing `return PyNone.singleton`. The
// enclosing scope gets a module-initializer assignment in its place.
func (lz *Lowerer) lowerFunctionDef(n *pyast.FunctionDef) []ir.Stmt {
	rejected := false
	reject := func(msg string) {
		lz.sink.Report(errors.UnsupportedStatementForm, n.Line, msg)
		rejected = true
	}
	if n.Nested {
		reject("nested function definitions are not supported")
	}
	if len(n.Decorators) > 0 {
		reject("decorators are not supported")
	}
	if len(n.Defaults) > 0 {
		reject("default arguments are not supported")
	}
	if n.VarArg != "" {
		reject("*args is not supported")
	}
	if n.KwArg != "" {
		reject("**kwargs is not supported")
	}
	if len(n.KwOnlyArgs) > 0 {
		reject("keyword-only arguments are not supported")
	}
	if n.Annotated {
		reject("parameter and return annotations are not supported")
	}

	savedLocalNames := lz.localNames
	savedExplicit := lz.explicitGlobals
	savedInFunction := lz.inFunction
	savedBreakLabel := lz.breakLabel
	savedDiscard := lz.usedDiscard
	savedTmp := lz.tmp
	savedExcTemp := lz.currentExcTemp

	argSet := make(map[string]bool, len(n.Args))
	lz.localNames = make(map[string]bool, len(n.Args))
	for _, a := range n.Args {
		argSet[a] = true
		lz.localNames[a] = true
	}
	lz.explicitGlobals = make(map[string]bool)
	lz.inFunction = true
	lz.breakLabel = ""
	lz.usedDiscard = false
	lz.tmp = 0
	lz.currentExcTemp = ""

	bodyIR := lz.lowerBlock(n.Body)

	var extra []string
	for name := range lz.localNames {
		if !argSet[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	usedDiscard := lz.usedDiscard

	lz.localNames = savedLocalNames
	lz.explicitGlobals = savedExplicit
	lz.inFunction = savedInFunction
	lz.breakLabel = savedBreakLabel
	lz.usedDiscard = savedDiscard
	lz.tmp = savedTmp
	lz.currentExcTemp = savedExcTemp

	if rejected {
		return nil
	}

	var method []ir.Stmt

	kwargsPresent := ir.Binary{Op: "&&",
		Left:  ir.Binary{Op: "!=", Left: ir.Ident{Name: "kwargs"}, Right: ir.Null},
		Right: ir.Call{Receiver: ir.Ident{Name: "kwargs"}, Method: "boolValue"},
	}
	kwargsRejection := ir.Throw{Value: ir.New{Type: "IllegalArgumentException", Args: []ir.Expr{
		ir.Raw{Text: ir.QuoteJavaString(n.Name + "() takes no keyword arguments")},
	}}}
	method = append(method, ir.NewIf(kwargsPresent, []ir.Stmt{kwargsRejection}, nil)...)

	arityMismatch := ir.Binary{Op: "!=",
		Left:  ir.Field{Receiver: ir.Ident{Name: "args"}, Name: "length"},
		Right: ir.Raw{Text: itoa(len(n.Args))},
	}
	raiseArgs := []ir.Expr{ir.Ident{Name: "args"}, ir.Raw{Text: itoa(len(n.Args))}, ir.Raw{Text: ir.QuoteJavaString(n.Name)}}
	for _, a := range n.Args {
		raiseArgs = append(raiseArgs, ir.Raw{Text: ir.QuoteJavaString(a)})
	}
	arityRejection := ir.Throw{Value: ir.Call{Receiver: runtimeNS, Method: "raiseUserExactArgs", Args: raiseArgs}}
	method = append(method, ir.NewIf(arityMismatch, []ir.Stmt{arityRejection}, nil)...)

	for i, a := range n.Args {
		method = append(method, ir.VarDecl{
			Type: "PyObject", Name: "pylocal_" + a,
			Init: ir.Index{Receiver: ir.Ident{Name: "args"}, At: ir.Raw{Text: itoa(i)}},
		})
	}

	if usedDiscard {
		method = append(method, ir.VarDecl{Type: "PyObject", Name: "expr_discard"})
	}
	for _, name := range extra {
		if name == "expr_discard" {
			continue
		}
		method = append(method, ir.VarDecl{Type: "PyObject", Name: "pylocal_" + name})
	}

	method = append(method, bodyIR...)
	method = append(method, ir.Return{Value: ir.Raw{Text: "PyNone.singleton"}})
	method = ir.SimplifyBlock(method)

	className := "pyfunc_" + n.Name
	var classLines []string
	classLines = append(classLines, "private static final class "+className+" extends PyUserFunction {")
	classLines = append(classLines, className+"() { super("+ir.QuoteJavaString(n.Name)+"); }")
	classLines = append(classLines, "@Override")
	classLines = append(classLines, "PyObject call(PyObject[] args, PyDict kwargs) {")
	classLines = append(classLines, ir.RenderBlock(method)...)
	classLines = append(classLines, "}")
	classLines = append(classLines, "}")

	lz.functions[n.Name] = &FuncUnit{Name: n.Name, Lines: classLines}
	lz.funcOrder = append(lz.funcOrder, n.Name)

	lz.globalNames[n.Name] = true
	initStmt := ir.Assign{Target: ir.Ident{Name: "pyglobal_" + n.Name}, Value: ir.New{Type: className}}
	return []ir.Stmt{initStmt}
}
