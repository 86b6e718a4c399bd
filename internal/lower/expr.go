package lower

import (
	"unicode/utf8"

	"pythonj/internal/errors"
	"pythonj/internal/ir"
	"pythonj/internal/pyast"
)

var pyBool = ir.Raw{Text: "PyBool"}
var runtimeNS = ir.Raw{Text: "Runtime"}

func (lz *Lowerer) VisitName(n *pyast.Name) interface{} {
	return lz.identExpr(n.Value, lz.intrinsics)
}

func (lz *Lowerer) VisitConstant(n *pyast.Constant) interface{} {
	switch n.Kind {
	case pyast.ConstNone:
		return ir.Raw{Text: "PyNone.singleton"}
	case pyast.ConstBool:
		if n.Bool {
			return ir.Raw{Text: "PyBool.true_singleton"}
		}
		return ir.Raw{Text: "PyBool.false_singleton"}
	case pyast.ConstInt:
		ref := lz.pool.RecordInt(n.Int)
		return ir.IntLit{Ref: ref}
	case pyast.ConstBytes:
		ref := lz.pool.RecordBytes(n.Bytes)
		return ir.Ident{Name: ref}
	case pyast.ConstString:
		return lz.validateAndPoolString(n.Str, n.Line)
	}
	lz.sink.Report(errors.UnsupportedLiteral, n.Line, "unsupported literal kind")
	return placeholderConst()
}

// validateAndPoolString enforces §6's "surrogate code points are
// rejected" and "code points beyond the BMP are unimplemented"
// requirements before handing the literal to the constant pool.
func (lz *Lowerer) validateAndPoolString(s string, line int) ir.Expr {
	for _, r := range s {
		if r == utf8.RuneError {
			lz.sink.Report(errors.SurrogateInString, line, "surrogate code point in string literal")
			return placeholderConst()
		}
		if r > 0xFFFF {
			lz.sink.Report(errors.UnsupportedLiteral, line, "code points beyond the BMP are not supported")
			return placeholderConst()
		}
	}
	ref := lz.pool.RecordStr(s)
	return ir.StrLit{Ref: ref}
}

// VisitJoinedStr builds an f-string as new PyString(seg0 + seg1 + ...):
// every segment is a Java-string-valued expression, concatenated with
// the target `+` operator rather than PyObject method calls, and the
// whole chain wrapped once in a PyObject at the end.
func (lz *Lowerer) VisitJoinedStr(n *pyast.JoinedStr) interface{} {
	if len(n.Values) == 0 {
		return ir.Raw{Text: "PyString.empty_singleton"}
	}
	var chain ir.Expr
	for _, v := range n.Values {
		seg := lz.joinedStrSegment(v)
		if chain == nil {
			chain = seg
			continue
		}
		chain = ir.Binary{Op: "+", Left: chain, Right: seg}
	}
	return ir.New{Type: "PyString", Args: []ir.Expr{chain}}
}

// joinedStrSegment lowers one f-string segment to a Java-string-valued
// expression. A constant segment is a raw Java string literal — it
// never stands alone as a pooled PyObject, only as part of the
// enclosing concatenation.
func (lz *Lowerer) joinedStrSegment(v pyast.Expr) ir.Expr {
	switch t := v.(type) {
	case *pyast.Constant:
		if t.Kind != pyast.ConstString {
			lz.sink.Report(errors.UnsupportedLiteral, t.Line, "f-string literal segment must be a string")
			return placeholderConst()
		}
		return ir.Raw{Text: ir.QuoteJavaString(t.Str)}
	case *pyast.FormattedValue:
		return lz.lowerFormattedValue(t)
	default:
		lz.sink.Report(errors.UnsupportedConstruct, 0, "unsupported f-string segment")
		return placeholderExpr()
	}
}

func (lz *Lowerer) VisitFormattedValue(n *pyast.FormattedValue) interface{} {
	return lz.lowerFormattedValue(n)
}

func (lz *Lowerer) lowerFormattedValue(n *pyast.FormattedValue) ir.Expr {
	val := lz.lowerExpr(n.Value)
	switch n.Conversion {
	case "", "s":
		if n.Conversion == "s" {
			val = ir.New{Type: "PyString", Args: []ir.Expr{ir.Call{Receiver: val, Method: "str"}}}
		}
	case "r":
		val = ir.New{Type: "PyString", Args: []ir.Expr{ir.Call{Receiver: val, Method: "repr"}}}
	case "a":
		lz.sink.Report(errors.UnsupportedFStringConversion, n.Line, "conversion !a is not supported")
		return placeholderExpr()
	default:
		lz.sink.Report(errors.UnsupportedFStringConversion, n.Line, "unknown f-string conversion "+n.Conversion)
		return placeholderExpr()
	}
	// format() takes a Java String spec, not a PyObject: the empty
	// default is a raw literal, and an explicit spec's PyString.value
	// field is pulled back out to match.
	var spec ir.Expr = ir.Raw{Text: ir.QuoteJavaString("")}
	if n.FormatSpec != nil {
		specVal := lz.lowerExpr(n.FormatSpec)
		spec = ir.Field{Receiver: specVal, Name: "value"}
	}
	return ir.Call{Receiver: val, Method: "format", Args: []ir.Expr{spec}}
}

func (lz *Lowerer) VisitList(n *pyast.ListExpr) interface{} {
	return ir.New{Type: "PyList", Args: []ir.Expr{lz.lowerElementsToArray(n.Elements)}}
}

func (lz *Lowerer) VisitTuple(n *pyast.TupleExpr) interface{} {
	return ir.New{Type: "PyTuple", Args: []ir.Expr{lz.lowerElementsToArray(n.Elements)}}
}

func (lz *Lowerer) VisitSet(n *pyast.SetExpr) interface{} {
	return ir.New{Type: "PySet", Args: []ir.Expr{lz.lowerElementsToArray(n.Elements)}}
}

// lowerElementsToArray implements §4.3.2's star-expansion rule: a plain
// display lowers to a direct array literal, a display containing a
// starred element builds an ArrayList via the runtime helpers instead.
func (lz *Lowerer) lowerElementsToArray(elements []pyast.Expr) ir.Expr {
	hasStar := false
	for _, e := range elements {
		if _, ok := e.(*pyast.Starred); ok {
			hasStar = true
			break
		}
	}
	if !hasStar {
		elems := make([]ir.Expr, len(elements))
		for i, e := range elements {
			elems[i] = lz.lowerExpr(e)
		}
		return ir.NewArray{ElemType: "PyObject", Elems: elems}
	}
	t := lz.newTemp()
	lz.emit(ir.VarDecl{Type: "ArrayList<PyObject>", Name: t, Init: ir.New{Type: "ArrayList<PyObject>"}})
	for _, e := range elements {
		if st, ok := e.(*pyast.Starred); ok {
			v := lz.lowerExpr(st.Value)
			lz.emit(ir.ExprStmt{Value: ir.Call{Receiver: runtimeNS, Method: "addStarToArrayList", Args: []ir.Expr{ir.Ident{Name: t}, v}}})
		} else {
			v := lz.lowerExpr(e)
			lz.emit(ir.ExprStmt{Value: ir.Call{Receiver: runtimeNS, Method: "addPyObjectToArrayList", Args: []ir.Expr{ir.Ident{Name: t}, v}}})
		}
	}
	return ir.Call{Receiver: runtimeNS, Method: "arrayListToArray", Args: []ir.Expr{ir.Ident{Name: t}}}
}

func (lz *Lowerer) VisitDict(n *pyast.DictExpr) interface{} {
	var args []ir.Expr
	for i, k := range n.Keys {
		if k == nil {
			args = append(args, ir.Null)
		} else {
			args = append(args, lz.lowerExpr(k))
		}
		args = append(args, lz.lowerExpr(n.Values[i]))
	}
	return ir.New{Type: "PyDict", Args: args}
}

func (lz *Lowerer) VisitStarred(n *pyast.Starred) interface{} {
	lz.sink.Report(errors.UnsupportedConstruct, n.Line, "star expression not allowed here")
	return lz.lowerExpr(n.Value)
}

func (lz *Lowerer) VisitSubscript(n *pyast.Subscript) interface{} {
	recv := lz.lowerExpr(n.Value)
	idx := lz.lowerExpr(n.Index)
	return ir.Call{Receiver: recv, Method: "getItem", Args: []ir.Expr{idx}}
}

func (lz *Lowerer) VisitSlice(n *pyast.Slice) interface{} {
	lo := lz.lowerOptional(n.Lower)
	hi := lz.lowerOptional(n.Upper)
	step := lz.lowerOptional(n.Step)
	return ir.New{Type: "PySlice", Args: []ir.Expr{lo, hi, step}}
}

func (lz *Lowerer) lowerOptional(e pyast.Expr) ir.Expr {
	if e == nil {
		return ir.Raw{Text: "PyNone.singleton"}
	}
	return lz.lowerExpr(e)
}

func (lz *Lowerer) VisitAttribute(n *pyast.Attribute) interface{} {
	recv := lz.lowerExpr(n.Value)
	return ir.Call{Receiver: recv, Method: "getAttr", Args: []ir.Expr{ir.Raw{Text: ir.QuoteJavaString(n.Attr)}}}
}

func (lz *Lowerer) VisitCall(n *pyast.Call) interface{} {
	if nm, ok := n.Func.(*pyast.Name); ok && lz.intrinsics && nm.Value == "__pythonj_next__" &&
		len(n.Args) == 1 && len(n.Keywords) == 0 {
		x := lz.lowerExpr(n.Args[0])
		return ir.Call{Receiver: x, Method: "next"}
	}
	fn := lz.lowerExpr(n.Func)
	posArr := lz.lowerElementsToArray(n.Args)
	kwExpr := lz.lowerKeywords(n.Keywords)
	return ir.Call{Receiver: fn, Method: "call", Args: []ir.Expr{posArr, kwExpr}}
}

func (lz *Lowerer) lowerKeywords(kws []pyast.Keyword) ir.Expr {
	if len(kws) == 0 {
		return ir.Null
	}
	var args []ir.Expr
	for _, kw := range kws {
		if kw.Name == "" {
			args = append(args, ir.Null, lz.lowerExpr(kw.Value))
			continue
		}
		key := ir.New{Type: "PyString", Args: []ir.Expr{ir.Raw{Text: ir.QuoteJavaString(kw.Name)}}}
		args = append(args, key, lz.lowerExpr(kw.Value))
	}
	dict := ir.New{Type: "PyDict", Args: args}
	return ir.Call{Receiver: runtimeNS, Method: "requireKwStrings", Args: []ir.Expr{dict}}
}

var binMethod = map[string]string{
	"+": "add", "-": "sub", "*": "mul", "/": "truediv", "//": "floordiv",
	"%": "mod", "**": "pow", "<<": "lshift", ">>": "rshift",
	"&": "and", "|": "or", "^": "xor", "@": "matmul",
}

func (lz *Lowerer) VisitBinOp(n *pyast.BinOp) interface{} {
	left := lz.lowerExpr(n.Left)
	right := lz.lowerExpr(n.Right)
	method, ok := binMethod[n.Op]
	if !ok {
		lz.sink.Report(errors.UnsupportedConstruct, n.Line, "unsupported binary operator "+n.Op)
		return placeholderExpr()
	}
	return ir.Call{Receiver: left, Method: method, Args: []ir.Expr{right}}
}

func (lz *Lowerer) VisitUnaryOp(n *pyast.UnaryOp) interface{} {
	operand := lz.lowerExpr(n.Operand)
	switch n.Op {
	case "not":
		boolExpr := ir.BoolValue(operand)
		notExpr := ir.UnaryNot(boolExpr)
		return ir.Call{Receiver: pyBool, Method: "create", Args: []ir.Expr{notExpr}}
	case "-":
		return ir.Call{Receiver: operand, Method: "neg"}
	case "+":
		return ir.Call{Receiver: operand, Method: "pos"}
	case "~":
		return ir.Call{Receiver: operand, Method: "invert"}
	}
	lz.sink.Report(errors.UnsupportedConstruct, n.Line, "unsupported unary operator "+n.Op)
	return placeholderExpr()
}

func (lz *Lowerer) VisitBoolOp(n *pyast.BoolOp) interface{} {
	values := make([]ir.Expr, len(n.Values))
	for i, v := range n.Values {
		values[i] = lz.lowerExpr(v)
	}
	return lz.lowerBoolChain(n.Op, values)
}

// lowerBoolChain implements §4.3.2/§8's right-associative short-circuit
// shape: (t = a).boolValue() ? rest : t for `and`, mirrored for `or`.
// Exactly one temp is introduced per binary step; the final operand
// needs none since it is only ever evaluated in tail position.
func (lz *Lowerer) lowerBoolChain(op string, values []ir.Expr) ir.Expr {
	if len(values) == 1 {
		return values[0]
	}
	t := lz.newTemp()
	lz.emit(ir.VarDecl{Type: "PyObject", Name: t})
	first := ir.AssignExpr{Target: ir.Ident{Name: t}, Value: values[0]}
	rest := lz.lowerBoolChain(op, values[1:])
	cond := ir.Call{Receiver: first, Method: "boolValue"}
	if op == "and" {
		return ir.Ternary{Cond: cond, Then: rest, Else: ir.Ident{Name: t}}
	}
	return ir.Ternary{Cond: cond, Then: ir.Ident{Name: t}, Else: rest}
}

func (lz *Lowerer) VisitIfExp(n *pyast.IfExp) interface{} {
	cond := ir.BoolValue(lz.lowerExpr(n.Test))
	then := lz.lowerExpr(n.Then)
	els := lz.lowerExpr(n.Else)
	return ir.Ternary{Cond: cond, Then: then, Else: els}
}

func (lz *Lowerer) VisitCompare(n *pyast.Compare) interface{} {
	operands := append([]pyast.Expr{n.Left}, n.Comparators...)
	lowered := make([]ir.Expr, len(operands))
	reuse := make([]ir.Expr, len(operands))
	for i, opd := range operands {
		v := lz.lowerExpr(opd)
		if i == 0 || i == len(operands)-1 {
			lowered[i] = v
			reuse[i] = v
			continue
		}
		t := lz.newTemp()
		lz.emit(ir.VarDecl{Type: "PyObject", Name: t})
		lowered[i] = ir.AssignExpr{Target: ir.Ident{Name: t}, Value: v}
		reuse[i] = ir.Ident{Name: t}
	}
	var chain ir.Expr
	for i, op := range n.Ops {
		pairwise := lz.comparePairwise(op, reuse[i], lowered[i+1], n.Line)
		if chain == nil {
			chain = pairwise
		} else {
			chain = ir.Binary{Op: "&&", Left: chain, Right: pairwise}
		}
	}
	return ir.Call{Receiver: pyBool, Method: "create", Args: []ir.Expr{chain}}
}

func (lz *Lowerer) comparePairwise(op string, l, r ir.Expr, line int) ir.Expr {
	switch op {
	case "is":
		return ir.Binary{Op: "==", Left: l, Right: r}
	case "is not":
		return ir.Binary{Op: "!=", Left: l, Right: r}
	case "in":
		return ir.Call{Receiver: l, Method: "in", Args: []ir.Expr{r}}
	case "not in":
		return ir.Unary{Op: "!", Operand: ir.Call{Receiver: l, Method: "in", Args: []ir.Expr{r}}}
	case "==":
		return ir.Call{Receiver: l, Method: "equals", Args: []ir.Expr{r}}
	case "!=":
		return ir.Unary{Op: "!", Operand: ir.Call{Receiver: l, Method: "equals", Args: []ir.Expr{r}}}
	case "<":
		return ir.Call{Receiver: l, Method: "lt", Args: []ir.Expr{r}}
	case "<=":
		return ir.Call{Receiver: l, Method: "le", Args: []ir.Expr{r}}
	case ">":
		return ir.Call{Receiver: l, Method: "gt", Args: []ir.Expr{r}}
	case ">=":
		return ir.Call{Receiver: l, Method: "ge", Args: []ir.Expr{r}}
	}
	lz.sink.Report(errors.UnsupportedConstruct, line, "unsupported comparison operator "+op)
	return ir.Raw{Text: "false"}
}
