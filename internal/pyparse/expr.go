package pyparse

import (
	"pythonj/internal/pyast"
	"pythonj/internal/pylex"
)

// Precedence levels, lowest to highest, for binary operator parsing.
var binPrec = map[string]int{
	"or": 1,
	"and": 2,
	// comparisons handled specially (chained), level 3
	"|": 4, "^": 5, "&": 6,
	"<<": 7, ">>": 7,
	"+": 8, "-": 8,
	"*": 9, "/": 9, "//": 9, "%": 9, "@": 9,
}

var compareOps = map[string]bool{
	"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true,
}

func (p *Parser) parseExpr() (pyast.Expr, error) { return p.parseTernary() }

// parseTestListAsExpr parses a possibly-bare-tuple expression (a, b, c)
// used for assignment and augmented-assignment statements, for-loop
// iterables, and return values.
func (p *Parser) parseTestListAsExpr() (pyast.Expr, error) {
	line := p.cur().Line
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atOp(",") {
		return first, nil
	}
	elems := []pyast.Expr{first}
	for p.atOp(",") {
		p.advance()
		if p.at(pylex.NEWLINE) || p.at(pylex.EOF) || p.atOp(":") || p.atOp("=") || p.atOp(")") {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return &pyast.TupleExpr{Line: line, Elements: elems}, nil
}

func (p *Parser) parseTernary() (pyast.Expr, error) {
	line := p.cur().Line
	then, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.atKeyword("if") {
		p.advance()
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("else"); err != nil {
			return nil, err
		}
		els, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &pyast.IfExp{Line: line, Test: cond, Then: then, Else: els}, nil
	}
	return then, nil
}

func (p *Parser) parseOr() (pyast.Expr, error) {
	line := p.cur().Line
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("or") {
		return first, nil
	}
	values := []pyast.Expr{first}
	for p.atKeyword("or") {
		p.advance()
		v, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &pyast.BoolOp{Line: line, Op: "or", Values: values}, nil
}

func (p *Parser) parseAnd() (pyast.Expr, error) {
	line := p.cur().Line
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("and") {
		return first, nil
	}
	values := []pyast.Expr{first}
	for p.atKeyword("and") {
		p.advance()
		v, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &pyast.BoolOp{Line: line, Op: "and", Values: values}, nil
}

func (p *Parser) parseNot() (pyast.Expr, error) {
	if p.atKeyword("not") {
		line := p.cur().Line
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &pyast.UnaryOp{Line: line, Op: "not", Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (pyast.Expr, error) {
	line := p.cur().Line
	left, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	var ops []string
	var comparators []pyast.Expr
	for {
		op, ok, err := p.maybeCompareOp()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		right, err := p.parseBinary(1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comparators = append(comparators, right)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &pyast.Compare{Line: line, Left: left, Ops: ops, Comparators: comparators}, nil
}

func (p *Parser) maybeCompareOp() (string, bool, error) {
	if p.at(pylex.OP) && compareOps[p.cur().Text] {
		op := p.advance().Text
		return op, true, nil
	}
	if p.atKeyword("in") {
		p.advance()
		return "in", true, nil
	}
	if p.atKeyword("not") {
		save := p.pos
		p.advance()
		if p.atKeyword("in") {
			p.advance()
			return "not in", true, nil
		}
		p.pos = save
		return "", false, nil
	}
	if p.atKeyword("is") {
		p.advance()
		if p.atKeyword("not") {
			p.advance()
			return "is not", true, nil
		}
		return "is", true, nil
	}
	return "", false, nil
}

// parseBinary implements precedence climbing over binPrec, bottoming out
// at unary expressions.
func (p *Parser) parseBinary(minPrec int) (pyast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, prec, ok := p.peekBinOp()
		if !ok || prec < minPrec {
			return left, nil
		}
		line := p.cur().Line
		p.advance()
		nextMin := prec + 1
		if op == "**" {
			nextMin = prec // right-associative
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		left = &pyast.BinOp{Line: line, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) peekBinOp() (string, int, bool) {
	if p.cur().Kind != pylex.OP {
		return "", 0, false
	}
	text := p.cur().Text
	if text == "**" {
		return text, 10, true
	}
	if prec, ok := binPrec[text]; ok {
		return text, prec, true
	}
	return "", 0, false
}

func (p *Parser) parseUnary() (pyast.Expr, error) {
	if p.at(pylex.OP) && (p.cur().Text == "-" || p.cur().Text == "+" || p.cur().Text == "~") {
		line := p.cur().Line
		op := p.advance().Text
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &pyast.UnaryOp{Line: line, Op: op, Operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower handles `**`'s right-associativity at the top of the unary
// chain (a ** -b), then falls through to postfix.
func (p *Parser) parsePower() (pyast.Expr, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.atOp("**") {
		line := p.cur().Line
		p.advance()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &pyast.BinOp{Line: line, Op: "**", Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *Parser) parsePostfix() (pyast.Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atOp("."):
			line := p.cur().Line
			p.advance()
			name, err := p.expectName()
			if err != nil {
				return nil, err
			}
			e = &pyast.Attribute{Line: line, Value: e, Attr: name}
		case p.atOp("("):
			call, err := p.parseCallArgs(e)
			if err != nil {
				return nil, err
			}
			e = call
		case p.atOp("["):
			sub, err := p.parseSubscript(e)
			if err != nil {
				return nil, err
			}
			e = sub
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseCallArgs(fn pyast.Expr) (pyast.Expr, error) {
	line := p.cur().Line
	p.advance() // "("
	var args []pyast.Expr
	var kws []pyast.Keyword
	for !p.atOp(")") {
		if p.atOp("**") {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			kws = append(kws, pyast.Keyword{Name: "", Value: v})
		} else if p.atOp("*") {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, &pyast.Starred{Line: line, Value: v})
		} else if p.at(pylex.NAME) && p.peekIsAssignOp() {
			name, _ := p.expectName()
			p.advance() // "="
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			kws = append(kws, pyast.Keyword{Name: name, Value: v})
		} else {
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &pyast.Call{Line: line, Func: fn, Args: args, Keywords: kws}, nil
}

func (p *Parser) peekIsAssignOp() bool {
	if p.pos+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.pos+1].Kind == pylex.OP && p.tokens[p.pos+1].Text == "="
}

func (p *Parser) parseSubscript(value pyast.Expr) (pyast.Expr, error) {
	line := p.cur().Line
	p.advance() // "["
	idx, err := p.parseSliceOrExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	return &pyast.Subscript{Line: line, Value: value, Index: idx}, nil
}

func (p *Parser) parseSliceOrExpr() (pyast.Expr, error) {
	line := p.cur().Line
	var lower, upper, step pyast.Expr
	isSlice := false
	if !p.atOp(":") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lower = e
	}
	if p.atOp(":") {
		isSlice = true
		p.advance()
		if !p.atOp(":") && !p.atOp("]") {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			upper = e
		}
		if p.atOp(":") {
			p.advance()
			if !p.atOp("]") {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				step = e
			}
		}
	}
	if !isSlice {
		return lower, nil
	}
	return &pyast.Slice{Line: line, Lower: lower, Upper: upper, Step: step}, nil
}

func (p *Parser) parseAtom() (pyast.Expr, error) {
	t := p.cur()
	switch t.Kind {
	case pylex.INT:
		p.advance()
		return &pyast.Constant{Line: t.Line, Kind: pyast.ConstInt, Int: t.Int}, nil
	case pylex.STRING:
		p.advance()
		lit := &pyast.Constant{Line: t.Line, Kind: pyast.ConstString, Str: t.Text}
		return p.maybeConcatString(lit)
	case pylex.BYTES:
		p.advance()
		return &pyast.Constant{Line: t.Line, Kind: pyast.ConstBytes, Bytes: []byte(t.Text)}, nil
	case pylex.FSTRING:
		p.advance()
		return parseFString(p.path, t.Line, t.Text)
	case pylex.NAME:
		p.advance()
		return &pyast.Name{Line: t.Line, Value: t.Text}, nil
	case pylex.KEYWORD:
		switch t.Text {
		case "True":
			p.advance()
			return &pyast.Constant{Line: t.Line, Kind: pyast.ConstBool, Bool: true}, nil
		case "False":
			p.advance()
			return &pyast.Constant{Line: t.Line, Kind: pyast.ConstBool, Bool: false}, nil
		case "None":
			p.advance()
			return &pyast.Constant{Line: t.Line, Kind: pyast.ConstNone}, nil
		}
		return nil, p.errf("unexpected keyword %q in expression", t.Text)
	case pylex.OP:
		switch t.Text {
		case "(":
			return p.parseParenOrTuple()
		case "[":
			return p.parseListDisplay()
		case "{":
			return p.parseDictOrSetDisplay()
		case "*":
			p.advance()
			v, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			return &pyast.Starred{Line: t.Line, Value: v}, nil
		}
	}
	return nil, p.errf("unexpected token %q", t.Text)
}

// maybeConcatString implements adjacent string-literal concatenation
// ("a" "b" -> "ab"), which the source grammar permits.
func (p *Parser) maybeConcatString(first *pyast.Constant) (pyast.Expr, error) {
	for p.at(pylex.STRING) {
		t := p.advance()
		first.Str += t.Text
	}
	return first, nil
}

func (p *Parser) parseParenOrTuple() (pyast.Expr, error) {
	line := p.cur().Line
	p.advance() // "("
	if p.atOp(")") {
		p.advance()
		return &pyast.TupleExpr{Line: line}, nil
	}
	first, err := p.parseExprOrStarred()
	if err != nil {
		return nil, err
	}
	if !p.atOp(",") {
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return first, nil
	}
	elems := []pyast.Expr{first}
	for p.atOp(",") {
		p.advance()
		if p.atOp(")") {
			break
		}
		e, err := p.parseExprOrStarred()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &pyast.TupleExpr{Line: line, Elements: elems}, nil
}

func (p *Parser) parseExprOrStarred() (pyast.Expr, error) {
	if p.atOp("*") {
		line := p.cur().Line
		p.advance()
		v, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		return &pyast.Starred{Line: line, Value: v}, nil
	}
	return p.parseExpr()
}

func (p *Parser) parseListDisplay() (pyast.Expr, error) {
	line := p.cur().Line
	p.advance() // "["
	var elems []pyast.Expr
	for !p.atOp("]") {
		e, err := p.parseExprOrStarred()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	return &pyast.ListExpr{Line: line, Elements: elems}, nil
}

func (p *Parser) parseDictOrSetDisplay() (pyast.Expr, error) {
	line := p.cur().Line
	p.advance() // "{"
	if p.atOp("}") {
		p.advance()
		return &pyast.DictExpr{Line: line}, nil
	}
	if p.atOp("**") {
		return p.parseDictBody(line, nil, nil)
	}
	first, err := p.parseExprOrStarred()
	if err != nil {
		return nil, err
	}
	if p.atOp(":") {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return p.parseDictBody(line, []pyast.Expr{first}, []pyast.Expr{val})
	}
	elems := []pyast.Expr{first}
	for p.atOp(",") {
		p.advance()
		if p.atOp("}") {
			break
		}
		e, err := p.parseExprOrStarred()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if err := p.expectOp("}"); err != nil {
		return nil, err
	}
	return &pyast.SetExpr{Line: line, Elements: elems}, nil
}

func (p *Parser) parseDictBody(line int, keys, values []pyast.Expr) (pyast.Expr, error) {
	for {
		if p.atOp(",") {
			p.advance()
		}
		if p.atOp("}") {
			break
		}
		if p.atOp("**") {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			keys = append(keys, nil)
			values = append(values, v)
			continue
		}
		k, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(":"); err != nil {
			return nil, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		values = append(values, v)
	}
	if err := p.expectOp("}"); err != nil {
		return nil, err
	}
	return &pyast.DictExpr{Line: line, Keys: keys, Values: values}, nil
}
