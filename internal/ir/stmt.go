package ir

import "fmt"

// Stmt is any IR statement node. Lines renders the statement as target
// source lines with no leading indentation — the emitter tracks
// indentation itself by counting braces as it writes each line.
type Stmt interface {
	Lines() []string
	EndsControlFlow() bool
}

// SimplifyBlock truncates a statement list after the first statement that
// unconditionally ends control flow. It is applied by every compound-
// statement constructor below, so dead tails never survive construction.
func SimplifyBlock(stmts []Stmt) []Stmt {
	for i, s := range stmts {
		if s.EndsControlFlow() {
			return stmts[:i+1]
		}
	}
	return stmts
}

func blockEndsControlFlow(stmts []Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	return stmts[len(stmts)-1].EndsControlFlow()
}

// RenderBlock renders a statement list as target source lines, with no
// leading indentation (the emitter tracks indentation by brace counting).
func RenderBlock(stmts []Stmt) []string { return blockLines(stmts) }

func blockLines(stmts []Stmt) []string {
	var out []string
	for _, s := range stmts {
		out = append(out, s.Lines()...)
	}
	return out
}

// VarDecl declares a local of the given target type, with an optional
// initializer.
type VarDecl struct {
	Type string
	Name string
	Init Expr // nil for an uninitialized declaration
}

func (s VarDecl) Lines() []string {
	if s.Init == nil {
		return []string{fmt.Sprintf("%s %s;", s.Type, s.Name)}
	}
	return []string{fmt.Sprintf("%s %s = %s;", s.Type, s.Name, s.Init.Render())}
}
func (s VarDecl) EndsControlFlow() bool { return false }

// Assign is a plain assignment statement, target = value.
type Assign struct {
	Target, Value Expr
}

func (s Assign) Lines() []string {
	return []string{fmt.Sprintf("%s = %s;", s.Target.Render(), s.Value.Render())}
}
func (s Assign) EndsControlFlow() bool { return false }

// ExprStmt is an expression used in statement position — restricted by
// the target grammar to a constructor or method call.
type ExprStmt struct{ Value Expr }

func (s ExprStmt) Lines() []string       { return []string{s.Value.Render() + ";"} }
func (s ExprStmt) EndsControlFlow() bool { return false }

// Break is break, or break <label> when Label is non-empty.
type Break struct{ Label string }

func (s Break) Lines() []string {
	if s.Label == "" {
		return []string{"break;"}
	}
	return []string{"break " + s.Label + ";"}
}
func (s Break) EndsControlFlow() bool { return true }

// Continue is a plain continue statement.
type Continue struct{}

func (s Continue) Lines() []string       { return []string{"continue;"} }
func (s Continue) EndsControlFlow() bool { return true }

// Return returns Value, or renders a bare `return;` when Value is nil.
type Return struct{ Value Expr }

func (s Return) Lines() []string {
	if s.Value == nil {
		return []string{"return;"}
	}
	return []string{"return " + s.Value.Render() + ";"}
}
func (s Return) EndsControlFlow() bool { return true }

// Throw throws Value.
type Throw struct{ Value Expr }

func (s Throw) Lines() []string       { return []string{"throw " + s.Value.Render() + ";"} }
func (s Throw) EndsControlFlow() bool { return true }

// IfElse is an if/else compound statement. Construct it with NewIf, which
// applies the constant-condition peephole and block simplification;
// IfElse itself assumes its arms are already simplified.
type IfElse struct {
	Cond       Expr
	Then, Else []Stmt // Else may be nil/empty (no else clause)
}

func (s IfElse) Lines() []string {
	out := []string{"if (" + s.Cond.Render() + ") {"}
	out = append(out, blockLines(s.Then)...)
	if len(s.Else) == 0 {
		out = append(out, "}")
		return out
	}
	out = append(out, "} else {")
	out = append(out, blockLines(s.Else)...)
	out = append(out, "}")
	return out
}

func (s IfElse) EndsControlFlow() bool {
	return len(s.Else) > 0 && blockEndsControlFlow(s.Then) && blockEndsControlFlow(s.Else)
}

// NewIf builds the statements for `if cond: then else: els`, applying the
// constant-condition peephole (§4.2): a literal-true condition inlines
// then, a literal-false condition inlines els, otherwise an IfElse node is
// emitted. Block simplification is applied to both arms first.
func NewIf(cond Expr, then, els []Stmt) []Stmt {
	then = SimplifyBlock(then)
	els = SimplifyBlock(els)
	if b, ok := asBoolLiteral(cond); ok {
		if b {
			return then
		}
		return els
	}
	return []Stmt{IfElse{Cond: cond, Then: then, Else: els}}
}

// While is a while loop.
type While struct {
	Cond Expr
	Body []Stmt
}

func (s While) Lines() []string {
	out := []string{"while (" + s.Cond.Render() + ") {"}
	out = append(out, blockLines(s.Body)...)
	out = append(out, "}")
	return out
}
func (s While) EndsControlFlow() bool { return false }

// NewWhile builds the statements for a while loop, applying the
// constant-false-condition peephole (§4.2): emits nothing when cond is
// the literal false.
func NewWhile(cond Expr, body []Stmt) []Stmt {
	body = SimplifyBlock(body)
	if b, ok := asBoolLiteral(cond); ok && !b {
		return nil
	}
	return []Stmt{While{Cond: cond, Body: body}}
}

// ForCounted is the target's counted for-loop: a single init
// declaration, a condition, and a single incrementing assignment.
type ForCounted struct {
	InitType  string
	InitName  string
	InitValue Expr
	Cond      Expr
	IncrName  string
	IncrValue Expr
	Body      []Stmt
}

func (s ForCounted) Lines() []string {
	header := fmt.Sprintf("for (%s %s = %s; %s; %s = %s) {",
		s.InitType, s.InitName, s.InitValue.Render(),
		s.Cond.Render(), s.IncrName, s.IncrValue.Render())
	out := []string{header}
	out = append(out, blockLines(SimplifyBlock(s.Body))...)
	out = append(out, "}")
	return out
}
func (s ForCounted) EndsControlFlow() bool { return false }

// TryCatchFinally is a try/catch/finally compound statement. At most one
// catch clause is supported, matching the target grammar this emitter
// targets; ExcType/ExcName are both empty when there is no catch clause.
type TryCatchFinally struct {
	Try        []Stmt
	ExcType    string // empty when no catch clause
	ExcName    string // empty when the catch clause binds no name
	Catch      []Stmt
	HasCatch   bool
	Finally    []Stmt
	HasFinally bool
}

func (s TryCatchFinally) Lines() []string {
	out := []string{"try {"}
	out = append(out, blockLines(s.Try)...)
	if s.HasCatch {
		header := "} catch ("
		if s.ExcType != "" {
			header += s.ExcType
		} else {
			header += "RuntimeException"
		}
		if s.ExcName != "" {
			header += " " + s.ExcName
		} else {
			header += " ignored"
		}
		header += ") {"
		out = append(out, header)
		out = append(out, blockLines(s.Catch)...)
	}
	if s.HasFinally {
		out = append(out, "} finally {")
		out = append(out, blockLines(s.Finally)...)
	}
	out = append(out, "}")
	return out
}

func (s TryCatchFinally) EndsControlFlow() bool {
	if s.HasFinally && blockEndsControlFlow(s.Finally) {
		return true
	}
	if s.HasCatch && blockEndsControlFlow(s.Try) && blockEndsControlFlow(s.Catch) {
		return true
	}
	return false
}

// NewTry applies block simplification to each clause before constructing
// the node.
func NewTry(body []Stmt, excType, excName string, hasCatch bool, catch []Stmt, hasFinally bool, fin []Stmt) Stmt {
	return TryCatchFinally{
		Try:        SimplifyBlock(body),
		ExcType:    excType,
		ExcName:    excName,
		HasCatch:   hasCatch,
		Catch:      SimplifyBlock(catch),
		HasFinally: hasFinally,
		Finally:    SimplifyBlock(fin),
	}
}

// LabeledBlock is a target-side labeled block, used to give `break` an
// explicit target past a loop's `else` clause.
type LabeledBlock struct {
	Label string
	Body  []Stmt
}

func (s LabeledBlock) Lines() []string {
	out := []string{s.Label + ": {"}
	out = append(out, blockLines(SimplifyBlock(s.Body))...)
	out = append(out, "}")
	return out
}
func (s LabeledBlock) EndsControlFlow() bool { return false }
