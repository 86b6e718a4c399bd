package pyast

// Stmt is any input statement node.
type Stmt interface {
	Accept(v StmtVisitor) interface{}
	Pos() int
}

// StmtVisitor dispatches on concrete statement kind.
type StmtVisitor interface {
	VisitModule(*Module) interface{}
	VisitFunctionDef(*FunctionDef) interface{}
	VisitIf(*If) interface{}
	VisitWhile(*While) interface{}
	VisitFor(*For) interface{}
	VisitAssign(*Assign) interface{}
	VisitAugAssign(*AugAssign) interface{}
	VisitAssert(*Assert) interface{}
	VisitDelete(*Delete) interface{}
	VisitReturn(*Return) interface{}
	VisitPass(*Pass) interface{}
	VisitGlobal(*Global) interface{}
	VisitBreak(*Break) interface{}
	VisitContinue(*Continue) interface{}
	VisitExprStmt(*ExprStmt) interface{}
	VisitWith(*With) interface{}
	VisitTry(*Try) interface{}
	VisitRaise(*Raise) interface{}
}

// Module is the top-level translation unit: a flat list of statements.
type Module struct {
	Body []Stmt
}

func (n *Module) Pos() int                        { return 0 }
func (n *Module) Accept(v StmtVisitor) interface{} { return v.VisitModule(n) }

// FunctionDef is a `def name(args): body`. Only plain positional
// parameters with no defaults/*args/**kwargs/annotations, undecorated,
// and at module scope are supported (§4.3.4); the richer forms below
// parse successfully so the lowering visitor can diagnose them by name
// rather than failing at the syntax level.
type FunctionDef struct {
	Line        int
	Name        string
	Args        []string
	Body        []Stmt
	Nested      bool     // true when this def appears inside another function's body
	Decorators  []Expr   // non-empty => decorators present (unsupported)
	Defaults    []Expr   // non-empty => default arguments present (unsupported)
	VarArg      string   // non-empty => *args present (unsupported)
	KwArg       string   // non-empty => **kwargs present (unsupported)
	KwOnlyArgs  []string // non-empty => keyword-only args present (unsupported)
	Annotated   bool     // true => a parameter or return annotation present (unsupported)
}

func (n *FunctionDef) Pos() int                        { return n.Line }
func (n *FunctionDef) Accept(v StmtVisitor) interface{} { return v.VisitFunctionDef(n) }

// If is `if Test: Body else: Orelse`. Orelse is nil when there is no else
// clause (an elif chain is represented as a single-statement Orelse
// containing a nested *If).
type If struct {
	Line          int
	Test          Expr
	Body, Orelse  []Stmt
}

func (n *If) Pos() int                        { return n.Line }
func (n *If) Accept(v StmtVisitor) interface{} { return v.VisitIf(n) }

// While is `while Test: Body else: Orelse`.
type While struct {
	Line         int
	Test         Expr
	Body, Orelse []Stmt
}

func (n *While) Pos() int                        { return n.Line }
func (n *While) Accept(v StmtVisitor) interface{} { return v.VisitWhile(n) }

// For is `for Target in Iter: Body else: Orelse`.
type For struct {
	Line         int
	Target       Expr
	Iter         Expr
	Body, Orelse []Stmt
}

func (n *For) Pos() int                        { return n.Line }
func (n *For) Accept(v StmtVisitor) interface{} { return v.VisitFor(n) }

// Assign is `Targets[0] = Targets[1] = ... = Value`. Exactly one target
// is supported (§4.3.3); more than one is diagnosed by the lowering
// visitor, not rejected by the parser, so that translation can continue.
type Assign struct {
	Line    int
	Targets []Expr
	Value   Expr
}

func (n *Assign) Pos() int                        { return n.Line }
func (n *Assign) Accept(v StmtVisitor) interface{} { return v.VisitAssign(n) }

// AugAssign is `Target Op= Value`, Op being the bare operator ("+", "-",
// ...).
type AugAssign struct {
	Line   int
	Target Expr
	Op     string
	Value  Expr
}

func (n *AugAssign) Pos() int                        { return n.Line }
func (n *AugAssign) Accept(v StmtVisitor) interface{} { return v.VisitAugAssign(n) }

// Assert is `assert Test[, Msg]`.
type Assert struct {
	Line int
	Test Expr
	Msg  Expr // nil when absent
}

func (n *Assert) Pos() int                        { return n.Line }
func (n *Assert) Accept(v StmtVisitor) interface{} { return v.VisitAssert(n) }

// Delete is `del Targets[0], Targets[1], ...`.
type Delete struct {
	Line    int
	Targets []Expr
}

func (n *Delete) Pos() int                        { return n.Line }
func (n *Delete) Accept(v StmtVisitor) interface{} { return v.VisitDelete(n) }

// Return is `return [Value]`.
type Return struct {
	Line  int
	Value Expr // nil when bare `return`
}

func (n *Return) Pos() int                        { return n.Line }
func (n *Return) Accept(v StmtVisitor) interface{} { return v.VisitReturn(n) }

// Pass is `pass`.
type Pass struct{ Line int }

func (n *Pass) Pos() int                        { return n.Line }
func (n *Pass) Accept(v StmtVisitor) interface{} { return v.VisitPass(n) }

// Global is `global Names...`.
type Global struct {
	Line  int
	Names []string
}

func (n *Global) Pos() int                        { return n.Line }
func (n *Global) Accept(v StmtVisitor) interface{} { return v.VisitGlobal(n) }

// Break is `break`.
type Break struct{ Line int }

func (n *Break) Pos() int                        { return n.Line }
func (n *Break) Accept(v StmtVisitor) interface{} { return v.VisitBreak(n) }

// Continue is `continue`.
type Continue struct{ Line int }

func (n *Continue) Pos() int                        { return n.Line }
func (n *Continue) Accept(v StmtVisitor) interface{} { return v.VisitContinue(n) }

// ExprStmt is an expression used in statement position.
type ExprStmt struct {
	Line  int
	Value Expr
}

func (n *ExprStmt) Pos() int                        { return n.Line }
func (n *ExprStmt) Accept(v StmtVisitor) interface{} { return v.VisitExprStmt(n) }

// With is `with ContextExpr [as OptionalVars]: Body`. Only a single
// context-manager item is represented (§4.3.3: "exactly one item
// supported").
type With struct {
	Line         int
	ContextExpr  Expr
	OptionalVars Expr // nil when there is no `as` clause
	Body         []Stmt
	ExtraItems   int // count of additional comma-separated items (unsupported when > 0)
}

func (n *With) Pos() int                        { return n.Line }
func (n *With) Accept(v StmtVisitor) interface{} { return v.VisitWith(n) }

// Try is `try: Body except [ExcType [as ExcName]]: Handler finally:
// Finally`. At most one handler is represented, matching the target
// grammar (§4.3.3).
type Try struct {
	Line           int
	Body           []Stmt
	HasHandler     bool
	ExcType        Expr // nil when the handler has no type (bare except)
	ExcName        string
	Handler        []Stmt
	HasFinally     bool
	Finally        []Stmt
	ExtraHandlers  int  // count of additional except clauses (unsupported when > 0)
	HasElse        bool // try/else clause present (unsupported)
}

func (n *Try) Pos() int                        { return n.Line }
func (n *Try) Accept(v StmtVisitor) interface{} { return v.VisitTry(n) }

// Raise is `raise [Exc [from Cause]]`. A bare `raise` (re-raise) has a
// nil Exc.
type Raise struct {
	Line  int
	Exc   Expr
	Cause Expr // nil unless `from` is present
}

func (n *Raise) Pos() int                        { return n.Line }
func (n *Raise) Accept(v StmtVisitor) interface{} { return v.VisitRaise(n) }
