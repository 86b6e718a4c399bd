// Package pyast is the input abstract syntax tree: the closed family of
// expression and statement nodes produced by internal/pyparse and
// consumed by internal/lower. Node identity is expressed through the
// classic Accept/Visitor double dispatch, one Visit method per concrete
// kind, so a new lowering rule is a compile-time exhaustiveness
// obligation on the visitor interface rather than a missed type-switch
// case.
package pyast

// Expr is any input expression node.
type Expr interface {
	Accept(v ExprVisitor) interface{}
	Pos() int
}

// ExprVisitor dispatches on concrete expression kind.
type ExprVisitor interface {
	VisitName(*Name) interface{}
	VisitConstant(*Constant) interface{}
	VisitBinOp(*BinOp) interface{}
	VisitUnaryOp(*UnaryOp) interface{}
	VisitBoolOp(*BoolOp) interface{}
	VisitCompare(*Compare) interface{}
	VisitIfExp(*IfExp) interface{}
	VisitCall(*Call) interface{}
	VisitList(*ListExpr) interface{}
	VisitTuple(*TupleExpr) interface{}
	VisitSet(*SetExpr) interface{}
	VisitDict(*DictExpr) interface{}
	VisitStarred(*Starred) interface{}
	VisitSubscript(*Subscript) interface{}
	VisitAttribute(*Attribute) interface{}
	VisitSlice(*Slice) interface{}
	VisitJoinedStr(*JoinedStr) interface{}
	VisitFormattedValue(*FormattedValue) interface{}
}

// ConstKind tags the payload carried by a Constant node.
type ConstKind int

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstString
	ConstBytes
)

// Name is a bare identifier reference.
type Name struct {
	Line  int
	Value string
}

func (n *Name) Pos() int                           { return n.Line }
func (n *Name) Accept(v ExprVisitor) interface{}    { return v.VisitName(n) }

// Constant is a literal: None, a bool, an int, a string, or a bytes
// literal. Exactly one of the Int/Str/Bytes/Bool fields is meaningful,
// selected by Kind.
type Constant struct {
	Line  int
	Kind  ConstKind
	Int   int64
	Str   string
	Bytes []byte
	Bool  bool
}

func (n *Constant) Pos() int                        { return n.Line }
func (n *Constant) Accept(v ExprVisitor) interface{} { return v.VisitConstant(n) }

// BinOp is a binary arithmetic/bitwise operator: +, -, *, /, //, %, **,
// <<, >>, &, |, ^, @.
type BinOp struct {
	Line        int
	Op          string
	Left, Right Expr
}

func (n *BinOp) Pos() int                        { return n.Line }
func (n *BinOp) Accept(v ExprVisitor) interface{} { return v.VisitBinOp(n) }

// UnaryOp is a prefix unary operator: not, -, +, ~.
type UnaryOp struct {
	Line    int
	Op      string
	Operand Expr
}

func (n *UnaryOp) Pos() int                        { return n.Line }
func (n *UnaryOp) Accept(v ExprVisitor) interface{} { return v.VisitUnaryOp(n) }

// BoolOp is a short-circuiting `and`/`or` chain over two or more values.
type BoolOp struct {
	Line   int
	Op     string // "and" or "or"
	Values []Expr
}

func (n *BoolOp) Pos() int                        { return n.Line }
func (n *BoolOp) Accept(v ExprVisitor) interface{} { return v.VisitBoolOp(n) }

// Compare is a (possibly chained) comparison: Left Ops[0] Comparators[0]
// Ops[1] Comparators[1] ...
type Compare struct {
	Line        int
	Left        Expr
	Ops         []string
	Comparators []Expr
}

func (n *Compare) Pos() int                        { return n.Line }
func (n *Compare) Accept(v ExprVisitor) interface{} { return v.VisitCompare(n) }

// IfExp is the conditional expression `Then if Test else Else`.
type IfExp struct {
	Line             int
	Test, Then, Else Expr
}

func (n *IfExp) Pos() int                        { return n.Line }
func (n *IfExp) Accept(v ExprVisitor) interface{} { return v.VisitIfExp(n) }

// Keyword is one `name=value` call argument, or `**value` when Name is
// empty.
type Keyword struct {
	Name  string
	Value Expr
}

// Call is a function/callable invocation. Args may contain *Starred
// elements; Keywords may contain an entry with an empty Name denoting
// **kwargs merging.
type Call struct {
	Line     int
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

func (n *Call) Pos() int                        { return n.Line }
func (n *Call) Accept(v ExprVisitor) interface{} { return v.VisitCall(n) }

// ListExpr is a `[...]` display; Elements may contain *Starred entries.
type ListExpr struct {
	Line     int
	Elements []Expr
}

func (n *ListExpr) Pos() int                        { return n.Line }
func (n *ListExpr) Accept(v ExprVisitor) interface{} { return v.VisitList(n) }

// TupleExpr is a `(...)` or bare comma-separated display.
type TupleExpr struct {
	Line     int
	Elements []Expr
}

func (n *TupleExpr) Pos() int                        { return n.Line }
func (n *TupleExpr) Accept(v ExprVisitor) interface{} { return v.VisitTuple(n) }

// SetExpr is a `{...}` set display.
type SetExpr struct {
	Line     int
	Elements []Expr
}

func (n *SetExpr) Pos() int                        { return n.Line }
func (n *SetExpr) Accept(v ExprVisitor) interface{} { return v.VisitSet(n) }

// DictExpr is a `{k: v, ...}` display. A nil entry in Keys at index i
// denotes `**Values[i]` unpacking.
type DictExpr struct {
	Line   int
	Keys   []Expr // nil element => dict-unpacking at this position
	Values []Expr
}

func (n *DictExpr) Pos() int                        { return n.Line }
func (n *DictExpr) Accept(v ExprVisitor) interface{} { return v.VisitDict(n) }

// Starred is a `*value` element inside a call/collection display.
type Starred struct {
	Line  int
	Value Expr
}

func (n *Starred) Pos() int                        { return n.Line }
func (n *Starred) Accept(v ExprVisitor) interface{} { return v.VisitStarred(n) }

// Subscript is `Value[Index]`; Index may itself be a *Slice.
type Subscript struct {
	Line  int
	Value Expr
	Index Expr
}

func (n *Subscript) Pos() int                        { return n.Line }
func (n *Subscript) Accept(v ExprVisitor) interface{} { return v.VisitSubscript(n) }

// Attribute is `Value.Attr`.
type Attribute struct {
	Line  int
	Value Expr
	Attr  string
}

func (n *Attribute) Pos() int                        { return n.Line }
func (n *Attribute) Accept(v ExprVisitor) interface{} { return v.VisitAttribute(n) }

// Slice is `Lower:Upper:Step`; any component may be nil.
type Slice struct {
	Line                 int
	Lower, Upper, Step Expr
}

func (n *Slice) Pos() int                        { return n.Line }
func (n *Slice) Accept(v ExprVisitor) interface{} { return v.VisitSlice(n) }

// JoinedStr is an f-string: a sequence of *Constant string segments and
// *FormattedValue segments.
type JoinedStr struct {
	Line   int
	Values []Expr
}

func (n *JoinedStr) Pos() int                        { return n.Line }
func (n *JoinedStr) Accept(v ExprVisitor) interface{} { return v.VisitJoinedStr(n) }

// FormattedValue is one `{expr!conv:spec}` segment of an f-string.
// Conversion is "", "s", "r", or "a"; FormatSpec is nil or a *JoinedStr.
type FormattedValue struct {
	Line       int
	Value      Expr
	Conversion string
	FormatSpec Expr
}

func (n *FormattedValue) Pos() int                        { return n.Line }
func (n *FormattedValue) Accept(v ExprVisitor) interface{} { return v.VisitFormattedValue(n) }
