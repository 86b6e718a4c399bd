// Package lower implements the Lowering Visitor: the pass that turns a
// internal/pyast tree into internal/ir nodes, making the value-model
// decisions (boxing, scope resolution, exception mapping, star/kwargs
// expansion) the target runtime's calling convention demands.
//
// Translation state — current statement list, active name set, explicit
// globals, temp counter, break label, in-function flag — is held on the
// Lowerer itself rather than threaded as a separate context value,
// mirroring the teacher's own compiler.Compiler; function bodies save
// and restore that state around a fresh local scope, in lockstep, per
// the data-model invariant that `names`/`code` always refer to either
// the global or the current function-local pair.
package lower

import (
	"sort"

	"pythonj/internal/builtins"
	"pythonj/internal/constpool"
	"pythonj/internal/errors"
	"pythonj/internal/ir"
	"pythonj/internal/pyast"
)

// FuncUnit is one lowered user function, ready for the emitter.
type FuncUnit struct {
	Name  string
	Lines []string
}

// Lowerer walks a *pyast.Module and produces the IR for its module body
// plus one FuncUnit per user-defined function.
type Lowerer struct {
	sink *errors.Sink
	pool *constpool.Pool
	path string

	tmp int

	globalNames map[string]bool

	inFunction      bool
	localNames      map[string]bool
	explicitGlobals map[string]bool
	breakLabel      string
	usedDiscard     bool
	labelCounter    int
	intrinsics      bool

	functions map[string]*FuncUnit
	funcOrder []string

	// currentExcTemp names the raw caught-exception temp while lowering
	// an except handler's body, so a bare `raise` inside it can re-throw
	// the same value. Empty outside a handler.
	currentExcTemp string

	// pending accumulates statements synthesized as a side effect of
	// lowering an expression (temp declarations, star-expansion
	// ArrayList building). lowerExprWithStmts isolates it per top-level
	// expression so statement visitors can sequence the result in
	// source order.
	pending []ir.Stmt
}

// emit appends a statement to the innermost pending buffer — how
// expression lowering (comparison temps, star-expansion) introduces
// statements into the enclosing block without a mutable "current
// block" field.
func (lz *Lowerer) emit(s ir.Stmt) { lz.pending = append(lz.pending, s) }

// lowerExprWithStmts lowers one top-level expression and returns any
// statements synthesized alongside it, isolated from whatever pending
// buffer the caller already had active.
func (lz *Lowerer) lowerExprWithStmts(e pyast.Expr) (ir.Expr, []ir.Stmt) {
	saved := lz.pending
	lz.pending = nil
	v := lz.lowerExpr(e)
	pre := lz.pending
	lz.pending = saved
	return v, pre
}

// New returns a Lowerer reporting diagnostics to sink and pooling
// constants into pool.
func New(path string, sink *errors.Sink, pool *constpool.Pool) *Lowerer {
	return &Lowerer{
		sink:        sink,
		pool:        pool,
		path:        path,
		globalNames: make(map[string]bool),
		functions:   make(map[string]*FuncUnit),
		intrinsics:  true,
	}
}

// Result is the lowered output of one translation unit.
type Result struct {
	GlobalCode  []ir.Stmt
	GlobalNames []string // sorted module-scope names
	Functions   []FuncUnit
	UsedDiscard bool
}

// LowerModule is the public entry point: visit_module walks top-level
// statements in order, appending to global_code.
func (lz *Lowerer) LowerModule(mod *pyast.Module) Result {
	code := lz.lowerBlock(mod.Body)
	names := make([]string, 0, len(lz.globalNames))
	for n := range lz.globalNames {
		names = append(names, n)
	}
	sort.Strings(names)
	order := append([]string(nil), lz.funcOrder...)
	sort.Strings(order)
	funcs := make([]FuncUnit, 0, len(order))
	for _, n := range order {
		funcs = append(funcs, *lz.functions[n])
	}
	return Result{GlobalCode: code, GlobalNames: names, Functions: funcs, UsedDiscard: lz.usedDiscard}
}

// curNames returns the active scope's assigned-name set (module-scope
// global_names, or the current function's locals).
func (lz *Lowerer) curNames() map[string]bool {
	if lz.inFunction {
		return lz.localNames
	}
	return lz.globalNames
}

func (lz *Lowerer) newTemp() string {
	name := tempName(lz.tmp)
	lz.tmp++
	return name
}

func tempName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < 26 {
		return "t" + string(letters[i])
	}
	return "t" + string(letters[i%26]) + itoa(i/26)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf []byte
	for i > 0 {
		buf = append([]byte{byte('0' + i%10)}, buf...)
		i /= 10
	}
	return string(buf)
}

func (lz *Lowerer) newLabel() string {
	lz.labelCounter++
	return "loop_label_" + itoa(lz.labelCounter)
}

// identExpr implements §4.3.1's identifier-resolution algorithm.
func (lz *Lowerer) identExpr(name string, intrinsicsHere bool) ir.Expr {
	if intrinsicsHere && name == "__pythonj_null__" {
		return ir.Null
	}
	if builtins.Is(name) {
		return ir.Ident{Name: builtins.GlobalRef(name)}
	}
	if lz.inFunction && !lz.globalNames[name] && !lz.explicitGlobals[name] {
		return ir.Ident{Name: "pylocal_" + name}
	}
	return ir.Ident{Name: "pyglobal_" + name}
}

func placeholderExpr() ir.Expr { return ir.Ident{Name: "__cannot_translate_expr__"} }
func placeholderConst() ir.Expr { return ir.Ident{Name: "__cannot_translate_constant__"} }

// lowerExpr visits one expression node.
func (lz *Lowerer) lowerExpr(e pyast.Expr) ir.Expr {
	if e == nil {
		return ir.Null
	}
	result := e.Accept(lz)
	if result == nil {
		return placeholderExpr()
	}
	return result.(ir.Expr)
}

// lowerBlock lowers a list of input statements into a simplified IR
// block, the scoped-swap-free equivalent of pushing a fresh statement
// list and restoring it on exit: the caller owns the resulting slice
// rather than a mutable "current block" field.
func (lz *Lowerer) lowerBlock(stmts []pyast.Stmt) []ir.Stmt {
	var out []ir.Stmt
	for _, s := range stmts {
		out = append(out, lz.lowerStmt(s)...)
	}
	return ir.SimplifyBlock(out)
}

func (lz *Lowerer) lowerStmt(s pyast.Stmt) []ir.Stmt {
	result := s.Accept(lz)
	if result == nil {
		return nil
	}
	return result.([]ir.Stmt)
}
