package pyparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pythonj/internal/pyast"
)

func mustParse(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := Parse("test.py", []byte(src))
	require.NoError(t, err)
	return mod
}

func TestParseSimpleAssignment(t *testing.T) {
	mod := mustParse(t, "x = 1 + 2\n")
	require.Len(t, mod.Body, 1)
	assign, ok := mod.Body[0].(*pyast.Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)
	name, ok := assign.Targets[0].(*pyast.Name)
	require.True(t, ok)
	assert.Equal(t, "x", name.Value)
	bin, ok := assign.Value.(*pyast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseIfElifElse(t *testing.T) {
	src := "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n"
	mod := mustParse(t, src)
	require.Len(t, mod.Body, 1)
	ifStmt, ok := mod.Body[0].(*pyast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Orelse, 1)
	elif, ok := ifStmt.Orelse[0].(*pyast.If)
	require.True(t, ok)
	require.Len(t, elif.Orelse, 1)
}

func TestParseFunctionDefWithDefaultFlagsUnsupportedForm(t *testing.T) {
	mod := mustParse(t, "def f(x, y=1):\n    return x\n")
	require.Len(t, mod.Body, 1)
	fn, ok := mod.Body[0].(*pyast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	assert.Equal(t, []string{"x", "y"}, fn.Args)
	assert.Len(t, fn.Defaults, 1)
}

func TestParseChainedComparison(t *testing.T) {
	mod := mustParse(t, "x = a < b < c\n")
	assign := mod.Body[0].(*pyast.Assign)
	cmp, ok := assign.Value.(*pyast.Compare)
	require.True(t, ok)
	assert.Equal(t, []string{"<", "<"}, cmp.Ops)
	assert.Len(t, cmp.Comparators, 2)
}

func TestParseFString(t *testing.T) {
	mod := mustParse(t, `x = f"hello {name!r:>10}"` + "\n")
	assign := mod.Body[0].(*pyast.Assign)
	js, ok := assign.Value.(*pyast.JoinedStr)
	require.True(t, ok)
	require.Len(t, js.Values, 2)
	_, ok = js.Values[0].(*pyast.Constant)
	require.True(t, ok)
	fv, ok := js.Values[1].(*pyast.FormattedValue)
	require.True(t, ok)
	assert.Equal(t, "r", fv.Conversion)
	require.NotNil(t, fv.FormatSpec)
}

func TestParseForWithElse(t *testing.T) {
	src := "for x in y:\n    pass\nelse:\n    z = 1\n"
	mod := mustParse(t, src)
	forStmt, ok := mod.Body[0].(*pyast.For)
	require.True(t, ok)
	require.Len(t, forStmt.Orelse, 1)
}

func TestParseTryExceptFinally(t *testing.T) {
	src := "try:\n    x = 1\nexcept ValueError as e:\n    x = 2\nfinally:\n    x = 3\n"
	mod := mustParse(t, src)
	tryStmt, ok := mod.Body[0].(*pyast.Try)
	require.True(t, ok)
	assert.True(t, tryStmt.HasHandler)
	assert.Equal(t, "e", tryStmt.ExcName)
	assert.True(t, tryStmt.HasFinally)
}

func TestParseStarredCallArg(t *testing.T) {
	mod := mustParse(t, "f(*args, **kwargs)\n")
	exprStmt := mod.Body[0].(*pyast.ExprStmt)
	call := exprStmt.Value.(*pyast.Call)
	require.Len(t, call.Args, 1)
	_, ok := call.Args[0].(*pyast.Starred)
	require.True(t, ok)
	require.Len(t, call.Keywords, 1)
	assert.Equal(t, "", call.Keywords[0].Name)
}
