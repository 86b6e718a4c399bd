package lower

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pythonj/internal/constpool"
	"pythonj/internal/errors"
	"pythonj/internal/ir"
	"pythonj/internal/pyparse"
)

func lowerSrc(t *testing.T, src string) (Result, *errors.Sink) {
	t.Helper()
	mod, err := pyparse.Parse("test.py", []byte(src))
	require.NoError(t, err)
	sink := errors.NewSink("test.py")
	pool := constpool.New()
	lz := New("test.py", sink, pool)
	return lz.LowerModule(mod), sink
}

func renderLines(stmts []ir.Stmt) string {
	return strings.Join(ir.RenderBlock(stmts), "\n")
}

func TestLowerModuleAssignsGlobalSlot(t *testing.T) {
	res, sink := lowerSrc(t, "x = 1\n")
	assert.Equal(t, 0, sink.Count())
	require.Equal(t, []string{"x"}, res.GlobalNames)
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "pyglobal_x =")
}

func TestLowerBuiltinNameResolvesToRuntimeSlot(t *testing.T) {
	res, sink := lowerSrc(t, "x = len\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "Runtime.pyglobal_len")
}

func TestLowerChainedComparisonCachesMiddleTemp(t *testing.T) {
	res, sink := lowerSrc(t, "x = a < b < c\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	// The middle operand is bound to a temp (ta) so each pairwise
	// comparison can reuse it rather than re-evaluating b.
	assert.Contains(t, lines, "PyObject ta;")
	assert.Contains(t, lines, "ta = pyglobal_b")
}

func TestLowerStarExpansionInListUsesRuntimeHelper(t *testing.T) {
	res, sink := lowerSrc(t, "x = [1, *rest, 2]\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "Runtime.addStarToArrayList")
	assert.Contains(t, lines, "Runtime.arrayListToArray")
}

func TestLowerPlainListSkipsRuntimeHelper(t *testing.T) {
	res, sink := lowerSrc(t, "x = [1, 2, 3]\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.NotContains(t, lines, "Runtime.addStarToArrayList")
	assert.Contains(t, lines, "new PyList(new PyObject[]")
}

func TestLowerForLoopUsesIteratorProtocol(t *testing.T) {
	res, sink := lowerSrc(t, "for x in y:\n    pass\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, ".iter()")
	assert.Contains(t, lines, ".next()")
}

func TestLowerForElseUsesLabeledBreak(t *testing.T) {
	res, sink := lowerSrc(t, "for x in y:\n    if x:\n        break\nelse:\n    z = 1\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "loop_label_1:")
	assert.Contains(t, lines, "break loop_label_1;")
}

func TestLowerPlainBreakHasNoLabel(t *testing.T) {
	res, sink := lowerSrc(t, "for x in y:\n    break\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "break;")
	assert.NotContains(t, lines, "break loop_label")
}

func TestLowerNestedLoopBreakDoesNotInheritOuterLabel(t *testing.T) {
	src := "for x in y:\n    for z in w:\n        break\nelse:\n    q = 1\n"
	res, sink := lowerSrc(t, src)
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	// The inner for has no else, so its break must stay unlabeled even
	// though the outer for (with an else clause) installs a label.
	assert.Contains(t, lines, "loop_label_1:")
	assert.Contains(t, lines, "break;")
	assert.NotContains(t, lines, "break loop_label_1;")
}

func TestLowerWithStatementUsesEnterExitProtocol(t *testing.T) {
	res, sink := lowerSrc(t, "with ctx as f:\n    x = 1\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, ".enter()")
	assert.Contains(t, lines, ".exit()")
	assert.Contains(t, lines, "finally")
}

func TestLowerTryExceptBindsExcFieldUnconditionally(t *testing.T) {
	res, sink := lowerSrc(t, "try:\n    x = 1\nexcept BaseException as e:\n    x = 2\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "catch (PyRaise")
	assert.Contains(t, lines, ".exc")
	assert.NotContains(t, lines, "Runtime.matchesException")
}

func TestLowerTryExceptOmittedTypeCatchesUnconditionally(t *testing.T) {
	res, sink := lowerSrc(t, "try:\n    x = 1\nexcept:\n    x = 2\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "catch (PyRaise")
	assert.NotContains(t, lines, "Runtime.matchesException")
}

func TestLowerTryExceptOtherTypeIsUnsupported(t *testing.T) {
	_, sink := lowerSrc(t, "try:\n    x = 1\nexcept ValueError as e:\n    x = 2\n")
	require.Equal(t, 1, sink.Count())
	assert.Equal(t, errors.UnsupportedConstruct, sink.Diagnostics()[0].Kind)
}

func TestLowerBareRaiseRethrowsCaughtValue(t *testing.T) {
	src := "try:\n    x = 1\nexcept BaseException as e:\n    raise\n"
	res, sink := lowerSrc(t, src)
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	// The re-raise throws the raw caught temp, not a freshly constructed
	// PyRaise, distinguishing it from a `raise Exc` statement.
	assert.NotContains(t, lines, "raise outside")
	assert.GreaterOrEqual(t, strings.Count(lines, "throw"), 2)
}

func TestLowerBareRaiseOutsideHandlerReportsDiagnostic(t *testing.T) {
	_, sink := lowerSrc(t, "raise\n")
	assert.Equal(t, 1, sink.Count())
	assert.Equal(t, errors.UnsupportedStatementForm, sink.Diagnostics()[0].Kind)
}

func TestLowerRaiseFromBuildsCausedPyRaise(t *testing.T) {
	res, sink := lowerSrc(t, "raise ValueError() from cause\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "new PyRaise(")
}

func TestLowerFunctionDefRegistersGlobalInitializerAndFunc(t *testing.T) {
	res, sink := lowerSrc(t, "def f(x, y):\n    return x\n")
	require.Equal(t, 0, sink.Count())
	require.Len(t, res.Functions, 1)
	assert.Equal(t, "f", res.Functions[0].Name)
	funcLines := strings.Join(res.Functions[0].Lines, "\n")
	assert.Contains(t, funcLines, "private static final class pyfunc_f extends PyUserFunction")
	assert.Contains(t, funcLines, "args.length")
	assert.Contains(t, funcLines, "Runtime.raiseUserExactArgs")

	globalLines := renderLines(res.GlobalCode)
	assert.Contains(t, globalLines, "pyglobal_f = new pyfunc_f();")
}

func TestLowerFunctionImplicitReturnIsPyNone(t *testing.T) {
	res, sink := lowerSrc(t, "def f():\n    x = 1\n")
	require.Equal(t, 0, sink.Count())
	require.Len(t, res.Functions, 1)
	funcLines := strings.Join(res.Functions[0].Lines, "\n")
	assert.Contains(t, funcLines, "return PyNone.singleton;")
}

func TestLowerFunctionWithDefaultIsUnsupported(t *testing.T) {
	_, sink := lowerSrc(t, "def f(x=1):\n    return x\n")
	require.Equal(t, 1, sink.Count())
	assert.Equal(t, errors.UnsupportedStatementForm, sink.Diagnostics()[0].Kind)
}

func TestLowerGlobalDeclarationAvoidsLocalSlot(t *testing.T) {
	src := "def f():\n    global counter\n    counter = 1\n"
	res, sink := lowerSrc(t, src)
	require.Equal(t, 0, sink.Count())
	require.Len(t, res.Functions, 1)
	funcLines := strings.Join(res.Functions[0].Lines, "\n")
	assert.Contains(t, funcLines, "pyglobal_counter")
	assert.NotContains(t, funcLines, "pylocal_counter")
}

func TestLowerAugAssignToSubscriptCachesReceiverAndIndex(t *testing.T) {
	res, sink := lowerSrc(t, "a[b] += 1\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "getItem")
	assert.Contains(t, lines, "setItem")
	assert.Contains(t, lines, "addInPlace")
}

func TestLowerTupleTargetUnpacksViaIterator(t *testing.T) {
	res, sink := lowerSrc(t, "a, b = pair\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "Runtime.nextRequireNonNull")
	assert.Contains(t, lines, "Runtime.nextRequireNull")
}

func TestLowerDeleteSubscriptEmitsDelItem(t *testing.T) {
	res, sink := lowerSrc(t, "del a[0]\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "delItem")
}

func TestLowerExprStmtBareValueUsesDiscard(t *testing.T) {
	res, sink := lowerSrc(t, "1 + 2\n")
	require.Equal(t, 0, sink.Count())
	assert.True(t, res.UsedDiscard)
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "expr_discard =")
}

func TestLowerExprStmtCallDoesNotUseDiscard(t *testing.T) {
	res, sink := lowerSrc(t, "print(1)\n")
	require.Equal(t, 0, sink.Count())
	assert.False(t, res.UsedDiscard)
}

func TestLowerAssertWithoutMessageRaisesWithLocationPrefix(t *testing.T) {
	res, sink := lowerSrc(t, "assert x\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "PyAssertionError.raise(")
	assert.Contains(t, lines, "test.py:1: assertion failure")
}

func TestLowerAssertWithMessageAppendsReprAfterPrefix(t *testing.T) {
	res, sink := lowerSrc(t, "assert x, 'bad value'\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "PyAssertionError.raise(")
	assert.Contains(t, lines, `"test.py:1: assertion failure: "`)
	assert.Contains(t, lines, ".repr()")
}

func TestLowerFStringConstantSegmentIsRawJavaLiteral(t *testing.T) {
	res, sink := lowerSrc(t, "x = f'hello {name}'\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, `new PyString(("hello " + `)
	assert.NotContains(t, lines, "str_singleton_")
	assert.NotContains(t, lines, "PyString.empty_singleton")
	assert.Contains(t, lines, `.format("")`)
}

func TestLowerFStringEmptyIsEmptySingleton(t *testing.T) {
	res, sink := lowerSrc(t, "x = f''\n")
	require.Equal(t, 0, sink.Count())
	lines := renderLines(res.GlobalCode)
	assert.Contains(t, lines, "PyString.empty_singleton")
}
