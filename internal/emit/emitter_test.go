package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pythonj/internal/constpool"
	"pythonj/internal/errors"
	"pythonj/internal/lower"
	"pythonj/internal/pyparse"
)

func emitSrc(t *testing.T, className, src string) string {
	t.Helper()
	mod, err := pyparse.Parse("test.py", []byte(src))
	require.NoError(t, err)
	sink := errors.NewSink("test.py")
	pool := constpool.New()
	lz := lower.New("test.py", sink, pool)
	res := lz.LowerModule(mod)
	require.Equal(t, 0, sink.Count())
	return New().Emit(className, pool, res)
}

func TestEmitWrapsClassAndMainMethod(t *testing.T) {
	out := emitSrc(t, "Mod", "x = 1\n")
	assert.True(t, strings.HasPrefix(out, "public final class Mod {"))
	assert.Contains(t, out, "public static void main(String[] args) {")
	assert.Contains(t, out, "private static PyObject pyglobal_x = PyNone.singleton;")
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), "}"))
}

func TestEmitPoolsIntConstantAsStaticField(t *testing.T) {
	out := emitSrc(t, "Mod", "x = 42\n")
	assert.Contains(t, out, "static final PyInt int_singleton_42 = new PyInt(42L);")
}

func TestEmitPoolsStringConstantAsStaticField(t *testing.T) {
	out := emitSrc(t, "Mod", `x = "hi"`+"\n")
	assert.Contains(t, out, `static final PyString`)
	assert.Contains(t, out, `"hi"`)
}

func TestEmitIntSingletonsAreNotPooled(t *testing.T) {
	out := emitSrc(t, "Mod", "x = 0\n")
	assert.NotContains(t, out, "static final PyInt int_singleton_0")
	assert.Contains(t, out, "PyInt.singleton_0")
}

func TestEmitFunctionBecomesNestedStaticClass(t *testing.T) {
	out := emitSrc(t, "Mod", "def f(x):\n    return x\n")
	assert.Contains(t, out, "private static final class pyfunc_f extends PyUserFunction {")
	assert.Contains(t, out, "pyglobal_f = new pyfunc_f();")
}

func TestEmitDiscardFlagAddsModuleScopeField(t *testing.T) {
	out := emitSrc(t, "Mod", "1 + 1\n")
	assert.Contains(t, out, "private static PyObject expr_discard = PyNone.singleton;")
}

func TestEmitOmitsDiscardFieldWhenUnused(t *testing.T) {
	out := emitSrc(t, "Mod", "x = 1\n")
	assert.NotContains(t, out, "expr_discard")
}

func TestEmitIsIndentedByBraceDepth(t *testing.T) {
	out := emitSrc(t, "Mod", "if a:\n    x = 1\n")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	var ifLine, bodyLine string
	for i, l := range lines {
		if strings.Contains(l, "if (") {
			ifLine = l
			if i+1 < len(lines) {
				bodyLine = lines[i+1]
			}
		}
	}
	require.NotEmpty(t, ifLine)
	ifIndent := len(ifLine) - len(strings.TrimLeft(ifLine, " "))
	bodyIndent := len(bodyLine) - len(strings.TrimLeft(bodyLine, " "))
	assert.Greater(t, bodyIndent, ifIndent)
}

func TestEmitIndentedWriterTracksNestedBraces(t *testing.T) {
	w := &indentedWriter{}
	w.writeLine("outer {")
	w.writeLine("inner {")
	w.writeLine("x = 1;")
	w.writeLine("}")
	w.writeLine("}")
	assert.Equal(t, 0, w.depth)
	out := w.buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "outer {", lines[0])
	assert.Equal(t, "    inner {", lines[1])
	assert.Equal(t, "        x = 1;", lines[2])
	assert.Equal(t, "    }", lines[3])
	assert.Equal(t, "}", lines[4])
}

func TestEmitDeterministicOrderingOfGlobals(t *testing.T) {
	out1 := emitSrc(t, "Mod", "z = 1\na = 2\nm = 3\n")
	out2 := emitSrc(t, "Mod", "z = 1\na = 2\nm = 3\n")
	assert.Equal(t, out1, out2)
	aIdx := strings.Index(out1, "pyglobal_a")
	mIdx := strings.Index(out1, "pyglobal_m")
	zIdx := strings.Index(out1, "pyglobal_z")
	assert.True(t, aIdx < mIdx && mIdx < zIdx, "global fields must be emitted in sorted order")
}
