// Package emit renders a lowered translation unit as target source
// text: one final class per input file, built from the constant pool's
// fields, the lowered global-initializer code, and one nested class per
// user function (§4.4).
//
// Risk carried forward from SPEC_FULL.md's expansion of spec.md §9's
// third open question: nothing here bounds the emitted class's method
// size against the JVM's 64KB-per-method bytecode ceiling. A single
// enormous top-level script could in principle produce a static
// initializer too large for the JVM to load. No splitting strategy is
// implemented; see DESIGN.md.
package emit

import (
	"fmt"
	"strings"

	"pythonj/internal/constpool"
	"pythonj/internal/ir"
	"pythonj/internal/lower"
)

// indentedWriter accumulates source lines, tracking brace depth the way
// original_source/pythonj.py's IndentedWriter does: a line ending in `{`
// increases the indent of everything after it, a line starting with `}`
// decreases the indent of itself and everything after.
type indentedWriter struct {
	buf   strings.Builder
	depth int
}

func (w *indentedWriter) writeLine(line string) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "}") {
		w.depth--
	}
	if trimmed != "" {
		w.buf.WriteString(strings.Repeat("    ", w.depth))
		w.buf.WriteString(trimmed)
	}
	w.buf.WriteByte('\n')
	if strings.HasSuffix(trimmed, "{") {
		w.depth++
	}
}

func (w *indentedWriter) writeLines(lines []string) {
	for _, l := range lines {
		w.writeLine(l)
	}
}

// Emitter renders one translation unit's lowered output as target
// source. The zero value is ready to use.
type Emitter struct{}

// New returns a ready-to-use Emitter.
func New() *Emitter { return &Emitter{} }

// Emit renders className's final class body: the constant pool's
// fields, a field per module-scope global, one nested class per user
// function, and a public static void main(String[]) running the
// lowered global code — the class's entry point, per the runtime
// contract. Ordering at every level is sorted, so the same input
// always produces byte-identical output.
func (e *Emitter) Emit(className string, pool *constpool.Pool, res lower.Result) string {
	w := &indentedWriter{}
	w.writeLine(fmt.Sprintf("public final class %s {", className))

	for _, ie := range pool.Ints() {
		w.writeLine(fmt.Sprintf("static final PyInt %s = new PyInt(%dL);", ie.Name, ie.Value))
	}
	for _, se := range pool.Strs() {
		w.writeLine(fmt.Sprintf("static final PyString %s = new PyString(%s);", se.Name, ir.QuoteJavaString(se.Value)))
	}
	for _, be := range pool.Bytes() {
		w.writeLine(fmt.Sprintf("static final PyBytes %s = new PyBytes(new byte[]{%s});", be.Name, byteArrayLiteral(be.Value)))
	}

	for _, name := range res.GlobalNames {
		w.writeLine(fmt.Sprintf("private static PyObject pyglobal_%s = PyNone.singleton;", name))
	}
	if res.UsedDiscard {
		// expr_discard at module scope is declared alongside the
		// globals it sits among; function bodies declare their own.
		w.writeLine("private static PyObject expr_discard = PyNone.singleton;")
	}

	for _, fn := range res.Functions {
		w.writeLines(fn.Lines)
	}

	w.writeLine("public static void main(String[] args) {")
	w.writeLines(ir.RenderBlock(res.GlobalCode))
	w.writeLine("}")

	w.writeLine("}")

	if w.depth != 0 {
		panic(fmt.Sprintf("emitter: unbalanced output for %s, final depth %d", className, w.depth))
	}
	return w.buf.String()
}

func byteArrayLiteral(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%d", ir.ByteLiteral(c))
	}
	return strings.Join(parts, ", ")
}
