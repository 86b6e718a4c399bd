package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnaryNotCollapsesLiterals(t *testing.T) {
	assert.Equal(t, False, UnaryNot(True))
	assert.Equal(t, True, UnaryNot(False))
	got := UnaryNot(Ident{Name: "x"})
	require.IsType(t, Unary{}, got)
	assert.Equal(t, "!x", got.Render())
}

func TestBoolValueUnwrapsCreateCall(t *testing.T) {
	inner := Binary{Op: "==", Left: Ident{Name: "a"}, Right: Ident{Name: "b"}}
	wrapped := Call{Receiver: Raw{Text: "PyBool"}, Method: "create", Args: []Expr{inner}}
	assert.Equal(t, inner, BoolValue(wrapped))
}

func TestBoolValueUnwrapsSingletons(t *testing.T) {
	assert.Equal(t, True, BoolValue(Raw{Text: "PyBool.true_singleton"}))
	assert.Equal(t, False, BoolValue(Raw{Text: "PyBool.false_singleton"}))
}

func TestBoolValueFallsBackToMethodCall(t *testing.T) {
	got := BoolValue(Ident{Name: "x"})
	assert.Equal(t, "x.boolValue()", got.Render())
}

func TestSimplifyBlockTruncatesAfterControlFlow(t *testing.T) {
	stmts := []Stmt{
		ExprStmt{Value: Ident{Name: "a"}},
		Return{Value: Ident{Name: "b"}},
		ExprStmt{Value: Ident{Name: "unreachable"}},
	}
	got := SimplifyBlock(stmts)
	require.Len(t, got, 2)
	assert.IsType(t, Return{}, got[1])
}

func TestNewIfConstantConditionInlines(t *testing.T) {
	then := []Stmt{ExprStmt{Value: Ident{Name: "then"}}}
	els := []Stmt{ExprStmt{Value: Ident{Name: "else"}}}

	assert.Equal(t, then, NewIf(True, then, els))
	assert.Equal(t, els, NewIf(False, then, els))

	got := NewIf(Ident{Name: "cond"}, then, els)
	require.Len(t, got, 1)
	assert.IsType(t, IfElse{}, got[0])
}

func TestNewWhileConstantFalseEmitsNothing(t *testing.T) {
	body := []Stmt{ExprStmt{Value: Ident{Name: "x"}}}
	assert.Nil(t, NewWhile(False, body))
	got := NewWhile(Ident{Name: "cond"}, body)
	require.Len(t, got, 1)
}

func TestRenderBlockJoinsStatementLines(t *testing.T) {
	stmts := []Stmt{
		VarDecl{Type: "PyObject", Name: "x", Init: Ident{Name: "y"}},
		Return{Value: Ident{Name: "x"}},
	}
	lines := RenderBlock(stmts)
	assert.Equal(t, []string{"PyObject x = y;", "return x;"}, lines)
}

func TestQuoteJavaStringEscapesAndUnicode(t *testing.T) {
	assert.Equal(t, `"a\nb"`, QuoteJavaString("a\nb"))
	assert.Equal(t, `"\"quoted\""`, QuoteJavaString(`"quoted"`))
	assert.Equal(t, "\"\\u00E9\"", QuoteJavaString(string(rune(0xE9))))
}
