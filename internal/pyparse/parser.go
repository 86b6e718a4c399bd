// Package pyparse is a recursive-descent parser that turns an
// internal/pylex token stream into internal/pyast nodes. It follows the
// precedence-climbing-plus-statement-dispatch shape of a hand-written
// scripting-language parser: one method per grammar production, a
// precedence table for binary operators, and postfix chaining for
// call/subscript/attribute forms.
package pyparse

import (
	"fmt"

	"github.com/pkg/errors"

	"pythonj/internal/pyast"
	"pythonj/internal/pylex"
)

// Parser consumes a token stream and produces a *pyast.Module.
type Parser struct {
	path    string
	tokens  []pylex.Token
	pos     int
	inFunc  int // nesting depth of enclosing function defs
}

// Parse lexes and parses src, returning the module AST.
func Parse(path string, src []byte) (*pyast.Module, error) {
	toks, err := pylex.New(path, src).ScanTokens()
	if err != nil {
		return nil, errors.Wrap(err, "lex")
	}
	p := &Parser{path: path, tokens: toks}
	mod, err := p.parseModule()
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return mod, nil
}

func (p *Parser) cur() pylex.Token  { return p.tokens[p.pos] }
func (p *Parser) advance() pylex.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k pylex.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atOp(text string) bool {
	return p.cur().Kind == pylex.OP && p.cur().Text == text
}

func (p *Parser) atKeyword(word string) bool {
	return p.cur().Kind == pylex.KEYWORD && p.cur().Text == word
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %s", p.path, p.cur().Line, fmt.Sprintf(format, args...))
}

func (p *Parser) expectOp(text string) error {
	if !p.atOp(text) {
		return p.errf("expected %q, got %q", text, p.cur().Text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectKeyword(word string) error {
	if !p.atKeyword(word) {
		return p.errf("expected keyword %q, got %q", word, p.cur().Text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectName() (string, error) {
	if !p.at(pylex.NAME) {
		return "", p.errf("expected identifier, got %q", p.cur().Text)
	}
	t := p.advance()
	return t.Text, nil
}

func (p *Parser) skipNewlines() {
	for p.at(pylex.NEWLINE) {
		p.advance()
	}
}

// parseModule parses the full token stream as a flat top-level suite.
func (p *Parser) parseModule() (*pyast.Module, error) {
	p.skipNewlines()
	body, err := p.parseStmtsUntilEOF()
	if err != nil {
		return nil, err
	}
	return &pyast.Module{Body: body}, nil
}

func (p *Parser) parseStmtsUntilEOF() ([]pyast.Stmt, error) {
	var out []pyast.Stmt
	for !p.at(pylex.EOF) {
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
		p.skipNewlines()
	}
	return out, nil
}

// parseBlock parses an INDENT ... DEDENT suite following a `:` header.
func (p *Parser) parseBlock() ([]pyast.Stmt, error) {
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	if !p.at(pylex.INDENT) {
		// Single-line suite: `if x: return 1`
		return p.parseStatement()
	}
	p.advance() // INDENT
	var out []pyast.Stmt
	for !p.at(pylex.DEDENT) && !p.at(pylex.EOF) {
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
		p.skipNewlines()
	}
	if p.at(pylex.DEDENT) {
		p.advance()
	}
	return out, nil
}
