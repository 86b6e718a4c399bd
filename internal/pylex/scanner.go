package pylex

import (
	"fmt"
	"strings"
)

// Scanner turns source text into a token stream, tracking indentation
// with an explicit stack the way Python's own tokenizer does.
type Scanner struct {
	src         []byte
	path        string
	pos         int
	line        int
	indentStack []int
	parenDepth  int
	tokens      []Token
}

// New returns a Scanner over src, reporting path in any lexical errors.
func New(path string, src []byte) *Scanner {
	return &Scanner{src: src, path: path, line: 1, indentStack: []int{0}}
}

// ScanTokens tokenizes the whole source and returns the resulting token
// stream, terminated by a single EOF token.
func (s *Scanner) ScanTokens() ([]Token, error) {
	atLineStart := true
	blankLine := false
	for {
		if atLineStart && s.parenDepth == 0 {
			indent, blank, err := s.consumeIndent()
			if err != nil {
				return nil, err
			}
			blankLine = blank
			if !blankLine {
				if err := s.adjustIndent(indent); err != nil {
					return nil, err
				}
			}
			atLineStart = false
		}
		if s.pos >= len(s.src) {
			break
		}
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.pos++
			if s.parenDepth == 0 && !blankLine {
				s.emit(Token{Kind: NEWLINE, Text: "\n", Line: s.line})
			}
			s.line++
			atLineStart = true
		case c == ' ' || c == '\t':
			s.pos++
		case c == '\\' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n':
			s.pos += 2
			s.line++
		case c == '#':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		default:
			if err := s.scanToken(); err != nil {
				return nil, err
			}
		}
	}
	if !blankLine && len(s.tokens) > 0 && s.tokens[len(s.tokens)-1].Kind != NEWLINE {
		s.emit(Token{Kind: NEWLINE, Text: "\n", Line: s.line})
	}
	for len(s.indentStack) > 1 {
		s.indentStack = s.indentStack[:len(s.indentStack)-1]
		s.emit(Token{Kind: DEDENT, Line: s.line})
	}
	s.emit(Token{Kind: EOF, Line: s.line})
	return s.tokens, nil
}

func (s *Scanner) emit(t Token) { s.tokens = append(s.tokens, t) }

// consumeIndent measures leading whitespace on a logical line. It
// reports blank=true for a line that is empty, all-whitespace, or
// comment-only (such lines never affect the indent stack).
func (s *Scanner) consumeIndent() (width int, blank bool, err error) {
	start := s.pos
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ':
			width++
			s.pos++
			continue
		case '\t':
			width += 8 - (width % 8)
			s.pos++
			continue
		}
		break
	}
	if s.pos >= len(s.src) {
		return width, true, nil
	}
	switch s.src[s.pos] {
	case '\n', '#':
		return width, true, nil
	}
	_ = start
	return width, false, nil
}

func (s *Scanner) adjustIndent(width int) error {
	top := s.indentStack[len(s.indentStack)-1]
	if width > top {
		s.indentStack = append(s.indentStack, width)
		s.emit(Token{Kind: INDENT, Line: s.line})
		return nil
	}
	for width < s.indentStack[len(s.indentStack)-1] {
		s.indentStack = s.indentStack[:len(s.indentStack)-1]
		s.emit(Token{Kind: DEDENT, Line: s.line})
	}
	if width != s.indentStack[len(s.indentStack)-1] {
		return fmt.Errorf("%s:%d: inconsistent indentation", s.path, s.line)
	}
	return nil
}

func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentCont(c byte) bool  { return isIdentStart(c) || (c >= '0' && c <= '9') }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }

func (s *Scanner) scanToken() error {
	c := s.src[s.pos]
	switch {
	case isIdentStart(c):
		return s.scanIdentOrStringPrefix()
	case isDigit(c):
		return s.scanNumber()
	case c == '\'' || c == '"':
		return s.scanString("")
	default:
		return s.scanOperator()
	}
}

func (s *Scanner) scanIdentOrStringPrefix() error {
	start := s.pos
	for s.pos < len(s.src) && isIdentCont(s.src[s.pos]) {
		s.pos++
	}
	word := string(s.src[start:s.pos])
	lower := strings.ToLower(word)
	if (lower == "f" || lower == "b" || lower == "rb" || lower == "br" || lower == "fr" || lower == "rf") &&
		s.pos < len(s.src) && (s.src[s.pos] == '\'' || s.src[s.pos] == '"') {
		return s.scanString(lower)
	}
	if IsKeyword(word) {
		s.emit(Token{Kind: KEYWORD, Text: word, Line: s.line})
		return nil
	}
	s.emit(Token{Kind: NAME, Text: word, Line: s.line})
	return nil
}

func (s *Scanner) scanNumber() error {
	start := s.pos
	if s.src[s.pos] == '0' && s.pos+1 < len(s.src) && (s.src[s.pos+1] == 'x' || s.src[s.pos+1] == 'X') {
		s.pos += 2
		for s.pos < len(s.src) && isHex(s.src[s.pos]) {
			s.pos++
		}
		text := string(s.src[start:s.pos])
		v, err := parseIntLiteral(text)
		if err != nil {
			return fmt.Errorf("%s:%d: %v", s.path, s.line, err)
		}
		s.emit(Token{Kind: INT, Text: text, Int: v, Line: s.line})
		return nil
	}
	for s.pos < len(s.src) && (isDigit(s.src[s.pos]) || s.src[s.pos] == '_') {
		s.pos++
	}
	text := strings.ReplaceAll(string(s.src[start:s.pos]), "_", "")
	v, err := parseIntLiteral(text)
	if err != nil {
		return fmt.Errorf("%s:%d: %v", s.path, s.line, err)
	}
	s.emit(Token{Kind: INT, Text: text, Int: v, Line: s.line})
	return nil
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func parseIntLiteral(text string) (int64, error) {
	var v int64
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		for _, c := range text[2:] {
			v = v*16 + int64(hexDigit(byte(c)))
		}
		return v, nil
	}
	for _, c := range text {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid integer literal %q", text)
		}
		v = v*10 + int64(c-'0')
	}
	return v, nil
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// scanString scans a '...'  or "..." literal, with prefix one of
// "", "f", "b" (rb/br/fr/rf treated as raw variants of bytes/f-strings).
func (s *Scanner) scanString(prefix string) error {
	quote := s.src[s.pos]
	s.pos++
	raw := strings.Contains(prefix, "r")
	var out []byte
	for s.pos < len(s.src) && s.src[s.pos] != quote {
		c := s.src[s.pos]
		if c == '\n' {
			return fmt.Errorf("%s:%d: unterminated string literal", s.path, s.line)
		}
		if c == '\\' && !raw && s.pos+1 < len(s.src) {
			s.pos++
			e := s.src[s.pos]
			switch e {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '0':
				out = append(out, 0)
			case '\\':
				out = append(out, '\\')
			case '\'':
				out = append(out, '\'')
			case '"':
				out = append(out, '"')
			case '\n':
				// escaped newline: line continuation, no output byte
				s.line++
			default:
				out = append(out, '\\', e)
			}
			s.pos++
			continue
		}
		out = append(out, c)
		s.pos++
	}
	if s.pos >= len(s.src) {
		return fmt.Errorf("%s:%d: unterminated string literal", s.path, s.line)
	}
	s.pos++ // closing quote
	switch {
	case strings.Contains(prefix, "b"):
		s.emit(Token{Kind: BYTES, Text: string(out), Line: s.line})
	case strings.Contains(prefix, "f"):
		s.emit(Token{Kind: FSTRING, Text: string(out), Line: s.line})
	default:
		s.emit(Token{Kind: STRING, Text: string(out), Line: s.line})
	}
	return nil
}

var threeCharOps = []string{"**=", "//=", "<<=", ">>="}
var twoCharOps = []string{
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=", "->",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

func (s *Scanner) scanOperator() error {
	rest := s.src[s.pos:]
	for _, op := range threeCharOps {
		if len(rest) >= 3 && string(rest[:3]) == op {
			s.emitOp(op, 3)
			return nil
		}
	}
	for _, op := range twoCharOps {
		if len(rest) >= 2 && string(rest[:2]) == op {
			s.emitOp(op, 2)
			return nil
		}
	}
	c := rest[0]
	switch c {
	case '(', '[', '{':
		s.parenDepth++
	case ')', ']', '}':
		s.parenDepth--
	}
	switch c {
	case '+', '-', '*', '/', '%', '(', ')', '[', ']', '{', '}', ',', ':', '.', ';', '@',
		'<', '>', '=', '&', '|', '^', '~':
		s.emitOp(string(c), 1)
		return nil
	}
	return fmt.Errorf("%s:%d: unexpected character %q", s.path, s.line, string(c))
}

func (s *Scanner) emitOp(text string, n int) {
	s.emit(Token{Kind: OP, Text: text, Line: s.line})
	s.pos += n
}
