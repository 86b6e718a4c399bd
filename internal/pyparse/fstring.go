package pyparse

import (
	"fmt"

	"pythonj/internal/pyast"
	"pythonj/internal/pylex"
)

func lexInline(path, text string) ([]pylex.Token, error) {
	return pylex.New(path, []byte(text)).ScanTokens()
}

// parseFString splits raw f-string source text into literal and
// formatted-value segments, recursively parsing each `{expr}` field as
// an ordinary expression. This is the one place the front end re-enters
// the lexer/parser on a substring rather than the ambient token stream.
func parseFString(path string, line int, raw string) (pyast.Expr, error) {
	var values []pyast.Expr
	var lit []byte
	flush := func() {
		if len(lit) > 0 {
			values = append(values, &pyast.Constant{Line: line, Kind: pyast.ConstString, Str: string(lit)})
			lit = nil
		}
	}
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '{' && i+1 < len(raw) && raw[i+1] == '{':
			lit = append(lit, '{')
			i += 2
		case c == '}' && i+1 < len(raw) && raw[i+1] == '}':
			lit = append(lit, '}')
			i += 2
		case c == '{':
			flush()
			field, next, err := extractField(raw, i)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %v", path, line, err)
			}
			fv, err := parseFormattedField(path, line, field)
			if err != nil {
				return nil, err
			}
			values = append(values, fv)
			i = next
		default:
			lit = append(lit, c)
			i++
		}
	}
	flush()
	return &pyast.JoinedStr{Line: line, Values: values}, nil
}

// extractField returns the text between the braces starting at raw[start]
// (which must be '{') and the index just past the matching '}'.
func extractField(raw string, start int) (string, int, error) {
	depth := 0
	i := start
	for i < len(raw) {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start+1 : i], i + 1, nil
			}
		}
		i++
	}
	return "", 0, fmt.Errorf("unterminated f-string field")
}

// parseFormattedField parses `expr[!conv][:spec]` into a
// *pyast.FormattedValue.
func parseFormattedField(path string, line int, field string) (pyast.Expr, error) {
	exprText, conv, specText, hasSpec := splitConvAndSpec(field)
	valExpr, err := parseSubExpr(path, line, exprText)
	if err != nil {
		return nil, err
	}
	var specExpr pyast.Expr
	if hasSpec {
		specExpr, err = parseFString(path, line, specText)
		if err != nil {
			return nil, err
		}
	}
	return &pyast.FormattedValue{Line: line, Value: valExpr, Conversion: conv, FormatSpec: specExpr}, nil
}

// splitConvAndSpec scans field at bracket depth 0 for a `!conv` then a
// `:spec`, both optional.
func splitConvAndSpec(field string) (expr, conv, spec string, hasSpec bool) {
	depth := 0
	convAt := -1
	specAt := -1
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '!':
			if depth == 0 && convAt < 0 && i+1 < len(field) && field[i+1] != '=' {
				convAt = i
			}
		case ':':
			if depth == 0 && specAt < 0 {
				specAt = i
			}
		}
	}
	switch {
	case convAt >= 0 && specAt >= 0:
		return field[:convAt], field[convAt+1 : specAt], field[specAt+1:], true
	case convAt >= 0:
		return field[:convAt], field[convAt+1:], "", false
	case specAt >= 0:
		return field[:specAt], "", field[specAt+1:], true
	default:
		return field, "", "", false
	}
}

func parseSubExpr(path string, line int, text string) (pyast.Expr, error) {
	toks, err := lexInline(path, text)
	if err != nil {
		return nil, err
	}
	sp := &Parser{path: path, tokens: toks}
	e, err := sp.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("%s:%d: %v", path, line, err)
	}
	return e, nil
}
