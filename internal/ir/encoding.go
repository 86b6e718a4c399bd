package ir

import "fmt"

// QuoteJavaString renders s as a double-quoted target string literal
// per §6's encoding rules: the usual escapes, printable ASCII verbatim,
// other BMP code points as \uXXXX. Callers are responsible for having
// already rejected surrogate code points and code points beyond the BMP.
func QuoteJavaString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		case '\b':
			out = append(out, '\\', 'b')
		case '\f':
			out = append(out, '\\', 'f')
		default:
			if r >= 0x20 && r <= 0x7E {
				out = append(out, byte(r))
			} else {
				out = append(out, []byte(fmt.Sprintf("\\u%04X", r))...)
			}
		}
	}
	out = append(out, '"')
	return string(out)
}

// ByteLiteral renders one signed-range byte literal per §4.1: values are
// mapped into [-128,127] via ((x + 0x80) & 0xFF) - 0x80, which is
// exactly what interpreting the byte as signed int8 produces.
func ByteLiteral(b byte) int8 { return int8(b) }
