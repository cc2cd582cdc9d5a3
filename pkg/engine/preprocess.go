package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene source into something zygomys reads:
//
//   - ;-comments become //-comments.
//   - :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global bindings.
//   - kebab-case identifiers become snake_case (rounded-box -> rounded_box),
//     since zygomys reads a hyphen as subtraction.
//
// String literals, both "..." and `...`, pass through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	b := source
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			j := skipQuoted(b, i)
			out.WriteString(b[i:j])
			i = j

		case c == '`':
			j := strings.IndexByte(b[i+1:], '`')
			if j < 0 {
				out.WriteString(b[i:])
				return out.String()
			}
			out.WriteString(b[i : i+j+2])
			i += j + 2

		case c == ';':
			for i < len(b) && b[i] == ';' {
				i++
			}
			end := strings.IndexByte(b[i:], '\n')
			if end < 0 {
				end = len(b) - i
			}
			out.WriteString("//")
			out.WriteString(b[i : i+end])
			i += end

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + b[i+1:j] + `"`)
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipQuoted returns the index just past the double-quoted literal that
// starts at i, honoring backslash escapes.
func skipQuoted(b string, i int) int {
	for j := i + 1; j < len(b); j++ {
		switch b[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(b)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
