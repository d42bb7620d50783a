package render

import "strings"

const specialChars = `&<>"'`

// escapeHTML encodes text for safe inclusion in HTML content and quoted
// attribute values.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, specialChars) {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 16)

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteByte(c)
		}
	}

	return buf.String()
}

// EscapeHTML is the entity encoder used for text and attribute values.
func EscapeHTML(s string) string {
	return escapeHTML(s)
}
