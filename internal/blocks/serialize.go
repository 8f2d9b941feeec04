package blocks

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Serialize writes one delimited block. The core namespace is omitted,
// attributes are encoded so they can never terminate the comment, and a
// block without inner content is written as a void block.
func Serialize(name string, attrs map[string]any, inner string) string {
	name = strings.TrimPrefix(normalizeName(name), "core/")

	var b strings.Builder
	b.WriteString("<!-- wp:")
	b.WriteString(name)
	b.WriteByte(' ')
	if encoded := encodeAttrs(attrs); encoded != "" {
		b.WriteString(encoded)
		b.WriteByte(' ')
	}
	if inner == "" {
		b.WriteString("/-->")
		return b.String()
	}
	b.WriteString("-->")
	b.WriteString(inner)
	b.WriteString("<!-- /wp:")
	b.WriteString(name)
	b.WriteString(" -->")
	return b.String()
}

// SerializeNote writes a note block carrying text.
func SerializeNote(text string) string {
	return Serialize(NoteType, map[string]any{ContentAttr: text}, "")
}

func encodeAttrs(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(attrs); err != nil {
		return ""
	}
	raw := bytes.TrimRight(buf.Bytes(), "\n")

	var out strings.Builder
	out.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\\' && i+1 < len(raw):
			if raw[i+1] == '"' {
				out.WriteString(`\u0022`)
			} else {
				out.WriteByte(c)
				out.WriteByte(raw[i+1])
			}
			i++
		case c == '-' && i+1 < len(raw) && raw[i+1] == '-':
			out.WriteString(`\u002d\u002d`)
			i++
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}
