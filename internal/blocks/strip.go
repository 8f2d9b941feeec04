package blocks

import (
	"sort"
	"strings"
)

// Strip removes every block named in names from a serialized body,
// including its delimiters and inner content. Other content is kept
// byte for byte.
func Strip(body string, names ...string) string {
	if len(names) == 0 {
		return body
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[normalizeName(n)] = true
	}

	var cut []span
	for _, s := range parseDocument(body).spans {
		if wanted[s.name] {
			cut = append(cut, s)
		}
	}
	if len(cut) == 0 {
		return body
	}
	sort.Slice(cut, func(i, j int) bool { return cut[i].start < cut[j].start })

	var b strings.Builder
	b.Grow(len(body))
	pos := 0
	for _, s := range cut {
		if s.start < pos {
			// Nested inside a span already removed.
			continue
		}
		b.WriteString(body[pos:s.start])
		pos = s.end
	}
	b.WriteString(body[pos:])
	return b.String()
}
