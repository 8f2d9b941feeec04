package blocks

import (
	"encoding/json"
	"regexp"
	"strings"
)

type tokenKind int

const (
	tokenOpener tokenKind = iota + 1
	tokenCloser
	tokenVoid
)

// token is one block delimiter comment found in a serialized body.
type token struct {
	kind  tokenKind
	name  string
	attrs map[string]any
	start int // offset of "<!--"
	end   int // offset just past "-->"
}

var blockNamePattern = regexp.MustCompile(`^(?:[a-z][a-z0-9_-]*/)?[a-z][a-z0-9_-]*$`)

// nextToken finds the first block delimiter at or after offset.
// Ordinary HTML comments are skipped.
func nextToken(doc string, offset int) (token, bool) {
	for offset < len(doc) {
		i := strings.Index(doc[offset:], "<!--")
		if i < 0 {
			return token{}, false
		}
		start := offset + i
		j := strings.Index(doc[start+4:], "-->")
		if j < 0 {
			return token{}, false
		}
		end := start + 4 + j + 3
		if tok, ok := parseDelimiter(doc[start+4 : start+4+j]); ok {
			tok.start = start
			tok.end = end
			return tok, true
		}
		offset = start + 4
	}
	return token{}, false
}

// parseDelimiter interprets the inside of a comment as a block delimiter.
func parseDelimiter(inner string) (token, bool) {
	body := strings.TrimLeft(inner, " \t\r\n")
	if len(body) == len(inner) {
		return token{}, false
	}

	kind := tokenOpener
	if strings.HasPrefix(body, "/") {
		kind = tokenCloser
		body = body[1:]
	}
	if !strings.HasPrefix(body, "wp:") {
		return token{}, false
	}
	body = body[3:]

	nameEnd := strings.IndexAny(body, " \t\r\n")
	if nameEnd < 0 {
		return token{}, false
	}
	name := body[:nameEnd]
	if !blockNamePattern.MatchString(name) {
		return token{}, false
	}

	rest := strings.TrimSpace(body[nameEnd:])
	if kind == tokenOpener && strings.HasSuffix(rest, "/") {
		kind = tokenVoid
		rest = strings.TrimSpace(strings.TrimSuffix(rest, "/"))
	}

	tok := token{kind: kind, name: normalizeName(name)}
	if kind == tokenCloser {
		return tok, rest == ""
	}
	if rest == "" {
		return tok, true
	}
	if !strings.HasPrefix(rest, "{") || !strings.HasSuffix(rest, "}") {
		return token{}, false
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(rest), &attrs); err == nil {
		tok.attrs = attrs
	}
	return tok, true
}
