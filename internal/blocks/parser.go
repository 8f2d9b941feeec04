package blocks

import "strings"

// span locates one delimited block inside a serialized body.
type span struct {
	name       string
	start, end int
}

type frame struct {
	name     string
	attrs    map[string]any
	start    int
	children []Block
}

type document struct {
	src    string
	blocks []Block
	spans  []span
	stack  []*frame
}

// Parse turns a serialized body into a block tree. It never fails:
// unmatched closers are treated as HTML, blocks left open are closed at
// the end of input, and invalid attribute JSON leaves attributes empty.
func Parse(body string) []Block {
	return parseDocument(body).blocks
}

func parseDocument(src string) *document {
	d := &document{src: src}
	htmlStart, offset := 0, 0
	for {
		tok, ok := nextToken(src, offset)
		if !ok {
			break
		}
		offset = tok.end
		if tok.kind == tokenCloser && d.openIndex(tok.name) < 0 {
			// Stray closer: it stays part of the surrounding HTML.
			continue
		}

		d.freeform(htmlStart, tok.start)
		htmlStart = tok.end

		switch tok.kind {
		case tokenVoid:
			d.emit(newBlock(tok.name, tok.attrs))
			d.spans = append(d.spans, span{name: tok.name, start: tok.start, end: tok.end})
		case tokenOpener:
			d.stack = append(d.stack, &frame{name: tok.name, attrs: tok.attrs, start: tok.start})
		case tokenCloser:
			d.closeUntil(d.openIndex(tok.name), tok.start, tok.end)
		}
	}
	d.freeform(htmlStart, len(src))
	return d.finish()
}

// freeform records top-level HTML between delimiters as a nameless container.
func (d *document) freeform(from, to int) {
	if len(d.stack) > 0 || from >= to {
		return
	}
	if strings.TrimSpace(d.src[from:to]) == "" {
		return
	}
	d.blocks = append(d.blocks, &ContainerBlock{})
}

func (d *document) emit(b Block) {
	if n := len(d.stack); n > 0 {
		d.stack[n-1].children = append(d.stack[n-1].children, b)
		return
	}
	d.blocks = append(d.blocks, b)
}

// openIndex returns the stack index of the innermost open frame named name.
func (d *document) openIndex(name string) int {
	for i := len(d.stack) - 1; i >= 0; i-- {
		if d.stack[i].name == name {
			return i
		}
	}
	return -1
}

// closeUntil closes frames down to and including idx. Frames above it are
// closed where the closer starts.
func (d *document) closeUntil(idx, closerStart, closerEnd int) {
	for len(d.stack)-1 > idx {
		d.pop(closerStart)
	}
	d.pop(closerEnd)
}

func (d *document) pop(end int) {
	f := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]

	b := newBlock(f.name, f.attrs)
	if c, ok := b.(*ContainerBlock); ok {
		c.Children = f.children
	}
	d.emit(b)
	d.spans = append(d.spans, span{name: f.name, start: f.start, end: end})
}

func (d *document) finish() *document {
	for len(d.stack) > 0 {
		d.pop(len(d.src))
	}
	return d
}
