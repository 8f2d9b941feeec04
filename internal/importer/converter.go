package importer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	ghhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"editor-note/internal/blocks"
	"editor-note/internal/editor"
)

// NotePrefix starts a markdown paragraph that becomes an editor note.
const NotePrefix = "%%"

// Converter turns markdown into serialized blocks.
type Converter struct {
	md       goldmark.Markdown
	registry *editor.Registry
}

// NewConverter creates a Converter. Note attributes are checked against
// registry when it is non-nil.
func NewConverter(registry *editor.Registry) *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
			),
		),
		registry: registry,
	}
}

// Converted is the result of converting one markdown draft.
type Converted struct {
	Title string // First heading, or the filename when there is none
	Body  string // Serialized block grammar
	Notes int    // Editor notes produced
}

// Convert parses content and serializes its top-level blocks. filename is
// used for the title when the draft has no heading.
func (c *Converter) Convert(content []byte, filename string) (Converted, error) {
	doc := c.md.Parser().Parse(text.NewReader(content))

	out := Converted{Title: extractTitle(doc, content, filename)}
	body, err := c.convertChildren(doc, content, &out)
	if err != nil {
		return Converted{}, err
	}
	out.Body = body
	return out, nil
}

func (c *Converter) convertChildren(parent ast.Node, source []byte, out *Converted) (string, error) {
	var parts []string
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		block, err := c.convertBlock(n, source, out)
		if err != nil {
			return "", err
		}
		if block != "" {
			parts = append(parts, block)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func (c *Converter) convertBlock(n ast.Node, source []byte, out *Converted) (string, error) {
	switch node := n.(type) {
	case *ast.Heading:
		html, err := c.render(node, source)
		if err != nil {
			return "", err
		}
		return blocks.Serialize("core/heading", map[string]any{"level": node.Level}, wrap(html)), nil

	case *ast.Paragraph:
		if attrs, ok := noteAttributes(node, source); ok {
			if c.registry != nil {
				if err := c.registry.Validate(blocks.NoteType, attrs); err != nil {
					return "", err
				}
			}
			out.Notes++
			content, _ := attrs["content"].(string)
			return blocks.SerializeNote(content), nil
		}
		html, err := c.render(node, source)
		if err != nil {
			return "", err
		}
		return blocks.Serialize("core/paragraph", nil, wrap(html)), nil

	case *ast.Blockquote:
		inner, err := c.convertChildren(node, source, out)
		if err != nil {
			return "", err
		}
		return blocks.Serialize("core/quote", nil,
			wrap("<blockquote class=\"wp-block-quote\">\n"+inner+"\n</blockquote>")), nil

	case *ast.List:
		html, err := c.render(node, source)
		if err != nil {
			return "", err
		}
		var attrs map[string]any
		if node.IsOrdered() {
			attrs = map[string]any{"ordered": true}
		}
		return blocks.Serialize("core/list", attrs, wrap(html)), nil

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		html, err := c.render(node, source)
		if err != nil {
			return "", err
		}
		return blocks.Serialize("core/code", nil, wrap(html)), nil

	case *ast.ThematicBreak:
		return blocks.Serialize("core/separator", nil, wrap(`<hr class="wp-block-separator"/>`)), nil

	default:
		html, err := c.render(node, source)
		if err != nil {
			return "", err
		}
		if html == "" {
			return "", nil
		}
		return blocks.Serialize("core/html", nil, wrap(html)), nil
	}
}

// wrap puts block markup on its own lines between the delimiters.
func wrap(html string) string {
	return "\n" + html + "\n"
}

func (c *Converter) render(n ast.Node, source []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, source, n); err != nil {
		return "", fmt.Errorf("render %s: %w", n.Kind(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// noteAttributes reports whether p is a note paragraph and returns its
// attributes. Each line may repeat the prefix; lines are joined with
// newlines.
func noteAttributes(p *ast.Paragraph, source []byte) (map[string]any, bool) {
	lines := p.Lines()
	if lines.Len() == 0 {
		return nil, false
	}

	seg := lines.At(0)
	first := strings.TrimSpace(string(seg.Value(source)))
	if !strings.HasPrefix(first, NotePrefix) {
		return nil, false
	}

	attrs := map[string]any{"content": strings.TrimSpace(strings.TrimPrefix(first, NotePrefix))}
	for i := 1; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimSpace(string(seg.Value(source)))
		line = strings.TrimSpace(strings.TrimPrefix(line, NotePrefix))
		if line == "" {
			continue
		}
		if s, _ := attrs["content"].(string); s != "" {
			line = "\n" + line
		}
		attrs = editor.MergeNotes(attrs, map[string]any{"content": line})
	}
	return attrs, true
}

// extractTitle returns the first level-1 heading, else the first level-2
// heading, else the filename in title case.
func extractTitle(doc ast.Node, content []byte, filename string) string {
	var firstH1, firstH2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok {
			headingText := nodeText(heading, content)
			if heading.Level == 1 && firstH1 == "" {
				firstH1 = headingText
			} else if heading.Level == 2 && firstH2 == "" && firstH1 == "" {
				firstH2 = headingText
			}

			if firstH1 != "" {
				return ast.WalkStop, nil
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	if firstH2 != "" {
		return firstH2
	}
	return titleFromFilename(filename)
}

// titleFromFilename removes the extension and capitalizes each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// nodeText concatenates the text under n.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
			if v.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
