package blocks

import "strings"

const (
	// NoteType is the block name of an editor note.
	NoteType = "pb/editor-note"
	// ContentAttr is the only attribute a note carries.
	ContentAttr = "content"
	// NoteMarker is the serialization prefix of every note instance.
	// Stores filter on it as a literal substring.
	NoteMarker = "<!-- wp:" + NoteType
)

// Block is a parsed content block: either a *NoteBlock or a *ContainerBlock.
type Block interface {
	isBlock()
}

// NoteBlock is an editor note. Text is empty when the content attribute
// is missing or not a string.
type NoteBlock struct {
	Text string
}

// ContainerBlock is any block that is not a note. Freeform HTML between
// delimited blocks is a container with an empty Name.
type ContainerBlock struct {
	Name     string
	Children []Block
}

func (*NoteBlock) isBlock()      {}
func (*ContainerBlock) isBlock() {}

// newBlock decides the variant from the raw block name.
func newBlock(name string, attrs map[string]any) Block {
	if name == NoteType {
		text, _ := attrs[ContentAttr].(string)
		return &NoteBlock{Text: text}
	}
	return &ContainerBlock{Name: name}
}

// normalizeName expands a name without namespace into the core namespace.
func normalizeName(name string) string {
	if name == "" {
		return ""
	}
	if strings.Contains(name, "/") {
		return name
	}
	return "core/" + name
}
