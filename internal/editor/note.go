package editor

import (
	"encoding/json"

	"editor-note/internal/blocks"
)

// noteAttributes allows exactly one string attribute.
const noteAttributes = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"content": {"type": "string"}
	},
	"additionalProperties": false
}`

// NoteWidget is the editor note block: a short comment that only shows
// up while authoring.
func NoteWidget() BlockType {
	return BlockType{
		Name:        blocks.NoteType,
		Title:       "Editor Note",
		Description: "Add editor comments that only render within the block editor.",
		Category:    "text",
		Attributes:  json.RawMessage(noteAttributes),
		EditorOnly:  true,
	}
}

// NewDefaultRegistry returns a registry holding the note widget.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(NoteWidget()); err != nil {
		return nil, err
	}
	return r, nil
}

// MergeNotes joins two note attribute sets into one, appending b's content
// to a's. Missing or non-string content counts as empty.
func MergeNotes(a, b map[string]any) map[string]any {
	return map[string]any{"content": noteContent(a) + noteContent(b)}
}

func noteContent(attrs map[string]any) string {
	s, _ := attrs["content"].(string)
	return s
}
