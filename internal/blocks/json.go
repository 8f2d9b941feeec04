package blocks

import (
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned by DecodeTree when the input is not JSON at all.
var ErrInvalidJSON = errors.New("blocks: invalid JSON")

// jsonNode accepts both the compact {type, attrs, children} shape and the
// host's parsed-block shape {blockName, attrs, innerBlocks}.
type jsonNode struct {
	Type        string          `json:"type"`
	BlockName   string          `json:"blockName"`
	Attrs       json.RawMessage `json:"attrs"`
	Children    json.RawMessage `json:"children"`
	InnerBlocks json.RawMessage `json:"innerBlocks"`
}

type pendingList struct {
	raw json.RawMessage
	out *[]Block
}

// DecodeTree builds a block tree from its JSON form. Only a syntax error
// fails; a value with the wrong shape contributes nothing.
func DecodeTree(data []byte) ([]Block, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}

	var root []Block
	stack := []pendingList{{raw: data, out: &root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var items []json.RawMessage
		if err := json.Unmarshal(p.raw, &items); err != nil {
			continue
		}
		for _, item := range items {
			var n jsonNode
			if err := json.Unmarshal(item, &n); err != nil {
				continue
			}
			name := n.Type
			if name == "" {
				name = n.BlockName
			}

			var attrs map[string]any
			if len(n.Attrs) > 0 {
				_ = json.Unmarshal(n.Attrs, &attrs)
			}

			b := newBlock(normalizeName(name), attrs)
			*p.out = append(*p.out, b)

			c, ok := b.(*ContainerBlock)
			if !ok {
				continue
			}
			children := n.Children
			if len(children) == 0 {
				children = n.InnerBlocks
			}
			if len(children) > 0 {
				stack = append(stack, pendingList{raw: children, out: &c.Children})
			}
		}
	}
	return root, nil
}
