// Package notes collects editor-note text from parsed block trees.
package notes

import "editor-note/internal/blocks"

// Extract returns the text of every non-empty note in tree, in document
// order (pre-order, left to right). Duplicates are kept. The walk uses an
// explicit stack of pending sibling lists, so nesting depth is bounded by
// memory rather than the call stack. The result is raw text; escaping is
// left to whatever displays it.
func Extract(tree []blocks.Block) []string {
	found := []string{}
	stack := [][]blocks.Block{tree}
	for len(stack) > 0 {
		top := len(stack) - 1
		siblings := stack[top]
		if len(siblings) == 0 {
			stack = stack[:top]
			continue
		}
		current := siblings[0]
		stack[top] = siblings[1:]

		switch b := current.(type) {
		case *blocks.NoteBlock:
			if b.Text != "" {
				found = append(found, b.Text)
			}
		case *blocks.ContainerBlock:
			if len(b.Children) > 0 {
				stack = append(stack, b.Children)
			}
		}
	}
	return found
}

// Count returns how many notes Extract would report for tree.
func Count(tree []blocks.Block) int {
	return len(Extract(tree))
}
