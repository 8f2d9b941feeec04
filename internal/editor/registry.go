// Package editor holds the block types the authoring surface knows about.
// Types are registered explicitly at startup; nothing registers itself.
package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"editor-note/internal/blocks"
)

var (
	// ErrDuplicateType is returned when a block name is registered twice.
	ErrDuplicateType = errors.New("block type already registered")
	// ErrInvalidAttributes is returned when attributes fail their schema.
	ErrInvalidAttributes = errors.New("invalid block attributes")
)

// BlockType describes one kind of block.
type BlockType struct {
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Attributes  json.RawMessage `json:"attributes"`
	// EditorOnly blocks are shown while authoring and removed from
	// published output.
	EditorOnly bool `json:"editor_only"`
}

// Registry is the set of registered block types. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	types   map[string]BlockType
	schemas map[string]*jsonschema.Schema
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:   make(map[string]BlockType),
		schemas: make(map[string]*jsonschema.Schema),
	}
}

// Register adds bt after compiling its attribute schema.
func (r *Registry) Register(bt BlockType) error {
	if bt.Name == "" {
		return fmt.Errorf("register block type: empty name")
	}

	var schema *jsonschema.Schema
	if len(bt.Attributes) > 0 {
		url := "mem://blocks/" + bt.Name + ".json"
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(url, bytes.NewReader(bt.Attributes)); err != nil {
			return fmt.Errorf("register block type %s: %w", bt.Name, err)
		}
		compiled, err := compiler.Compile(url)
		if err != nil {
			return fmt.Errorf("register block type %s: %w", bt.Name, err)
		}
		schema = compiled
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[bt.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, bt.Name)
	}
	r.types[bt.Name] = bt
	if schema != nil {
		r.schemas[bt.Name] = schema
	}
	r.order = append(r.order, bt.Name)
	return nil
}

// Lookup returns the block type registered under name.
func (r *Registry) Lookup(name string) (BlockType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bt, ok := r.types[name]
	return bt, ok
}

// Types returns every registered type in registration order.
func (r *Registry) Types() []BlockType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BlockType, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.types[name])
	}
	return out
}

// Validate checks attrs against the schema of the named type. Unknown
// types and types without a schema accept anything.
func (r *Registry) Validate(name string, attrs map[string]any) error {
	r.mu.RLock()
	schema, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	// The validator expects values shaped like decoded JSON.
	raw, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAttributes, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAttributes, err)
	}
	if attrs == nil {
		doc = map[string]any{}
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidAttributes, name, err)
	}
	return nil
}

// RenderPublished returns body with every editor-only block removed.
func (r *Registry) RenderPublished(body string) string {
	r.mu.RLock()
	var hidden []string
	for _, name := range r.order {
		if r.types[name].EditorOnly {
			hidden = append(hidden, name)
		}
	}
	r.mu.RUnlock()
	return blocks.Strip(body, hidden...)
}
