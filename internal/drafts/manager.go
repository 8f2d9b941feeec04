// Package drafts knows where markdown drafts live on disk.
package drafts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source is a named directory of drafts.
type Source struct {
	Name string
	Root string // Absolute path
}

// Manager holds the configured draft sources and resolves paths within them.
type Manager struct {
	sources []Source
	byName  map[string]Source
}

// NewManager resolves each root to an absolute directory and fails if one
// is missing or a name repeats.
func NewManager(sources ...Source) (*Manager, error) {
	m := &Manager{byName: make(map[string]Source, len(sources))}
	for _, s := range sources {
		if s.Name == "" {
			return nil, fmt.Errorf("draft source with root %q has no name", s.Root)
		}
		if _, dup := m.byName[s.Name]; dup {
			return nil, fmt.Errorf("duplicate draft source: %s", s.Name)
		}
		root, err := filepath.Abs(s.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve draft source %s: %w", s.Name, err)
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to open draft source %s: %w", s.Name, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("draft source %s: %s is not a directory", s.Name, root)
		}
		s.Root = root
		m.sources = append(m.sources, s)
		m.byName[s.Name] = s
	}
	return m, nil
}

// Sources returns the sources in configuration order.
func (m *Manager) Sources() []Source {
	return append([]Source(nil), m.sources...)
}

// SourceByName returns the source with the given name.
func (m *Manager) SourceByName(name string) (Source, error) {
	s, ok := m.byName[name]
	if !ok {
		return Source{}, fmt.Errorf("draft source not found: %s", name)
	}
	return s, nil
}

// AbsPath returns the absolute path of relPath inside the named source.
func (m *Manager) AbsPath(source, relPath string) (string, error) {
	s, err := m.SourceByName(source)
	if err != nil {
		return "", err
	}
	abs := filepath.Join(s.Root, filepath.FromSlash(relPath))
	if !within(s.Root, abs) {
		return "", fmt.Errorf("path escapes draft source %s: %s", source, relPath)
	}
	return abs, nil
}

// Locate maps an absolute path back to its source and slash-separated
// relative path.
func (m *Manager) Locate(absPath string) (ScannedFile, bool) {
	absPath = filepath.Clean(absPath)
	for _, s := range m.sources {
		if !within(s.Root, absPath) || absPath == s.Root {
			continue
		}
		rel, err := filepath.Rel(s.Root, absPath)
		if err != nil {
			continue
		}
		return ScannedFile{Source: s.Name, RelPath: filepath.ToSlash(rel), AbsPath: absPath}, true
	}
	return ScannedFile{}, false
}

func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}
