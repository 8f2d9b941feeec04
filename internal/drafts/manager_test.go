package drafts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewManager(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.md")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name    string
		sources []Source
		wantErr bool
	}{
		{name: "no sources", sources: nil},
		{name: "one source", sources: []Source{{Name: "blog", Root: dir}}},
		{name: "missing root", sources: []Source{{Name: "blog", Root: filepath.Join(dir, "missing")}}, wantErr: true},
		{name: "root is a file", sources: []Source{{Name: "blog", Root: file}}, wantErr: true},
		{name: "empty name", sources: []Source{{Root: dir}}, wantErr: true},
		{name: "duplicate name", sources: []Source{{Name: "a", Root: dir}, {Name: "a", Root: dir}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(tt.sources...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewManager() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(m.Sources()) != len(tt.sources) {
				t.Errorf("Sources() = %d, want %d", len(m.Sources()), len(tt.sources))
			}
		})
	}
}

func TestManager_AbsPath(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(Source{Name: "blog", Root: dir})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	got, err := m.AbsPath("blog", "posts/hello.md")
	if err != nil {
		t.Fatalf("AbsPath() error = %v", err)
	}
	if want := filepath.Join(dir, "posts", "hello.md"); got != want {
		t.Errorf("AbsPath() = %q, want %q", got, want)
	}

	if _, err := m.AbsPath("blog", "../outside.md"); err == nil {
		t.Error("AbsPath() should reject paths outside the source")
	}
	if _, err := m.AbsPath("docs", "a.md"); err == nil {
		t.Error("AbsPath() should reject unknown sources")
	}
}

func TestManager_Locate(t *testing.T) {
	blog := t.TempDir()
	docs := t.TempDir()
	m, err := NewManager(Source{Name: "blog", Root: blog}, Source{Name: "docs", Root: docs})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	f, ok := m.Locate(filepath.Join(docs, "guide", "start.md"))
	if !ok {
		t.Fatal("Locate() did not find file in docs")
	}
	if f.Source != "docs" || f.RelPath != "guide/start.md" {
		t.Errorf("Locate() = %+v", f)
	}

	if _, ok := m.Locate(filepath.Join(t.TempDir(), "x.md")); ok {
		t.Error("Locate() should not match paths outside every source")
	}
	if _, ok := m.Locate(blog); ok {
		t.Error("Locate() should not match a source root itself")
	}
}
