package drafts

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ScannedFile represents a markdown draft found during scanning.
type ScannedFile struct {
	Source  string // Draft source name
	RelPath string // Relative path from the source root, slash separated
	AbsPath string // Absolute file path
}

// IsDraft reports whether name looks like a markdown draft.
func IsDraft(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md") && !strings.HasPrefix(filepath.Base(name), ".")
}

// ScanAll walks every source and returns its markdown drafts. Hidden
// directories such as .git are skipped.
func (m *Manager) ScanAll(ctx context.Context) ([]ScannedFile, error) {
	var scanned []ScannedFile

	for _, s := range m.sources {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("failed to access path %s: %w", path, err)
			}

			if d.IsDir() {
				if path != s.Root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}

			if !IsDraft(d.Name()) {
				return nil
			}

			relPath, err := filepath.Rel(s.Root, path)
			if err != nil {
				return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
			}

			scanned = append(scanned, ScannedFile{
				Source:  s.Name,
				RelPath: filepath.ToSlash(relPath),
				AbsPath: path,
			})
			return nil
		})
		if err != nil {
			return scanned, fmt.Errorf("failed to scan draft source %s: %w", s.Name, err)
		}
	}

	return scanned, nil
}
