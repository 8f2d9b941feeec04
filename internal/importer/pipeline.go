// Package importer loads markdown drafts and YAML fixtures into the
// document store.
package importer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/frontmatter"

	"editor-note/internal/contextutil"
	"editor-note/internal/drafts"
	"editor-note/internal/editor"
	"editor-note/internal/storage"
)

// Pipeline imports drafts from every configured source.
type Pipeline struct {
	drafts    *drafts.Manager
	documents storage.DocumentStore
	users     storage.UserStore
	converter *Converter

	// debounce delays re-imports triggered by Watch.
	debounce time.Duration
}

// NewPipeline creates a new import pipeline.
func NewPipeline(
	draftManager *drafts.Manager,
	documents storage.DocumentStore,
	users storage.UserStore,
	registry *editor.Registry,
) *Pipeline {
	return &Pipeline{
		drafts:    draftManager,
		documents: documents,
		users:     users,
		converter: NewConverter(registry),
		debounce:  100 * time.Millisecond,
	}
}

// draftMeta is the front matter a draft may carry.
type draftMeta struct {
	Title      string    `yaml:"title"`
	Type       string    `yaml:"type"`
	Status     string    `yaml:"status"`
	Author     string    `yaml:"author"`
	AuthorName string    `yaml:"author_name"`
	ModifiedBy string    `yaml:"modified_by"`
	Permalink  string    `yaml:"permalink"`
	Modified   time.Time `yaml:"modified"`
}

// ImportFile imports one draft. It reports false when the file is
// unchanged since the last import.
func (p *Pipeline) ImportFile(ctx context.Context, source, relPath string) (bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	absPath, err := p.drafts.AbsPath(source, relPath)
	if err != nil {
		return false, err
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return false, fmt.Errorf("failed to read file %s: %w", absPath, err)
	}

	hashHex := fmt.Sprintf("%x", sha256.Sum256(content))

	existing, err := p.documents.GetBySourcePath(ctx, source, relPath)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("failed to check existing document: %w", err)
	}
	if existing != nil && existing.Hash == hashHex {
		logger.DebugContext(ctx, "skipping unchanged draft", "source", source, "rel_path", relPath, "hash", hashHex)
		return false, nil
	}

	var meta draftMeta
	body, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil {
		return false, fmt.Errorf("parse frontmatter of %s: %w", relPath, err)
	}

	converted, err := p.converter.Convert(body, filepath.Base(relPath))
	if err != nil {
		return false, fmt.Errorf("convert %s: %w", relPath, err)
	}

	doc := &storage.DocumentRecord{
		Type:       meta.Type,
		Status:     meta.Status,
		Title:      meta.Title,
		Body:       converted.Body,
		Permalink:  meta.Permalink,
		Source:     source,
		RelPath:    relPath,
		Hash:       hashHex,
		ModifiedAt: meta.Modified,
	}
	if existing != nil {
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
	}
	if doc.Title == "" {
		doc.Title = converted.Title
	}
	if doc.ModifiedAt.IsZero() {
		if info, err := os.Stat(absPath); err == nil {
			doc.ModifiedAt = info.ModTime()
		}
	}

	if meta.Author != "" {
		author, err := p.users.GetOrCreateByLogin(ctx, meta.Author, meta.AuthorName)
		if err != nil {
			return false, fmt.Errorf("failed to resolve author %s: %w", meta.Author, err)
		}
		doc.AuthorID = author.ID
	}
	switch {
	case meta.ModifiedBy != "" && meta.ModifiedBy == meta.Author:
		doc.ModifiedBy = doc.AuthorID
	case meta.ModifiedBy != "":
		editorUser, err := p.users.GetOrCreateByLogin(ctx, meta.ModifiedBy, "")
		if err != nil {
			return false, fmt.Errorf("failed to resolve editor %s: %w", meta.ModifiedBy, err)
		}
		doc.ModifiedBy = editorUser.ID
	default:
		doc.ModifiedBy = doc.AuthorID
	}

	if err := p.documents.Upsert(ctx, doc); err != nil {
		return false, fmt.Errorf("failed to upsert document: %w", err)
	}

	logger.InfoContext(ctx, "imported draft", "source", source, "rel_path", relPath, "id", doc.ID, "notes", converted.Notes)
	return true, nil
}

// ImportAll scans every source and imports each draft. Failures of
// individual files are counted and logged without stopping the run.
func (p *Pipeline) ImportAll(ctx context.Context) (ImportStats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	var stats ImportStats

	scannedFiles, err := p.drafts.ScanAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to scan drafts: %w", err)
	}
	stats.Scanned = len(scannedFiles)

	logger.InfoContext(ctx, "starting import", "total_files", stats.Scanned)

	for _, file := range scannedFiles {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		imported, err := p.ImportFile(ctx, file.Source, file.RelPath)
		stats.record(imported, err)
		if err != nil {
			logger.ErrorContext(ctx, "failed to import draft", "source", file.Source, "rel_path", file.RelPath, "error", err)
		}
	}

	logger.InfoContext(ctx, "import completed", stats.LogAttrs()...)

	if stats.Failed > 0 {
		return stats, fmt.Errorf("import completed with %d errors", stats.Failed)
	}
	return stats, nil
}
