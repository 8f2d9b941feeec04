package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks editor-note/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// SortOrder selects the result order of a DocumentQuery.
type SortOrder int

const (
	// ModifiedAscending orders oldest modification first.
	ModifiedAscending SortOrder = iota
	// ModifiedDescending orders newest modification first.
	ModifiedDescending
)

// DocumentQuery describes a read against the document store.
// Empty Types or Statuses match any value and a Limit of zero or less
// means no limit.
type DocumentQuery struct {
	Types    []string
	Statuses []string
	// Contains keeps documents whose body contains this literal,
	// case-sensitive substring.
	Contains string
	Limit    int
	Order    SortOrder
}

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Query returns the documents matching q, with author names filled in.
	Query(ctx context.Context, q DocumentQuery) ([]DocumentRecord, error)
	// GetByID gets a document by ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*DocumentRecord, error)
	// GetBySourcePath gets an imported document by draft source and path.
	// Returns ErrNotFound if not found.
	GetBySourcePath(ctx context.Context, source, relPath string) (*DocumentRecord, error)
	// Upsert inserts a new document or updates an existing one by ID.
	Upsert(ctx context.Context, doc *DocumentRecord) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

const documentColumns = `d.id, d.type, d.status, d.title, d.body, d.permalink,
	COALESCE(d.author_id, ''), COALESCE(d.modified_by_id, ''),
	COALESCE(d.source, ''), COALESCE(d.rel_path, ''), COALESCE(d.hash, ''),
	d.created_at, d.modified_at,
	COALESCE(a.display_name, ''), COALESCE(m.display_name, '')`

const documentJoins = `FROM documents d
	LEFT JOIN users a ON a.id = d.author_id
	LEFT JOIN users m ON m.id = d.modified_by_id`

// Query returns documents matching q.
func (r *DocumentRepo) Query(ctx context.Context, q DocumentQuery) ([]DocumentRecord, error) {
	var (
		where []string
		args  []any
	)
	if len(q.Types) > 0 {
		where = append(where, "d.type IN ("+placeholders(len(q.Types))+")")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	if len(q.Statuses) > 0 {
		where = append(where, "d.status IN ("+placeholders(len(q.Statuses))+")")
		for _, s := range q.Statuses {
			args = append(args, s)
		}
	}
	if q.Contains != "" {
		// instr: literal, case-sensitive substring match.
		where = append(where, "instr(d.body, ?) > 0")
		args = append(args, q.Contains)
	}

	query := "SELECT " + documentColumns + " " + documentJoins
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if q.Order == ModifiedDescending {
		query += " ORDER BY d.modified_at DESC, d.id DESC"
	} else {
		query += " ORDER BY d.modified_at ASC, d.id ASC"
	}
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := []DocumentRecord{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// GetByID gets a document by ID.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" "+documentJoins+" WHERE d.id = ?",
		id,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

// GetBySourcePath gets an imported document by draft source and path.
func (r *DocumentRepo) GetBySourcePath(ctx context.Context, source, relPath string) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" "+documentJoins+" WHERE d.source = ? AND d.rel_path = ?",
		source, relPath,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

// Upsert inserts a new document or updates an existing one.
// A missing ID is generated, missing timestamps default to now, and
// created_at is never overwritten on update.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.ModifiedAt.IsZero() {
		doc.ModifiedAt = now
	}
	if doc.Type == "" {
		doc.Type = "post"
	}
	if doc.Status == "" {
		doc.Status = StatusDraft
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, type, status, title, body, permalink, author_id, modified_by_id,
			source, rel_path, hash, created_at, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		 type = excluded.type, status = excluded.status, title = excluded.title, body = excluded.body,
		 permalink = excluded.permalink, author_id = excluded.author_id, modified_by_id = excluded.modified_by_id,
		 source = excluded.source, rel_path = excluded.rel_path, hash = excluded.hash,
		 modified_at = excluded.modified_at`,
		doc.ID, doc.Type, doc.Status, doc.Title, doc.Body, doc.Permalink,
		nullString(doc.AuthorID), nullString(doc.ModifiedBy),
		nullString(doc.Source), nullString(doc.RelPath), nullString(doc.Hash),
		formatTimestamp(doc.CreatedAt), formatTimestamp(doc.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*DocumentRecord, error) {
	var (
		doc                   DocumentRecord
		createdAt, modifiedAt string
	)
	err := row.Scan(
		&doc.ID, &doc.Type, &doc.Status, &doc.Title, &doc.Body, &doc.Permalink,
		&doc.AuthorID, &doc.ModifiedBy, &doc.Source, &doc.RelPath, &doc.Hash,
		&createdAt, &modifiedAt, &doc.AuthorName, &doc.EditorName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	if doc.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if doc.ModifiedAt, err = parseTimestamp(modifiedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
