package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_querier.go -package=mocks editor-note/internal/service DocumentQuerier
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_report_service.go -package=mocks editor-note/internal/service ReportService

import (
	"context"
	"time"

	"editor-note/internal/auth"
	"editor-note/internal/blocks"
	"editor-note/internal/contextutil"
	"editor-note/internal/notes"
	"editor-note/internal/storage"
)

// ReportCapability is the capability required to open the report.
const ReportCapability = auth.CapEditOthersPosts

// DocumentQuerier runs a read-only query against the document store.
// This interface is defined from the service layer's perspective (consumer-first).
type DocumentQuerier interface {
	Query(ctx context.Context, q storage.DocumentQuery) ([]storage.DocumentRecord, error)
}

// ReportRow summarizes one document that contains editor notes.
type ReportRow struct {
	DocumentID string
	Title      string
	Permalink  string
	Notes      []string
	Author     string
	ModifiedBy string
	Modified   time.Time
}

// Report is the ordered list of rows, oldest modification first.
type Report struct {
	Rows []ReportRow
}

// Empty reports whether no document contains notes.
func (r Report) Empty() bool {
	return len(r.Rows) == 0
}

// ReportService builds the editor-notes report.
type ReportService interface {
	// BuildReport checks the principal's capability, then queries the store
	// once and extracts the notes of every matching document.
	BuildReport(ctx context.Context, principal *auth.Principal) (Report, error)
}

// reportService implements ReportService.
type reportService struct {
	documents DocumentQuerier
}

// NewReportService creates a new ReportService.
func NewReportService(documents DocumentQuerier) ReportService {
	return &reportService{documents: documents}
}

// NotesQuery is the store query behind the report: any type and status,
// no limit, oldest modification first, bodies containing a note marker.
func NotesQuery() storage.DocumentQuery {
	return storage.DocumentQuery{
		Contains: blocks.NoteMarker,
		Order:    storage.ModifiedAscending,
	}
}

// BuildReport builds the report for principal.
func (s *reportService) BuildReport(ctx context.Context, principal *auth.Principal) (Report, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if !principal.Can(ReportCapability) {
		logger.WarnContext(ctx, "editor notes report denied", "user_id", userID(principal))
		return Report{}, &PermissionError{Capability: ReportCapability}
	}

	docs, err := s.documents.Query(ctx, NotesQuery())
	if err != nil {
		logger.ErrorContext(ctx, "failed to query documents with notes", "error", err)
		return Report{}, WrapError(err, "failed to query documents")
	}

	report := Report{Rows: make([]ReportRow, 0, len(docs))}
	total := 0
	for _, doc := range docs {
		found := notes.Extract(blocks.Parse(doc.Body))
		total += len(found)
		report.Rows = append(report.Rows, ReportRow{
			DocumentID: doc.ID,
			Title:      doc.Title,
			Permalink:  doc.Permalink,
			Notes:      found,
			Author:     doc.AuthorName,
			ModifiedBy: doc.EditorName,
			Modified:   doc.ModifiedAt,
		})
	}

	logger.InfoContext(ctx, "editor notes report built", "documents", len(report.Rows), "notes", total)
	return report, nil
}

func userID(p *auth.Principal) string {
	if p == nil {
		return ""
	}
	return p.UserID
}
