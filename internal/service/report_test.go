package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"editor-note/internal/auth"
	"editor-note/internal/blocks"
	"editor-note/internal/service"
	"editor-note/internal/service/mocks"
	"editor-note/internal/storage"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func editor() *auth.Principal {
	return &auth.Principal{UserID: "u-1", Capabilities: []string{auth.CapEditPosts, auth.CapEditOthersPosts}}
}

func TestNotesQuery(t *testing.T) {
	q := service.NotesQuery()
	if q.Contains != blocks.NoteMarker {
		t.Errorf("NotesQuery().Contains = %q, want %q", q.Contains, blocks.NoteMarker)
	}
	if q.Limit > 0 || len(q.Types) > 0 || len(q.Statuses) > 0 {
		t.Errorf("NotesQuery() should match any type and status without limit, got %+v", q)
	}
	if q.Order != storage.ModifiedAscending {
		t.Errorf("NotesQuery().Order = %v, want ModifiedAscending", q.Order)
	}
}

func TestReportService_BuildReport(t *testing.T) {
	modified := time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)
	body := blocks.SerializeNote("Check this fact") +
		`<!-- wp:group --><div>` + blocks.SerializeNote("Rewrite intro") + `</div><!-- /wp:group -->`

	tests := []struct {
		name     string
		docs     []storage.DocumentRecord
		queryErr error
		wantRows []service.ReportRow
		wantErr  bool
	}{
		{
			name:     "no documents",
			docs:     []storage.DocumentRecord{},
			wantRows: []service.ReportRow{},
		},
		{
			name: "one document",
			docs: []storage.DocumentRecord{{
				ID:         "doc-1",
				Title:      "Fish &amp; Chips",
				Permalink:  "/fish-chips",
				Body:       body,
				AuthorName: "Ann",
				EditorName: "Ed",
				ModifiedAt: modified,
			}},
			wantRows: []service.ReportRow{{
				DocumentID: "doc-1",
				Title:      "Fish &amp; Chips",
				Permalink:  "/fish-chips",
				Notes:      []string{"Check this fact", "Rewrite intro"},
				Author:     "Ann",
				ModifiedBy: "Ed",
				Modified:   modified,
			}},
		},
		{
			name: "order follows the store and missing authors stay blank",
			docs: []storage.DocumentRecord{
				{ID: "old", Body: blocks.SerializeNote("first"), ModifiedAt: modified},
				{ID: "new", Body: blocks.SerializeNote(""), ModifiedAt: modified.Add(time.Hour)},
			},
			wantRows: []service.ReportRow{
				{DocumentID: "old", Notes: []string{"first"}, Modified: modified},
				{DocumentID: "new", Notes: []string{}, Modified: modified.Add(time.Hour)},
			},
		},
		{
			name:     "store failure",
			queryErr: errors.New("disk on fire"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDocs := mocks.NewMockDocumentQuerier(ctrl)
			mockDocs.EXPECT().
				Query(gomock.Any(), service.NotesQuery()).
				Return(tt.docs, tt.queryErr).
				Times(1)

			svc := service.NewReportService(mockDocs)
			report, err := svc.BuildReport(context.Background(), editor())

			if tt.wantErr {
				if err == nil {
					t.Fatal("BuildReport() expected error, got nil")
				}
				if !errors.Is(err, tt.queryErr) {
					t.Errorf("BuildReport() error = %v, want wrapped %v", err, tt.queryErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildReport() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(report.Rows, tt.wantRows) {
				t.Errorf("BuildReport() rows = %+v, want %+v", report.Rows, tt.wantRows)
			}
			if report.Empty() != (len(tt.wantRows) == 0) {
				t.Errorf("Report.Empty() = %v", report.Empty())
			}
		})
	}
}

func TestReportService_BuildReport_PermissionDenied(t *testing.T) {
	tests := []struct {
		name      string
		principal *auth.Principal
	}{
		{name: "anonymous", principal: nil},
		{name: "no capabilities", principal: &auth.Principal{UserID: "u-2"}},
		{name: "author only", principal: &auth.Principal{UserID: "u-3", Capabilities: []string{auth.CapEditPosts}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No expectations: any query fails the test.
			mockDocs := mocks.NewMockDocumentQuerier(ctrl)
			svc := service.NewReportService(mockDocs)

			_, err := svc.BuildReport(context.Background(), tt.principal)
			if !errors.Is(err, service.ErrPermissionDenied) {
				t.Fatalf("BuildReport() error = %v, want ErrPermissionDenied", err)
			}
			var permErr *service.PermissionError
			if !errors.As(err, &permErr) || permErr.Capability != auth.CapEditOthersPosts {
				t.Errorf("BuildReport() error should name %s, got %v", auth.CapEditOthersPosts, err)
			}
		})
	}
}

// A store holding one matching and two non-matching documents yields one row.
func TestReportService_BuildReport_AgainstStore(t *testing.T) {
	db, err := storage.New(t.TempDir() + "/report.db")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}

	ctx := context.Background()
	repo := storage.NewDocumentRepo(db)
	matching := blocks.SerializeNote("Fix typo") + blocks.SerializeNote("Fix typo")
	docs := []*storage.DocumentRecord{
		{Title: "Plain", Body: `<!-- wp:paragraph --><p>No notes</p><!-- /wp:paragraph -->`},
		{Title: "Noted", Status: "publish", Body: matching},
		{Title: "Mentions notes", Type: "page", Body: `<p>pb/editor-note is a block</p>`},
	}
	for _, d := range docs {
		if err := repo.Upsert(ctx, d); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	report, err := service.NewReportService(repo).BuildReport(ctx, editor())
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("BuildReport() rows = %d, want 1", len(report.Rows))
	}
	row := report.Rows[0]
	if row.Title != "Noted" || !reflect.DeepEqual(row.Notes, []string{"Fix typo", "Fix typo"}) {
		t.Errorf("BuildReport() row = %+v", row)
	}
}

// The store filter is a literal prefix, so a block whose name merely starts
// with the note type still yields a row. The row has no notes because only
// the exact note type is extracted.
func TestReportService_BuildReport_PrefixedBlockName(t *testing.T) {
	db, err := storage.New(t.TempDir() + "/report.db")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}

	ctx := context.Background()
	repo := storage.NewDocumentRepo(db)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	docs := []*storage.DocumentRecord{
		{Title: "Lookalike", ModifiedAt: base, Body: `<!-- wp:pb/editor-notes {"content":"not a note"} /-->`},
		{Title: "Noted", ModifiedAt: base.Add(time.Hour), Body: blocks.SerializeNote("Real note")},
	}
	for _, d := range docs {
		if err := repo.Upsert(ctx, d); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	report, err := service.NewReportService(repo).BuildReport(ctx, editor())
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("BuildReport() rows = %d, want 2", len(report.Rows))
	}
	if got := report.Rows[0]; got.Title != "Lookalike" || got.Notes == nil || len(got.Notes) != 0 {
		t.Errorf("lookalike row = %+v, want empty non-nil notes", got)
	}
	if got := report.Rows[1]; !reflect.DeepEqual(got.Notes, []string{"Real note"}) {
		t.Errorf("noted row = %+v", got)
	}
}
