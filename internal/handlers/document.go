package handlers

import (
	"context"
	"html"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"editor-note/internal/auth"
	"editor-note/internal/contextutil"
	"editor-note/internal/editor"
	"editor-note/internal/storage"
)

// DocumentGetter loads a single document.
type DocumentGetter interface {
	GetByID(ctx context.Context, id string) (*storage.DocumentRecord, error)
}

// documentPageData holds template data for published documents.
type documentPageData struct {
	Title   string
	Content template.HTML
}

// PreviewCapability lets a principal view documents that are not published.
const PreviewCapability = auth.CapEditPosts

// DocumentHandler serves the published rendering of a document. Documents
// that are not published answer 404 unless the principal may preview them.
type DocumentHandler struct {
	documents DocumentGetter
	registry  *editor.Registry
	template  *template.Template
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documents DocumentGetter, registry *editor.Registry) *DocumentHandler {
	tmpl := template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: Georgia, 'Times New Roman', serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 760px;
      line-height: 1.7;
    }
  </style>
</head>
<body>
  <article>
    <h1>{{.Title}}</h1>
    {{.Content}}
  </article>
</body>
</html>`))

	return &DocumentHandler{
		documents: documents,
		registry:  registry,
		template:  tmpl,
	}
}

// ServeHTTP handles GET /documents/{id}.
func (h *DocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		http.Error(w, "document id is required", http.StatusBadRequest)
		return
	}

	doc, err := h.documents.GetByID(ctx, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load document")
		return
	}
	if doc.Status != storage.StatusPublish && !auth.PrincipalFromContext(ctx).Can(PreviewCapability) {
		logger.InfoContext(ctx, "unpublished document hidden", "id", id, "status", doc.Status)
		handleServiceError(w, ctx, storage.ErrNotFound, "Failed to load document")
		return
	}

	data := documentPageData{
		Title: html.UnescapeString(doc.Title),
		// Stored bodies are trusted author HTML.
		Content: template.HTML(h.registry.RenderPublished(doc.Body)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute document template", "id", id, "error", err)
		http.Error(w, "failed to render document", http.StatusInternalServerError)
		return
	}
}
