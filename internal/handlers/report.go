package handlers

import (
	"errors"
	"html"
	"html/template"
	"net/http"
	"time"

	"editor-note/internal/auth"
	"editor-note/internal/contextutil"
	"editor-note/internal/service"
)

const (
	forbiddenMessage = "Sorry, you are not allowed to access this page."
	emptyMessage     = "No editor notes found."
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Editor Notes</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 1100px;
      color: #1d2327;
      background: #f0f0f1;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      background: #fff;
      border: 1px solid #c3c4c7;
    }
    th, td {
      text-align: left;
      vertical-align: top;
      padding: 8px 10px;
      border-bottom: 1px solid #dcdcde;
    }
    tbody tr:nth-child(odd) {
      background: #f6f7f7;
    }
    td ul {
      margin: 0;
      padding-left: 1.2rem;
    }
    a {
      color: #2271b1;
    }
    .notice {
      background: #fff;
      border-left: 4px solid #d63638;
      padding: 12px;
    }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>Editor Notes</h1>
{{- if .Denied}}
    <p class="notice">{{.Message}}</p>
{{- else if not .Rows}}
    <p>{{.Message}}</p>
{{- else}}
    <table>
      <thead>
        <tr>
          <th scope="col">Title</th>
          <th scope="col">Notes</th>
          <th scope="col">Author</th>
          <th scope="col">Last Modified</th>
        </tr>
      </thead>
      <tbody>
{{- range .Rows}}
        <tr>
          <td>{{if .Permalink}}<a href="{{.Permalink}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td>
          <td><ul>{{range .Notes}}<li>{{.}}</li>{{end}}</ul></td>
          <td>{{.Author}}</td>
          <td><time datetime="{{.Datetime}}">{{.Date}} at {{.Time}}</time>{{if .ModifiedBy}}<br>by {{.ModifiedBy}}{{end}}</td>
        </tr>
{{- end}}
      </tbody>
    </table>
{{- end}}
  </div>
</body>
</html>
`))

// reportPageData holds template data for the report page.
type reportPageData struct {
	Denied  bool
	Message string
	Rows    []reportPageRow
}

type reportPageRow struct {
	Title      string
	Permalink  string
	Notes      []string
	Author     string
	ModifiedBy string
	Datetime   string
	Date       string
	Time       string
}

// ReportHandler renders the editor notes admin page.
type ReportHandler struct {
	reports service.ReportService
	layout  service.DisplayLayout
}

// NewReportHandler creates a new ReportHandler that shows times per layout.
func NewReportHandler(reports service.ReportService, layout service.DisplayLayout) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		layout:  layout,
	}
}

// ServeHTTP handles GET /admin/editor-notes.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	report, err := h.reports.BuildReport(ctx, auth.PrincipalFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			h.render(w, r, http.StatusForbidden, reportPageData{Denied: true, Message: forbiddenMessage})
			return
		}
		logger.ErrorContext(ctx, "failed to build editor notes report", "error", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	data := reportPageData{Message: emptyMessage, Rows: make([]reportPageRow, 0, len(report.Rows))}
	for _, row := range report.Rows {
		modified := h.layout.Format(row.Modified)
		data.Rows = append(data.Rows, reportPageRow{
			// Titles are stored entity-encoded; the template encodes once more.
			Title:      html.UnescapeString(row.Title),
			Permalink:  row.Permalink,
			Notes:      row.Notes,
			Author:     row.Author,
			ModifiedBy: row.ModifiedBy,
			Datetime:   modified.Datetime,
			Date:       modified.Date,
			Time:       modified.Time,
		})
	}

	h.render(w, r, http.StatusOK, data)
}

func (h *ReportHandler) render(w http.ResponseWriter, r *http.Request, status int, data reportPageData) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := reportTemplate.Execute(w, data); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to execute report template", "error", err)
	}
}

// ReportResponse is the JSON form of the report.
//
// swagger:model ReportResponse
type ReportResponse struct {
	Rows []ReportRowResponse `json:"rows"`
}

// ReportRowResponse is one document in ReportResponse.
//
// swagger:model ReportRowResponse
type ReportRowResponse struct {
	DocumentID string    `json:"document_id"`
	Title      string    `json:"title"`
	Permalink  string    `json:"permalink,omitempty"`
	Notes      []string  `json:"notes"`
	Author     string    `json:"author"`
	ModifiedBy string    `json:"modified_by"`
	Modified   time.Time `json:"modified"`
}

// ReportAPIHandler serves the report as JSON.
type ReportAPIHandler struct {
	reports service.ReportService
}

// NewReportAPIHandler creates a new ReportAPIHandler.
func NewReportAPIHandler(reports service.ReportService) *ReportAPIHandler {
	return &ReportAPIHandler{reports: reports}
}

// ServeHTTP handles GET /api/editor-notes.
//
// swagger:route GET /api/editor-notes editorNotes
//
// Lists every document containing editor notes, oldest modification first.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  schema:
//	    "$ref": "#/definitions/ReportResponse"
//	'403':
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ReportAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.reports.BuildReport(ctx, auth.PrincipalFromContext(ctx))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to build report")
		return
	}

	resp := ReportResponse{Rows: make([]ReportRowResponse, 0, len(report.Rows))}
	for _, row := range report.Rows {
		resp.Rows = append(resp.Rows, ReportRowResponse{
			DocumentID: row.DocumentID,
			Title:      html.UnescapeString(row.Title),
			Permalink:  row.Permalink,
			Notes:      row.Notes,
			Author:     row.Author,
			ModifiedBy: row.ModifiedBy,
			Modified:   row.Modified,
		})
	}
	writeJSON(w, ctx, resp)
}
