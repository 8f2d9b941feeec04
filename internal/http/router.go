package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"editor-note/internal/editor"
	"editor-note/internal/handlers"
	"editor-note/internal/service"
)

const (
	reportPath = "/admin/editor-notes"
	healthPath = "/healthz"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Reports   service.ReportService
	Documents handlers.DocumentGetter
	Registry  *editor.Registry
	Tokens    TokenParser
	Users     UserLookup
	DB        handlers.Pinger
	Display   service.DisplayLayout
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	// Add CORS middleware
	r.Use(CORS)

	r.Method(http.MethodGet, healthPath, handlers.NewHealthHandler(deps.DB))

	// Routes that may carry a principal
	r.Group(func(r chi.Router) {
		r.Use(Authenticate(deps.Tokens, deps.Users))

		r.Method(http.MethodGet, "/documents/{id}", handlers.NewDocumentHandler(deps.Documents, deps.Registry))
		r.Method(http.MethodGet, reportPath, handlers.NewReportHandler(deps.Reports, deps.Display))

		r.Route("/api", func(r chi.Router) {
			r.Method(http.MethodGet, "/editor-notes", handlers.NewReportAPIHandler(deps.Reports))
			r.Method(http.MethodPost, "/notes/extract", handlers.NewExtractHandler())
			r.Method(http.MethodGet, "/block-types", handlers.NewBlockTypesHandler(deps.Registry))
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, reportPath, http.StatusFound)
	})

	return r
}
