package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"recordream/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Records handlers.RecordService
	DB      handlers.Pinger
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	recordHandler := handlers.NewRecordHandler(deps.Records)
	pageHandler := handlers.NewPageHandler(deps.Records)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/record", func(r chi.Router) {
		r.Get("/storage", recordHandler.List)
		r.Post("/", recordHandler.Create)
		r.Get("/{id}", recordHandler.Get)
		r.Delete("/{id}", recordHandler.Delete)
		r.Method(http.MethodGet, "/{id}/page", pageHandler)
	})
	r.Post("/voice", recordHandler.CreateVoice)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
