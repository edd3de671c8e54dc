package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tanya-konstitusi/internal/handlers"
	"tanya-konstitusi/internal/retrieval"
	"tanya-konstitusi/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QAService service.QAService
	// Models lists the kinds the server is expected to serve.
	Models []retrieval.Kind
	// NumRank is the answer count used when a request omits num_rank.
	NumRank int
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.QAService, deps.NumRank)
	healthHandler := handlers.NewHealthHandler(deps.QAService, deps.Models)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	r.Method(http.MethodGet, "/", handlers.NewIndexHandler())
	r.Method(http.MethodGet, "/{algorithm}", askHandler)
	r.Method(http.MethodGet, "/{algorithm}/", askHandler)

	return r
}
