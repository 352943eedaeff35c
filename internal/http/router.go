package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rupped-negotiator/internal/handlers"
	"rupped-negotiator/internal/service"
	"rupped-negotiator/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	NegotiationService service.NegotiationService
	Catalog            handlers.ModelCatalog
	ModelName          string
	HealthTimeout      time.Duration
	TranscriptStore    storage.TranscriptStore // nil disables the transcript route
	AllowedOrigins     []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	// Add CORS middleware
	r.Use(CORS(deps.AllowedOrigins))

	negotiateHandler := handlers.NewNegotiateHandler(deps.NegotiationService)
	healthHandler := handlers.NewHealthHandler(deps.Catalog, deps.ModelName, deps.HealthTimeout)
	modelsHandler := handlers.NewModelsHandler(deps.Catalog, deps.ModelName)

	r.Get("/", handlers.Root)
	r.Method(http.MethodGet, "/health", healthHandler)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/models", modelsHandler.List)
		r.Post("/pull-model", modelsHandler.Pull)

		r.Post("/negotiate", negotiateHandler.Stream)
		r.Post("/negotiate/non-streaming", negotiateHandler.Buffered)
		r.Post("/negotiate/mock", negotiateHandler.Mock)

		if deps.TranscriptStore != nil {
			r.Method(http.MethodGet, "/negotiations/{productId}", handlers.NewTranscriptsHandler(deps.TranscriptStore))
		}
	})

	return r
}
