package ui

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/a7med3yad/DataProject/internal/config"
	"github.com/a7med3yad/DataProject/internal/segmentation"
	"github.com/a7med3yad/DataProject/internal/session"
)

// App is the HTTP boundary of the analytics service. It exposes the
// structured computation results; chart rendering and the interactive
// widgets live in the external presentation layer.
type App struct {
	router   *chi.Mux
	registry *session.Registry
	config   *config.Config
}

// NewApp wires the session registry and routes.
func NewApp(cfg *config.Config) *App {
	app := &App{
		router: chi.NewRouter(),
		registry: session.NewRegistry(segmentation.Config{
			Restarts:      cfg.Segmentation.Restarts,
			MaxIterations: cfg.Segmentation.MaxIterations,
			Seed:          cfg.Segmentation.Seed,
		}),
		config: cfg,
	}
	app.routes()
	return app
}

func (a *App) routes() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	a.router.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", a.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", a.handleRemoveSession)
			r.Post("/dataset", a.handleUploadDataset)
			r.Post("/demo", a.handleLoadDemo)
			r.Put("/params", a.handleSetParams)
			r.Get("/results", a.handleResults)
			r.Get("/cleaning", a.handleCleaning)
			r.Get("/rules", a.handleRules)
			r.Get("/segmentation", a.handleSegmentation)
			r.Get("/summary", a.handleSummary)
			r.Get("/insights", a.handleInsights)
		})
	})
}

// Start runs the HTTP server until it fails.
func (a *App) Start() error {
	addr := ":" + a.config.Server.Port
	log.Printf("[App] listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the handler tree for tests.
func (a *App) Router() http.Handler {
	return a.router
}
