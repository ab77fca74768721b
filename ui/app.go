package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"healthdash/adapters/excel"
	"healthdash/app"
	"healthdash/domain/core"
	"healthdash/internal/logging"
	"healthdash/internal/staticdata"
	"healthdash/ports"
)

var uiLog = logging.NewDefault("UI")

// App is the HTTP application serving the dashboard API.
type App struct {
	router    *chi.Mux
	dashboard *app.DashboardService
	summaries *app.SummaryService
	catalog   ports.CatalogGateway
	data      ports.DataGateway
	scales    staticdata.ScaleTable
	exporter  *excel.Exporter
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates the HTTP application and wires its routes.
func NewApp(dashboard *app.DashboardService, summaries *app.SummaryService, catalog ports.CatalogGateway, data ports.DataGateway, scales staticdata.ScaleTable) *App {
	a := &App{
		router:    chi.NewRouter(),
		dashboard: dashboard,
		summaries: summaries,
		catalog:   catalog,
		data:      data,
		scales:    scales,
		exporter:  excel.NewExporter(),
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(corsMiddleware)
	a.router.Use(requestIDMiddleware)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Statistics
	a.router.Post("/indicator-stats", a.handleIndicatorStats)
	a.router.Post("/indicator-correlation", a.handleIndicatorCorrelation)
	a.router.Post("/indicator-stats/export", a.handleStatsExport)

	// Narrative
	a.router.Post("/indicator-summary", a.handleIndicatorSummary)

	// Chart data
	a.router.Post("/getStatesByIndicators", a.handleStatesByIndicators)
	a.router.Post("/getDistrictsByIndicators", a.handleDistrictsByIndicators)
	a.router.Get("/indicator-scale/{id}", a.handleIndicatorScale)

	// Catalogs
	a.router.Get("/States", a.handleStates)
	a.router.Get("/Districts", a.handleDistricts)
	a.router.Get("/Indicators", a.handleIndicators)
	a.router.Get("/IndicatorType", a.handleIndicators)
	a.router.Get("/Categories", a.handleCategories)
	a.router.Post("/receiveCategories", a.handleReceiveCategories)
}

// Router exposes the handler tree, for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server; it blocks until the listener fails.
func (a *App) Start(port string) error {
	uiLog.Info("listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}

// requestIDMiddleware stamps every response with a unique request id so
// dashboard calls can be matched to server logs.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", core.RequestID(core.NewID()).String())
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware allows cross-origin calls from the dashboard frontend.
// The deployment serves the API and the chart frontend from different
// origins, so every response carries permissive CORS headers.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
