package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/fluxocx/fluxo/internal/ai"
	"github.com/fluxocx/fluxo/internal/api/handlers"
	mw "github.com/fluxocx/fluxo/internal/api/middleware"
	"github.com/fluxocx/fluxo/internal/config"
	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/service"
	"github.com/fluxocx/fluxo/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and request counters for lifecycle management.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	tenantStore := store.NewTenantStore(db)
	companyStore := store.NewCompanyStore(db)
	categoryStore := store.NewCategoryStore(db)
	transactionStore := store.NewTransactionStore(db)

	// Services
	companySvc := service.NewCompanyService(companyStore)
	categorySvc := service.NewCategoryService(categoryStore)
	transactionSvc := service.NewTransactionService(transactionStore, companyStore, categoryStore)
	reportsSvc := service.NewReportsService(companyStore, transactionStore)
	suggestSvc := service.NewSuggestService(companyStore, categoryStore, transactionStore, logger)
	consultSvc := service.NewConsultService(companyStore, transactionStore, logger)

	// Optional external suggestion provider
	if config.AIEnabled() {
		provider := config.AIProvider()
		client, err := ai.NewClient(provider, config.AIBaseURL(), config.AIAPIKey(), config.AITimeout())
		if err != nil {
			logger.Warn("AI client initialization failed", zap.String("provider", provider), zap.Error(err))
		} else {
			suggestSvc.SetEnhancer(client)
			logger.Info("AI client initialized", zap.String("provider", provider))
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(tenantStore)
	companyHandler := handlers.NewCompanyHandler(companySvc)
	categoryHandler := handlers.NewCategoryHandler(categorySvc)
	transactionHandler := handlers.NewTransactionHandler(transactionSvc)
	reportsHandler := handlers.NewReportsHandler(reportsSvc)
	aiHandler := handlers.NewAIHandler(suggestSvc, consultSvc, config.IsProd(), logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	auth := mw.JWTAuth(config.JWTSecret(), tenantStore)

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Auth
	r.Post("/auth/login", authHandler.Login)
	r.With(auth).Get("/auth/me", authHandler.Me)

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(auth)

		// Companies
		r.Route("/companies", func(r chi.Router) {
			r.Post("/", companyHandler.Create)
			r.Get("/", companyHandler.List)
			r.Get("/{id}", companyHandler.GetByID)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", categoryHandler.Create)
			r.Get("/", categoryHandler.List)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", transactionHandler.Create)
			r.Get("/", transactionHandler.List)
			r.Get("/uncategorized", transactionHandler.Uncategorized)
			r.Patch("/{id}/category", transactionHandler.SetCategory)
			r.Post("/bulk-categorize", transactionHandler.BulkCategorize)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", reportsHandler.Summary)
			r.Get("/daily", reportsHandler.Daily)
			r.Get("/context", reportsHandler.Context)
			r.Get("/top-categories", reportsHandler.TopCategories)
		})

		// Suggestion engine and diagnostics
		r.Route("/ai", func(r chi.Router) {
			r.Get("/suggest-categories", aiHandler.SuggestCategories)
			r.Post("/apply-suggestions", aiHandler.ApplySuggestions)
			r.Post("/consult", aiHandler.Consult)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that don't need the App.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.TenantStore      = (*store.TenantStore)(nil)
	_ domain.CompanyStore     = (*store.CompanyStore)(nil)
	_ domain.CategoryStore    = (*store.CategoryStore)(nil)
	_ domain.TransactionStore = (*store.TransactionStore)(nil)
	_ ai.Client               = (*ai.NullClient)(nil)
	_ ai.Client               = (*ai.HTTPClient)(nil)
	_ ai.Client               = (*ai.MockClient)(nil)
)
