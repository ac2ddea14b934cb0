package rest

import (
	"log/slog"

	"github.com/frahmantamala/budget-ledger/internal/category"
	"github.com/frahmantamala/budget-ledger/internal/expense"
	"github.com/frahmantamala/budget-ledger/internal/transport/middleware"
	"github.com/frahmantamala/budget-ledger/internal/transport/openapi"
	"github.com/frahmantamala/budget-ledger/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router chi.Router, healthHandler *HealthHandler, expenseHandler *expense.Handler, categoryHandler *category.Handler, logger *slog.Logger) {
	// Apply global middleware
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve the OpenAPI document at root (outside API prefix)
	router.Get("/openapi.yml", openapi.Handler())
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if categoryHandler != nil {
			r.Get("/categories", categoryHandler.GetCategories)
			r.Get("/categories/{name}", categoryHandler.GetCategory)
		}

		if expenseHandler != nil {
			r.Post("/sessions", expenseHandler.StartSession)
			r.Route("/sessions/{"+middleware.SessionParam+"}", func(sr chi.Router) {
				sr.Use(middleware.SessionContext)
				sr.Delete("/", expenseHandler.EndSession)
				sr.Post("/expenses", expenseHandler.CreateExpense)
				sr.Get("/expenses", expenseHandler.ListExpenses)
				sr.Get("/budget", expenseHandler.GetBudgetStatus)
				sr.Get("/summary", expenseHandler.GetSummary)
			})
		}
	})
}
