package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/internal/category"
	"github.com/frahmantamala/budget-ledger/internal/core/events"
	"github.com/frahmantamala/budget-ledger/internal/expense"
	"github.com/frahmantamala/budget-ledger/internal/transport"
	"github.com/frahmantamala/budget-ledger/internal/transport/openapi"
	"github.com/frahmantamala/budget-ledger/internal/transport/rest"
	"github.com/frahmantamala/budget-ledger/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that hosts per-session budget ledgers`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	Router   *chi.Mux
	Bus      *events.EventBus
	Expenses *expense.Service
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server",
		"address", addr,
		"ceiling", deps.Config.Budget.Ceiling,
		"max_sessions", deps.Config.Session.MaxSessions)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go deps.Expenses.Run(sweepCtx)

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := internal.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	stopSweeper()
	deps.Logger.Info("Server stopped", "active_sessions", deps.Expenses.ActiveSessions())
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfigAndLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.LoggerWrapper()

	if _, err := openapi.Load(context.Background()); err != nil {
		return nil, err
	}

	ceiling, err := config.Budget.CeilingAmount()
	if err != nil {
		return nil, fmt.Errorf("failed to read budget ceiling: %w", err)
	}

	bus := events.NewEventBus(log)
	events.NewNotifier(log, nil).Register(bus)

	expenseService, err := expense.NewService(ceiling, config.Session, bus, log,
		expense.WithCurrency(config.Budget.Currency))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense service: %w", err)
	}

	base := transport.NewBaseHandler(log)
	expenseHandler := expense.NewHandler(base, expenseService)
	categoryHandler := category.NewHandler(base, category.NewService(log))
	healthHandler := rest.NewHealthHandler(expenseService, config.Session.MaxSessions)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, healthHandler, expenseHandler, categoryHandler, log)

	return &Dependencies{
		Config:   config,
		Router:   router,
		Bus:      bus,
		Expenses: expenseService,
		Logger:   log,
	}, nil
}
