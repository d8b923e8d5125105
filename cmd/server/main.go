// shopchat - shopping chat widget server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/shopchat/internal/api"
	"github.com/ashureev/shopchat/internal/backend"
	"github.com/ashureev/shopchat/internal/config"
	"github.com/ashureev/shopchat/internal/middleware"
	"github.com/ashureev/shopchat/internal/registry"
	"github.com/ashureev/shopchat/internal/store"
	"github.com/ashureev/shopchat/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped successfully")
}

func run(cfg *config.Config) error {
	slog.Info("Starting server",
		"port", cfg.Port,
		"backend_url", cfg.BackendURL,
		"backend_timeout", cfg.BackendTimeout,
		"dev", cfg.IsDevelopment())

	shop, err := backend.New(backend.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})
	if err != nil {
		return err
	}

	var repo store.Repository
	if cfg.ReceiptsEnabled {
		sqlite, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := sqlite.Close(); closeErr != nil {
				slog.Error("Failed to close repository", "error", closeErr)
			}
		}()
		if err := sqlite.Ping(context.Background()); err != nil {
			return err
		}
		repo = sqlite
		slog.Info("Receipt log connected", "db_path", cfg.DBPath)
	} else {
		slog.Info("Receipt log disabled")
	}

	page, err := web.Page()
	if err != nil {
		return err
	}

	reg := registry.New()
	handler := api.NewHandler(api.Options{
		Registry:         reg,
		Backend:          shop,
		Repo:             repo,
		Page:             page,
		PlaceholderOffer: cfg.CheckoutPlaceholder,
		AllowedOrigin:    cfg.FrontendURL,
		IsDev:            cfg.IsDevelopment(),
	})

	allowedOrigins := []string{"*"}
	if !cfg.IsDevelopment() {
		allowedOrigins = []string{cfg.FrontendURL}
	}

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(allowedOrigins))

	handler.RegisterRoutes(r)
	r.Handle("/static/*", web.StaticHandler())

	// Chat replies can take as long as the backend does, so no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return reg.RunSweeper(gctx, registry.DefaultSweepInterval, cfg.WidgetTTL)
	})

	g.Go(func() error {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
