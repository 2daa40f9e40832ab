package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bdimitrov/portfolio-api/internal/config"
	"github.com/bdimitrov/portfolio-api/internal/db"
	"github.com/bdimitrov/portfolio-api/internal/handlers"
	appmiddleware "github.com/bdimitrov/portfolio-api/internal/middleware"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open content store", slog.String("path", cfg.DatabasePath), slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", handlers.Health)

	content := handlers.NewContentHandler(store)

	// The write endpoints stay open unless ADMIN_TOKEN is configured; the
	// original shipped without any auth on the admin API.
	var guard func(http.Handler) http.Handler
	if cfg.AdminToken != "" {
		guard = appmiddleware.RequireToken(cfg.AdminToken)
	} else {
		slog.Warn("ADMIN_TOKEN not set, write endpoints are unauthenticated")
	}

	limiter := appmiddleware.NewRateLimiter(120, time.Minute)
	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Limit)
		content.Mount(r, guard)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("content API listening", slog.String("port", cfg.Port), slog.String("db", cfg.DatabasePath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", slog.Any("error", err))
	}
}
