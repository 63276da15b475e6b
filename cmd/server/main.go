package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"

	"movie-catalog-api/internal/aggregation"
	"movie-catalog-api/internal/api"
	"movie-catalog-api/internal/auth"
	"movie-catalog-api/internal/config"
	"movie-catalog-api/internal/db"
	"movie-catalog-api/internal/export"
	"movie-catalog-api/internal/ingestion"
	"movie-catalog-api/internal/query"
	"movie-catalog-api/internal/repository"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Setup document store connection
	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to document store: %v", err)
	}
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			logger.Error("failed to close store connection", "error", err)
		}
	}()

	// Create repositories
	movieRepo := repository.NewMovieRepository(conn.Database)
	creditRepo := repository.NewCreditRepository(conn.Database)
	ratingRepo := repository.NewRatingRepository(conn.Database)
	genderRepo := repository.NewGenderDataRepository(conn.Database)
	userRepo := repository.NewUserRepository(conn.Database)

	// Query translation and aggregation services
	builder := query.NewBuilder(query.NewResolver(movieRepo, creditRepo, ratingRepo))
	stats := aggregation.NewService(genderRepo)
	loader := ingestion.NewService(movieRepo, creditRepo, ratingRepo, genderRepo)

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}

	validate := validator.New()

	router := api.NewRouter(api.RouterDeps{
		Movies:     api.NewMovieHandler(movieRepo, creditRepo, ratingRepo, builder, validate, logger),
		Actors:     api.NewActorHandler(movieRepo, creditRepo, builder, logger),
		Ratings:    api.NewRatingHandler(ratingRepo, movieRepo, builder, logger),
		Statistics: api.NewStatisticsHandler(genderRepo, stats, logger),
		Accounts:   api.NewAccountHandler(userRepo, tokens, validate, logger),
		Ingest:     ingestion.NewHTTPHandler(loader),
		Derive:     ingestion.NewDeriveHandler(loader),
		Export:     export.NewHTTPHandler(export.NewService(stats), logger),
		Tokens:     tokens,
		Logger:     logger,
	})

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server exited")
}
