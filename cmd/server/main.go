// Package main initializes and starts the memorial API server, setting up
// configuration, logging, the database, object storage, services, handlers
// and optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/blob"
	"github.com/atinyakov/memorial/internal/config"
	"github.com/atinyakov/memorial/internal/db"
	"github.com/atinyakov/memorial/internal/logger"
	"github.com/atinyakov/memorial/internal/repository"
	"github.com/atinyakov/memorial/internal/server/handler/http"
	"github.com/atinyakov/memorial/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse flags, config file and environment.
	options, err := config.ParseServer(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Object storage for uploads; disabled without a bucket.
	var (
		store   service.ObjectStore = blob.Disabled{}
		remover db.ObjectRemover
	)
	if options.S3.Bucket != "" {
		s3Store, err := blob.NewS3Store(ctx, options.S3)
		if err != nil {
			zapLogger.Fatal("cannot init object storage", zap.Error(err))
		}
		store, remover = s3Store, s3Store
	} else {
		zapLogger.Warn("S3 bucket is not configured, uploads are disabled")
	}

	if interval := options.CleanerInterval.Std(); interval > 0 {
		db.StartOrphanFileCleaner(ctx, postgresDB, interval, remover, zapLogger)
	}

	// Repositories.
	heroRepo := repository.NewPostgresHeroRepository(postgresDB)
	monumentRepo := repository.NewPostgresMonumentRepository(postgresDB)
	fileRepo := repository.NewPostgresFileRepository(postgresDB)
	submissionRepo := repository.NewPostgresSubmissionRepository(postgresDB)

	// Business-logic services.
	tokens := service.NewTokenManager(options.JWTSecret, options.TokenTTL.Std())
	authService := service.NewAuthService(options.AdminLogin, options.AdminPasswordHash, tokens)

	handlers := http.Handlers{
		Heroes:    &http.HeroHandler{HeroService: service.NewHeroService(heroRepo), Log: zapLogger},
		Monuments: &http.MonumentHandler{MonumentService: service.NewMonumentService(monumentRepo), Log: zapLogger},
		Auth:      &http.AuthHandler{AuthService: authService, Log: zapLogger},
		Files: &http.FileHandler{
			UploadService: service.NewUploadService(store),
			FileService:   service.NewFileService(fileRepo, store, zapLogger),
			Log:           zapLogger,
		},
		Submissions: &http.SubmissionHandler{SubmissionService: service.NewSubmissionService(submissionRepo), Log: zapLogger},
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(handlers, authService, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	if options.TLSEnabled() {
		// Load server TLS certificate and key.
		cert, err := tls.LoadX509KeyPair(options.TLSCert, options.TLSKey)
		if err != nil {
			zapLogger.Fatal("failed to load server TLS cert/key", zap.Error(err))
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address))
		err = server.ListenAndServeTLS("", "")
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTPS server", zap.Error(err))
		}
		return
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
