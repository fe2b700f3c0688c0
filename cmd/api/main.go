package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-api/internal/catalog"
	"inventory-api/internal/config"
	"inventory-api/internal/database"
	"inventory-api/internal/events"
	"inventory-api/internal/handler"
	"inventory-api/internal/repository"
	"inventory-api/internal/router"
	"inventory-api/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("store", cfg.Store.Driver).Msg("starting inventory API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	productRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, err := newPublisher(cfg.RabbitMQ, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	inventoryService := service.NewInventoryService(productRepo, publisher, logger)

	if cfg.Catalog.SeedFile != "" {
		if err := seedCatalog(ctx, cfg, inventoryService, logger); err != nil {
			return err
		}
	}

	// Initialize HTTP handlers and router
	productHandler := handler.NewProductHandler(inventoryService, logger)
	mux := router.New(productHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// openStore builds the product repository selected by STORE_DRIVER. The
// returned func releases its connections.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.ProductRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return repository.NewProductRepository(pool, logger), pool.Close, nil

	case config.StoreDriverSQLite:
		db, err := repository.OpenSQLite(cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return repository.NewSQLiteProductRepository(db, logger), closeFn, nil

	default:
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return repository.NewMemoryProductRepository(logger), func() {}, nil
	}
}

// newPublisher connects to RabbitMQ when enabled, otherwise events are dropped.
func newPublisher(cfg config.RabbitMQConfig, logger zerolog.Logger) (events.Publisher, error) {
	if !cfg.Enabled {
		logger.Info().Msg("low stock events disabled (RabbitMQ disabled)")
		return events.NewNopPublisher(), nil
	}

	publisher, err := events.NewRabbitMQPublisher(cfg.URL, cfg.Queue, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	return publisher, nil
}

// seedCatalog imports the configured catalogue, trying S3 before the local
// file system when S3 is enabled.
func seedCatalog(ctx context.Context, cfg *config.Config, svc service.InventoryService, logger zerolog.Logger) error {
	fileLoader := catalog.NewFileLoader(logger)

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	}

	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	result, err := catalog.NewImporter(loader, svc, logger).SeedIfEmpty(ctx, cfg.Catalog.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}
	if result.Skipped {
		return nil
	}

	logger.Info().
		Int("created", result.Created).
		Int("failed", result.Failed).
		Msg("catalogue seeded")

	return nil
}
