package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamestore/internal/config"
	"gamestore/internal/database"
	"gamestore/internal/discount"
	"gamestore/internal/handler"
	"gamestore/internal/repository"
	"gamestore/internal/router"
	"gamestore/internal/service"
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
	logger.Info().Msg("starting gamestore API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	discountRepo := repository.NewDiscountCodeRepository(pool, logger)

	// Initialize discount code loader with S3 and local fallback
	loader := discount.NewLoader(ctx, discount.S3Options{
		Enabled: cfg.S3.Enabled,
		Bucket:  cfg.S3.Bucket,
		Region:  cfg.S3.Region,
		Prefix:  cfg.S3.Prefix,
	}, logger)

	// Initialize services
	validator := discount.NewValidator(discountRepo, logger)
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, validator, logger)
	adminService := service.NewDiscountAdminService(discountRepo, loader, logger)

	if cfg.Discount.ImportOnStartup {
		result, err := adminService.Import(ctx, cfg.Discount.ImportFiles)
		if err != nil {
			return fmt.Errorf("failed to import discount codes: %w", err)
		}
		logger.Info().
			Int("created", result.Created).
			Int("skipped", len(result.Skipped)).
			Msg("startup discount code import finished")
	}

	// Initialize router
	mux := router.New(router.Handlers{
		Product:  handler.NewProductHandler(productService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Discount: handler.NewDiscountHandler(validator, logger),
		Admin:    handler.NewAdminHandler(adminService, cfg.Discount.ImportFiles, logger),
	}, router.Keys{
		API:   cfg.Auth.APIKey,
		Admin: cfg.Auth.AdminAPIKey,
	}, cfg.Server.AllowedOrigins, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
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

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

