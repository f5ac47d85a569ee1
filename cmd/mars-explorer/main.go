package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/OfriRose/Mars/internal/api/http"
	"github.com/OfriRose/Mars/internal/cache"
	"github.com/OfriRose/Mars/internal/config"
	"github.com/OfriRose/Mars/internal/mars"
	"github.com/OfriRose/Mars/internal/mars/nasa"
	"github.com/OfriRose/Mars/internal/scheduler"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound NASA calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Response cache, alive for the whole process.
	responseCache := cache.New()

	weatherClient := nasa.NewWeatherClient(httpClient, cfg.NASAAPIBaseURL, cfg.NASAAPIKey)
	photoClient := nasa.NewPhotoClient(httpClient, cfg.NASAAPIBaseURL, cfg.NASAAPIKey)

	service := mars.NewService(responseCache, weatherClient, photoClient, mars.Options{
		CacheTTL:          cfg.CacheTTL,
		MaxSols:           cfg.MaxSolsForChart,
		DefaultPhotoCount: cfg.DefaultNumPhotos,
	})

	// Scheduler that drops expired cache entries.
	sched := scheduler.New(responseCache, cfg.CacheSweepInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "mars-explorer-hub",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "mars-explorer-hub",
			"cache":   service.CacheStats(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
