package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"formwork-cad/internal/common/config"
	"formwork-cad/internal/common/middleware"
	"formwork-cad/internal/converter/handlers"
	"formwork-cad/internal/converter/mapper"
	"formwork-cad/internal/converter/repository"
	"formwork-cad/internal/converter/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Converter Service
// ============================================================

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(ctx, cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	opts := mapper.Options{
		CanvasHeight: cfg.CanvasHeight,
		PointBudget:  cfg.PointBudget,
	}
	drawings := service.NewDrawingService(repo, service.NewFileStorage(cfg.StorageRoot), opts)

	if cfg.InboxDir != "" {
		inbox, err := service.NewInbox(cfg.InboxDir, drawings)
		if err != nil {
			log.Fatalf("inbox: %v", err)
		}
		defer inbox.Close()
		go inbox.Run(ctx)
	}

	convertHandler := handlers.NewConvertHandler(opts)
	drawingHandler := handlers.NewDrawingHandler(drawings, cfg.ChunkSize)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		AppName:      "Converter Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.AllowedOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(db.Ping))
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Converter Routes
	// ============================================================

	app.Post("/convert", convertHandler.ConvertDXF)
	app.Post("/convert/entities", convertHandler.ConvertEntities)
	app.Post("/render", handlers.RenderSVG)

	// ============================================================
	// Drawing Routes
	// ============================================================

	app.Post("/drawings", drawingHandler.Upload)
	app.Get("/drawings", drawingHandler.List)
	app.Get("/drawings/:id", drawingHandler.Get)
	app.Delete("/drawings/:id", drawingHandler.Delete)
	app.Get("/drawings/:id/svg", drawingHandler.SVG)
	app.Get("/drawings/:id/preview.png", drawingHandler.Preview)

	// ============================================================
	// Server Start
	// ============================================================

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Converter Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
