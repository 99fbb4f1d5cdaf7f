package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/ratiolens/ratiolens-api/internal/chart"
	"github.com/ratiolens/ratiolens-api/internal/config"
	"github.com/ratiolens/ratiolens-api/internal/handlers"
	"github.com/ratiolens/ratiolens-api/internal/middleware"
	"github.com/ratiolens/ratiolens-api/internal/services"
	"github.com/ratiolens/ratiolens-api/internal/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.LoadFromEnv()

	// Category map: built-in Sage 50 UK default unless a chart file is
	// configured.
	chartMap := chart.Default()
	if cfg.ChartPath != "" {
		loaded, err := chart.Load(cfg.ChartPath)
		if err != nil {
			log.Fatalf("Failed to load chart of accounts map: %v", err)
		}
		chartMap = loaded
		log.Printf("✓ Loaded chart of accounts map from %s", cfg.ChartPath)
	} else {
		log.Println("✓ Using built-in Sage 50 UK chart of accounts map")
	}

	// Core services
	parser := services.NewParser()
	normalizer := services.NewNormalizer()
	engine := services.NewEngine(chartMap)
	report := services.NewReportWriter()
	validator := services.NewFileValidator(cfg.MaxUploadSize)
	log.Println("✓ Ratio engine initialized successfully")

	analyzeHandler := handlers.NewAnalyzeHandler(parser, normalizer, engine, report, validator)

	app := fiber.New(fiber.Config{
		AppName:      "ratiolens API v1.0",
		ErrorHandler: utils.ErrorHandler,
	})

	app.Use(middleware.CORS())

	// Health check endpoint (public)
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "ratiolens-api",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	v1.Get("/demo", analyzeHandler.Demo)
	v1.Get("/demo/report", analyzeHandler.DemoReport)
	v1.Post("/analyze", analyzeHandler.Analyze)
	v1.Get("/chart", analyzeHandler.Chart)

	// S3-backed upload flow, only when a bucket is configured.
	if cfg.S3Bucket != "" {
		storageService, err := services.NewStorageService(cfg.S3Bucket, cfg.S3Region, cfg.AWSEndpoint)
		if err != nil {
			log.Fatalf("Failed to initialize storage service: %v", err)
		}
		log.Println("✓ Storage service initialized successfully")

		uploadHandler := handlers.NewUploadHandler(storageService, analyzeHandler)
		v1.Get("/upload/presigned-url", uploadHandler.GetPresignedURL)
		v1.Post("/upload/process", uploadHandler.ProcessUpload)
	} else {
		log.Println("✓ S3 bucket not configured, upload routes disabled")
	}

	log.Println("✓ All routes configured successfully")
	log.Println("")
	log.Printf("🚀 ratiolens API is running on :%d", cfg.Port)
	log.Printf("   Health check: http://localhost:%d/health", cfg.Port)
	log.Printf("   Demo ratios:  http://localhost:%d/v1/demo", cfg.Port)
	log.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.Port)))
}
