package main

import (
	"fmt"
	"log"
	"os"

	"github.com/nutriscope/backend/config"
	httpDelivery "github.com/nutriscope/backend/internal/delivery/http"
	"github.com/nutriscope/backend/internal/infrastructure/cache"
	"github.com/nutriscope/backend/internal/infrastructure/refdata"
	"github.com/nutriscope/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting NutriScope Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Datasets: %d (cache TTL: %s)", len(cfg.Datasets), cfg.Cache.TTL)

	// Initialize infrastructure dependencies
	tableCache := cache.NewMemoryCache()
	client := refdata.NewClient(cfg.Fetch.RatePerSecond, cfg.Fetch.Burst, cfg.Fetch.Timeout)

	sources := make([]refdata.Source, 0, len(cfg.Datasets))
	for _, ds := range cfg.Datasets {
		sources = append(sources, refdata.Source{
			Name:     ds.Name,
			URL:      ds.URL,
			Role:     ds.Role,
			Optional: ds.Optional,
		})
		log.Printf("Dataset %q: role=%s optional=%v", ds.Name, ds.Role, ds.Optional)
	}

	loader := refdata.NewLoader(client, tableCache, sources, cfg.Cache.TTL)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		loader.SetDebug(true)
		log.Printf("Reference-data debug mode enabled")
	}

	// Initialize usecase layer
	reportService := usecase.NewReportService(loader, usecase.ReportServiceConfig{
		EnableDebugLogging: cfg.Report.EnableDebugLogging,
		SuggestionFloor:    cfg.Report.SuggestionFloor,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(reportService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
