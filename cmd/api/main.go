package main

import (
	"context"
	"log"
	"net/http"

	datafeed "github.com/fazecat/zonewatch/Internal/database"
	"github.com/fazecat/zonewatch/Internal/utils/config"
	"github.com/fazecat/zonewatch/Internal/utils/scanner"
	"github.com/fazecat/zonewatch/cmd/api/internal"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

	err := datafeed.InitDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer datafeed.CloseDatabase()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = datafeed.InitAlpacaClient()
	if err != nil {
		log.Printf("Warning: Alpaca client initialization failed: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scanner.StartScheduler(ctx, cfg)

	jwtManager := internal.NewJWTManager()
	apiServer := &internal.API{
		Config:     cfg,
		JWTManager: jwtManager,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(internal.CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		if err := datafeed.HealthCheck(); err != nil {
			status = "degraded"
		}
		data := map[string]interface{}{"status": status}
		if clock, err := datafeed.MarketClock(); err == nil {
			data["market_open"] = clock.IsOpen
			data["next_open"] = clock.NextOpen
			data["next_close"] = clock.NextClose
		}
		internal.WriteJSON(w, http.StatusOK, data)
	})

	// Public routes
	r.Post("/api/token", apiServer.HandleGenerateToken)

	// Zone routes
	r.Group(func(r chi.Router) {
		r.Use(internal.JWTAuthMiddleware(jwtManager))

		r.Get("/api/active-zones", apiServer.HandleGetActiveZones)
		r.Get("/api/completed-zones", apiServer.HandleGetCompletedZones)
		r.Get("/api/zones/{zoneID}", apiServer.HandleGetZoneDetail)
		r.Get("/api/scan-status", apiServer.HandleGetScanStatus)
		r.Post("/api/scan", apiServer.HandleTriggerScan)
	})

	log.Println("Starting API server on :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatal(err)
	}
}
