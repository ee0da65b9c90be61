package main

import (
	"context"
	"fmt"
	"log"

	datafeed "github.com/fazecat/zonewatch/Internal/database"
	"github.com/fazecat/zonewatch/Internal/handlers"
	"github.com/fazecat/zonewatch/Internal/utils/config"
	"github.com/fazecat/zonewatch/Internal/utils/scanner"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment")
	}

	err = datafeed.InitDatabase()
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

	for {
		fmt.Println("\n--- ZoneWatch Menu ---")
		fmt.Println("1. Run Scan Now")
		fmt.Println("2. Active Zones")
		fmt.Println("3. Completed Zones")
		fmt.Println("4. Last Scan Status")
		fmt.Println("5. Exit")
		fmt.Print("Enter choice (1-5): ")

		var choice int
		_, err := fmt.Scanln(&choice)
		if err != nil {
			fmt.Println("Invalid input. Try again.")
			continue
		}

		switch choice {
		case 1:
			handlers.HandleRunScan(ctx, cfg)
		case 2:
			handlers.HandleShowActiveZones(ctx)
		case 3:
			handlers.HandleShowCompletedZones(ctx, cfg)
		case 4:
			handlers.HandleShowScanStatus(ctx)
		case 5:
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Try again.")
		}
	}
}
