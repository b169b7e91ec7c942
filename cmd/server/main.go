// cmd/server/main.go
package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookshelf-backend/api"
	"github.com/Annany2002/bookshelf-backend/config"
	"github.com/Annany2002/bookshelf-backend/internal/logger"
	"github.com/Annany2002/bookshelf-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

func main() {
	customLog.Println("Starting Bookshelf Backend server...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Connect and ensure schema (startup hook)
	db, err := storage.ConnectDB(context.Background(), cfg)
	if err != nil {
		customLog.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		customLog.Println("Closing database connection...")
		if err := db.Close(); err != nil {
			customLog.Warnf("Error closing database: %v", err)
		}
	}()

	// 3. Setup Router
	router, err := api.SetupRouter(db, cfg)
	if err != nil {
		customLog.Errorf("Failed to set up router: %v", err)
		return
	}

	// 4. Start Server
	customLog.Printf("Server listening on port %s (docs at %s)", cfg.ServerPort, api.DocsPath)
	if err := router.Run(fmt.Sprintf(":%s", cfg.ServerPort)); err != nil {
		customLog.Errorf("Server stopped: %v", err)
	}
}
