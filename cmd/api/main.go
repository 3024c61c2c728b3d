package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rgajunior/trading/db"
	"github.com/rgajunior/trading/internal/config"
	"github.com/rgajunior/trading/internal/handler"
	"github.com/rgajunior/trading/internal/repository"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	snapshotRepo := repository.NewSnapshotRepository(db.DB)
	signalHandler := handler.NewSignalHandler(snapshotRepo)

	universeRepo := repository.NewUniverseRepository(db.DB)
	universeHandler := handler.NewUniverseHandler(universeRepo, cfg.UniverseTTL)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/signal", signalHandler.GetSignal)
	r.GET("/signal/history", signalHandler.GetHistory)
	r.GET("/universe", universeHandler.GetUniverse)
	r.GET("/health", signalHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
