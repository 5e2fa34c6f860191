package main

import (
	"context"
	"os"
	"time"

	"heritage-gallery/config"
	"heritage-gallery/database"
	routes "heritage-gallery/internal/app/http"
	"heritage-gallery/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	log := logging.New(config.LOG_LEVEL, os.Stderr)
	ctx := context.Background()

	if err := database.InitDB(ctx, config.DB_URL, log); err != nil {
		log.Error(ctx, "database init failed", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	r.MaxMultipartMemory = config.MaxUploadBytes()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, database.DB, log)

	log.Info(ctx, "listening", "port", config.PORT)
	if err := r.Run(":" + config.PORT); err != nil {
		log.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
