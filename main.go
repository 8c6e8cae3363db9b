package main

import (
	"log"

	"promptlab-backend/config"
	"promptlab-backend/internal/api"
	"promptlab-backend/internal/database"
	"promptlab-backend/internal/models"
	"promptlab-backend/pkg/logger"

	"go.uber.org/zap"
)

// @title PromptLab API
// @version 1.0
// @description AI Prompt Engineering Platform with version tracking.

// @host localhost:8080
// @BasePath /api/v1

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	err = logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	router, err := api.NewRouter()
	if err != nil {
		logger.Log.Fatal("failed to create router", zap.Error(err))
	}

	// Migrate the schema
	err = database.DB.AutoMigrate(&models.Prompt{}, &models.PromptVersion{}, &models.Collection{})
	if err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}

	logger.Log.Info("starting server", zap.String("addr", cfg.ListenAddr))
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Log.Fatal("failed to run server", zap.Error(err))
	}
}
