package main

import (
	"fmt"
	"os"

	"github.com/yungbote/diary-backend/internal/db"
	"github.com/yungbote/diary-backend/internal/handlers"
	"github.com/yungbote/diary-backend/internal/logger"
	"github.com/yungbote/diary-backend/internal/ml"
	"github.com/yungbote/diary-backend/internal/repos"
	"github.com/yungbote/diary-backend/internal/server"
	"github.com/yungbote/diary-backend/internal/services"
	"github.com/yungbote/diary-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up repos...")
	entryRepo := repos.NewEntryRepo(theDB, log)
	parameterRepo := repos.NewParameterRepo(theDB, log)
	valueRepo := repos.NewEntryValueRepo(theDB, log)

	// Model store + predictor manager
	modelDir := utils.GetEnv("MODEL_DIR", "models", log)
	modelStore, err := ml.NewModelStore(modelDir, log)
	if err != nil {
		log.Error("Model store init failed", "error", err)
		os.Exit(1)
	}
	manager := ml.NewPredictorManager(modelStore, log)

	// Services
	log.Info("Setting up services...")
	diaryService := services.NewDiaryService(theDB, log, entryRepo, parameterRepo, valueRepo)
	predictionService := services.NewPredictionService(theDB, log, valueRepo, parameterRepo, manager)
	importService := services.NewImportService(theDB, log, entryRepo, parameterRepo, valueRepo)

	// Handlers
	entryHandler := handlers.NewEntryHandler(diaryService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	importHandler := handlers.NewImportHandler(importService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		EntryHandler:      entryHandler,
		PredictionHandler: predictionHandler,
		ImportHandler:     importHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
