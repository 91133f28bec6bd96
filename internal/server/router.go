package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/diary-backend/internal/handlers"
)

type RouterConfig struct {
	EntryHandler      *handlers.EntryHandler
	PredictionHandler *handlers.PredictionHandler
	ImportHandler     *handlers.ImportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/entry", cfg.EntryHandler.GetDay)
		api.POST("/entry/comment", cfg.EntryHandler.UpdateComment)
		api.POST("/update_value", cfg.EntryHandler.UpdateValue)
		api.GET("/parameter_history", cfg.EntryHandler.ParameterHistory)

		api.GET("/predict", cfg.PredictionHandler.Predict)
		api.POST("/retrain", cfg.PredictionHandler.Retrain)

		api.POST("/import", cfg.ImportHandler.ImportCSV)
	}

	return router
}
