package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/diary-backend/internal/ml"
	"github.com/yungbote/diary-backend/internal/services"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(predictionService services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

func strategyParam(c *gin.Context) string {
	if s := c.Query("strategy"); s != "" {
		return s
	}
	return "base"
}

func (h *PredictionHandler) Predict(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	predictions, err := h.predictionService.PredictForDate(c.Request.Context(), strategyParam(c), date)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ml.ErrUnknownStrategy) || errors.Is(err, ml.ErrStrategyNotImplemented) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": predictions})
}

func (h *PredictionHandler) Retrain(c *gin.Context) {
	report, err := h.predictionService.RetrainAll(c.Request.Context(), strategyParam(c))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ml.ErrUnknownStrategy) || errors.Is(err, ml.ErrStrategyNotImplemented) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
