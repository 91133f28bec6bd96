package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/diary-backend/internal/services"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportCSV accepts a CSV body: first column date, remaining columns
// parameter display names.
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	created, updated, err := h.importService.ImportCSV(c.Request.Context(), c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created, "updated": updated})
}
