package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/diary-backend/internal/services"
)

const dateLayout = "2006-01-02"

type EntryHandler struct {
	diaryService services.DiaryService
}

func NewEntryHandler(diaryService services.DiaryService) *EntryHandler {
	return &EntryHandler{diaryService: diaryService}
}

// parseDateParam reads ?date=YYYY-MM-DD, defaulting to today. A malformed
// date is rejected, never silently replaced.
func parseDateParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

func (h *EntryHandler) GetDay(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}
	day, err := h.diaryService.GetDay(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, day)
}

type updateCommentRequest struct {
	Date    string `json:"date" binding:"required"`
	Comment string `json:"comment"`
}

func (h *EntryHandler) UpdateComment(c *gin.Context) {
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	if err := h.diaryService.UpdateComment(c.Request.Context(), date, req.Comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type updateValueRequest struct {
	Date      string   `json:"date" binding:"required"`
	Parameter string   `json:"parameter" binding:"required"`
	Value     *float64 `json:"value"`
}

// UpdateValue writes one parameter value for a date. A null value clears the
// stored value instead of writing zero.
func (h *EntryHandler) UpdateValue(c *gin.Context) {
	var req updateValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	if err := h.diaryService.UpdateValue(c.Request.Context(), date, req.Parameter, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *EntryHandler) ParameterHistory(c *gin.Context) {
	key := c.Query("parameter")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parameter is required"})
		return
	}
	rows, err := h.diaryService.ParameterHistory(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	type point struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}
	history := make([]point, 0, len(rows))
	for _, r := range rows {
		history = append(history, point{Date: r.Date.Format(dateLayout), Value: r.Value})
	}
	c.JSON(http.StatusOK, gin.H{"parameter": key, "history": history})
}
