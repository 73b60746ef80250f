package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/macrosnap/backend/internal/service"
)

const dateLayout = "2006-01-02"

// SummaryHandler serves the derived daily/weekly/all-time views
type SummaryHandler struct {
	summaries service.ISummaryService
}

// NewSummaryHandler creates a new SummaryHandler instance
func NewSummaryHandler(summaries service.ISummaryService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

// Today handles GET /summary/today. An optional date parameter selects a
// different calendar day; empty days come back zero-valued, not as errors.
func (h *SummaryHandler) Today(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	day := time.Now().UTC()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	summary, err := h.summaries.Daily(c.Request.Context(), userID, day)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Week handles GET /summary/week. Without a week_start parameter the window
// starts on Monday of the current week.
func (h *SummaryHandler) Week(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	weekStart := service.WeekStart(time.Now())
	if v := c.Query("week_start"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be YYYY-MM-DD"})
			return
		}
		weekStart = parsed
	}

	stats, err := h.summaries.Weekly(c.Request.Context(), userID, weekStart)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load weekly stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Stats handles GET /summary/stats, the all-time view.
func (h *SummaryHandler) Stats(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	stats, err := h.summaries.AllTime(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
