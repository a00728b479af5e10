package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutor-service/internal/adaptive"
	"tutor-service/internal/middleware"
	"tutor-service/internal/progress"
)

type ProgressHandler struct {
	Service *progress.Service
	Engine  *adaptive.Engine
}

func NewProgressHandler(s *progress.Service, e *adaptive.Engine) *ProgressHandler {
	return &ProgressHandler{Service: s, Engine: e}
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	result, err := h.Service.GetProgress(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	var req struct {
		Subject    string `json:"subject"`
		QuestionID string `json:"question_id"`
		IsCorrect  bool   `json:"is_correct"`
		TimeSpent  int64  `json:"time_spent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Subject == "" || req.QuestionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject and question_id are required"})
		return
	}

	result, err := h.Service.UpdateProgress(c.Request.Context(), middleware.UserID(c), progress.Update{
		Subject:    req.Subject,
		QuestionID: req.QuestionID,
		IsCorrect:  req.IsCorrect,
		TimeSpent:  req.TimeSpent,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProgressHandler) ResetProgress(c *gin.Context) {
	result, err := h.Service.ResetProgress(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProgressHandler) GetSubjectProgress(c *gin.Context) {
	subject := c.Param("subject")
	result, err := h.Service.GetProgress(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sp := result.Subject(subject)
	if sp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No progress found for this subject"})
		return
	}
	c.JSON(http.StatusOK, sp)
}

// GetAnalytics returns the aggregate view of the ledger: global statistics,
// streaks, and the per-subject breakdown.
func (h *ProgressHandler) GetAnalytics(c *gin.Context) {
	result, err := h.Service.GetProgress(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"statistics":     result.Statistics,
		"current_streak": result.CurrentStreak,
		"longest_streak": result.LongestStreak,
		"last_activity":  result.LastActivity,
		"subjects":       result.SubjectProgress,
	})
}

func (h *ProgressHandler) GetRecommendations(c *gin.Context) {
	recommendations, err := h.Engine.RecommendSubjects(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}
