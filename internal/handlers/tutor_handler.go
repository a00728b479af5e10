package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tutor-service/internal/llm"
	"tutor-service/internal/middleware"
	"tutor-service/internal/tutor"
)

type TutorHandler struct {
	Service *tutor.Service
}

func NewTutorHandler(s *tutor.Service) *TutorHandler {
	return &TutorHandler{Service: s}
}

func (h *TutorHandler) StartSession(c *gin.Context) {
	var req struct {
		Subject         string `json:"subject"`
		SharedContentID string `json:"shared_content_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid subject is required"})
		return
	}

	result, err := h.Service.Start(c.Request.Context(), middleware.UserID(c), req.Subject, req.SharedContentID)
	if err != nil {
		tutorError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TutorHandler) SendMessage(c *gin.Context) {
	var req struct {
		Message   string `json:"message"`
		TimeSpent int64  `json:"time_spent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.Message(c.Request.Context(), middleware.UserID(c), req.Message, req.TimeSpent)
	if err != nil {
		tutorError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TutorHandler) CheckAnswer(c *gin.Context) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.CheckAnswer(c.Request.Context(), middleware.UserID(c), req.Answer)
	if err != nil {
		tutorError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TutorHandler) NextQuestion(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid subject is required"})
		return
	}

	result, err := h.Service.NextQuestion(
		c.Request.Context(),
		middleware.UserID(c),
		subject,
		c.Query("difficulty"),
		c.Query("shared_content_id"),
	)
	if err != nil {
		tutorError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TutorHandler) ImageElementInfo(c *gin.Context) {
	var req struct {
		SharedContentID string `json:"shared_content_id"`
		ElementID       int    `json:"element_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.ImageElementInfo(c.Request.Context(), middleware.UserID(c), req.SharedContentID, req.ElementID)
	if err != nil {
		tutorError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TutorHandler) EndSession(c *gin.Context) {
	h.Service.EndSession(middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}

func tutorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tutor.ErrNoSession):
		c.JSON(http.StatusNotFound, gin.H{"error": "No active conversation"})
	case errors.Is(err, tutor.ErrNoQuestions):
		c.JSON(http.StatusNotFound, gin.H{
			"error":                  "No questions available for this subject and difficulty",
			"no_questions_available": true,
		})
	case errors.Is(err, tutor.ErrContentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":                  "Shared content not found",
			"no_questions_available": true,
		})
	case errors.Is(err, tutor.ErrElementNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Element not found"})
	case errors.Is(err, llm.ErrOracle):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
