package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"tutor-service/internal/models"
	"tutor-service/internal/repository"
)

// QuestionStore is the catalog surface the handler needs.
type QuestionStore interface {
	Find(ctx context.Context, filter repository.QuestionFilter, limit int64) ([]models.Question, error)
	FindByID(ctx context.Context, id string) (*models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	CreateMany(ctx context.Context, questions []models.Question) error
	Replace(ctx context.Context, id string, question *models.Question) error
	Delete(ctx context.Context, id string) error
}

type QuestionHandler struct {
	Store QuestionStore
}

func NewQuestionHandler(store QuestionStore) *QuestionHandler {
	return &QuestionHandler{Store: store}
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filter := repository.QuestionFilter{
		Subject:         c.Query("subject"),
		Difficulty:      c.Query("difficulty"),
		QuestionType:    c.Query("question_type"),
		SharedContentID: c.Query("shared_content_id"),
	}
	questions, err := h.Store.Find(c.Request.Context(), filter, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// ListByContent returns a shared content set's questions in position order.
func (h *QuestionHandler) ListByContent(c *gin.Context) {
	questions, err := h.Store.Find(c.Request.Context(), repository.QuestionFilter{
		SharedContentID: c.Param("id"),
	}, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.Store.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := question.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.Create(c.Request.Context(), &question); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, question)
}

// CreateQuestionsBatch inserts a whole array of questions. Any invalid
// entry rejects the batch before anything is written.
func (h *QuestionHandler) CreateQuestionsBatch(c *gin.Context) {
	var questions []models.Question
	if err := c.ShouldBindJSON(&questions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(questions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected a non-empty array of questions"})
		return
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("question %d: %s", i, err.Error())})
			return
		}
	}
	if err := h.Store.CreateMany(c.Request.Context(), questions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, questions)
}

// UpdateQuestion merges a partial edit over the stored document and
// revalidates before saving, so an edit can never leave the question in an
// invalid state.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := c.Param("id")
	question, err := h.Store.FindByID(c.Request.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := c.ShouldBindJSON(question); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	question.ID = id
	if err := question.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	question.UpdatedAt = time.Now()

	if err := h.Store.Replace(c.Request.Context(), id, question); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	err := h.Store.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
